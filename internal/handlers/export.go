package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/UTurtleDev/gcl/internal/logger"
	"go.uber.org/zap"
)

// CSVWriter streams the export; satisfied by *services.ExportService.
type CSVWriter interface {
	WriteCSV(ctx context.Context, w io.Writer) error
}

type ExportHandler struct {
	export CSVWriter
}

func NewExportHandler(export CSVWriter) *ExportHandler {
	return &ExportHandler{export: export}
}

// CSV streams the export. Once rows are flowing the status can no longer
// change, so a late failure is only logged.
func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="export_questionnaires.csv"`)
	if err := h.export.WriteCSV(r.Context(), w); err != nil {
		logger.FromContext(r.Context()).Error("csv export failed", zap.Error(err))
	}
}
