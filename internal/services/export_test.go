package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/UTurtleDev/gcl/internal/models"
	"gorm.io/gorm"
)

func readExport(t *testing.T, svc *ExportService) [][]string {
	t.Helper()
	var buf bytes.Buffer
	if err := svc.WriteCSV(context.Background(), &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	raw := buf.String()
	if !strings.HasPrefix(raw, "\ufeff") {
		t.Fatalf("missing BOM")
	}
	if !strings.Contains(raw, "\r\n") {
		t.Fatalf("expected CRLF line endings")
	}
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(raw, "\ufeff")))
	r.Comma = ';'
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	return rows
}

func TestExportHeaderRow(t *testing.T) {
	db := setupTestDB(t)
	rows := readExport(t, NewExportService(db, nil))
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
	if len(rows[0]) != 46 {
		t.Fatalf("expected 46 columns got %d", len(rows[0]))
	}
	if rows[0][0] != "SIREN" || rows[0][45] != "Collab - Commentaires" {
		t.Fatalf("unexpected header bounds %q .. %q", rows[0][0], rows[0][45])
	}
}

func TestExportRows(t *testing.T) {
	db := setupTestDB(t)
	seedDashboard(t, db)
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("no tzdata: %v", err)
	}
	rows := readExport(t, NewExportService(db, paris))

	if len(rows) != 5 {
		t.Fatalf("expected header + 4 active companies, got %d rows", len(rows))
	}
	for _, row := range rows[1:] {
		if row[0] == "555555555" {
			t.Fatalf("archived company exported")
		}
		if len(row) != 46 {
			t.Fatalf("row %s has %d columns", row[0], len(row))
		}
	}

	for i, want := range []string{"111111111", "222222222", "333333333", "444444444"} {
		if rows[i+1][0] != want {
			t.Fatalf("row %d = %s, want %s", i+1, rows[i+1][0], want)
		}
	}
	none := rows[4]
	if none[4] != "Non" || none[5] != "Non" {
		t.Fatalf("completion flags = %q %q", none[4], none[5])
	}
	for i := 6; i < 46; i++ {
		if none[i] != "" {
			t.Fatalf("column %q should be empty without questionnaires, got %q", ExportHeaders[i], none[i])
		}
	}

	var gamma []string
	for _, row := range rows {
		if row[0] == "333333333" {
			gamma = row
		}
	}
	if gamma == nil {
		t.Fatalf("333333333 missing")
	}
	// 2025-03-01 12:00 UTC is 13:00 in Paris.
	if gamma[2] != "01/03/2025 13:00" {
		t.Fatalf("date = %q", gamma[2])
	}
	if gamma[4] != "Oui" || gamma[5] != "Oui" {
		t.Fatalf("completion flags = %q %q", gamma[4], gamma[5])
	}
	if gamma[6] != "Non" {
		t.Fatalf("bool columns render Non when the questionnaire exists, got %q", gamma[6])
	}
	if gamma[16] != "Déléguer au cabinet" {
		t.Fatalf("choice label = %q", gamma[16])
	}
}

func TestExportAccompagnementJoinedRaw(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Create(&models.Company{SIREN: "500309851", Name: "ACME"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	q := models.ClientQuestionnaire{CompanySIREN: "500309851", AccompagnementSouhaite: []string{"information", "support"}}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	rows := readExport(t, NewExportService(db, nil))
	if got := rows[1][23]; got != "information, support" {
		t.Fatalf("accompagnement = %q", got)
	}
}

func TestExportBatches(t *testing.T) {
	db := setupTestDB(t)
	for i := 0; i < exportBatchSize+5; i++ {
		c := models.Company{SIREN: fmt.Sprintf("%09d", i), Name: "Co"}
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	rows := readExport(t, NewExportService(db, nil))
	if len(rows) != exportBatchSize+6 {
		t.Fatalf("expected %d rows got %d", exportBatchSize+6, len(rows))
	}
	seen := map[string]bool{}
	for i, r := range rows[1:] {
		if seen[r[0]] {
			t.Fatalf("duplicate row %s", r[0])
		}
		seen[r[0]] = true
		if i > 0 && r[0] <= rows[i][0] {
			t.Fatalf("rows out of order: %s after %s", r[0], rows[i][0])
		}
	}
}

// archivingWriter archives a company as soon as its row reaches the output,
// which happens after the first batch has been read.
type archivingWriter struct {
	bytes.Buffer
	db    *gorm.DB
	siren string
	done  bool
}

func (w *archivingWriter) Write(p []byte) (int, error) {
	if !w.done && bytes.Contains(p, []byte(w.siren+";")) {
		w.done = true
		if err := w.db.Model(&models.Company{}).Where("siren = ?", w.siren).Update("is_archived", true).Error; err != nil {
			return 0, err
		}
	}
	return w.Buffer.Write(p)
}

func TestExportBatchesSurviveConcurrentArchive(t *testing.T) {
	db := setupTestDB(t)
	total := exportBatchSize + 5
	for i := 0; i < total; i++ {
		if err := db.Create(&models.Company{SIREN: fmt.Sprintf("%09d", i), Name: "Co"}).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	w := &archivingWriter{db: db, siren: fmt.Sprintf("%09d", 0)}
	if err := NewExportService(db, nil).WriteCSV(context.Background(), w); err != nil {
		t.Fatalf("export: %v", err)
	}
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(w.String(), "\ufeff")))
	r.Comma = ';'
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if !w.done {
		t.Fatalf("company %s was never written", w.siren)
	}
	if len(rows) != total+1 {
		t.Fatalf("expected header + %d rows, got %d", total, len(rows))
	}
	seen := map[string]bool{}
	for _, row := range rows[1:] {
		if seen[row[0]] {
			t.Fatalf("duplicate row %s", row[0])
		}
		seen[row[0]] = true
	}
}
