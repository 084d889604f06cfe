package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/UTurtleDev/gcl/internal/models"
	"github.com/UTurtleDev/gcl/internal/services"
)

// ComptableLister lists the active collaborateurs of a cabinet; satisfied by *services.StaffService.
type ComptableLister interface {
	ListComptables(ctx context.Context, cabinetID string) ([]models.User, error)
}

// APIHandler serves the HTMX snippets of the identification page.
type APIHandler struct {
	resolver services.Resolver
	staff    ComptableLister
}

func NewAPIHandler(resolver services.Resolver, staff ComptableLister) *APIHandler {
	return &APIHandler{resolver: resolver, staff: staff}
}

// ValidateSIREN answers a company-found div or an error span.
func (h *APIHandler) ValidateSIREN(w http.ResponseWriter, r *http.Request) {
	siren := strings.TrimSpace(r.URL.Query().Get("siren"))
	if siren == "" {
		render(w, r, "fragments/siren_result.html", map[string]any{"Error": services.MsgEmptySIREN})
		return
	}
	res := h.resolver.Resolve(r.Context(), siren)
	if !res.Success {
		render(w, r, "fragments/siren_result.html", map[string]any{"Error": res.Error})
		return
	}
	render(w, r, "fragments/siren_result.html", map[string]any{"Name": res.Name})
}

// GetComptables answers the <option> list of the chosen cabinet.
func (h *APIHandler) GetComptables(w http.ResponseWriter, r *http.Request) {
	cabinetID := strings.TrimSpace(r.URL.Query().Get("cabinet"))
	if cabinetID == "" {
		render(w, r, "fragments/options_comptables.html", map[string]any{"NoCabinet": true})
		return
	}
	comptables, err := h.staff.ListComptables(r.Context(), cabinetID)
	if err != nil {
		serverError(w, r, err)
		return
	}
	render(w, r, "fragments/options_comptables.html", map[string]any{"Comptables": comptables})
}
