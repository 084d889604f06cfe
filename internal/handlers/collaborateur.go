package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/UTurtleDev/gcl/auth"
	"github.com/UTurtleDev/gcl/internal/forms"
	"github.com/UTurtleDev/gcl/internal/models"
	"github.com/UTurtleDev/gcl/internal/services"
	"github.com/UTurtleDev/gcl/internal/session"
	"github.com/UTurtleDev/gcl/validation"
)

const (
	pathDashboard            = "/collaborateur/dashboard/"
	pathCollabIdentification = "/collaborateur/identification/"
	pathCollabQuestionnaire  = "/collaborateur/questionnaire/"
	pathCollabRecap          = "/collaborateur/recapitulatif/"
)

func voirPath(siren string) string { return "/collaborateur/voir/" + siren + "/" }

// Dashboard filter and sort options, in display order.
var (
	dashboardFilters = models.Choices{
		{Value: services.FilterAll, Label: "Toutes"},
		{Value: services.FilterClientOnly, Label: "Client uniquement"},
		{Value: services.FilterCollaborateurOnly, Label: "Collaborateur uniquement"},
		{Value: services.FilterBoth, Label: "Les deux"},
		{Value: services.FilterNone, Label: "Aucun"},
	}
	dashboardSorts = models.Choices{
		{Value: "-date_modification", Label: "Modifiées récemment"},
		{Value: "date_modification", Label: "Modifiées anciennement"},
		{Value: "-date_creation", Label: "Créées récemment"},
		{Value: "date_creation", Label: "Créées anciennement"},
		{Value: "nom_entreprise", Label: "Nom (A-Z)"},
		{Value: "-nom_entreprise", Label: "Nom (Z-A)"},
		{Value: "siren", Label: "SIREN croissant"},
		{Value: "-siren", Label: "SIREN décroissant"},
	}
)

// CollaborateurHandler serves the staff back office.
type CollaborateurHandler struct {
	identification *services.IdentificationService
	questionnaires *services.QuestionnaireService
	companies      *services.CompanyService
	dashboard      *services.DashboardService
}

func NewCollaborateurHandler(
	identification *services.IdentificationService,
	questionnaires *services.QuestionnaireService,
	companies *services.CompanyService,
	dashboard *services.DashboardService,
) *CollaborateurHandler {
	return &CollaborateurHandler{
		identification: identification,
		questionnaires: questionnaires,
		companies:      companies,
		dashboard:      dashboard,
	}
}

func (h *CollaborateurHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.dashboard.List(r.Context(), services.Query{
		Search: q.Get("search"),
		Filter: q.Get("filter"),
		Sort:   q.Get("sort"),
		Page:   q.Get("page"),
	})
	if err != nil {
		serverError(w, r, err)
		return
	}
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}
	render(w, r, "collaborateur/dashboard.html", map[string]any{
		"Page":    page,
		"Stats":   stats,
		"Filters": dashboardFilters,
		"Sorts":   dashboardSorts,
	})
}

func (h *CollaborateurHandler) Identification(w http.ResponseWriter, r *http.Request) {
	render(w, r, "collaborateur/identification.html", nil)
}

// Identify sends staff to the existing questionnaire instead of starting a second one.
func (h *CollaborateurHandler) Identify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	siren := r.PostForm.Get("siren")
	id, err := h.identification.Identify(r.Context(), session.FromContext(r.Context()), siren, services.KindCollab, true)
	var idErr *services.IdentificationError
	if errors.As(err, &idErr) {
		flash(r, session.LevelError, idErr.Message)
		render(w, r, "collaborateur/identification.html", map[string]any{"SIREN": siren})
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}
	if id.Exists {
		flash(r, session.LevelWarning, msgCollabExists)
		redirect(w, r, voirPath(id.SIREN))
		return
	}
	redirect(w, r, pathCollabQuestionnaire)
}

func (h *CollaborateurHandler) questionnairePage(w http.ResponseWriter, r *http.Request, siren, name string, f forms.CollaborateurForm, v validation.Violations) {
	render(w, r, "collaborateur/questionnaire.html", map[string]any{
		"SIREN":  siren,
		"Name":   name,
		"Form":   f,
		"Errors": v,
	})
}

func (h *CollaborateurHandler) Questionnaire(w http.ResponseWriter, r *http.Request) {
	siren, name, ok := services.Pending(session.FromContext(r.Context()), services.KindCollab)
	if !ok {
		flash(r, session.LevelError, msgSessionExpired)
		redirect(w, r, pathCollabIdentification)
		return
	}
	q, err := h.questionnaires.GetCollaborateur(r.Context(), siren)
	if err != nil {
		serverError(w, r, err)
		return
	}
	h.questionnairePage(w, r, siren, name, forms.CollaborateurFormFrom(q), nil)
}

// Submit records the answers with the signed-in user as collaborateur.
func (h *CollaborateurHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	siren, name, ok := services.Pending(sess, services.KindCollab)
	if !ok {
		flash(r, session.LevelError, msgSessionExpired)
		redirect(w, r, pathCollabIdentification)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	f, v := forms.ParseCollaborateur(r.PostForm)
	if !v.Empty() {
		countSubmission("collaborateur", resultInvalid)
		flashViolations(r, v, forms.CollaborateurLabels)
		h.questionnairePage(w, r, siren, name, f, v)
		return
	}

	uid, _ := auth.UserIDFromContext(r.Context())
	_, err := h.questionnaires.SubmitCollaborateur(r.Context(), siren, name, f, uid)
	switch {
	case errors.Is(err, services.ErrQuestionnaireConflict):
		countSubmission("collaborateur", resultConflict)
		flash(r, session.LevelError, msgConflict)
		h.questionnairePage(w, r, siren, name, f, nil)
		return
	case errors.Is(err, services.ErrInvalidSIREN):
		countSubmission("collaborateur", resultInvalid)
		flash(r, session.LevelError, msgSessionExpired)
		redirect(w, r, pathCollabIdentification)
		return
	case err != nil:
		countSubmission("collaborateur", resultError)
		serverError(w, r, err)
		return
	}
	countSubmission("collaborateur", resultSaved)
	sess.Set(session.KeyQuestionnaireID, siren)
	flash(r, session.LevelSuccess, msgSaved)
	redirect(w, r, pathCollabRecap)
}

func (h *CollaborateurHandler) Recap(w http.ResponseWriter, r *http.Request) {
	render(w, r, "collaborateur/recapitulatif.html", nil)
}

// company loads the {siren} of the path, answering 404 when unknown.
func (h *CollaborateurHandler) company(w http.ResponseWriter, r *http.Request) (*models.Company, bool) {
	c, err := h.companies.Get(r.Context(), r.PathValue("siren"))
	if errors.Is(err, services.ErrNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		serverError(w, r, err)
		return nil, false
	}
	return c, true
}

func (h *CollaborateurHandler) Voir(w http.ResponseWriter, r *http.Request) {
	c, ok := h.company(w, r)
	if !ok {
		return
	}
	render(w, r, "collaborateur/voir.html", map[string]any{
		"Company": c,
		"Client":  c.ClientQuestionnaire,
		"Collab":  c.CollaborateurQuestionnaire,
	})
}

func (h *CollaborateurHandler) Archiver(w http.ResponseWriter, r *http.Request) {
	c, err := h.companies.Archive(r.Context(), r.PathValue("siren"))
	if errors.Is(err, services.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}
	flash(r, session.LevelSuccess, fmt.Sprintf(msgArchivedTemplate, c.Name))
	redirect(w, r, pathDashboard)
}

type editForms struct {
	Client       *forms.ClientForm
	ClientErrors validation.Violations
	Collab       *forms.CollaborateurForm
	CollabErrors validation.Violations
}

func storedForms(c *models.Company) editForms {
	var ef editForms
	if c.ClientQuestionnaire != nil {
		f := forms.ClientFormFrom(c.ClientQuestionnaire)
		ef.Client = &f
	}
	if c.CollaborateurQuestionnaire != nil {
		f := forms.CollaborateurFormFrom(c.CollaborateurQuestionnaire)
		ef.Collab = &f
	}
	return ef
}

func (h *CollaborateurHandler) editPage(w http.ResponseWriter, r *http.Request, c *models.Company, ef editForms) {
	render(w, r, "collaborateur/editer.html", map[string]any{
		"Company":      c,
		"ClientForm":   ef.Client,
		"ClientErrors": ef.ClientErrors,
		"CollabForm":   ef.Collab,
		"CollabErrors": ef.CollabErrors,
	})
}

func (h *CollaborateurHandler) Editer(w http.ResponseWriter, r *http.Request) {
	c, ok := h.company(w, r)
	if !ok {
		return
	}
	h.editPage(w, r, c, storedForms(c))
}

// Update edits one of the existing questionnaires, chosen by form_type. It never creates one.
func (h *CollaborateurHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := h.company(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	ef := storedForms(c)

	switch formType := r.PostForm.Get("form_type"); {
	case formType == "client" && c.ClientQuestionnaire != nil:
		f, v := forms.ParseClient(r.PostForm)
		if !v.Empty() {
			flash(r, session.LevelError, msgClientFormError)
			ef.Client, ef.ClientErrors = &f, v
			h.editPage(w, r, c, ef)
			return
		}
		if _, err := h.questionnaires.UpdateClient(r.Context(), c.SIREN, f, uid); err != nil {
			serverError(w, r, err)
			return
		}
		flash(r, session.LevelSuccess, msgClientUpdated)

	case formType == "collaborateur" && c.CollaborateurQuestionnaire != nil:
		f, v := forms.ParseCollaborateur(r.PostForm)
		if !v.Empty() {
			flash(r, session.LevelError, msgCollabFormError)
			ef.Collab, ef.CollabErrors = &f, v
			h.editPage(w, r, c, ef)
			return
		}
		if _, err := h.questionnaires.UpdateCollaborateur(r.Context(), c.SIREN, f, uid); err != nil {
			serverError(w, r, err)
			return
		}
		flash(r, session.LevelSuccess, msgCollabUpdated)

	default:
		flash(r, session.LevelError, msgInvalidFormType)
	}
	redirect(w, r, voirPath(c.SIREN))
}
