package handlers

import (
	"errors"
	"net/http"

	"github.com/UTurtleDev/gcl/i18n"
	"github.com/UTurtleDev/gcl/internal/forms"
	"github.com/UTurtleDev/gcl/internal/services"
	"github.com/UTurtleDev/gcl/internal/session"
	"github.com/UTurtleDev/gcl/validation"
)

const (
	pathClientIdentification = "/client/identification/"
	pathClientQuestionnaire  = "/client/questionnaire/"
	pathClientRecap          = "/client/recapitulatif/"
)

// ClientHandler serves the public identification, questionnaire and recap steps.
type ClientHandler struct {
	identification *services.IdentificationService
	questionnaires *services.QuestionnaireService
	staff          *services.StaffService
}

func NewClientHandler(identification *services.IdentificationService, questionnaires *services.QuestionnaireService, staff *services.StaffService) *ClientHandler {
	return &ClientHandler{identification: identification, questionnaires: questionnaires, staff: staff}
}

func (h *ClientHandler) identificationPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	cabinets, err := h.staff.ListCabinets(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	data["Cabinets"] = cabinets
	render(w, r, "client/identification.html", data)
}

func (h *ClientHandler) Identification(w http.ResponseWriter, r *http.Request) {
	h.identificationPage(w, r, nil)
}

// Identify checks the SIREN. When the company already answered, the page asks
// for confirmation, given with action=modifier.
func (h *ClientHandler) Identify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	siren := r.PostForm.Get("siren")
	sess := session.FromContext(r.Context())
	sess.Set(session.KeyClientCabinetID, r.PostForm.Get("cabinet"))
	sess.Set(session.KeyClientComptableID, r.PostForm.Get("comptable"))

	id, err := h.identification.Identify(r.Context(), sess, siren, services.KindClient, true)
	var idErr *services.IdentificationError
	if errors.As(err, &idErr) {
		flash(r, session.LevelError, idErr.Message)
		h.identificationPage(w, r, map[string]any{"SIREN": siren})
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}
	if id.Exists && r.PostForm.Get("action") != "modifier" {
		h.identificationPage(w, r, map[string]any{
			"SIREN":               id.SIREN,
			"Name":                id.Name,
			"QuestionnaireExists": true,
		})
		return
	}
	redirect(w, r, pathClientQuestionnaire)
}

func (h *ClientHandler) questionnairePage(w http.ResponseWriter, r *http.Request, siren, name string, f forms.ClientForm, v validation.Violations) {
	render(w, r, "client/questionnaire.html", map[string]any{
		"SIREN":  siren,
		"Name":   name,
		"Form":   f,
		"Errors": v,
	})
}

func (h *ClientHandler) Questionnaire(w http.ResponseWriter, r *http.Request) {
	siren, name, ok := services.Pending(session.FromContext(r.Context()), services.KindClient)
	if !ok {
		flash(r, session.LevelError, msgSessionExpired)
		redirect(w, r, pathClientIdentification)
		return
	}
	q, err := h.questionnaires.GetClient(r.Context(), siren)
	if err != nil {
		serverError(w, r, err)
		return
	}
	h.questionnairePage(w, r, siren, name, forms.ClientFormFrom(q), nil)
}

// Submit replaces all the answers of the pending company.
func (h *ClientHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	siren, name, ok := services.Pending(sess, services.KindClient)
	if !ok {
		flash(r, session.LevelError, msgSessionExpired)
		redirect(w, r, pathClientIdentification)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	f, v := forms.ParseClient(r.PostForm)
	if !v.Empty() {
		countSubmission("client", resultInvalid)
		flashViolations(r, v, forms.ClientLabels)
		h.questionnairePage(w, r, siren, name, f, v)
		return
	}

	_, err := h.questionnaires.SubmitClient(r.Context(), siren, name, f)
	switch {
	case errors.Is(err, services.ErrQuestionnaireConflict):
		countSubmission("client", resultConflict)
		flash(r, session.LevelError, msgConflict)
		h.questionnairePage(w, r, siren, name, f, nil)
		return
	case errors.Is(err, services.ErrInvalidSIREN):
		countSubmission("client", resultInvalid)
		flash(r, session.LevelError, msgSessionExpired)
		redirect(w, r, pathClientIdentification)
		return
	case err != nil:
		countSubmission("client", resultError)
		serverError(w, r, err)
		return
	}
	countSubmission("client", resultSaved)
	sess.Set(session.KeyQuestionnaireID, siren)
	flash(r, session.LevelSuccess, msgSaved)
	redirect(w, r, pathClientRecap)
}

func (h *ClientHandler) Recap(w http.ResponseWriter, r *http.Request) {
	render(w, r, "client/recapitulatif.html", nil)
}

// flashViolations adds one "question: error" flash per invalid field.
func flashViolations(r *http.Request, v validation.Violations, labels map[string]string) {
	lang := i18n.LangFromContext(r.Context())
	for _, fe := range forms.Describe(v, labels) {
		flash(r, session.LevelError, fe.Label+": "+i18n.T(lang, fe.Code))
	}
}
