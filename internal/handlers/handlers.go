// Package handlers holds the HTTP handlers of the public questionnaire flow
// and the staff back office.
package handlers

import (
	"net/http"

	"github.com/UTurtleDev/gcl/internal/logger"
	"github.com/UTurtleDev/gcl/internal/metrics"
	"github.com/UTurtleDev/gcl/internal/session"
	"github.com/UTurtleDev/gcl/view"
	"go.uber.org/zap"
)

// Flash texts.
const (
	msgSessionExpired     = "Session expirée. Veuillez recommencer."
	msgSaved              = "Questionnaire enregistré avec succès !"
	msgConflict           = "Ce questionnaire vient d'être enregistré depuis une autre session. Veuillez vérifier les réponses puis valider à nouveau."
	msgCollabExists       = "Un questionnaire collaborateur existe déjà pour cette entreprise."
	msgInvalidFormType    = "Type de formulaire invalide."
	msgClientUpdated      = "Questionnaire client mis à jour avec succès."
	msgCollabUpdated      = "Questionnaire collaborateur mis à jour avec succès."
	msgClientFormError    = "Erreur dans le formulaire client. Veuillez vérifier vos réponses."
	msgCollabFormError    = "Erreur dans le formulaire collaborateur. Veuillez vérifier vos réponses."
	msgArchivedTemplate   = "L'entreprise %s a été archivée."
	msgTechnicalErrorPage = "Une erreur technique est survenue."
)

// Submission results for the questionnaire counter.
const (
	resultSaved    = "saved"
	resultInvalid  = "invalid"
	resultConflict = "conflict"
	resultError    = "error"
)

func render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := view.Render(w, r, name, data); err != nil {
		serverError(w, r, err)
	}
}

func serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, msgTechnicalErrorPage, http.StatusInternalServerError)
}

func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func flash(r *http.Request, level, msg string) {
	session.FromContext(r.Context()).AddFlash(level, msg)
}

func countSubmission(kind, result string) {
	metrics.QuestionnaireSubmissions.WithLabelValues(kind, result).Inc()
}
