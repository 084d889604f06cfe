package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/UTurtleDev/gcl/auth"
	"github.com/UTurtleDev/gcl/i18n"
	"github.com/UTurtleDev/gcl/internal/logger"
	"github.com/UTurtleDev/gcl/internal/models"
	"github.com/UTurtleDev/gcl/internal/services"
	"go.uber.org/zap"
)

// Authenticator checks staff credentials; satisfied by *services.StaffService.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// AccessChecker reports whether a user may use the back office and drops
// cached roles at sign-in; satisfied by *policy.StaffGate.
type AccessChecker interface {
	CanAccess(ctx context.Context, userID uint) bool
	InvalidateUser(userID uint)
}

// SessionDestroyer wipes the workflow session; satisfied by *session.Manager.
type SessionDestroyer interface {
	Destroy(w http.ResponseWriter, r *http.Request)
}

type AuthHandler struct {
	staff    Authenticator
	access   AccessChecker
	sessions SessionDestroyer
}

func NewAuthHandler(staff Authenticator, access AccessChecker, sessions SessionDestroyer) *AuthHandler {
	return &AuthHandler{staff: staff, access: access, sessions: sessions}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if uid, ok := auth.UserIDFromContext(r.Context()); ok && h.access.CanAccess(r.Context(), uid) {
		redirect(w, r, pathDashboard)
		return
	}
	render(w, r, "collaborateur/login.html", map[string]any{"Next": r.URL.Query().Get("next")})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	next := r.FormValue("next")
	lang := i18n.LangFromContext(r.Context())

	u, err := h.staff.Authenticate(r.Context(), email, r.FormValue("password"))
	if err != nil {
		code := "login.invalid"
		switch {
		case errors.Is(err, services.ErrAccessDenied):
			code = "login.denied"
		case !errors.Is(err, services.ErrInvalidCredentials):
			serverError(w, r, err)
			return
		}
		render(w, r, "collaborateur/login.html", map[string]any{
			"Error": i18n.T(lang, code),
			"Email": email,
			"Next":  next,
		})
		return
	}

	h.access.InvalidateUser(u.ID)
	auth.CreateSession(w, u.ID)
	logger.FromContext(r.Context()).Info("staff signed in", zap.Uint("user_id", u.ID))
	redirect(w, r, auth.SafeNext(next, pathDashboard))
}

// Logout clears both the staff cookie and the workflow session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	h.sessions.Destroy(w, r)
	redirect(w, r, "/")
}
