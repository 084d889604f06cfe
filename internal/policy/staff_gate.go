package policy

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/UTurtleDev/gcl/auth"
	"github.com/UTurtleDev/gcl/gate"
	"gorm.io/gorm"
)

// StaffGate is the authorization point of the back office.
type StaffGate struct {
	Gate          *gate.Gate[uint]
	CacheResolver *gate.CachedResolver[uint]
}

// NewStaffGate builds a gate whose profiles are cached for cacheTTL.
func NewStaffGate(db *gorm.DB, cacheTTL time.Duration) *StaffGate {
	return NewStaffGateWithResolver(NewDBProfileResolver(db), cacheTTL)
}

func NewStaffGateWithResolver(resolver gate.ProfileResolver[uint], cacheTTL time.Duration) *StaffGate {
	cached := gate.NewCachedResolver[uint](resolver, cacheTTL)
	return &StaffGate{Gate: gate.New[uint](cached), CacheResolver: cached}
}

// Authorize checks the signed-in user against resourceType and action.
func (sg *StaffGate) Authorize(ctx context.Context, action gate.Action, resourceType string) error {
	userID, _ := auth.UserIDFromContext(ctx)
	return sg.Gate.Authorize(ctx, userID, action, resourceType, nil)
}

// CanProfile is the template-facing check.
func (sg *StaffGate) CanProfile(ctx context.Context, action gate.Action, resourceType string) bool {
	return sg.Authorize(ctx, action, resourceType) == nil
}

// CanAccess reports whether userID has any back-office profile. It is used as
// the auth.UserVerifier so that disabled accounts lose their session.
func (sg *StaffGate) CanAccess(ctx context.Context, userID uint) bool {
	p, err := sg.CacheResolver.Resolve(ctx, userID)
	return err == nil && p != nil
}

func (sg *StaffGate) InvalidateUser(userID uint) {
	sg.CacheResolver.Invalidate(userID)
}

// RequirePermission sends anonymous visitors to the login page and answers
// 403 to signed-in users whose profile lacks the permission.
func (sg *StaffGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := sg.Authorize(r.Context(), action, resourceType)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, gate.ErrUnauthenticated):
				http.Redirect(w, r, auth.LoginPath+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			default:
				http.Error(w, "Forbidden", http.StatusForbidden)
			}
		})
	}
}
