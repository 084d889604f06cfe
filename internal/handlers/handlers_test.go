package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/UTurtleDev/gcl/auth"
	"github.com/UTurtleDev/gcl/internal/lookup"
	"github.com/UTurtleDev/gcl/internal/models"
	"github.com/UTurtleDev/gcl/internal/services"
	"github.com/UTurtleDev/gcl/internal/session"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// withSession attaches a fresh workflow session and returns it for inspection.
func withSession(r *http.Request) (*http.Request, *session.Session) {
	s := session.New()
	return r.WithContext(session.WithSession(r.Context(), s)), s
}

type fakeResolver map[string]lookup.Result

func (f fakeResolver) Resolve(_ context.Context, siren string) lookup.Result {
	if res, ok := f[siren]; ok {
		return res
	}
	return lookup.Result{Error: lookup.MsgInvalidFormat, Category: lookup.CategoryValidation}
}

type fakeLister struct {
	gotCabinet string
	users      []models.User
}

func (f *fakeLister) ListComptables(_ context.Context, cabinetID string) ([]models.User, error) {
	f.gotCabinet = cabinetID
	return f.users, nil
}

func TestValidateSIREN(t *testing.T) {
	h := NewAPIHandler(fakeResolver{
		"500309851": {Success: true, SIREN: "500309851", Name: "ACME"},
	}, &fakeLister{})

	cases := []struct {
		query string
		want  string
	}{
		{"", `<span class="error">✗ ` + services.MsgEmptySIREN + `</span>`},
		{"12", `<span class="error">✗ ` + lookup.MsgInvalidFormat + `</span>`},
		{"500309851", `<div class="company-found"><strong>✓ Entreprise trouvée :</strong> ACME</div>`},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		h.ValidateSIREN(rr, httptest.NewRequest(http.MethodGet, "/api/validate-siren/?siren="+tc.query, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("siren %q: status %d", tc.query, rr.Code)
		}
		if got := strings.TrimSpace(rr.Body.String()); got != tc.want {
			t.Fatalf("siren %q:\ngot  %s\nwant %s", tc.query, got, tc.want)
		}
	}
}

func TestGetComptables(t *testing.T) {
	lister := &fakeLister{users: []models.User{
		{ID: 3, FirstName: "Ada", LastName: "Martin", Email: "ada@example.com"},
		{ID: 4, Email: "bob@example.com"},
	}}
	h := NewAPIHandler(fakeResolver{}, lister)

	rr := httptest.NewRecorder()
	h.GetComptables(rr, httptest.NewRequest(http.MethodGet, "/get-comptables/", nil))
	if !strings.Contains(rr.Body.String(), "Sélectionner d'abord un cabinet") {
		t.Fatalf("empty cabinet should ask for one: %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.GetComptables(rr, httptest.NewRequest(http.MethodGet, "/get-comptables/?cabinet=7", nil))
	body := rr.Body.String()
	if lister.gotCabinet != "7" {
		t.Fatalf("cabinet not forwarded: %q", lister.gotCabinet)
	}
	if !strings.Contains(body, `<option value="3">Ada Martin</option>`) || !strings.Contains(body, `<option value="4">bob@example.com</option>`) {
		t.Fatalf("unexpected options: %s", body)
	}
}

type fakeAuthenticator struct {
	user *models.User
	err  error
}

func (f fakeAuthenticator) Authenticate(context.Context, string, string) (*models.User, error) {
	return f.user, f.err
}

type fakeAccess struct {
	allowed     bool
	invalidated []uint
}

func (f *fakeAccess) CanAccess(context.Context, uint) bool { return f.allowed }
func (f *fakeAccess) InvalidateUser(id uint)               { f.invalidated = append(f.invalidated, id) }

type fakeDestroyer struct{ called bool }

func (f *fakeDestroyer) Destroy(http.ResponseWriter, *http.Request) { f.called = true }

func loginRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/collaborateur/login/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginFailures(t *testing.T) {
	cases := []struct {
		err  error
		code int
		want string
	}{
		{services.ErrInvalidCredentials, http.StatusOK, "Email ou mot de passe incorrect."},
		{services.ErrAccessDenied, http.StatusOK, "Ce compte n&#39;a pas accès à l&#39;espace collaborateur."},
		{errors.New("db down"), http.StatusInternalServerError, msgTechnicalErrorPage},
	}
	for _, tc := range cases {
		h := NewAuthHandler(fakeAuthenticator{err: tc.err}, &fakeAccess{}, &fakeDestroyer{})
		rr := httptest.NewRecorder()
		h.Login(rr, loginRequest(url.Values{"email": {"a@example.com"}, "password": {"x"}}))
		if rr.Code != tc.code {
			t.Fatalf("%v: status %d, want %d", tc.err, rr.Code, tc.code)
		}
		if !strings.Contains(rr.Body.String(), tc.want) {
			t.Fatalf("%v: body misses %q: %s", tc.err, tc.want, rr.Body.String())
		}
		if rr.Header().Get("Set-Cookie") != "" {
			t.Fatalf("%v: no cookie expected on failure", tc.err)
		}
	}
}

func TestLoginSuccess(t *testing.T) {
	auth.SetSecret("handlers-test")
	defer auth.SetSecret("")
	access := &fakeAccess{allowed: true}
	h := NewAuthHandler(fakeAuthenticator{user: &models.User{ID: 9}}, access, &fakeDestroyer{})

	for next, want := range map[string]string{
		"/collaborateur/voir/500309851/": "/collaborateur/voir/500309851/",
		"//evil.example":                 pathDashboard,
		"":                               pathDashboard,
	} {
		rr := httptest.NewRecorder()
		h.Login(rr, loginRequest(url.Values{"email": {"a@example.com"}, "password": {"x"}, "next": {next}}))
		if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != want {
			t.Fatalf("next %q: got %d %q, want %q", next, rr.Code, rr.Header().Get("Location"), want)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range rr.Result().Cookies() {
			req.AddCookie(c)
		}
		if uid, ok := auth.ParseSession(req); !ok || uid != 9 {
			t.Fatalf("next %q: staff cookie not set", next)
		}
	}
	if len(access.invalidated) != 3 || access.invalidated[0] != 9 {
		t.Fatalf("cached profile should be dropped at each sign-in: %v", access.invalidated)
	}
}

func TestLoginPageRedirectsSignedInStaff(t *testing.T) {
	h := NewAuthHandler(fakeAuthenticator{}, &fakeAccess{allowed: true}, &fakeDestroyer{})
	req := httptest.NewRequest(http.MethodGet, "/collaborateur/login/", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), 9))
	rr := httptest.NewRecorder()
	h.LoginPage(rr, req)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != pathDashboard {
		t.Fatalf("got %d %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestLogout(t *testing.T) {
	d := &fakeDestroyer{}
	h := NewAuthHandler(fakeAuthenticator{}, &fakeAccess{}, d)
	rr := httptest.NewRecorder()
	h.Logout(rr, httptest.NewRequest(http.MethodPost, "/collaborateur/logout/", nil))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Fatalf("got %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if !d.called {
		t.Fatalf("workflow session not destroyed")
	}
	cleared := false
	for _, c := range rr.Result().Cookies() {
		if c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("staff cookie not cleared")
	}
}

func newCollabHandler(db *gorm.DB) *CollaborateurHandler {
	companies := services.NewCompanyService(db)
	questionnaires := services.NewQuestionnaireService(db)
	return NewCollaborateurHandler(
		services.NewIdentificationService(fakeResolver{}, companies, questionnaires),
		questionnaires, companies, services.NewDashboardService(db),
	)
}

func TestVoirUnknownCompany(t *testing.T) {
	h := newCollabHandler(setupTestDB(t))
	req := httptest.NewRequest(http.MethodGet, "/collaborateur/voir/123456789/", nil)
	req.SetPathValue("siren", "123456789")
	rr := httptest.NewRecorder()
	h.Voir(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestUpdateRejectsMissingQuestionnaire(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Create(&models.Company{SIREN: "500309851", Name: "ACME"}).Error; err != nil {
		t.Fatal(err)
	}
	h := newCollabHandler(db)

	for _, formType := range []string{"client", "collaborateur", "bogus"} {
		form := url.Values{"form_type": {formType}, "gestion_future": {"delegate"}}
		req := httptest.NewRequest(http.MethodPost, "/collaborateur/editer/500309851/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.SetPathValue("siren", "500309851")
		req, sess := withSession(req)
		rr := httptest.NewRecorder()
		h.Update(rr, req)

		if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != voirPath("500309851") {
			t.Fatalf("%s: got %d %q", formType, rr.Code, rr.Header().Get("Location"))
		}
		flashes := sess.Flashes()
		if len(flashes) != 1 || flashes[0].Message != msgInvalidFormType {
			t.Fatalf("%s: flashes = %+v", formType, flashes)
		}
	}
	var n int64
	db.Model(&models.ClientQuestionnaire{}).Count(&n)
	if n != 0 {
		t.Fatalf("editing must never create a questionnaire")
	}
}

func TestUpdateClientQuestionnaire(t *testing.T) {
	db := setupTestDB(t)
	staff := models.User{Email: "c@example.com", Password: "x", IsCollaborateur: true, IsActive: true}
	db.Create(&staff)
	db.Create(&models.Company{SIREN: "500309851", Name: "ACME"})
	db.Create(&models.ClientQuestionnaire{CompanySIREN: "500309851", GestionFuture: "internal", AisanceOutils: "medium", FacturesFormatElectronique: "no"})
	h := newCollabHandler(db)

	post := func(form url.Values) (*httptest.ResponseRecorder, *session.Session) {
		req := httptest.NewRequest(http.MethodPost, "/collaborateur/editer/500309851/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.SetPathValue("siren", "500309851")
		req = req.WithContext(auth.WithUserID(req.Context(), staff.ID))
		req, sess := withSession(req)
		rr := httptest.NewRecorder()
		h.Update(rr, req)
		return rr, sess
	}

	rr, sess := post(url.Values{"form_type": {"client"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("invalid edit should re-render, got %d", rr.Code)
	}
	if f := sess.Flashes(); len(f) != 1 || f[0].Message != msgClientFormError {
		t.Fatalf("flashes = %+v", f)
	}

	rr, sess = post(url.Values{
		"form_type":                    {"client"},
		"factures_format_electronique": {"yes"},
		"gestion_future":               {"delegate"},
		"aisance_outils":               {"very_comfortable"},
	})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("valid edit should redirect, got %d", rr.Code)
	}
	if f := sess.Flashes(); len(f) != 1 || f[0].Message != msgClientUpdated {
		t.Fatalf("flashes = %+v", f)
	}
	var q models.ClientQuestionnaire
	db.First(&q, "company_siren = ?", "500309851")
	if q.GestionFuture != "delegate" || q.ModifiedByID == nil || *q.ModifiedByID != staff.ID {
		t.Fatalf("update not applied: %+v", q)
	}
}

type failingExport struct{}

func (failingExport) WriteCSV(_ context.Context, w io.Writer) error {
	io.WriteString(w, "SIREN\r\n")
	return errors.New("boom")
}

func TestExportSetsHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	NewExportHandler(failingExport{}).CSV(rr, httptest.NewRequest(http.MethodGet, "/collaborateur/export-csv/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if rr.Header().Get("Content-Type") != "text/csv; charset=utf-8" {
		t.Fatalf("content type %q", rr.Header().Get("Content-Type"))
	}
	if rr.Header().Get("Content-Disposition") != `attachment; filename="export_questionnaires.csv"` {
		t.Fatalf("disposition %q", rr.Header().Get("Content-Disposition"))
	}
}

func TestHealthz(t *testing.T) {
	h := NewHealthHandler(setupTestDB(t), nil)
	rr := httptest.NewRecorder()
	h.Healthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"database":"ok"`) {
		t.Fatalf("got %d %s", rr.Code, rr.Body.String())
	}
}
