package services

import (
	"context"
	"errors"
	"testing"

	"github.com/UTurtleDev/gcl/internal/lookup"
	"github.com/UTurtleDev/gcl/internal/session"
)

type fakeResolver struct {
	calls int
	res   lookup.Result
}

func (f *fakeResolver) Resolve(_ context.Context, siren string) lookup.Result {
	f.calls++
	r := f.res
	if r.Success {
		r.SIREN = siren
	}
	return r
}

func newIdentification(t *testing.T, res lookup.Result) (*IdentificationService, *fakeResolver, *QuestionnaireService) {
	db := setupTestDB(t)
	r := &fakeResolver{res: res}
	q := NewQuestionnaireService(db)
	return NewIdentificationService(r, NewCompanyService(db), q), r, q
}

func TestIdentifyEmptyInput(t *testing.T) {
	svc, r, _ := newIdentification(t, lookup.Result{Success: true, Name: "ACME"})
	sess := session.New()
	_, err := svc.Identify(context.Background(), sess, "   ", KindClient, true)
	var ie *IdentificationError
	if !errors.As(err, &ie) || ie.Message != MsgEmptySIREN || ie.Category != lookup.CategoryValidation {
		t.Fatalf("expected empty-siren error, got %v", err)
	}
	if r.calls != 0 {
		t.Fatalf("empty input must not reach the registry")
	}
	if sess.Get(session.KeyClientSIREN) != "" {
		t.Fatalf("session must stay untouched")
	}
}

func TestIdentifyLookupFailurePropagatesMessage(t *testing.T) {
	msg := lookup.FriendlyMessage(lookup.KeyNotFound)
	svc, _, _ := newIdentification(t, lookup.Result{Error: msg, Category: lookup.CategoryNotFound})
	sess := session.New()
	_, err := svc.Identify(context.Background(), sess, "500309851", KindClient, true)
	var ie *IdentificationError
	if !errors.As(err, &ie) || ie.Message != msg {
		t.Fatalf("expected friendly message, got %v", err)
	}
	if sess.Get(session.KeyClientSIREN) != "" {
		t.Fatalf("failed identification must not write the session")
	}
}

func TestIdentifyNewCompany(t *testing.T) {
	svc, _, _ := newIdentification(t, lookup.Result{Success: true, Name: "ACME SARL"})
	sess := session.New()
	id, err := svc.Identify(context.Background(), sess, " 500309851 ", KindClient, true)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if id.Exists || id.Company != nil || id.Name != "ACME SARL" {
		t.Fatalf("unexpected identification %+v", id)
	}
	if sess.Get(session.KeyClientSIREN) != "500309851" || sess.Get(session.KeyClientName) != "ACME SARL" {
		t.Fatalf("session not populated")
	}
	siren, name, ok := Pending(sess, KindClient)
	if !ok || siren != "500309851" || name != "ACME SARL" {
		t.Fatalf("pending = %q %q %v", siren, name, ok)
	}
	if _, _, ok := Pending(sess, KindCollab); ok {
		t.Fatalf("collab workflow must not see the client identification")
	}
}

func TestIdentifyExistingQuestionnaire(t *testing.T) {
	svc, _, q := newIdentification(t, lookup.Result{Success: true, Name: "ACME SARL"})
	ctx := context.Background()
	if _, err := q.SubmitClient(ctx, "500309851", "ACME SARL", clientForm()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	id, err := svc.Identify(ctx, session.New(), "500309851", KindClient, true)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if !id.Exists || id.Company == nil {
		t.Fatalf("expected existing client questionnaire, got %+v", id)
	}

	id, err = svc.Identify(ctx, session.New(), "500309851", KindClient, false)
	if err != nil || id.Exists {
		t.Fatalf("presence check must be skipped when not requested: %+v %v", id, err)
	}

	sess := session.New()
	id, err = svc.Identify(ctx, sess, "500309851", KindCollab, true)
	if err != nil || id.Exists {
		t.Fatalf("no collaborateur questionnaire yet: %+v %v", id, err)
	}
	if sess.Get(session.KeyCollabSIREN) != "500309851" {
		t.Fatalf("collab session key missing")
	}
}

func TestIdentifyUnnamedCompanyIsPending(t *testing.T) {
	svc, _, _ := newIdentification(t, lookup.Result{Success: true, Name: ""})
	sess := session.New()
	if _, err := svc.Identify(context.Background(), sess, "500309851", KindClient, true); err != nil {
		t.Fatalf("identify: %v", err)
	}
	siren, name, ok := Pending(sess, KindClient)
	if !ok || siren != "500309851" || name != "" {
		t.Fatalf("an unnamed company must reach the questionnaire: %q %q %v", siren, name, ok)
	}
}

func TestPendingRequiresBothKeys(t *testing.T) {
	sess := session.New()
	sess.Set(session.KeyClientSIREN, "500309851")
	if _, _, ok := Pending(sess, KindClient); ok {
		t.Fatalf("a SIREN without a stored name is not a pending identification")
	}
	sess = session.New()
	sess.Set(session.KeyClientName, "ACME")
	if _, _, ok := Pending(sess, KindClient); ok {
		t.Fatalf("a name without a SIREN is not a pending identification")
	}
}
