package services

import (
	"context"
	"strings"

	"github.com/UTurtleDev/gcl/internal/lookup"
	"github.com/UTurtleDev/gcl/internal/models"
	"github.com/UTurtleDev/gcl/internal/session"
)

// MsgEmptySIREN is shown when the identification form is submitted blank.
const MsgEmptySIREN = "Veuillez saisir un numéro SIREN"

// Kind selects which workflow an identification belongs to.
type Kind string

const (
	KindClient Kind = "client"
	KindCollab Kind = "collab"
)

func (k Kind) sirenKey() string {
	if k == KindCollab {
		return session.KeyCollabSIREN
	}
	return session.KeyClientSIREN
}

func (k Kind) nameKey() string {
	if k == KindCollab {
		return session.KeyCollabName
	}
	return session.KeyClientName
}

// Resolver resolves a SIREN to a company name; satisfied by *lookup.Service.
type Resolver interface {
	Resolve(ctx context.Context, siren string) lookup.Result
}

// Identification is a successful identification.
type Identification struct {
	SIREN   string
	Name    string
	Company *models.Company
	// Exists is set when the company already has a questionnaire of the requested kind.
	Exists bool
}

// IdentificationError is a user-facing failure.
type IdentificationError struct {
	Message  string
	Category lookup.Category
}

func (e *IdentificationError) Error() string { return e.Message }

type IdentificationService struct {
	resolver       Resolver
	companies      *CompanyService
	questionnaires *QuestionnaireService
}

func NewIdentificationService(resolver Resolver, companies *CompanyService, questionnaires *QuestionnaireService) *IdentificationService {
	return &IdentificationService{resolver: resolver, companies: companies, questionnaires: questionnaires}
}

// Identify checks a SIREN against the registry and records it in the session
// for the questionnaire step. The store is only read.
func (s *IdentificationService) Identify(ctx context.Context, sess *session.Session, raw string, kind Kind, checkExisting bool) (*Identification, error) {
	siren := strings.TrimSpace(raw)
	if siren == "" {
		return nil, &IdentificationError{Message: MsgEmptySIREN, Category: lookup.CategoryValidation}
	}

	res := s.resolver.Resolve(ctx, siren)
	if !res.Success {
		return nil, &IdentificationError{Message: res.Error, Category: res.Category}
	}

	company, err := s.companies.Find(ctx, siren)
	if err != nil {
		return nil, err
	}
	out := &Identification{SIREN: siren, Name: res.Name, Company: company}
	if company != nil && checkExisting {
		if kind == KindCollab {
			out.Exists, err = s.questionnaires.HasCollaborateurQuestionnaire(ctx, siren)
		} else {
			out.Exists, err = s.questionnaires.HasClientQuestionnaire(ctx, siren)
		}
		if err != nil {
			return nil, err
		}
	}

	sess.Set(kind.sirenKey(), siren)
	sess.Set(kind.nameKey(), res.Name)
	return out, nil
}

// Pending returns the SIREN and name stored by Identify, if both are present.
// The name may be empty: some legal units have no name on record.
func Pending(sess *session.Session, kind Kind) (siren, name string, ok bool) {
	siren, hasSIREN := sess.Lookup(kind.sirenKey())
	name, hasName := sess.Lookup(kind.nameKey())
	return siren, name, hasSIREN && hasName && siren != ""
}
