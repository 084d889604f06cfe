package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/UTurtleDev/gcl/internal/forms"
	"github.com/UTurtleDev/gcl/internal/models"
	"gorm.io/gorm"
)

// QuestionnaireService records questionnaire answers. Every submission replaces
// all answers of the company's questionnaire of that kind.
type QuestionnaireService struct {
	db *gorm.DB
}

func NewQuestionnaireService(db *gorm.DB) *QuestionnaireService {
	return &QuestionnaireService{db: db}
}

func (s *QuestionnaireService) HasClientQuestionnaire(ctx context.Context, siren string) (bool, error) {
	return s.exists(ctx, &models.ClientQuestionnaire{}, siren)
}

func (s *QuestionnaireService) HasCollaborateurQuestionnaire(ctx context.Context, siren string) (bool, error) {
	return s.exists(ctx, &models.CollaborateurQuestionnaire{}, siren)
}

func (s *QuestionnaireService) exists(ctx context.Context, model any, siren string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(model).Where("company_siren = ?", siren).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count questionnaires: %w", err)
	}
	return n > 0, nil
}

// GetClient returns the client questionnaire of a company, or nil.
func (s *QuestionnaireService) GetClient(ctx context.Context, siren string) (*models.ClientQuestionnaire, error) {
	var q models.ClientQuestionnaire
	err := s.db.WithContext(ctx).Where("company_siren = ?", siren).Take(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get client questionnaire: %w", err)
	}
	return &q, nil
}

// GetCollaborateur returns the staff questionnaire of a company, or nil.
func (s *QuestionnaireService) GetCollaborateur(ctx context.Context, siren string) (*models.CollaborateurQuestionnaire, error) {
	var q models.CollaborateurQuestionnaire
	err := s.db.WithContext(ctx).Where("company_siren = ?", siren).Take(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get collaborateur questionnaire: %w", err)
	}
	return &q, nil
}

// SubmitClient creates the company if needed, then creates or replaces its
// client questionnaire. defaultName is only used for a new company.
func (s *QuestionnaireService) SubmitClient(ctx context.Context, siren, defaultName string, f forms.ClientForm) (*models.ClientQuestionnaire, error) {
	var q models.ClientQuestionnaire
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getOrCreate(tx, siren, defaultName); err != nil {
			return err
		}
		isNew, err := fetch(tx, &q, siren)
		if err != nil {
			return err
		}
		f.ApplyTo(&q)
		q.CompanySIREN = siren
		return persist(tx, &q, isNew)
	})
	if err != nil {
		return nil, wrapSubmitErr("client", siren, err)
	}
	return &q, nil
}

// SubmitCollaborateur creates the company if needed, then creates or replaces
// its staff questionnaire, recording collaborateurID as the author.
func (s *QuestionnaireService) SubmitCollaborateur(ctx context.Context, siren, defaultName string, f forms.CollaborateurForm, collaborateurID uint) (*models.CollaborateurQuestionnaire, error) {
	var q models.CollaborateurQuestionnaire
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getOrCreate(tx, siren, defaultName); err != nil {
			return err
		}
		isNew, err := fetch(tx, &q, siren)
		if err != nil {
			return err
		}
		f.ApplyTo(&q)
		q.CompanySIREN = siren
		q.CollaborateurID = collaborateurID
		return persist(tx, &q, isNew)
	})
	if err != nil {
		return nil, wrapSubmitErr("collaborateur", siren, err)
	}
	return &q, nil
}

// UpdateClient replaces the answers of an existing client questionnaire on
// behalf of a staff member. It never creates one.
func (s *QuestionnaireService) UpdateClient(ctx context.Context, siren string, f forms.ClientForm, staffID uint) (*models.ClientQuestionnaire, error) {
	var q models.ClientQuestionnaire
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_siren = ?", siren).Take(&q).Error; err != nil {
			return err
		}
		f.ApplyTo(&q)
		q.ModifiedByID = &staffID
		q.ModifiedBy = nil
		return tx.Save(&q).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update client questionnaire %s: %w", siren, err)
	}
	return &q, nil
}

// UpdateCollaborateur replaces the answers of an existing staff questionnaire.
// The editing staff member becomes its collaborateur.
func (s *QuestionnaireService) UpdateCollaborateur(ctx context.Context, siren string, f forms.CollaborateurForm, staffID uint) (*models.CollaborateurQuestionnaire, error) {
	var q models.CollaborateurQuestionnaire
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_siren = ?", siren).Take(&q).Error; err != nil {
			return err
		}
		f.ApplyTo(&q)
		q.CollaborateurID = staffID
		q.Collaborateur = nil
		return tx.Save(&q).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update collaborateur questionnaire %s: %w", siren, err)
	}
	return &q, nil
}

// fetch loads the questionnaire of siren into dst and reports whether none existed.
func fetch(tx *gorm.DB, dst any, siren string) (bool, error) {
	err := tx.Where("company_siren = ?", siren).Take(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	return false, err
}

// persist inserts new rows with Create so that a concurrent first submission
// hits the primary key instead of silently overwriting.
func persist(tx *gorm.DB, row any, isNew bool) error {
	if isNew {
		return tx.Create(row).Error
	}
	return tx.Save(row).Error
}

func wrapSubmitErr(kind, siren string, err error) error {
	switch {
	case errors.Is(err, ErrInvalidSIREN):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s questionnaire %s: %w", kind, siren, ErrQuestionnaireConflict)
	default:
		return fmt.Errorf("submit %s questionnaire %s: %w", kind, siren, err)
	}
}
