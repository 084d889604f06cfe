package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UTurtleDev/gcl/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompanyService struct {
	db *gorm.DB
}

func NewCompanyService(db *gorm.DB) *CompanyService {
	return &CompanyService{db: db}
}

// Get loads a company, archived or not, with both questionnaires when present.
func (s *CompanyService) Get(ctx context.Context, siren string) (*models.Company, error) {
	var c models.Company
	err := s.db.WithContext(ctx).
		Preload("ClientQuestionnaire").
		Preload("ClientQuestionnaire.ModifiedBy").
		Preload("CollaborateurQuestionnaire").
		Preload("CollaborateurQuestionnaire.Collaborateur").
		Where("siren = ?", siren).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get company %s: %w", siren, err)
	}
	return &c, nil
}

// Find returns the company without its questionnaires, or nil when unknown.
func (s *CompanyService) Find(ctx context.Context, siren string) (*models.Company, error) {
	var c models.Company
	err := s.db.WithContext(ctx).Where("siren = ?", siren).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find company %s: %w", siren, err)
	}
	return &c, nil
}

// Archive hides the company from the dashboard and the export. Questionnaires are kept.
func (s *CompanyService) Archive(ctx context.Context, siren string) (*models.Company, error) {
	var c models.Company
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("siren = ?", siren).Take(&c).Error; err != nil {
			return err
		}
		c.IsArchived = true
		return tx.Model(&c).Updates(map[string]any{"is_archived": true, "updated_at": time.Now()}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("archive company %s: %w", siren, err)
	}
	return &c, nil
}

// getOrCreate inserts the company if it is unknown and returns the stored row.
// An existing company keeps its name.
func getOrCreate(tx *gorm.DB, siren, name string) (*models.Company, error) {
	if !models.IsValidSIREN(siren) {
		return nil, ErrInvalidSIREN
	}
	candidate := models.Company{SIREN: siren, Name: name}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&candidate).Error; err != nil {
		return nil, fmt.Errorf("create company %s: %w", siren, err)
	}
	var c models.Company
	if err := tx.Where("siren = ?", siren).Take(&c).Error; err != nil {
		return nil, fmt.Errorf("reload company %s: %w", siren, err)
	}
	return &c, nil
}
