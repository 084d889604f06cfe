package models

import (
	"fmt"
	"time"
)

// Company is the central record, keyed by its SIREN.
// Both questionnaires hang off it and are removed with it.
type Company struct {
	SIREN      string    `gorm:"primaryKey;size:9" json:"siren"`
	Name       string    `gorm:"size:255;not null;index" json:"nom_entreprise"`
	CreatedAt  time.Time `gorm:"index" json:"date_creation"`
	UpdatedAt  time.Time `gorm:"index" json:"date_modification"`
	IsArchived bool      `gorm:"not null;default:false;index" json:"is_archived"`

	ClientQuestionnaire        *ClientQuestionnaire        `gorm:"foreignKey:CompanySIREN;references:SIREN;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questionnaire_client,omitempty"`
	CollaborateurQuestionnaire *CollaborateurQuestionnaire `gorm:"foreignKey:CompanySIREN;references:SIREN;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questionnaire_collaborateur,omitempty"`
}

func (c Company) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.SIREN)
}

// HasClient reports whether a client questionnaire was loaded with the company.
func (c *Company) HasClient() bool {
	return c.ClientQuestionnaire != nil
}

// HasCollaborateur reports whether a collaborateur questionnaire was loaded with the company.
func (c *Company) HasCollaborateur() bool {
	return c.CollaborateurQuestionnaire != nil
}

// IsValidSIREN reports whether s is exactly nine ASCII digits.
func IsValidSIREN(s string) bool {
	if len(s) != 9 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
