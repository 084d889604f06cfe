package models

import (
	"strings"
	"time"
)

// Cabinet groups staff accounts (an office of the accounting firm).
type Cabinet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Nom       string    `gorm:"size:255;not null" json:"nom"`
}

func (c Cabinet) String() string { return c.Nom }

// User is a staff account. Email is the login identifier.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username  string    `gorm:"size:150" json:"username,omitempty"`
	FirstName string    `gorm:"size:150" json:"first_name,omitempty"`
	LastName  string    `gorm:"size:150" json:"last_name,omitempty"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash

	IsCollaborateur bool `gorm:"not null;default:false" json:"is_collaborateur"`
	IsStaff         bool `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser     bool `gorm:"not null;default:false" json:"is_superuser"`
	IsActive        bool `gorm:"not null" json:"is_active"`

	CabinetID *uint    `gorm:"index" json:"cabinet_id,omitempty"`
	Cabinet   *Cabinet `gorm:"foreignKey:CabinetID;constraint:OnDelete:SET NULL" json:"cabinet,omitempty"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) String() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FullName() + " (" + u.Email + ")"
	}
	return u.Email
}

// CanAccessBackOffice reports whether the account may use the staff pages.
func (u User) CanAccessBackOffice() bool {
	return u.IsActive && (u.IsCollaborateur || u.IsStaff || u.IsSuperuser)
}
