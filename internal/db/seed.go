package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/UTurtleDev/gcl/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions lists the reference data to ensure.
type SeedOptions struct {
	Cabinets      []string
	AdminEmail    string
	AdminPassword string
}

// Seed creates the missing cabinets and the superuser. It is idempotent and
// never overwrites an existing row. No admin is created without a password.
func Seed(ctx context.Context, conn *gorm.DB, opts SeedOptions) error {
	conn = conn.WithContext(ctx)
	for _, nom := range opts.Cabinets {
		nom = strings.TrimSpace(nom)
		if nom == "" {
			continue
		}
		var existing models.Cabinet
		err := conn.Where("nom = ?", nom).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := conn.Create(&models.Cabinet{Nom: nom}).Error; err != nil {
				return fmt.Errorf("seed cabinet %q: %w", nom, err)
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("lookup cabinet %q: %w", nom, err)
		}
	}

	email := strings.TrimSpace(opts.AdminEmail)
	if email == "" || opts.AdminPassword == "" {
		return nil
	}
	var existing models.User
	err := conn.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.User{
		Email:           email,
		Username:        "admin",
		Password:        string(hash),
		IsCollaborateur: true,
		IsStaff:         true,
		IsSuperuser:     true,
		IsActive:        true,
	}
	if err := conn.Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
