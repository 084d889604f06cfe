package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/UTurtleDev/gcl/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials covers unknown emails and wrong passwords alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAccessDenied is returned for a valid login without back-office rights.
var ErrAccessDenied = errors.New("access denied")

type StaffService struct {
	db *gorm.DB
}

func NewStaffService(db *gorm.DB) *StaffService {
	return &StaffService{db: db}
}

// ListCabinets returns every cabinet ordered by name.
func (s *StaffService) ListCabinets(ctx context.Context) ([]models.Cabinet, error) {
	var out []models.Cabinet
	if err := s.db.WithContext(ctx).Order("nom ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list cabinets: %w", err)
	}
	return out, nil
}

// ListComptables returns the active collaborateurs attached to a cabinet.
// An empty or malformed id yields no rows.
func (s *StaffService) ListComptables(ctx context.Context, cabinetID string) ([]models.User, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(cabinetID), 10, 64)
	if err != nil {
		return nil, nil
	}
	var out []models.User
	err = s.db.WithContext(ctx).
		Where("cabinet_id = ? AND is_collaborateur = ? AND is_active = ?", uint(id), true, true).
		Order("last_name ASC").Order("first_name ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list comptables: %w", err)
	}
	return out, nil
}

// Get returns a user by id.
func (s *StaffService) Get(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

// Authenticate checks an email and password pair and the back-office rights of the account.
func (s *StaffService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	var u models.User
	err := s.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.CanAccessBackOffice() {
		return nil, ErrAccessDenied
	}
	return &u, nil
}

// HashPassword returns a bcrypt hash at the default cost.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
