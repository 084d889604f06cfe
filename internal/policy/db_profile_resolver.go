package policy

import (
	"context"
	"errors"

	"github.com/UTurtleDev/gcl/gate"
	"github.com/UTurtleDev/gcl/internal/models"
	"gorm.io/gorm"
)

// DBProfileResolver loads the staff account and maps its flags to a profile.
type DBProfileResolver struct {
	DB *gorm.DB
}

func NewDBProfileResolver(db *gorm.DB) *DBProfileResolver {
	return &DBProfileResolver{DB: db}
}

// Resolve returns nil, nil for unknown users so that they are denied rather
// than treated as a server error.
func (r *DBProfileResolver) Resolve(ctx context.Context, userID uint) (gate.Profile, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Take(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ProfileFor(user), nil
}
