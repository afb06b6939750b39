package session

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileRepository reads profiles by subject id. Profiles are read before any
// RequestContext exists, so this is the one lookup that is not tenant scoped.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var p Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
