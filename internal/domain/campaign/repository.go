package campaign

import (
	"context"

	"github.com/google/uuid"

	"leadengage/internal/database"
	"leadengage/internal/tenant"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) List(ctx context.Context, s *tenant.Scoped, activeOnly bool) ([]Campaign, error) {
	var rows []Campaign
	q := s.Query(ctx, &Campaign{}).Order("name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&rows).Error
	return rows, err
}

// ListActive returns the campaigns leads may reference by name.
func (r *Repository) ListActive(ctx context.Context, s *tenant.Scoped) ([]Campaign, error) {
	return r.List(ctx, s, true)
}

// OwnedIDs returns which of ids are active campaigns inside the scope.
func (r *Repository) OwnedIDs(ctx context.Context, s *tenant.Scoped, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	owned := make(map[uuid.UUID]struct{}, len(ids))
	if len(ids) == 0 {
		return owned, nil
	}
	var found []uuid.UUID
	err := s.Query(ctx, &Campaign{}).
		Where("id IN ? AND is_active = ?", ids, true).
		Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		owned[id] = struct{}{}
	}
	return owned, nil
}

func (r *Repository) Create(ctx context.Context, s *tenant.Scoped, c *Campaign) error {
	_, err := tenant.Insert(ctx, s, []*Campaign{c}, 1)
	if err != nil && database.IsUniqueViolation(err) {
		return ErrNameExists
	}
	return err
}

func (r *Repository) SetActive(ctx context.Context, s *tenant.Scoped, id uuid.UUID, active bool) (*Campaign, error) {
	res := s.Query(ctx, &Campaign{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrCampaignNotFound
	}
	var c Campaign
	if err := s.Query(ctx, &Campaign{}).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
