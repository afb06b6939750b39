package lead

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leadengage/internal/tenant"
)

const insertBatchSize = 200

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) List(ctx context.Context, s *tenant.Scoped, f ListFilter) ([]Lead, int64, error) {
	q := s.Query(ctx, &Lead{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CampaignID != nil {
		q = q.Where("campaign_id = ?", *f.CampaignID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Lead
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error
	return rows, total, err
}

func (r *Repository) Get(ctx context.Context, s *tenant.Scoped, id uuid.UUID) (*Lead, error) {
	var l Lead
	err := s.Query(ctx, &Lead{}).Where("id = ?", id).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateStatus moves the lead from prev to next. The write only lands while the
// stored status still equals prev, so a concurrent change yields ErrStatusConflict.
func (r *Repository) UpdateStatus(ctx context.Context, s *tenant.Scoped, id uuid.UUID, prev, next, history string, at time.Time) error {
	res := s.Query(ctx, &Lead{}).
		Where("id = ? AND status = ?", id, prev).
		Updates(map[string]any{
			"status":         next,
			"status_history": history,
			"updated_at":     at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, s *tenant.Scoped, id uuid.UUID) error {
	res := s.Query(ctx, &Lead{}).Where("id = ?", id).Delete(&Lead{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLeadNotFound
	}
	return nil
}

func (r *Repository) CountByStatus(ctx context.Context, s *tenant.Scoped) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := s.Query(ctx, &Lead{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// ExistingFields returns the stored fields of every lead in scope in one read.
func (r *Repository) ExistingFields(ctx context.Context, s *tenant.Scoped) ([]datatypes.JSONMap, error) {
	var rows []Lead
	if err := s.Query(ctx, &Lead{}).Select("fields").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]datatypes.JSONMap, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Fields)
	}
	return out, nil
}

// InsertBatch writes leads, leaving out rows whose dedup key already exists for the
// tenant. It returns how many rows were actually inserted.
func (r *Repository) InsertBatch(ctx context.Context, s *tenant.Scoped, leads []*Lead) (int64, error) {
	return tenant.Insert(ctx, s, leads, insertBatchSize, clause.OnConflict{
		Columns:   []clause.Column{{Name: tenant.Column}, {Name: "dedup_key"}},
		DoNothing: true,
	})
}
