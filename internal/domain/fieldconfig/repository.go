package fieldconfig

import (
	"context"

	"leadengage/internal/tenant"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) List(ctx context.Context, s *tenant.Scoped) ([]FieldConfig, error) {
	var rows []FieldConfig
	err := s.Query(ctx, &FieldConfig{}).Order("field_name").Find(&rows).Error
	return rows, err
}

// Replace swaps the tenant's field set in one transaction.
func (r *Repository) Replace(ctx context.Context, s *tenant.Scoped, rows []*FieldConfig) error {
	if _, ok := s.Filter().TenantID(); !ok {
		return tenant.ErrTenantRequired
	}
	return s.Transaction(ctx, func(tx *tenant.Scoped) error {
		if err := tx.Query(ctx, &FieldConfig{}).Delete(&FieldConfig{}).Error; err != nil {
			return err
		}
		_, err := tenant.Insert(ctx, tx, rows, 100)
		return err
	})
}
