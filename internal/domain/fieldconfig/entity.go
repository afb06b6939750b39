package fieldconfig

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FieldConfig declares one lead field for a tenant.
type FieldConfig struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:idx_field_configs_tenant_field"`
	FieldName  string    `json:"field_name" gorm:"type:varchar(128);not null;uniqueIndex:idx_field_configs_tenant_field"`
	IsRequired bool      `json:"is_required" gorm:"not null;default:false"`
	IsUnique   bool      `json:"is_unique" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (FieldConfig) TableName() string { return "field_configs" }

func (f *FieldConfig) BeforeCreate(_ *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (f *FieldConfig) AssignTenant(id uuid.UUID) { f.TenantID = id }
