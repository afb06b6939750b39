package lead

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lead is one tenant's prospect. Tenant-defined attributes live in Fields; Name, Email
// and Phone are copied out of them for listing and search.
type Lead struct {
	ID            uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID      uuid.UUID         `json:"tenant_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_leads_tenant_dedup"`
	CampaignID    *uuid.UUID        `json:"campaign_id,omitempty" gorm:"type:uuid;index"`
	Name          string            `json:"name" gorm:"type:varchar(255)"`
	Email         string            `json:"email" gorm:"type:varchar(255);index"`
	Phone         string            `json:"phone" gorm:"type:varchar(64)"`
	Status        string            `json:"status" gorm:"type:varchar(64);not null;index"`
	StatusHistory string            `json:"status_history" gorm:"type:text;not null"`
	Fields        datatypes.JSONMap `json:"fields" gorm:"not null"`
	// DedupKey is the hashed identity key. NULL when the record had no identity.
	DedupKey  *string   `json:"-" gorm:"type:varchar(64);uniqueIndex:idx_leads_tenant_dedup"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Lead) TableName() string { return "leads" }

func (l *Lead) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (l *Lead) AssignTenant(id uuid.UUID) { l.TenantID = id }
