package session

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is a tenant.
type Organization struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Organization) TableName() string { return "organizations" }

func (o *Organization) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Profile is the application identity of an identity-provider subject.
type Profile struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Email     string     `json:"email" gorm:"not null"`
	Role      string     `json:"role" gorm:"type:varchar(32);not null;default:user"`
	TenantID  *uuid.UUID `json:"tenant_id,omitempty" gorm:"type:uuid;index"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	Tenant *Organization `json:"-" gorm:"foreignKey:TenantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (Profile) TableName() string { return "profiles" }
