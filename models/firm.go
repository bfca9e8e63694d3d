package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription tier constants
const (
	TierBasic        = "basic"
	TierProfessional = "professional"
	TierEnterprise   = "enterprise"
)

// Firm is the tenant boundary. Every other scoped record carries its ID.
type Firm struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name             string `gorm:"not null" json:"name"`
	Email            string `gorm:"not null" json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	City             string `json:"city"`
	SubscriptionTier string `gorm:"not null;default:basic" json:"subscription_tier"`
	IsActive         bool   `gorm:"not null;default:true" json:"is_active"`

	// Relationships
	Users []User `gorm:"foreignKey:FirmID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (f *Firm) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.SubscriptionTier == "" {
		f.SubscriptionTier = TierBasic
	}
	return nil
}

// TableName specifies the table name for Firm model
func (Firm) TableName() string {
	return "firms"
}
