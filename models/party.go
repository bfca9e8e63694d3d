package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Party represents a person or organization referenced by cases:
// clients, opposing parties, lenders, borrowers, witnesses.
// A party must have either first+last name or an organization name.
type Party struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Firm relationship (for scoping)
	FirmID string `gorm:"type:uuid;not null;index" json:"firm_id"`
	Firm   Firm   `gorm:"foreignKey:FirmID" json:"firm,omitempty"`

	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	OrganizationName string `json:"organization_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	IsClient         bool   `gorm:"not null;default:false;index" json:"is_client"`
	Notes            string `gorm:"type:text" json:"notes"`
}

// BeforeCreate hook to generate UUID
func (p *Party) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Party model
func (Party) TableName() string {
	return "parties"
}

// HasName reports whether the party satisfies the naming invariant:
// either first+last name or an organization name must be present.
func (p *Party) HasName() bool {
	if strings.TrimSpace(p.OrganizationName) != "" {
		return true
	}
	return strings.TrimSpace(p.FirstName) != "" && strings.TrimSpace(p.LastName) != ""
}

// DisplayName resolves the party's display name: organization name when
// present, otherwise "First Last" trimmed. Returns "" when the party has
// no usable name.
func (p *Party) DisplayName() string {
	if org := strings.TrimSpace(p.OrganizationName); org != "" {
		return org
	}
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// DisplayNameOr resolves the display name with a fallback for parties
// that have no usable name at all.
func (p *Party) DisplayNameOr(fallback string) string {
	if name := p.DisplayName(); name != "" {
		return name
	}
	return fallback
}
