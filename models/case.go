package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Canonical case status values. Status is stored as a free string; these
// are the values the application recognizes, anything else renders as a
// generic state.
const (
	CaseStatusActive  = "active"
	CaseStatusPending = "pending"
	CaseStatusClosed  = "closed"
)

// CaseTypeForeclosure triggers automatic creation of a placeholder
// security interest when a case of this type is created (compared
// case-insensitively).
const CaseTypeForeclosure = "foreclosure"

// Case is the central legal-matter record owned by a firm. It is the
// aggregate root for documents, deadlines, financials and security
// interests.
type Case struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Firm relationship
	FirmID string `gorm:"type:uuid;not null;index:idx_case_firm_created;index:idx_case_firm_status" json:"firm_id"`
	Firm   Firm   `gorm:"foreignKey:FirmID" json:"firm,omitempty"`

	// Case identification. Case numbers are unique per firm by
	// convention only - not enforced.
	CaseNumber  string `gorm:"not null;index" json:"case_number"`
	Title       string `gorm:"not null" json:"title"`
	CaseType    string `gorm:"not null" json:"case_type"`
	Status      string `gorm:"not null;default:active;index:idx_case_firm_status" json:"status"`
	Description string `gorm:"type:text" json:"description"`

	// Party relationships
	ClientID        string  `gorm:"type:uuid;not null;index" json:"client_id"`
	Client          *Party  `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	OpposingPartyID *string `gorm:"type:uuid" json:"opposing_party_id,omitempty"`
	OpposingParty   *Party  `gorm:"foreignKey:OpposingPartyID" json:"opposing_party,omitempty"`

	// Assignment
	AssignedToID *string `gorm:"type:uuid" json:"assigned_to_id,omitempty"`
	AssignedTo   *User   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`

	// Court metadata
	CourtName       *string `json:"court_name,omitempty"`
	CourtCaseNumber *string `json:"court_case_number,omitempty"`

	// Lifecycle dates
	FilingDate *time.Time `json:"filing_date,omitempty"`
	ClosedDate *time.Time `json:"closed_date,omitempty"`

	// Relationships
	Documents         []Document         `gorm:"foreignKey:CaseID" json:"documents,omitempty"`
	Deadlines         []Deadline         `gorm:"foreignKey:CaseID" json:"deadlines,omitempty"`
	Financials        []Financial        `gorm:"foreignKey:CaseID" json:"financials,omitempty"`
	SecurityInterests []SecurityInterest `gorm:"foreignKey:CaseID" json:"security_interests,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = CaseStatusActive
	}
	return nil
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}

// IsForeclosure checks the case type against the foreclosure trigger,
// ignoring letter casing
func (c *Case) IsForeclosure() bool {
	return strings.EqualFold(c.CaseType, CaseTypeForeclosure)
}

// IsClosed checks if the case is closed
func (c *Case) IsClosed() bool {
	return c.Status == CaseStatusClosed
}

// IsKnownCaseStatus reports whether the status is one of the canonical
// values. Unknown statuses are accepted and rendered generically.
func IsKnownCaseStatus(status string) bool {
	switch status {
	case CaseStatusActive, CaseStatusPending, CaseStatusClosed:
		return true
	}
	return false
}
