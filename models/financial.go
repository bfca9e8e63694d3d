package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Financial represents a signed money movement on a case: fees,
// payments, disbursements, refunds. Amount keeps its sign.
type Financial struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Firm relationship (for scoping)
	FirmID string `gorm:"type:uuid;not null;index" json:"firm_id"`
	Firm   Firm   `gorm:"foreignKey:FirmID" json:"firm,omitempty"`

	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   *Case  `gorm:"foreignKey:CaseID" json:"case,omitempty"`

	TransactionType string          `gorm:"not null" json:"transaction_type"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description     *string         `gorm:"type:text" json:"description,omitempty"`
	TransactionDate time.Time       `gorm:"not null" json:"transaction_date"`
	InvoiceNumber   *string         `json:"invoice_number,omitempty"`

	RecordedByID string `gorm:"type:uuid;not null" json:"recorded_by_id"`
	RecordedBy   *User  `gorm:"foreignKey:RecordedByID" json:"recorded_by,omitempty"`

	RelatedPartyID *string `gorm:"type:uuid" json:"related_party_id,omitempty"`
	RelatedParty   *Party  `gorm:"foreignKey:RelatedPartyID" json:"related_party,omitempty"`
}

// BeforeCreate hook to generate UUID
func (f *Financial) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.TransactionDate.IsZero() {
		f.TransactionDate = time.Now()
	}
	return nil
}

// TableName specifies the table name for Financial model
func (Financial) TableName() string {
	return "financials"
}
