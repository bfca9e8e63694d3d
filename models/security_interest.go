package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PlaceholderInterestDescription is the description written on the
// security interest auto-created for new foreclosure cases.
const PlaceholderInterestDescription = "Security interest details pending"

// SecurityInterest models a mortgage or lien attached to a foreclosure
// case. For new foreclosure cases a placeholder row is created with a
// zero amount and both party references pointing at the case's client;
// staff fill in the real lender/borrower afterwards.
type SecurityInterest struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Firm relationship (for scoping) - must always match the case's firm
	FirmID string `gorm:"type:uuid;not null;index" json:"firm_id"`
	Firm   Firm   `gorm:"foreignKey:FirmID" json:"firm,omitempty"`

	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   *Case  `gorm:"foreignKey:CaseID" json:"case,omitempty"`

	InterestType string          `gorm:"not null;default:mortgage" json:"interest_type"`
	Description  string          `gorm:"type:text" json:"description"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	LienPosition *int            `json:"lien_position,omitempty"`

	LenderID   string `gorm:"type:uuid;not null" json:"lender_id"`
	Lender     *Party `gorm:"foreignKey:LenderID" json:"lender,omitempty"`
	BorrowerID string `gorm:"type:uuid;not null" json:"borrower_id"`
	Borrower   *Party `gorm:"foreignKey:BorrowerID" json:"borrower,omitempty"`

	MaturityDate  *time.Time       `json:"maturity_date,omitempty"`
	InterestRate  *decimal.Decimal `gorm:"type:decimal(7,4)" json:"interest_rate,omitempty"`
	PropertyValue *decimal.Decimal `gorm:"type:decimal(15,2)" json:"property_value,omitempty"`
}

// BeforeCreate hook to generate UUID
func (si *SecurityInterest) BeforeCreate(tx *gorm.DB) error {
	if si.ID == "" {
		si.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for SecurityInterest model
func (SecurityInterest) TableName() string {
	return "security_interests"
}
