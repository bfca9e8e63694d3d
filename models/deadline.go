package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Canonical deadline priority values (free string, known set)
const (
	DeadlinePriorityHigh   = "High"
	DeadlinePriorityMedium = "Medium"
	DeadlinePriorityLow    = "Low"
)

// Canonical deadline status values (free string, known set)
const (
	DeadlineStatusPending   = "Pending"
	DeadlineStatusCompleted = "Completed"
	DeadlineStatusOverdue   = "Overdue"
)

// Deadline represents a dated obligation on a case
type Deadline struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Firm relationship (for scoping)
	FirmID string `gorm:"type:uuid;not null;index:idx_deadline_firm_due" json:"firm_id"`
	Firm   Firm   `gorm:"foreignKey:FirmID" json:"firm,omitempty"`

	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   *Case  `gorm:"foreignKey:CaseID" json:"case,omitempty"`

	Title       string    `gorm:"not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	DueDate     time.Time `gorm:"not null;index:idx_deadline_firm_due" json:"due_date"`
	Priority    string    `gorm:"not null;default:Medium" json:"priority"`
	Status      string    `gorm:"not null;default:Pending" json:"status"`

	AssignedToID *string `gorm:"type:uuid" json:"assigned_to_id,omitempty"`
	AssignedTo   *User   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`

	ReminderDate   *time.Time `json:"reminder_date,omitempty"`
	ReminderSentAt *time.Time `json:"-"`
}

// BeforeCreate hook to generate UUID
func (d *Deadline) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Deadline model
func (Deadline) TableName() string {
	return "deadlines"
}

// IsPastDue reports whether a pending deadline's due date has passed
func (d *Deadline) IsPastDue(now time.Time) bool {
	return d.Status == DeadlineStatusPending && d.DueDate.Before(now)
}
