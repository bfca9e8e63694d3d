package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TemplateCaseID is the reserved sentinel case id under which firm
// document templates are stored. Templates share the documents table
// with ordinary case documents, distinguished by IsTemplate.
const TemplateCaseID = "00000000-0000-0000-0000-000000000000"

// Document represents an uploaded file attached to a case, or a firm
// template (CaseID = TemplateCaseID). Binary content lives in the
// storage provider; only path and size metadata are recorded here.
type Document struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Firm relationship (for scoping)
	FirmID string `gorm:"type:uuid;not null;index" json:"firm_id"`
	Firm   Firm   `gorm:"foreignKey:FirmID" json:"firm,omitempty"`

	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`

	Name         string `gorm:"not null" json:"name"`
	DocumentType string `json:"document_type"`
	FilePath     string `gorm:"not null" json:"-"` // Not exposed in JSON for security
	FileSize     int64  `gorm:"not null" json:"file_size"`
	MimeType     string `json:"mime_type,omitempty"`
	Version      int    `gorm:"not null;default:1" json:"version"`
	IsTemplate   bool   `gorm:"not null;default:false;index" json:"is_template"`

	UploadedByID *string `gorm:"type:uuid" json:"uploaded_by_id,omitempty"`
	UploadedBy   *User   `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`

	RelatedPartyID *string `gorm:"type:uuid" json:"related_party_id,omitempty"`
	RelatedParty   *Party  `gorm:"foreignKey:RelatedPartyID" json:"related_party,omitempty"`
}

// BeforeCreate hook to generate UUID
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Version == 0 {
		d.Version = 1
	}
	return nil
}

// TableName specifies the table name for Document model
func (Document) TableName() string {
	return "documents"
}

// GetDownloadURL returns a safe download URL for this document
func (d *Document) GetDownloadURL() string {
	return "/api/documents/" + d.ID + "/download"
}
