package services

import (
	"errors"
	"fmt"
	"time"

	"casedesk/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrPartyNotFound is returned when a referenced party does not exist
// in the caller's firm.
var ErrPartyNotFound = errors.New("party not found in firm")

// ErrAssigneeNotFound is returned when the assigned user does not
// belong to the caller's firm.
var ErrAssigneeNotFound = errors.New("assigned user not found in firm")

// CaseInput carries the fields required to open a case
type CaseInput struct {
	CaseNumber      string
	Title           string
	CaseType        string
	Status          string
	Description     string
	ClientID        string
	OpposingPartyID *string
	AssignedToID    *string
	CourtName       *string
	CourtCaseNumber *string
	FilingDate      *time.Time
}

// CreateCase opens a new case for the firm. For foreclosure-typed cases
// (matched case-insensitively) a placeholder security interest is
// created in the same transaction: zero amount, generic description,
// lender and borrower both pointing at the client until staff fill in
// the real parties. The referenced client party is marked is_client.
func CreateCase(db *gorm.DB, firmID string, input CaseInput) (*models.Case, error) {
	var created models.Case

	err := db.Transaction(func(tx *gorm.DB) error {
		// The client must exist inside the firm boundary
		var client models.Party
		if err := tx.Where("firm_id = ?", firmID).First(&client, "id = ?", input.ClientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPartyNotFound
			}
			return fmt.Errorf("failed to look up client party: %w", err)
		}

		if input.OpposingPartyID != nil {
			var count int64
			if err := tx.Model(&models.Party{}).
				Where("firm_id = ? AND id = ?", firmID, *input.OpposingPartyID).
				Count(&count).Error; err != nil {
				return fmt.Errorf("failed to look up opposing party: %w", err)
			}
			if count == 0 {
				return ErrPartyNotFound
			}
		}

		if input.AssignedToID != nil {
			var count int64
			if err := tx.Model(&models.User{}).
				Where("firm_id = ? AND id = ?", firmID, *input.AssignedToID).
				Count(&count).Error; err != nil {
				return fmt.Errorf("failed to look up assigned user: %w", err)
			}
			if count == 0 {
				return ErrAssigneeNotFound
			}
		}

		status := input.Status
		if status == "" {
			status = models.CaseStatusActive
		}

		created = models.Case{
			FirmID:          firmID,
			CaseNumber:      input.CaseNumber,
			Title:           input.Title,
			CaseType:        input.CaseType,
			Status:          status,
			Description:     input.Description,
			ClientID:        client.ID,
			OpposingPartyID: input.OpposingPartyID,
			AssignedToID:    input.AssignedToID,
			CourtName:       input.CourtName,
			CourtCaseNumber: input.CourtCaseNumber,
			FilingDate:      input.FilingDate,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to create case: %w", err)
		}

		// Convention: the party referenced as a case's client is a client
		if !client.IsClient {
			if err := tx.Model(&client).Update("is_client", true).Error; err != nil {
				return fmt.Errorf("failed to flag client party: %w", err)
			}
		}

		if created.IsForeclosure() {
			placeholder := models.SecurityInterest{
				FirmID:       firmID,
				CaseID:       created.ID,
				InterestType: "mortgage",
				Description:  models.PlaceholderInterestDescription,
				Amount:       decimal.Zero,
				LenderID:     client.ID,
				BorrowerID:   client.ID,
			}
			if err := tx.Create(&placeholder).Error; err != nil {
				return fmt.Errorf("failed to create placeholder security interest: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// UpdateCaseStatus transitions a case's status. Closing stamps the
// closure date; leaving the closed state clears it. Unknown status
// strings are accepted as-is.
func UpdateCaseStatus(db *gorm.DB, firmID, caseID, status string) (*models.Case, error) {
	var caseRecord models.Case
	if err := db.Where("firm_id = ?", firmID).First(&caseRecord, "id = ?", caseID).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"status": status}
	if status == models.CaseStatusClosed {
		if caseRecord.ClosedDate == nil {
			updates["closed_date"] = time.Now()
		}
	} else if caseRecord.ClosedDate != nil {
		updates["closed_date"] = nil
	}

	if err := db.Model(&caseRecord).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update case status: %w", err)
	}
	return &caseRecord, nil
}

// DeleteCase removes a case and all of its dependent records. The four
// child tables are cleared before the case row inside one transaction,
// so a failure never leaves a half-deleted case behind.
func DeleteCase(db *gorm.DB, firmID, caseID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var caseRecord models.Case
		if err := tx.Where("firm_id = ?", firmID).First(&caseRecord, "id = ?", caseID).Error; err != nil {
			return err
		}

		for _, child := range []interface{}{
			&models.SecurityInterest{},
			&models.Document{},
			&models.Deadline{},
			&models.Financial{},
		} {
			if err := tx.Where("case_id = ?", caseID).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to delete case children: %w", err)
			}
		}

		if err := tx.Delete(&caseRecord).Error; err != nil {
			return fmt.Errorf("failed to delete case: %w", err)
		}
		return nil
	})
}
