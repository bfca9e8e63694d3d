package services

import (
	"errors"
	"fmt"

	"casedesk/models"

	"gorm.io/gorm"
)

// ErrPartyInUse is returned when deleting a party that cases still reference
var ErrPartyInUse = errors.New("party is referenced by one or more cases")

// DeleteParty removes a party after verifying no case in the firm still
// references it as client or opposing party. Deletion is not cascaded;
// the referencing cases must be reassigned or deleted first.
func DeleteParty(db *gorm.DB, firmID, partyID string) error {
	var party models.Party
	if err := db.Where("firm_id = ?", firmID).First(&party, "id = ?", partyID).Error; err != nil {
		return err
	}

	var refs int64
	if err := db.Model(&models.Case{}).
		Where("firm_id = ?", firmID).
		Where("client_id = ? OR opposing_party_id = ?", partyID, partyID).
		Count(&refs).Error; err != nil {
		return fmt.Errorf("failed to check party references: %w", err)
	}
	if refs > 0 {
		return ErrPartyInUse
	}

	if err := db.Delete(&party).Error; err != nil {
		return fmt.Errorf("failed to delete party: %w", err)
	}
	return nil
}
