package handlers

import (
	"net/http"

	"casedesk/db"
	"casedesk/middleware"
	"casedesk/models"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// SecurityInterestInput carries the lien/mortgage fields
type SecurityInterestInput struct {
	InterestType  string           `json:"interest_type" validate:"required,max=60"`
	Description   string           `json:"description"`
	Amount        decimal.Decimal  `json:"amount"`
	LienPosition  *int             `json:"lien_position" validate:"omitempty,min=1"`
	LenderID      string           `json:"lender_id" validate:"required,uuid"`
	BorrowerID    string           `json:"borrower_id" validate:"required,uuid"`
	MaturityDate  *string          `json:"maturity_date"` // YYYY-MM-DD
	InterestRate  *decimal.Decimal `json:"interest_rate"`
	PropertyValue *decimal.Decimal `json:"property_value"`
}

// securityInterestResponse includes resolved lender/borrower names
type securityInterestResponse struct {
	models.SecurityInterest
	LenderName   string `json:"lender_name"`
	BorrowerName string `json:"borrower_name"`
}

func newSecurityInterestResponse(si models.SecurityInterest) securityInterestResponse {
	resp := securityInterestResponse{SecurityInterest: si, LenderName: "Unknown", BorrowerName: "Unknown"}
	if si.Lender != nil {
		resp.LenderName = si.Lender.DisplayNameOr("Unknown")
	}
	if si.Borrower != nil {
		resp.BorrowerName = si.Borrower.DisplayNameOr("Unknown")
	}
	return resp
}

// GetSecurityInterestsHandler lists a case's security interests with
// resolved party names
func GetSecurityInterestsHandler(c echo.Context) error {
	caseID := c.Param("id")

	// The case itself must be visible inside the firm boundary
	var caseRecord models.Case
	if err := middleware.FirmScoped(c, db.DB).First(&caseRecord, "id = ?", caseID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}

	var interests []models.SecurityInterest
	if err := middleware.FirmScoped(c, db.DB).
		Preload("Lender").
		Preload("Borrower").
		Where("case_id = ?", caseID).
		Order("created_at ASC").
		Find(&interests).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch security interests")
	}

	resp := make([]securityInterestResponse, len(interests))
	for i := range interests {
		resp[i] = newSecurityInterestResponse(interests[i])
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateSecurityInterestHandler records a lien/mortgage on a case
func CreateSecurityInterestHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)
	caseID := c.Param("id")

	var caseRecord models.Case
	if err := middleware.FirmScoped(c, db.DB).First(&caseRecord, "id = ?", caseID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}

	var input SecurityInterestInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	// Both party references must live in the firm
	for _, partyID := range []string{input.LenderID, input.BorrowerID} {
		if !firmHasParty(c, partyID) {
			return echo.NewHTTPError(http.StatusBadRequest, "Referenced party not found")
		}
	}

	maturity, httpErr := parseOptionalDate(input.MaturityDate, "maturity_date")
	if httpErr != nil {
		return httpErr
	}

	interest := models.SecurityInterest{
		FirmID:        *currentUser.FirmID,
		CaseID:        caseRecord.ID,
		InterestType:  input.InterestType,
		Description:   input.Description,
		Amount:        input.Amount,
		LienPosition:  input.LienPosition,
		LenderID:      input.LenderID,
		BorrowerID:    input.BorrowerID,
		MaturityDate:  maturity,
		InterestRate:  input.InterestRate,
		PropertyValue: input.PropertyValue,
	}
	if err := db.DB.Create(&interest).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create security interest")
	}

	return c.JSON(http.StatusCreated, interest)
}

// UpdateSecurityInterestHandler updates a security interest, firm-scoped
func UpdateSecurityInterestHandler(c echo.Context) error {
	var interest models.SecurityInterest
	if err := middleware.FirmScoped(c, db.DB).First(&interest, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Security interest not found")
	}

	var input SecurityInterestInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	// The replacement lender/borrower must live in the firm, same as on
	// creation
	for _, partyID := range []string{input.LenderID, input.BorrowerID} {
		if !firmHasParty(c, partyID) {
			return echo.NewHTTPError(http.StatusBadRequest, "Referenced party not found")
		}
	}

	maturity, httpErr := parseOptionalDate(input.MaturityDate, "maturity_date")
	if httpErr != nil {
		return httpErr
	}

	updates := map[string]interface{}{
		"interest_type":  input.InterestType,
		"description":    input.Description,
		"amount":         input.Amount,
		"lien_position":  input.LienPosition,
		"lender_id":      input.LenderID,
		"borrower_id":    input.BorrowerID,
		"maturity_date":  maturity,
		"interest_rate":  input.InterestRate,
		"property_value": input.PropertyValue,
	}
	if err := db.DB.Model(&interest).Updates(updates).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update security interest")
	}

	return c.JSON(http.StatusOK, interest)
}

// DeleteSecurityInterestHandler removes a security interest, firm-scoped
func DeleteSecurityInterestHandler(c echo.Context) error {
	var interest models.SecurityInterest
	if err := middleware.FirmScoped(c, db.DB).First(&interest, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Security interest not found")
	}

	if err := db.DB.Delete(&interest).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete security interest")
	}
	return c.NoContent(http.StatusNoContent)
}
