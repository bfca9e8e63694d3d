package handlers

import (
	"net/http"
	"time"

	"casedesk/db"
	"casedesk/middleware"
	"casedesk/models"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// FinancialInput carries a case transaction. Amount keeps its sign:
// positive for money in, negative for money out.
type FinancialInput struct {
	TransactionType string          `json:"transaction_type" validate:"required,max=60"`
	Amount          decimal.Decimal `json:"amount"`
	Description     *string         `json:"description"`
	TransactionDate *string         `json:"transaction_date"` // YYYY-MM-DD, defaults to today
	InvoiceNumber   *string         `json:"invoice_number"`
	RelatedPartyID  *string         `json:"related_party_id" validate:"omitempty,uuid"`
}

// financialSummary totals a case's transactions alongside the rows
type financialSummary struct {
	Transactions []models.Financial `json:"transactions"`
	Balance      decimal.Decimal    `json:"balance"`
}

// GetCaseFinancialsHandler lists a case's transactions with a running
// balance, newest first
func GetCaseFinancialsHandler(c echo.Context) error {
	caseID := c.Param("id")

	var count int64
	if err := middleware.FirmScoped(c, db.DB).Model(&models.Case{}).Where("id = ?", caseID).Count(&count).Error; err != nil || count == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}

	var transactions []models.Financial
	if err := middleware.FirmScoped(c, db.DB).
		Preload("RecordedBy").
		Preload("RelatedParty").
		Where("case_id = ?", caseID).
		Order("transaction_date DESC").
		Find(&transactions).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch transactions")
	}

	balance := decimal.Zero
	for _, t := range transactions {
		balance = balance.Add(t.Amount)
	}

	return c.JSON(http.StatusOK, financialSummary{
		Transactions: transactions,
		Balance:      balance,
	})
}

// CreateFinancialHandler records a transaction on a case. The current
// user is stamped as the recorder.
func CreateFinancialHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)
	caseID := c.Param("id")

	var count int64
	if err := middleware.FirmScoped(c, db.DB).Model(&models.Case{}).Where("id = ?", caseID).Count(&count).Error; err != nil || count == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}

	var input FinancialInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	txDate := time.Now()
	if parsed, httpErr := parseOptionalDate(input.TransactionDate, "transaction_date"); httpErr != nil {
		return httpErr
	} else if parsed != nil {
		txDate = *parsed
	}

	if input.RelatedPartyID != nil && !firmHasParty(c, *input.RelatedPartyID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Referenced party not found")
	}

	transaction := models.Financial{
		FirmID:          *currentUser.FirmID,
		CaseID:          caseID,
		TransactionType: input.TransactionType,
		Amount:          input.Amount,
		Description:     input.Description,
		TransactionDate: txDate,
		InvoiceNumber:   input.InvoiceNumber,
		RecordedByID:    currentUser.ID,
		RelatedPartyID:  input.RelatedPartyID,
	}
	if err := db.DB.Create(&transaction).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to record transaction")
	}

	return c.JSON(http.StatusCreated, transaction)
}

// DeleteFinancialHandler removes a transaction, firm-scoped
func DeleteFinancialHandler(c echo.Context) error {
	var transaction models.Financial
	if err := middleware.FirmScoped(c, db.DB).First(&transaction, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Transaction not found")
	}

	if err := db.DB.Delete(&transaction).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete transaction")
	}
	return c.NoContent(http.StatusNoContent)
}
