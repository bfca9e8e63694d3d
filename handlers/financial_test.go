package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"casedesk/models"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCaseFinancials(t *testing.T) {
	database := setupTestDB(t)
	firm, user := seedFirmAndUser(t, database, "MoneyFirm")
	client := seedClient(t, database, firm.ID, "Mona", "Drake")

	kase := &models.Case{
		FirmID: firm.ID, CaseNumber: "M-1", Title: "Drake Matter",
		CaseType: "civil", ClientID: client.ID,
	}
	assert.NoError(t, database.Create(kase).Error)

	record := func(txType string, amount string) {
		payload := fmt.Sprintf(`{"transaction_type": "%s", "amount": "%s"}`, txType, amount)
		_, c, rec := setupEcho(http.MethodPost, "/api/cases/"+kase.ID+"/financials", jsonBody(payload))
		c.SetParamNames("id")
		c.SetParamValues(kase.ID)
		asUser(c, user)
		assert.NoError(t, CreateFinancialHandler(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
	}

	record("retainer", "1500.00")
	record("fee", "-350.25")
	record("disbursement", "-149.75")

	t.Run("Balance is the signed sum", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/cases/"+kase.ID+"/financials", nil)
		c.SetParamNames("id")
		c.SetParamValues(kase.ID)
		asUser(c, user)
		assert.NoError(t, GetCaseFinancialsHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var summary struct {
			Transactions []models.Financial `json:"transactions"`
			Balance      decimal.Decimal    `json:"balance"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Len(t, summary.Transactions, 3)
		assert.True(t, summary.Balance.Equal(decimal.RequireFromString("1000.00")),
			"got balance %s", summary.Balance)
	})

	t.Run("Recorder is stamped from the session", func(t *testing.T) {
		var tx models.Financial
		assert.NoError(t, database.First(&tx, "transaction_type = ?", "retainer").Error)
		assert.Equal(t, user.ID, tx.RecordedByID)
	})

	t.Run("Case of another firm is not found", func(t *testing.T) {
		_, foreignUser := seedFirmAndUser(t, database, "MoneyForeignFirm")
		_, c, _ := setupEcho(http.MethodGet, "/api/cases/"+kase.ID+"/financials", nil)
		c.SetParamNames("id")
		c.SetParamValues(kase.ID)
		asUser(c, foreignUser)
		err := GetCaseFinancialsHandler(c)
		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, err.(*echo.HTTPError).Code)
	})
}
