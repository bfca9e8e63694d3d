package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"casedesk/models"
	"casedesk/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedFirmAndUser(t *testing.T, database *gorm.DB, firmName string) (*models.Firm, *models.User) {
	firm := &models.Firm{Name: firmName, Email: firmName + "@firm.test"}
	assert.NoError(t, database.Create(firm).Error)

	user := &models.User{
		Name:     firmName + " Lawyer",
		Email:    firmName + "-lawyer@firm.test",
		Password: "not-checked-here",
		Role:     models.RoleLawyer,
		FirmID:   &firm.ID,
		Firm:     firm,
	}
	assert.NoError(t, database.Create(user).Error)
	return firm, user
}

func seedClient(t *testing.T, database *gorm.DB, firmID, first, last string) *models.Party {
	party := &models.Party{
		FirmID:    firmID,
		FirstName: first,
		LastName:  last,
		IsClient:  true,
	}
	assert.NoError(t, database.Create(party).Error)
	return party
}

func TestGetCasesHandlerPagination(t *testing.T) {
	database := setupTestDB(t)
	firm, user := seedFirmAndUser(t, database, "PageFirm")
	client := seedClient(t, database, firm.ID, "Paula", "Ginter")

	// 13 cases with strictly increasing creation times so the
	// descending order is unambiguous
	base := time.Now().Add(-24 * time.Hour)
	for i := 0; i < 13; i++ {
		kase := &models.Case{
			FirmID:     firm.ID,
			CaseNumber: fmt.Sprintf("2026-%03d", i),
			Title:      fmt.Sprintf("Matter %02d", i),
			CaseType:   "civil",
			ClientID:   client.ID,
		}
		assert.NoError(t, database.Create(kase).Error)
		assert.NoError(t, database.Model(kase).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	listPage := func(page int) (cases []models.Case, meta Pagination) {
		_, c, rec := setupEcho(http.MethodGet, fmt.Sprintf("/api/cases?page=%d", page), nil)
		asUser(c, user)
		assert.NoError(t, GetCasesHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data       []models.Case `json:"data"`
			Pagination Pagination    `json:"pagination"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body.Data, body.Pagination
	}

	t.Run("First page is full and newest-first", func(t *testing.T) {
		cases, meta := listPage(1)
		assert.Len(t, cases, PageSize)
		assert.Equal(t, "Matter 12", cases[0].Title)
		assert.Equal(t, "Matter 03", cases[len(cases)-1].Title)
		assert.Equal(t, int64(13), meta.Total)
		assert.Equal(t, 2, meta.TotalPages)
	})

	t.Run("Last page holds the remainder", func(t *testing.T) {
		cases, meta := listPage(2)
		assert.Len(t, cases, 3)
		assert.Equal(t, "Matter 02", cases[0].Title)
		assert.Equal(t, int64(13), meta.Total)
	})

	t.Run("Page past the end is empty", func(t *testing.T) {
		cases, meta := listPage(3)
		assert.Empty(t, cases)
		assert.Equal(t, int64(13), meta.Total)
	})
}

func TestGetCasesHandlerFilters(t *testing.T) {
	database := setupTestDB(t)
	firm, user := seedFirmAndUser(t, database, "FilterFirm")
	client := seedClient(t, database, firm.ID, "Frank", "Ocampo")

	seed := []struct {
		title, caseType, status string
	}{
		{"Smith Foreclosure", "foreclosure", models.CaseStatusActive},
		{"Jones Contract Dispute", "civil", models.CaseStatusPending},
		{"Smith Estate", "probate", models.CaseStatusClosed},
	}
	for i, s := range seed {
		assert.NoError(t, database.Create(&models.Case{
			FirmID:     firm.ID,
			CaseNumber: fmt.Sprintf("F-%d", i),
			Title:      s.title,
			CaseType:   s.caseType,
			Status:     s.status,
			ClientID:   client.ID,
		}).Error)
	}

	list := func(query string) []models.Case {
		_, c, rec := setupEcho(http.MethodGet, "/api/cases?"+query, nil)
		asUser(c, user)
		assert.NoError(t, GetCasesHandler(c))

		var body struct {
			Data []models.Case `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body.Data
	}

	t.Run("Keyword matches title case-insensitively", func(t *testing.T) {
		cases := list("q=sMiTh")
		assert.Len(t, cases, 2)
	})

	t.Run("Keyword matches case number", func(t *testing.T) {
		cases := list("q=f-1")
		assert.Len(t, cases, 1)
		assert.Equal(t, "Jones Contract Dispute", cases[0].Title)
	})

	t.Run("Status filter is exact", func(t *testing.T) {
		cases := list("status=" + models.CaseStatusPending)
		assert.Len(t, cases, 1)
		assert.Equal(t, "Jones Contract Dispute", cases[0].Title)
	})

	t.Run("Type filter ignores casing", func(t *testing.T) {
		cases := list("case_type=Foreclosure")
		assert.Len(t, cases, 1)
		assert.Equal(t, "Smith Foreclosure", cases[0].Title)
	})
}

func TestGetCasesHandlerTenantIsolation(t *testing.T) {
	database := setupTestDB(t)
	firmA, userA := seedFirmAndUser(t, database, "FirmA")
	firmB, _ := seedFirmAndUser(t, database, "FirmB")
	clientA := seedClient(t, database, firmA.ID, "Ada", "Alpha")
	clientB := seedClient(t, database, firmB.ID, "Bob", "Beta")

	assert.NoError(t, database.Create(&models.Case{
		FirmID: firmA.ID, CaseNumber: "A-1", Title: "Firm A Matter",
		CaseType: "civil", ClientID: clientA.ID,
	}).Error)
	assert.NoError(t, database.Create(&models.Case{
		FirmID: firmB.ID, CaseNumber: "B-1", Title: "Firm B Matter",
		CaseType: "civil", ClientID: clientB.ID,
	}).Error)

	_, c, rec := setupEcho(http.MethodGet, "/api/cases", nil)
	asUser(c, userA)
	assert.NoError(t, GetCasesHandler(c))

	var body struct {
		Data       []models.Case `json:"data"`
		Pagination Pagination    `json:"pagination"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, "Firm A Matter", body.Data[0].Title)
	assert.Equal(t, int64(1), body.Pagination.Total)
}

func TestCreateCaseHandler(t *testing.T) {
	database := setupTestDB(t)
	firm, user := seedFirmAndUser(t, database, "CreateFirm")
	client := seedClient(t, database, firm.ID, "Carl", "Mendez")

	t.Run("Creates a case", func(t *testing.T) {
		payload := fmt.Sprintf(`{
			"case_number": "2026-CV-100",
			"title": "Mendez v. Acme",
			"case_type": "civil",
			"client_id": "%s",
			"filing_date": "2026-08-01"
		}`, client.ID)

		_, c, rec := setupEcho(http.MethodPost, "/api/cases", jsonBody(payload))
		asUser(c, user)
		assert.NoError(t, CreateCaseHandler(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var created models.Case
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, firm.ID, created.FirmID)
		assert.Equal(t, models.CaseStatusActive, created.Status)
		assert.NotNil(t, created.FilingDate)
	})

	t.Run("Foreclosure case includes placeholder security interest", func(t *testing.T) {
		payload := fmt.Sprintf(`{
			"case_number": "2026-FC-200",
			"title": "Bank v. Mendez",
			"case_type": "Foreclosure",
			"client_id": "%s"
		}`, client.ID)

		_, c, rec := setupEcho(http.MethodPost, "/api/cases", jsonBody(payload))
		asUser(c, user)
		assert.NoError(t, CreateCaseHandler(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var created models.Case
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

		var interests []models.SecurityInterest
		assert.NoError(t, database.Where("case_id = ?", created.ID).Find(&interests).Error)
		assert.Len(t, interests, 1)
		assert.True(t, interests[0].Amount.IsZero())
		assert.Equal(t, models.PlaceholderInterestDescription, interests[0].Description)
	})

	t.Run("Rejects missing required fields", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/cases", jsonBody(`{"title": "No number"}`))
		asUser(c, user)
		err := CreateCaseHandler(c)
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
		assert.Equal(t, http.StatusOK, rec.Code) // nothing written before the error
	})

	t.Run("Rejects client from another firm", func(t *testing.T) {
		otherFirm, _ := seedFirmAndUser(t, database, "OtherCreateFirm")
		foreignClient := seedClient(t, database, otherFirm.ID, "Frida", "Foreign")

		payload := fmt.Sprintf(`{
			"case_number": "2026-CV-300",
			"title": "Cross-firm attempt",
			"case_type": "civil",
			"client_id": "%s"
		}`, foreignClient.ID)

		_, c, _ := setupEcho(http.MethodPost, "/api/cases", jsonBody(payload))
		asUser(c, user)
		err := CreateCaseHandler(c)
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
	})
}

func TestGetCaseDetailHandler(t *testing.T) {
	database := setupTestDB(t)
	firm, user := seedFirmAndUser(t, database, "DetailFirm")
	client := seedClient(t, database, firm.ID, "Dana", "Voss")

	created, err := services.CreateCase(database, firm.ID, services.CaseInput{
		CaseNumber: "2026-FC-1",
		Title:      "Lender v. Voss",
		CaseType:   "foreclosure",
		ClientID:   client.ID,
	})
	assert.NoError(t, err)

	t.Run("Returns resolved names and security details", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/cases/"+created.ID, nil)
		c.SetParamNames("id")
		c.SetParamValues(created.ID)
		asUser(c, user)
		assert.NoError(t, GetCaseDetailHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var detail struct {
			ClientName      string `json:"client_name"`
			SecurityDetails []struct {
				LenderName   string `json:"lender_name"`
				BorrowerName string `json:"borrower_name"`
			} `json:"security_details"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
		assert.Equal(t, "Dana Voss", detail.ClientName)
		assert.Len(t, detail.SecurityDetails, 1)
		assert.Equal(t, "Dana Voss", detail.SecurityDetails[0].LenderName)
		assert.Equal(t, "Dana Voss", detail.SecurityDetails[0].BorrowerName)
	})

	t.Run("Case of another firm is a plain 404", func(t *testing.T) {
		_, foreignUser := seedFirmAndUser(t, database, "ForeignDetailFirm")

		_, c, _ := setupEcho(http.MethodGet, "/api/cases/"+created.ID, nil)
		c.SetParamNames("id")
		c.SetParamValues(created.ID)
		asUser(c, foreignUser)
		err := GetCaseDetailHandler(c)
		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, err.(*echo.HTTPError).Code)
	})
}

func TestUpdateCaseHandler(t *testing.T) {
	database := setupTestDB(t)
	firm, user := seedFirmAndUser(t, database, "UpdateFirm")
	client := seedClient(t, database, firm.ID, "Ulf", "Krag")
	opposing := seedClient(t, database, firm.ID, "Orla", "Vang")

	foreignFirm, foreignUser := seedFirmAndUser(t, database, "UpdateForeignFirm")
	foreignParty := seedClient(t, database, foreignFirm.ID, "Frodo", "Fremmed")

	kase := &models.Case{
		FirmID: firm.ID, CaseNumber: "UP-1", Title: "Krag Matter",
		CaseType: "civil", ClientID: client.ID,
	}
	assert.NoError(t, database.Create(kase).Error)

	update := func(asWhom *models.User, payload string) (error, *models.Case) {
		_, c, _ := setupEcho(http.MethodPut, "/api/cases/"+kase.ID, jsonBody(payload))
		c.SetParamNames("id")
		c.SetParamValues(kase.ID)
		asUser(c, asWhom)
		err := UpdateCaseHandler(c)

		var stored models.Case
		assert.NoError(t, database.First(&stored, "id = ?", kase.ID).Error)
		return err, &stored
	}

	t.Run("Updates with an in-firm opposing party", func(t *testing.T) {
		err, stored := update(user, fmt.Sprintf(
			`{"title": "Krag v. Vang", "case_type": "civil", "opposing_party_id": "%s"}`, opposing.ID))
		assert.NoError(t, err)
		assert.Equal(t, "Krag v. Vang", stored.Title)
		assert.Equal(t, opposing.ID, *stored.OpposingPartyID)
	})

	t.Run("Opposing party from another firm is rejected", func(t *testing.T) {
		err, stored := update(user, fmt.Sprintf(
			`{"title": "Sneaky", "case_type": "civil", "opposing_party_id": "%s"}`, foreignParty.ID))
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
		assert.NotEqual(t, "Sneaky", stored.Title)
		assert.NotEqual(t, foreignParty.ID, *stored.OpposingPartyID)
	})

	t.Run("Assignee from another firm is rejected", func(t *testing.T) {
		err, stored := update(user, fmt.Sprintf(
			`{"title": "Krag v. Vang", "case_type": "civil", "assigned_to_id": "%s"}`, foreignUser.ID))
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
		assert.Nil(t, stored.AssignedToID)
	})
}

func TestUpdateCaseStatusHandler(t *testing.T) {
	database := setupTestDB(t)
	firm, user := seedFirmAndUser(t, database, "StatusFirm")
	client := seedClient(t, database, firm.ID, "Sam", "Okafor")

	kase := &models.Case{
		FirmID: firm.ID, CaseNumber: "S-1", Title: "Status Matter",
		CaseType: "civil", ClientID: client.ID,
	}
	assert.NoError(t, database.Create(kase).Error)

	setStatus := func(status string) models.Case {
		payload := fmt.Sprintf(`{"status": "%s"}`, status)
		_, c, rec := setupEcho(http.MethodPut, "/api/cases/"+kase.ID+"/status", jsonBody(payload))
		c.SetParamNames("id")
		c.SetParamValues(kase.ID)
		asUser(c, user)
		assert.NoError(t, UpdateCaseStatusHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var updated models.Case
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		return updated
	}

	t.Run("Closing stamps the closure date", func(t *testing.T) {
		updated := setStatus(models.CaseStatusClosed)
		assert.Equal(t, models.CaseStatusClosed, updated.Status)
		assert.NotNil(t, updated.ClosedDate)
	})

	t.Run("Reopening clears the closure date", func(t *testing.T) {
		updated := setStatus(models.CaseStatusActive)
		assert.Equal(t, models.CaseStatusActive, updated.Status)
		assert.Nil(t, updated.ClosedDate)
	})
}

func TestDeleteCaseHandler(t *testing.T) {
	database := setupTestDB(t)
	firm, user := seedFirmAndUser(t, database, "DeleteFirm")
	client := seedClient(t, database, firm.ID, "Dee", "Lete")

	created, err := services.CreateCase(database, firm.ID, services.CaseInput{
		CaseNumber: "D-1",
		Title:      "Doomed Foreclosure",
		CaseType:   "foreclosure",
		ClientID:   client.ID,
	})
	assert.NoError(t, err)

	t.Run("Another firm's user cannot delete it", func(t *testing.T) {
		_, foreignUser := seedFirmAndUser(t, database, "ForeignDeleteFirm")

		_, c, _ := setupEcho(http.MethodDelete, "/api/cases/"+created.ID, nil)
		c.SetParamNames("id")
		c.SetParamValues(created.ID)
		asUser(c, foreignUser)
		err := DeleteCaseHandler(c)
		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, err.(*echo.HTTPError).Code)

		var count int64
		database.Model(&models.Case{}).Where("id = ?", created.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Owner delete removes case and children", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodDelete, "/api/cases/"+created.ID, nil)
		c.SetParamNames("id")
		c.SetParamValues(created.ID)
		asUser(c, user)
		assert.NoError(t, DeleteCaseHandler(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		var caseCount, interestCount int64
		database.Model(&models.Case{}).Where("id = ?", created.ID).Count(&caseCount)
		database.Model(&models.SecurityInterest{}).Where("case_id = ?", created.ID).Count(&interestCount)
		assert.Zero(t, caseCount)
		assert.Zero(t, interestCount)
	})
}
