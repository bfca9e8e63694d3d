package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"casedesk/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGetUpcomingDeadlinesHandler(t *testing.T) {
	database := setupTestDB(t)
	firm, user := seedFirmAndUser(t, database, "UpcomingFirm")
	otherFirm, _ := seedFirmAndUser(t, database, "UpcomingOtherFirm")
	client := seedClient(t, database, firm.ID, "Ulla", "Berg")
	otherClient := seedClient(t, database, otherFirm.ID, "Oda", "Vik")

	kase := &models.Case{
		FirmID: firm.ID, CaseNumber: "U-1", Title: "Berg Matter",
		CaseType: "civil", ClientID: client.ID,
	}
	assert.NoError(t, database.Create(kase).Error)
	foreignCase := &models.Case{
		FirmID: otherFirm.ID, CaseNumber: "V-1", Title: "Vik Matter",
		CaseType: "civil", ClientID: otherClient.ID,
	}
	assert.NoError(t, database.Create(foreignCase).Error)

	now := time.Now()
	seed := []struct {
		firmID, caseID, title string
		due                   time.Time
	}{
		{firm.ID, kase.ID, "tomorrow", now.Add(24 * time.Hour)},
		{firm.ID, kase.ID, "in six days", now.Add(6 * 24 * time.Hour)},
		{firm.ID, kase.ID, "yesterday", now.Add(-24 * time.Hour)},
		{firm.ID, kase.ID, "next month", now.Add(30 * 24 * time.Hour)},
		{otherFirm.ID, foreignCase.ID, "other firm tomorrow", now.Add(24 * time.Hour)},
	}
	for _, s := range seed {
		assert.NoError(t, database.Create(&models.Deadline{
			FirmID: s.firmID, CaseID: s.caseID, Title: s.title, DueDate: s.due,
		}).Error)
	}

	_, c, rec := setupEcho(http.MethodGet, "/api/deadlines/upcoming", nil)
	asUser(c, user)
	assert.NoError(t, GetUpcomingDeadlinesHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var deadlines []models.Deadline
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deadlines))
	assert.Len(t, deadlines, 2)
	// Soonest first
	assert.Equal(t, "tomorrow", deadlines[0].Title)
	assert.Equal(t, "in six days", deadlines[1].Title)
}

func TestCreateDeadlineHandler(t *testing.T) {
	database := setupTestDB(t)
	firm, user := seedFirmAndUser(t, database, "DeadlineCreateFirm")
	client := seedClient(t, database, firm.ID, "Finn", "Moe")

	kase := &models.Case{
		FirmID: firm.ID, CaseNumber: "DC-1", Title: "Moe Matter",
		CaseType: "civil", ClientID: client.ID,
	}
	assert.NoError(t, database.Create(kase).Error)

	t.Run("Defaults priority and status", func(t *testing.T) {
		payload := `{"title": "File answer", "due_date": "2026-09-15"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/cases/"+kase.ID+"/deadlines", jsonBody(payload))
		c.SetParamNames("id")
		c.SetParamValues(kase.ID)
		asUser(c, user)
		assert.NoError(t, CreateDeadlineHandler(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var created models.Deadline
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, models.DeadlinePriorityMedium, created.Priority)
		assert.Equal(t, models.DeadlineStatusPending, created.Status)
		assert.Equal(t, firm.ID, created.FirmID)
	})

	t.Run("Rejects a malformed due date", func(t *testing.T) {
		payload := `{"title": "Bad date", "due_date": "15/09/2026"}`
		_, c, _ := setupEcho(http.MethodPost, "/api/cases/"+kase.ID+"/deadlines", jsonBody(payload))
		c.SetParamNames("id")
		c.SetParamValues(kase.ID)
		asUser(c, user)
		err := CreateDeadlineHandler(c)
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
	})

	t.Run("Case of another firm is not found", func(t *testing.T) {
		_, foreignUser := seedFirmAndUser(t, database, "DeadlineForeignFirm")
		payload := `{"title": "Sneaky", "due_date": "2026-09-15"}`
		_, c, _ := setupEcho(http.MethodPost, "/api/cases/"+kase.ID+"/deadlines", jsonBody(payload))
		c.SetParamNames("id")
		c.SetParamValues(kase.ID)
		asUser(c, foreignUser)
		err := CreateDeadlineHandler(c)
		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, err.(*echo.HTTPError).Code)
	})

	t.Run("Assignee from another firm is rejected", func(t *testing.T) {
		_, foreignUser := seedFirmAndUser(t, database, "DeadlineAssigneeFirm")
		payload := fmt.Sprintf(`{"title": "Cross-firm assignee", "due_date": "2026-09-15", "assigned_to_id": "%s"}`, foreignUser.ID)
		_, c, _ := setupEcho(http.MethodPost, "/api/cases/"+kase.ID+"/deadlines", jsonBody(payload))
		c.SetParamNames("id")
		c.SetParamValues(kase.ID)
		asUser(c, user)
		err := CreateDeadlineHandler(c)
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)

		var count int64
		database.Model(&models.Deadline{}).Where("title = ?", "Cross-firm assignee").Count(&count)
		assert.Zero(t, count)
	})
}

func TestUpdateDeadlineHandler(t *testing.T) {
	database := setupTestDB(t)
	firm, user := seedFirmAndUser(t, database, "DeadlineUpdateFirm")
	client := seedClient(t, database, firm.ID, "Tove", "Lind")
	_, foreignUser := seedFirmAndUser(t, database, "DeadlineUpdateForeignFirm")

	kase := &models.Case{
		FirmID: firm.ID, CaseNumber: "DU-1", Title: "Lind Matter",
		CaseType: "civil", ClientID: client.ID,
	}
	assert.NoError(t, database.Create(kase).Error)
	deadline := &models.Deadline{
		FirmID: firm.ID, CaseID: kase.ID, Title: "Hearing prep",
		DueDate: time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
	}
	assert.NoError(t, database.Create(deadline).Error)

	t.Run("Reassigns within the firm", func(t *testing.T) {
		payload := fmt.Sprintf(`{"title": "Hearing prep", "due_date": "2026-09-21", "assigned_to_id": "%s"}`, user.ID)
		_, c, rec := setupEcho(http.MethodPut, "/api/deadlines/"+deadline.ID, jsonBody(payload))
		c.SetParamNames("id")
		c.SetParamValues(deadline.ID)
		asUser(c, user)
		assert.NoError(t, UpdateDeadlineHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var stored models.Deadline
		assert.NoError(t, database.First(&stored, "id = ?", deadline.ID).Error)
		assert.Equal(t, user.ID, *stored.AssignedToID)
	})

	t.Run("Assignee from another firm is rejected", func(t *testing.T) {
		payload := fmt.Sprintf(`{"title": "Hearing prep", "due_date": "2026-09-21", "assigned_to_id": "%s"}`, foreignUser.ID)
		_, c, _ := setupEcho(http.MethodPut, "/api/deadlines/"+deadline.ID, jsonBody(payload))
		c.SetParamNames("id")
		c.SetParamValues(deadline.ID)
		asUser(c, user)
		err := UpdateDeadlineHandler(c)
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)

		var stored models.Deadline
		assert.NoError(t, database.First(&stored, "id = ?", deadline.ID).Error)
		assert.NotEqual(t, foreignUser.ID, *stored.AssignedToID)
	})
}
