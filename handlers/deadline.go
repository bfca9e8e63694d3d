package handlers

import (
	"net/http"
	"time"

	"casedesk/db"
	"casedesk/middleware"
	"casedesk/models"
	"casedesk/services"

	"github.com/labstack/echo/v4"
)

// DeadlineInput carries the deadline fields
type DeadlineInput struct {
	Title        string  `json:"title" validate:"required,max=200"`
	Description  *string `json:"description"`
	DueDate      string  `json:"due_date" validate:"required"` // YYYY-MM-DD
	Priority     string  `json:"priority" validate:"max=20"`
	Status       string  `json:"status" validate:"max=20"`
	AssignedToID *string `json:"assigned_to_id" validate:"omitempty,uuid"`
	ReminderDate *string `json:"reminder_date"` // YYYY-MM-DD
}

// GetCaseDeadlinesHandler lists a case's deadlines ordered by due date
func GetCaseDeadlinesHandler(c echo.Context) error {
	caseID := c.Param("id")

	var count int64
	if err := middleware.FirmScoped(c, db.DB).Model(&models.Case{}).Where("id = ?", caseID).Count(&count).Error; err != nil || count == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}

	var deadlines []models.Deadline
	if err := middleware.FirmScoped(c, db.DB).
		Preload("AssignedTo").
		Where("case_id = ?", caseID).
		Order("due_date ASC").
		Find(&deadlines).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch deadlines")
	}

	return c.JSON(http.StatusOK, deadlines)
}

// GetUpcomingDeadlinesHandler lists the firm's deadlines due in the
// next seven days, soonest first
func GetUpcomingDeadlinesHandler(c echo.Context) error {
	now := time.Now()

	var deadlines []models.Deadline
	if err := middleware.FirmScoped(c, db.DB).
		Preload("Case").
		Preload("AssignedTo").
		Where("due_date >= ? AND due_date <= ?", now, now.Add(services.UpcomingDeadlineWindow)).
		Order("due_date ASC").
		Find(&deadlines).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch deadlines")
	}

	return c.JSON(http.StatusOK, deadlines)
}

// CreateDeadlineHandler adds a deadline to a case
func CreateDeadlineHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)
	caseID := c.Param("id")

	var count int64
	if err := middleware.FirmScoped(c, db.DB).Model(&models.Case{}).Where("id = ?", caseID).Count(&count).Error; err != nil || count == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}

	var input DeadlineInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	dueDate, err := time.Parse("2006-01-02", input.DueDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"error":  "Validation failed",
			"fields": map[string]string{"due_date": "Must be a date in YYYY-MM-DD format"},
		})
	}

	reminderDate, httpErr := parseOptionalDate(input.ReminderDate, "reminder_date")
	if httpErr != nil {
		return httpErr
	}

	if input.AssignedToID != nil && !firmHasUser(c, *input.AssignedToID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Referenced user not found")
	}

	priority := input.Priority
	if priority == "" {
		priority = models.DeadlinePriorityMedium
	}
	status := input.Status
	if status == "" {
		status = models.DeadlineStatusPending
	}

	deadline := models.Deadline{
		FirmID:       *currentUser.FirmID,
		CaseID:       caseID,
		Title:        input.Title,
		Description:  input.Description,
		DueDate:      dueDate,
		Priority:     priority,
		Status:       status,
		AssignedToID: input.AssignedToID,
		ReminderDate: reminderDate,
	}
	if err := db.DB.Create(&deadline).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create deadline")
	}

	return c.JSON(http.StatusCreated, deadline)
}

// UpdateDeadlineHandler updates a deadline, firm-scoped
func UpdateDeadlineHandler(c echo.Context) error {
	var deadline models.Deadline
	if err := middleware.FirmScoped(c, db.DB).First(&deadline, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Deadline not found")
	}

	var input DeadlineInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	dueDate, err := time.Parse("2006-01-02", input.DueDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"error":  "Validation failed",
			"fields": map[string]string{"due_date": "Must be a date in YYYY-MM-DD format"},
		})
	}

	reminderDate, httpErr := parseOptionalDate(input.ReminderDate, "reminder_date")
	if httpErr != nil {
		return httpErr
	}

	if input.AssignedToID != nil && !firmHasUser(c, *input.AssignedToID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Referenced user not found")
	}

	updates := map[string]interface{}{
		"title":          input.Title,
		"description":    input.Description,
		"due_date":       dueDate,
		"assigned_to_id": input.AssignedToID,
		"reminder_date":  reminderDate,
	}
	if input.Priority != "" {
		updates["priority"] = input.Priority
	}
	if input.Status != "" {
		updates["status"] = input.Status
	}

	if err := db.DB.Model(&deadline).Updates(updates).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update deadline")
	}

	return c.JSON(http.StatusOK, deadline)
}

// DeleteDeadlineHandler removes a deadline, firm-scoped
func DeleteDeadlineHandler(c echo.Context) error {
	var deadline models.Deadline
	if err := middleware.FirmScoped(c, db.DB).First(&deadline, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Deadline not found")
	}

	if err := db.DB.Delete(&deadline).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete deadline")
	}
	return c.NoContent(http.StatusNoContent)
}
