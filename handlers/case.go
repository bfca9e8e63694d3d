package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"casedesk/db"
	"casedesk/middleware"
	"casedesk/models"
	"casedesk/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CreateCaseInput is the payload for opening a case
type CreateCaseInput struct {
	CaseNumber      string  `json:"case_number" validate:"required,max=60"`
	Title           string  `json:"title" validate:"required,max=200"`
	CaseType        string  `json:"case_type" validate:"required,max=60"`
	Status          string  `json:"status" validate:"max=40"`
	Description     string  `json:"description"`
	ClientID        string  `json:"client_id" validate:"required,uuid"`
	OpposingPartyID *string `json:"opposing_party_id" validate:"omitempty,uuid"`
	AssignedToID    *string `json:"assigned_to_id" validate:"omitempty,uuid"`
	CourtName       *string `json:"court_name"`
	CourtCaseNumber *string `json:"court_case_number"`
	FilingDate      *string `json:"filing_date"` // YYYY-MM-DD
}

// UpdateCaseInput carries the mutable case fields
type UpdateCaseInput struct {
	Title           string  `json:"title" validate:"required,max=200"`
	CaseType        string  `json:"case_type" validate:"required,max=60"`
	Description     string  `json:"description"`
	OpposingPartyID *string `json:"opposing_party_id" validate:"omitempty,uuid"`
	AssignedToID    *string `json:"assigned_to_id" validate:"omitempty,uuid"`
	CourtName       *string `json:"court_name"`
	CourtCaseNumber *string `json:"court_case_number"`
}

// UpdateCaseStatusInput carries a status transition
type UpdateCaseStatusInput struct {
	Status string `json:"status" validate:"required,max=40"`
}

// caseDetailResponse is the detail view: the case plus resolved display
// names, and security interests for foreclosure cases.
type caseDetailResponse struct {
	models.Case
	ClientName        string                     `json:"client_name"`
	OpposingPartyName string                     `json:"opposing_party_name,omitempty"`
	AssignedToName    string                     `json:"assigned_to_name,omitempty"`
	SecurityDetails   []securityInterestResponse `json:"security_details,omitempty"`
}

// GetCasesHandler returns the firm's cases with filtering and
// pagination. Search matches title and case number case-insensitively;
// status and case_type are equality filters. The total count is
// computed under the same predicate as the returned page.
func GetCasesHandler(c echo.Context) error {
	query := middleware.FirmScoped(c, db.DB).Model(&models.Case{})

	if keyword := strings.TrimSpace(c.QueryParam("q")); keyword != "" {
		pattern := "%" + strings.ToLower(keyword) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(case_number) LIKE ?", pattern, pattern)
	}
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if caseType := c.QueryParam("case_type"); caseType != "" {
		query = query.Where("LOWER(case_type) = ?", strings.ToLower(caseType))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count cases")
	}

	page := pageParam(c)
	var cases []models.Case
	if err := query.
		Preload("Client").
		Preload("AssignedTo").
		Order("created_at DESC").
		Limit(PageSize).
		Offset((page - 1) * PageSize).
		Find(&cases).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch cases")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":       cases,
		"pagination": paginationMeta(page, total),
	})
}

// CreateCaseHandler opens a new case. Foreclosure-typed cases get their
// placeholder security interest in the same transaction.
func CreateCaseHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	var input CreateCaseInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	var filingDate *time.Time
	if input.FilingDate != nil && *input.FilingDate != "" {
		parsed, err := time.Parse("2006-01-02", *input.FilingDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
				"error":  "Validation failed",
				"fields": map[string]string{"filing_date": "Must be a date in YYYY-MM-DD format"},
			})
		}
		filingDate = &parsed
	}

	created, err := services.CreateCase(db.DB, *currentUser.FirmID, services.CaseInput{
		CaseNumber:      strings.TrimSpace(input.CaseNumber),
		Title:           strings.TrimSpace(input.Title),
		CaseType:        strings.TrimSpace(input.CaseType),
		Status:          input.Status,
		Description:     input.Description,
		ClientID:        input.ClientID,
		OpposingPartyID: input.OpposingPartyID,
		AssignedToID:    input.AssignedToID,
		CourtName:       input.CourtName,
		CourtCaseNumber: input.CourtCaseNumber,
		FilingDate:      filingDate,
	})
	if err != nil {
		if errors.Is(err, services.ErrPartyNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "Referenced party not found")
		}
		if errors.Is(err, services.ErrAssigneeNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "Referenced user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create case")
	}

	return c.JSON(http.StatusCreated, created)
}

// GetCaseDetailHandler returns a case with resolved party and assignee
// names. For foreclosure cases the security interests are included with
// lender/borrower names resolved. A miss under the caller's firm is a
// plain not-found - no partial state leaks.
func GetCaseDetailHandler(c echo.Context) error {
	var caseRecord models.Case
	query := middleware.FirmScoped(c, db.DB)
	if err := query.
		Preload("Client").
		Preload("OpposingParty").
		Preload("AssignedTo").
		First(&caseRecord, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}

	detail := caseDetailResponse{Case: caseRecord, ClientName: services.UnknownClientName}
	if caseRecord.Client != nil {
		detail.ClientName = caseRecord.Client.DisplayNameOr(services.UnknownClientName)
	}
	if caseRecord.OpposingParty != nil {
		detail.OpposingPartyName = caseRecord.OpposingParty.DisplayNameOr("Unknown")
	}
	if caseRecord.AssignedTo != nil {
		detail.AssignedToName = caseRecord.AssignedTo.Name
	}

	if caseRecord.IsForeclosure() {
		var interests []models.SecurityInterest
		if err := middleware.FirmScoped(c, db.DB).
			Preload("Lender").
			Preload("Borrower").
			Where("case_id = ?", caseRecord.ID).
			Order("created_at ASC").
			Find(&interests).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch security interests")
		}
		detail.SecurityDetails = make([]securityInterestResponse, len(interests))
		for i := range interests {
			detail.SecurityDetails[i] = newSecurityInterestResponse(interests[i])
		}
	}

	return c.JSON(http.StatusOK, detail)
}

// UpdateCaseHandler updates a case's mutable fields, firm-scoped
func UpdateCaseHandler(c echo.Context) error {
	var caseRecord models.Case
	query := middleware.FirmScoped(c, db.DB)
	if err := query.First(&caseRecord, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}

	var input UpdateCaseInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	if input.OpposingPartyID != nil && !firmHasParty(c, *input.OpposingPartyID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Referenced party not found")
	}
	if input.AssignedToID != nil && !firmHasUser(c, *input.AssignedToID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Referenced user not found")
	}

	updates := map[string]interface{}{
		"title":             strings.TrimSpace(input.Title),
		"case_type":         strings.TrimSpace(input.CaseType),
		"description":       input.Description,
		"opposing_party_id": input.OpposingPartyID,
		"assigned_to_id":    input.AssignedToID,
		"court_name":        input.CourtName,
		"court_case_number": input.CourtCaseNumber,
	}
	if err := db.DB.Model(&caseRecord).Updates(updates).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update case")
	}

	return c.JSON(http.StatusOK, caseRecord)
}

// UpdateCaseStatusHandler transitions a case's status. Closing stamps
// the closure date.
func UpdateCaseStatusHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	var input UpdateCaseStatusInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	updated, err := services.UpdateCaseStatus(db.DB, *currentUser.FirmID, c.Param("id"), input.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Case not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update case status")
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteCaseHandler removes a case and all of its child records
func DeleteCaseHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	if err := services.DeleteCase(db.DB, *currentUser.FirmID, c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Case not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete case")
	}

	return c.NoContent(http.StatusNoContent)
}
