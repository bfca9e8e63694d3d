package handlers

import (
	"errors"
	"net/http"
	"strings"

	"casedesk/db"
	"casedesk/middleware"
	"casedesk/models"
	"casedesk/services"

	"github.com/labstack/echo/v4"
)

// PartyInput carries party fields. The naming invariant (first+last or
// organization) is checked after binding since it spans fields.
type PartyInput struct {
	FirstName        string `json:"first_name" validate:"max=120"`
	LastName         string `json:"last_name" validate:"max=120"`
	OrganizationName string `json:"organization_name" validate:"max=200"`
	Email            string `json:"email" validate:"omitempty,email"`
	Phone            string `json:"phone" validate:"max=40"`
	Address          string `json:"address" validate:"max=300"`
	IsClient         bool   `json:"is_client"`
	Notes            string `json:"notes"`
}

func (in *PartyInput) hasName() bool {
	if strings.TrimSpace(in.OrganizationName) != "" {
		return true
	}
	return strings.TrimSpace(in.FirstName) != "" && strings.TrimSpace(in.LastName) != ""
}

// GetPartiesHandler lists the firm's parties with search and filtering.
// Search matches name fields case-insensitively; is_client filters the
// client flag. Fixed page size, 1-indexed.
func GetPartiesHandler(c echo.Context) error {
	query := middleware.FirmScoped(c, db.DB).Model(&models.Party{})

	if keyword := strings.TrimSpace(c.QueryParam("q")); keyword != "" {
		pattern := "%" + strings.ToLower(keyword) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(organization_name) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if isClient := c.QueryParam("is_client"); isClient != "" {
		query = query.Where("is_client = ?", isClient == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count parties")
	}

	page := pageParam(c)
	var parties []models.Party
	if err := query.Order("created_at DESC").
		Limit(PageSize).
		Offset((page - 1) * PageSize).
		Find(&parties).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch parties")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":       parties,
		"pagination": paginationMeta(page, total),
	})
}

// GetPartyHandler returns a single party, firm-scoped
func GetPartyHandler(c echo.Context) error {
	var party models.Party
	query := middleware.FirmScoped(c, db.DB)
	if err := query.First(&party, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Party not found")
	}
	return c.JSON(http.StatusOK, party)
}

// CreatePartyHandler creates a party in the current firm
func CreatePartyHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	var input PartyInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}
	if !input.hasName() {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"error":  "Validation failed",
			"fields": map[string]string{"name": "Provide first and last name, or an organization name"},
		})
	}

	party := models.Party{
		FirmID:           *currentUser.FirmID,
		FirstName:        strings.TrimSpace(input.FirstName),
		LastName:         strings.TrimSpace(input.LastName),
		OrganizationName: strings.TrimSpace(input.OrganizationName),
		Email:            strings.TrimSpace(input.Email),
		Phone:            strings.TrimSpace(input.Phone),
		Address:          strings.TrimSpace(input.Address),
		IsClient:         input.IsClient,
		Notes:            input.Notes,
	}
	if err := db.DB.Create(&party).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create party")
	}

	return c.JSON(http.StatusCreated, party)
}

// UpdatePartyHandler updates a party, firm-scoped
func UpdatePartyHandler(c echo.Context) error {
	var party models.Party
	query := middleware.FirmScoped(c, db.DB)
	if err := query.First(&party, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Party not found")
	}

	var input PartyInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}
	if !input.hasName() {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"error":  "Validation failed",
			"fields": map[string]string{"name": "Provide first and last name, or an organization name"},
		})
	}

	updates := map[string]interface{}{
		"first_name":        strings.TrimSpace(input.FirstName),
		"last_name":         strings.TrimSpace(input.LastName),
		"organization_name": strings.TrimSpace(input.OrganizationName),
		"email":             strings.TrimSpace(input.Email),
		"phone":             strings.TrimSpace(input.Phone),
		"address":           strings.TrimSpace(input.Address),
		"is_client":         input.IsClient,
		"notes":             input.Notes,
	}
	if err := db.DB.Model(&party).Updates(updates).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update party")
	}

	return c.JSON(http.StatusOK, party)
}

// DeletePartyHandler deletes a party unless cases still reference it
func DeletePartyHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	err := services.DeleteParty(db.DB, *currentUser.FirmID, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrPartyInUse) {
			return echo.NewHTTPError(http.StatusConflict, "Party is referenced by existing cases")
		}
		return echo.NewHTTPError(http.StatusNotFound, "Party not found")
	}

	return c.NoContent(http.StatusNoContent)
}
