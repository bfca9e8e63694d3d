package handlers

import (
	"net/http"
	"strings"
	"time"

	"casedesk/db"
	"casedesk/middleware"
	"casedesk/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// bindAndValidate decodes the request body into dst and runs struct
// validation. On failure it returns a 400 with per-field messages; no
// write is attempted.
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		fields := map[string]string{}
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields[strings.ToLower(fe.Field())] = fieldErrorMessage(fe)
			}
		}
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"error":  "Validation failed",
			"fields": fields,
		})
	}
	return nil
}

// parseOptionalDate parses an optional YYYY-MM-DD field, returning a
// per-field validation error on bad input
func parseOptionalDate(raw *string, field string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"error":  "Validation failed",
			"fields": map[string]string{field: "Must be a date in YYYY-MM-DD format"},
		})
	}
	return &parsed, nil
}

// firmHasParty reports whether the party exists inside the caller's
// firm. Every handler that accepts a party reference must check it
// here before writing: a bare UUID is not proof of membership.
func firmHasParty(c echo.Context, partyID string) bool {
	var count int64
	if err := middleware.FirmScoped(c, db.DB).Model(&models.Party{}).
		Where("id = ?", partyID).Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// firmHasUser is the same membership check for user references
// (assignees, recorders).
func firmHasUser(c echo.Context, userID string) bool {
	var count int64
	if err := middleware.FirmScoped(c, db.DB).Model(&models.User{}).
		Where("id = ?", userID).Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Too short (minimum " + fe.Param() + ")"
	case "max":
		return "Too long (maximum " + fe.Param() + ")"
	default:
		return "Invalid value"
	}
}
