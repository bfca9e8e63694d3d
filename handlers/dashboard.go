package handlers

import (
	"net/http"

	"casedesk/db"
	"casedesk/middleware"
	"casedesk/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandler returns the firm's dashboard aggregates
func DashboardHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	stats, err := services.GetDashboardStats(db.DB, *currentUser.FirmID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute dashboard")
	}

	return c.JSON(http.StatusOK, stats)
}
