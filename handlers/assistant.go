package handlers

import (
	"net/http"

	"casedesk/db"
	"casedesk/middleware"
	"casedesk/services"

	"github.com/labstack/echo/v4"
)

// AssistantHandler answers a prompt with the scripted assistant
func AssistantHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	var req services.AssistantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	reply, err := services.Ask(c.Request().Context(), db.DB, *currentUser.FirmID, req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Assistant is unavailable")
	}

	return c.JSON(http.StatusOK, reply)
}
