package handlers

import (
	"fmt"
	"net/http"
	"time"

	"casedesk/db"
	"casedesk/middleware"
	"casedesk/services"

	"github.com/labstack/echo/v4"
)

// ExportCasesHandler downloads the firm's cases as an xlsx workbook
func ExportCasesHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	buf, err := services.BuildCasesWorkbook(db.DB, *currentUser.FirmID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build report")
	}

	filename := fmt.Sprintf("cases-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
