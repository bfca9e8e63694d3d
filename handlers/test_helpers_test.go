package handlers

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"casedesk/config"
	"casedesk/db"
	"casedesk/middleware"
	"casedesk/models"
	"casedesk/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing
	// shared cache for concurrent queries
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	// Initialize Storage for tests if not already set
	if services.Storage == nil {
		services.Storage = services.NewLocalStorage("tmp/test_uploads")
	}

	err = testDB.AutoMigrate(
		&models.Firm{},
		&models.User{},
		&models.Session{},
		&models.Party{},
		&models.Case{},
		&models.SecurityInterest{},
		&models.Document{},
		&models.Deadline{},
		&models.Financial{},
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:   "test",
		EmailTestMode: true,
	})

	return e, c, rec
}

// asUser puts a user (and their firm, if loaded) into the request
// context the way the auth middleware does after session validation.
func asUser(c echo.Context, user *models.User) {
	c.Set(middleware.ContextKeyUser, user)
	if user.Firm != nil {
		c.Set(middleware.ContextKeyFirm, user.Firm)
	}
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func stringToPtr(s string) *string {
	return &s
}
