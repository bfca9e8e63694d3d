package services

import (
	"testing"

	"casedesk/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB opens a uniquely named shared-cache in-memory database.
// Shared cache matters here: the dashboard fans out over pooled
// connections, and a plain :memory: DSN would give each connection its
// own empty database.
func openTestDB(t *testing.T) *gorm.DB {
	dbName := "mem_" + uuid.New().String()
	database, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(
		&models.Firm{},
		&models.User{},
		&models.Session{},
		&models.Party{},
		&models.Case{},
		&models.SecurityInterest{},
		&models.Document{},
		&models.Deadline{},
		&models.Financial{},
	))
	return database
}

func createTestFirm(t *testing.T, database *gorm.DB, name string) *models.Firm {
	firm := &models.Firm{Name: name, Email: name + "@firm.test"}
	require.NoError(t, database.Create(firm).Error)
	return firm
}

func createTestClient(t *testing.T, database *gorm.DB, firmID, first, last string) *models.Party {
	party := &models.Party{FirmID: firmID, FirstName: first, LastName: last, IsClient: true}
	require.NoError(t, database.Create(party).Error)
	return party
}
