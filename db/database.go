package db

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// logLevelFor maps the runtime environment to a GORM log level. Tests
// run silent so assertion output stays readable.
func logLevelFor(environment string) logger.LogLevel {
	switch environment {
	case "production":
		return logger.Warn
	case "test":
		return logger.Silent
	default:
		return logger.Info
	}
}

// buildDSN appends the sqlite pragmas the app relies on. WAL journaling
// and a busy timeout keep concurrent reads (the dashboard fans out
// several queries at once) from tripping over writers, and foreign keys
// are enforced so child rows cannot outlive their case.
func buildDSN(dbPath string) string {
	if strings.Contains(dbPath, "?") {
		return dbPath
	}
	return fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", dbPath)
}

// Initialize opens the sqlite database at dbPath and stores the handle
// in the package-level DB.
func Initialize(dbPath string, environment string) error {
	conn, err := gorm.Open(sqlite.Open(buildDSN(dbPath)), &gorm.Config{
		Logger: logger.Default.LogMode(logLevelFor(environment)),
	})
	if err != nil {
		return fmt.Errorf("failed to open database at %s: %w", dbPath, err)
	}

	DB = conn
	log.Printf("Database ready at %s (WAL, busy_timeout=5s)", dbPath)
	return nil
}

// AutoMigrate creates or updates the schema for the given models.
func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	if err := DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}
	return sqlDB.Close()
}
