package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"casedesk/config"
	"casedesk/db"
	"casedesk/models"
	"casedesk/services"

	"gorm.io/gorm"
)

// Bootstraps a firm with its first admin user. Useful for a fresh
// deployment before the registration endpoint is reachable.
func main() {
	cfg := config.Load()

	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.Firm{}, &models.User{}, &models.Session{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Firm + Admin User ===")
	fmt.Println()

	prompt := func(label string) string {
		fmt.Print(label + ": ")
		value, _ := reader.ReadString('\n')
		return strings.TrimSpace(value)
	}

	firmName := prompt("Firm name")
	name := prompt("Admin name")
	email := prompt("Admin email")
	password := prompt("Password")

	if firmName == "" || name == "" || email == "" || password == "" {
		log.Fatal("Firm name, admin name, email, and password are required")
	}
	if len(password) < 8 {
		log.Fatal("Password must be at least 8 characters long")
	}

	var existingUser models.User
	if err := db.DB.Where("email = ?", email).First(&existingUser).Error; err == nil {
		log.Fatalf("User with email %s already exists", email)
	}

	hashedPassword, err := services.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		firm := &models.Firm{
			Name:             firmName,
			Email:            email,
			SubscriptionTier: models.TierBasic,
			IsActive:         true,
		}
		if err := tx.Create(firm).Error; err != nil {
			return err
		}

		user := &models.User{
			Name:     name,
			Email:    email,
			Password: hashedPassword,
			FirmID:   &firm.ID,
			Role:     models.RoleAdmin,
			IsActive: true,
		}
		return tx.Create(user).Error
	})
	if err != nil {
		log.Fatalf("Failed to create firm and admin: %v", err)
	}

	fmt.Println()
	fmt.Printf("Created firm %q with admin %s\n", firmName, email)
}
