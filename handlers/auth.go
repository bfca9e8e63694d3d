package handlers

import (
	"net/http"
	"strings"
	"time"

	"casedesk/config"
	"casedesk/db"
	"casedesk/middleware"
	"casedesk/models"
	"casedesk/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Package level variable to hold the dummy hash for timing mitigation
var globalDummyHash = "$2a$10$X7.G.t8./.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t" // Fallback

func init() {
	// Generate a real dummy hash at startup to ensure consistent timing
	hash, _ := services.HashPassword("dummy_password_for_timing_mitigation")
	if hash != "" {
		globalDummyHash = hash
	}
}

// RegisterInput is the firm + first-admin registration payload
type RegisterInput struct {
	FirmName string `json:"firm_name" validate:"required,min=2,max=120"`
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Phone    string `json:"phone"`
}

// LoginInput is the credential payload
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterHandler creates a firm and its first user (the admin) in one
// transaction, then signs the new admin in.
func RegisterHandler(c echo.Context) error {
	var input RegisterInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	hashedPassword, err := services.HashPassword(input.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process registration")
	}

	var user models.User
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		firm := models.Firm{
			Name:             strings.TrimSpace(input.FirmName),
			Email:            email,
			Phone:            strings.TrimSpace(input.Phone),
			SubscriptionTier: models.TierBasic,
			IsActive:         true,
		}
		if err := tx.Create(&firm).Error; err != nil {
			return err
		}

		// First user of a firm becomes admin
		user = models.User{
			Name:     strings.TrimSpace(input.Name),
			Email:    email,
			Password: hashedPassword,
			FirmID:   &firm.ID,
			Role:     models.RoleAdmin,
			IsActive: true,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return echo.NewHTTPError(http.StatusConflict, "An account with this email already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create account")
	}

	if err := startSession(c, &user); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, user)
}

// LoginHandler verifies credentials and starts a session
func LoginHandler(c echo.Context) error {
	var input LoginInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	if err := db.DB.Preload("Firm").Where("email = ?", email).First(&user).Error; err != nil {
		// Timing attack mitigation: always run a bcrypt comparison
		services.VerifyPassword(globalDummyHash, input.Password)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	if user.LockoutUntil != nil && time.Now().Before(*user.LockoutUntil) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Account is locked. Try again later.")
	}

	if !services.VerifyPassword(user.Password, input.Password) {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= 5 {
			lockoutTime := time.Now().Add(15 * time.Minute)
			user.LockoutUntil = &lockoutTime
			user.FailedLoginAttempts = 0
		}
		db.DB.Save(&user)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	if user.FailedLoginAttempts > 0 || user.LockoutUntil != nil {
		user.FailedLoginAttempts = 0
		user.LockoutUntil = nil
		db.DB.Save(&user)
	}

	if !user.IsActive {
		return echo.NewHTTPError(http.StatusForbidden, "Your account has been deactivated")
	}

	if err := startSession(c, &user); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// LogoutHandler ends the current session
func LogoutHandler(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		var secret string
		if cfg, ok := c.Get("config").(*config.Config); ok {
			secret = cfg.SessionSecret
		}
		if token, err := services.ParseSignedToken(secret, cookie.Value); err == nil {
			services.DeleteSession(db.DB, token)
		}
	}
	middleware.ClearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// GetCurrentUserHandler returns the authenticated user's profile
func GetCurrentUserHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return c.JSON(http.StatusOK, user)
}

// startSession creates a session row and sets the cookie
func startSession(c echo.Context, user *models.User) error {
	firmID := ""
	if user.FirmID != nil {
		firmID = *user.FirmID
	}

	session, err := services.CreateSession(db.DB, user.ID, firmID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	now := time.Now()
	db.DB.Model(user).Update("last_login_at", now)

	var isProduction bool
	var secret string
	if cfg, ok := c.Get("config").(*config.Config); ok {
		isProduction = cfg.Environment == "production"
		secret = cfg.SessionSecret
	}

	// The cookie carries the token signed with the session secret, so a
	// guessed or tampered value never reaches the sessions table.
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    services.SignSessionToken(secret, session.Token),
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}
