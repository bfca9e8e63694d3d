package handlers

import (
	"net/http"
	"strings"

	"casedesk/config"
	"casedesk/db"
	"casedesk/middleware"
	"casedesk/models"
	"casedesk/services"

	"github.com/labstack/echo/v4"
)

// InviteUserInput is the payload for inviting a firm member
type InviteUserInput struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"`
}

// UpdateUserInput carries the mutable user fields
type UpdateUserInput struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

// GetUsers returns all users in the current user's firm
func GetUsers(c echo.Context) error {
	var users []models.User

	query := middleware.FirmScoped(c, db.DB)
	if err := query.Order("name ASC").Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch users")
	}

	return c.JSON(http.StatusOK, users)
}

// GetUser returns a single user by ID, firm-scoped
func GetUser(c echo.Context) error {
	id := c.Param("id")
	var user models.User

	query := middleware.FirmScoped(c, db.DB)
	if err := query.First(&user, "id = ?", id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	return c.JSON(http.StatusOK, user)
}

// InviteUser creates a new firm member and emails them their temporary
// credentials. Admin only (enforced by route middleware).
func InviteUser(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)
	currentFirm := middleware.GetCurrentFirm(c)

	var input InviteUserInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	role := input.Role
	if role == "" {
		role = models.RoleStaff
	}
	if !models.IsValidUserRole(role) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid role. Must be one of: admin, lawyer, staff")
	}

	hashedPassword, err := services.HashPassword(input.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := models.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: hashedPassword,
		FirmID:   currentUser.FirmID,
		Role:     role,
		IsActive: true,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return echo.NewHTTPError(http.StatusConflict, "A user with this email already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}

	if cfg, ok := c.Get("config").(*config.Config); ok && currentFirm != nil {
		email := services.BuildInvitationEmail(user.Email, user.Name, currentFirm.Name, input.Password, cfg.AppURL)
		services.SendEmailAsync(cfg, email)
	}

	return c.JSON(http.StatusCreated, user)
}

// UpdateUser updates a firm member's profile. Admins can update anyone
// in the firm; others only themselves.
func UpdateUser(c echo.Context) error {
	id := c.Param("id")

	if !middleware.CanModifyUser(c, id) {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}

	var user models.User
	query := middleware.FirmScoped(c, db.DB)
	if err := query.First(&user, "id = ?", id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	var input UpdateUserInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	currentUser := middleware.GetCurrentUser(c)

	updates := map[string]interface{}{"name": strings.TrimSpace(input.Name)}

	// Role and active-flag changes are admin-only
	if currentUser.Role == models.RoleAdmin {
		if input.Role != "" {
			if !models.IsValidUserRole(input.Role) {
				return echo.NewHTTPError(http.StatusBadRequest, "Invalid role")
			}
			updates["role"] = input.Role
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}
	}

	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update user")
	}

	// Deactivation kills the user's sessions
	if active, ok := updates["is_active"].(bool); ok && !active {
		services.DeleteAllUserSessions(db.DB, user.ID)
	}

	return c.JSON(http.StatusOK, user)
}
