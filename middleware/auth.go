package middleware

import (
	"casedesk/config"
	"casedesk/db"
	"casedesk/models"
	"casedesk/services"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "casedesk_session"
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
	// ContextKeyFirm is the context key for the user's firm
	ContextKeyFirm = "firm"
	// ContextKeySession is the context key for the session
	ContextKeySession = "session"
)

// RequireAuth is middleware that requires a valid session. API requests
// get a 401 JSON response; page requests are redirected to the login view.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil {
				return unauthenticated(c)
			}

			token, err := services.ParseSignedToken(sessionSecret(c), cookie.Value)
			if err != nil {
				// Forged or tampered cookie, clear it
				ClearSessionCookie(c)
				return unauthenticated(c)
			}

			session, err := services.ValidateSession(db.DB, token)
			if err != nil {
				// Invalid or expired session, clear cookie
				ClearSessionCookie(c)
				return unauthenticated(c)
			}

			if !session.User.IsActive {
				ClearSessionCookie(c)
				return unauthenticated(c)
			}

			// Store user, firm, and session in context
			c.Set(ContextKeyUser, &session.User)
			if session.Firm != nil {
				c.Set(ContextKeyFirm, session.Firm)
			}
			c.Set(ContextKeySession, session)

			return next(c)
		}
	}
}

// RedirectIfAuthenticated sends already-signed-in users visiting the
// login or registration views to the dashboard.
func RedirectIfAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil {
				return next(c)
			}
			token, err := services.ParseSignedToken(sessionSecret(c), cookie.Value)
			if err != nil {
				return next(c)
			}
			if _, err := services.ValidateSession(db.DB, token); err != nil {
				return next(c)
			}
			return c.Redirect(http.StatusSeeOther, "/dashboard")
		}
	}
}

// RequireFirm ensures the user has a firm assigned
func RequireFirm() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetCurrentUser(c)

			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			if !user.HasFirm() {
				if isAPIRequest(c) {
					return echo.NewHTTPError(http.StatusForbidden, "No firm membership")
				}
				// Registration always assigns a firm, so a firm-less
				// browser session is stale. Drop it and start over.
				ClearSessionCookie(c)
				return c.Redirect(http.StatusSeeOther, "/login")
			}

			return next(c)
		}
	}
}

// RequireRole is middleware that requires specific roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetCurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetCurrentFirm retrieves the current firm from context
func GetCurrentFirm(c echo.Context) *models.Firm {
	firm, ok := c.Get(ContextKeyFirm).(*models.Firm)
	if !ok {
		return nil
	}
	return firm
}

// FirmScoped returns a query restricted to rows belonging to the current
// user's firm. This is the tenant gate: every read and write against a
// firm-scoped table goes through it. A caller with no firm context gets
// a query that matches nothing, never rows from another firm.
func FirmScoped(c echo.Context, database *gorm.DB) *gorm.DB {
	currentUser := GetCurrentUser(c)
	if currentUser == nil || !currentUser.HasFirm() {
		// Matches nothing
		return database.Where("1 = 0")
	}

	return database.Where("firm_id = ?", *currentUser.FirmID)
}

// BelongsToFirm is the row policy predicate, mirrored here so it can be
// tested in isolation: a user may touch a row only when the row's firm
// matches the user's firm membership.
func BelongsToFirm(user *models.User, rowFirmID string) bool {
	if user == nil || !user.HasFirm() {
		return false
	}
	return *user.FirmID == rowFirmID
}

// CanModifyUser checks if the current user can modify another user's data
func CanModifyUser(c echo.Context, targetUserID string) bool {
	currentUser := GetCurrentUser(c)
	if currentUser == nil {
		return false
	}

	// Admins can modify users in their firm; everyone can modify themselves
	if currentUser.Role == models.RoleAdmin {
		return true
	}
	return currentUser.ID == targetUserID
}

// ClearSessionCookie clears the session cookie
// sessionSecret pulls the session secret out of the injected config.
func sessionSecret(c echo.Context) string {
	if cfg, ok := c.Get("config").(*config.Config); ok {
		return cfg.SessionSecret
	}
	return ""
}

func ClearSessionCookie(c echo.Context) {
	var isProduction bool
	if cfg, ok := c.Get("config").(*config.Config); ok {
		isProduction = cfg.Environment == "production"
	}

	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	}
	c.SetCookie(cookie)
}

func unauthenticated(c echo.Context) error {
	if isAPIRequest(c) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

func isAPIRequest(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}
