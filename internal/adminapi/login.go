package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/adsarees/storefront/internal/auth"
	"github.com/adsarees/storefront/internal/domain"
	"github.com/adsarees/storefront/internal/webserver"
)

type loginPayload struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

type loginResult struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

func registerAuthRoutes() {
	webserver.PublicPOST("/admin/login", login)
	webserver.ApiGET("/session", currentSession)
	webserver.ApiPOST("/lockouts/:username/unlock", unlockUsername)
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	payload.Username = strings.TrimSpace(payload.Username)
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Username and password are required", nil)
	}

	appCtx := GetAppContext(c)
	gate := appCtx.Gate()
	ctx := c.Request().Context()
	ip := c.RealIP()

	err := gate.Login(payload.Username, payload.Password, ip)
	switch {
	case errors.Is(err, auth.ErrLocked):
		appCtx.Audit(ctx, payload.Username, ip, domain.OptLoginLocked, "login rejected, username locked")
		return fail(c, http.StatusLocked, "ACCOUNT_LOCKED",
			"Too many failed login attempts. Please try again later or contact the administrator.", nil)
	case errors.Is(err, auth.ErrInvalidCredentials):
		appCtx.Audit(ctx, payload.Username, ip, domain.OptLoginFailed, "invalid credentials")
		remaining := appCtx.Config().Admin.MaxAttempts + 1 - gate.Failures(payload.Username)
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password",
			map[string]interface{}{"remaining_attempts": remaining})
	case err != nil:
		return fail(c, http.StatusInternalServerError, "LOGIN_FAILED", "Login failed", err.Error())
	}

	cfg := appCtx.Config().Web
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	token, expires, err := auth.IssueToken(cfg.Secret, payload.Username, ttl, time.Now())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", err.Error())
	}
	appCtx.Audit(ctx, payload.Username, ip, domain.OptLogin, "login ok")

	return ok(c, loginResult{
		Success:   true,
		Message:   "Login successful",
		Token:     token,
		ExpiresAt: expires,
		Username:  payload.Username,
		Role:      auth.RoleAdmin,
	})
}

func currentSession(c echo.Context) error {
	claims := webserver.GetClaims(c)
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
	}
	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	return ok(c, map[string]interface{}{
		"authenticated": true,
		"username":      claims.Username,
		"role":          claims.Role,
		"expires_at":    expires,
	})
}

func unlockUsername(c echo.Context) error {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		return fail(c, http.StatusBadRequest, "INVALID_USERNAME", "Username is required", nil)
	}
	gate := GetAppContext(c).Gate()
	wasLocked := gate.IsLocked(username)
	gate.Unlock(username)
	audit(c, domain.OptUpdate, "unlocked username "+username)
	return ok(c, map[string]interface{}{"username": username, "was_locked": wasLocked})
}
