package http

import (
	"errors"
	"strings"

	"auth-service/internal/auth/config"
	"auth-service/internal/auth/usecase"
	"auth-service/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// AuthHTTPHandler handles HTTP requests for authentication
type AuthHTTPHandler struct {
	usecase        usecase.AuthUsecaseInterface
	cookieName     string
	cookiePath     string
	cookieDomain   string
	cookieMaxAge   int
	cookieSecure   bool
	cookieHTTPOnly bool
	cookieSameSite string
	isProduction   bool
	log            logger.Logger
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(uc usecase.AuthUsecaseInterface, cfg *config.Config) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		usecase:        uc,
		cookieName:     cfg.CookieName,
		cookiePath:     cfg.CookiePath,
		cookieDomain:   cfg.CookieDomain,
		cookieMaxAge:   int(cfg.SessionTTL.Seconds()),
		cookieSecure:   cfg.CookieSecureEnabled(),
		cookieHTTPOnly: cfg.CookieHTTPOnly,
		cookieSameSite: cfg.CookieSameSite,
		isProduction:   cfg.IsProduction(),
		log:            logger.WithComponent("auth_http"),
	}
}

// SetupAuthRoutes sets up the authentication routes. Session management
// endpoints are only registered in session mode; token mode has no
// server-side session state to expose.
func (h *AuthHTTPHandler) SetupAuthRoutes(router fiber.Router) {
	auth := router.Group("/auth")
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)
	auth.Get("/profile", h.GetProfile)

	if h.usecase.Mode() == config.ModeSession {
		auth.Get("/sessions", h.ListSessions)
		auth.Get("/sessions/stats", h.SessionStats)
		auth.Post("/logout-all", h.LogoutAll)
	}
}

// Login handles user login. The success shape depends on the configured mode:
// session mode sets the session cookie, token mode returns the token in the
// body and sets nothing.
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.IPAddress = c.IP()
	req.UserAgent = c.Get("User-Agent")

	result, err := h.usecase.Login(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrMissingCredentials):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Username and password are required",
			})
		case errors.Is(err, usecase.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid credentials",
			})
		default:
			return h.internalError(c, err)
		}
	}

	body := fiber.Map{
		"message": "Login successful",
		"user":    result.User,
	}

	if result.SessionID != "" {
		h.setSessionCookie(c, result.SessionID)
	}
	if result.Token != "" {
		body["token"] = result.Token
	}

	return c.JSON(body)
}

// Logout handles user logout. It always reports success: session-mode logout
// is idempotent, and token-mode logout is a client-side concern.
func (h *AuthHTTPHandler) Logout(c *fiber.Ctx) error {
	if err := h.usecase.Logout(c.Context(), h.extractCredential(c)); err != nil {
		return h.internalError(c, err)
	}

	if h.usecase.Mode() == config.ModeSession {
		h.clearSessionCookie(c)
	}

	return c.JSON(fiber.Map{
		"message": "Logout successful",
	})
}

// GetProfile returns the authenticated user's profile. In token mode an
// expired token may be transparently replaced; the response then carries the
// new token and a tokenRefreshed flag.
func (h *AuthHTTPHandler) GetProfile(c *fiber.Ctx) error {
	result, err := h.usecase.GetProfile(c.Context(), h.extractCredential(c))
	if err != nil {
		return h.authError(c, err)
	}

	body := fiber.Map{
		"user": result.User,
	}
	if result.Refreshed {
		body["token"] = result.Token
		body["tokenRefreshed"] = true
	}
	return c.JSON(body)
}

// ListSessions returns the caller's live sessions.
func (h *AuthHTTPHandler) ListSessions(c *fiber.Ctx) error {
	sessions, err := h.usecase.ListSessions(c.Context(), h.extractCredential(c))
	if err != nil {
		return h.authError(c, err)
	}

	return c.JSON(fiber.Map{
		"sessions": sessions,
	})
}

// LogoutAll destroys every session of the caller ("log out everywhere").
func (h *AuthHTTPHandler) LogoutAll(c *fiber.Ctx) error {
	count, err := h.usecase.LogoutAll(c.Context(), h.extractCredential(c))
	if err != nil {
		return h.authError(c, err)
	}

	h.clearSessionCookie(c)
	return c.JSON(fiber.Map{
		"message": "Logged out everywhere",
		"count":   count,
	})
}

// SessionStats returns a snapshot of the session store.
func (h *AuthHTTPHandler) SessionStats(c *fiber.Ctx) error {
	return c.JSON(h.usecase.SessionStats(c.Context()))
}

// extractCredential pulls the mode's credential from the request: the session
// cookie in session mode, the Authorization header in token mode. A "Bearer "
// prefix on the header is stripped; a raw token is also accepted.
func (h *AuthHTTPHandler) extractCredential(c *fiber.Ctx) string {
	if h.usecase.Mode() == config.ModeSession {
		return c.Cookies(h.cookieName)
	}

	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return authHeader
}

// authError translates flow-controller failures to their fixed external
// shapes. No internal error detail crosses this boundary for domain failures.
func (h *AuthHTTPHandler) authError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrNoSessionPresented):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No session found"})
	case errors.Is(err, usecase.ErrNoTokenPresented):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No token provided"})
	case errors.Is(err, usecase.ErrInvalidOrExpiredSession):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired session"})
	case errors.Is(err, usecase.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	case errors.Is(err, usecase.ErrTokenExpiredRefreshFailed):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token expired"})
	case errors.Is(err, usecase.ErrSessionModeOnly):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		return h.internalError(c, err)
	}
}

// internalError is the unclassified 500. The cause message is exposed only
// outside production.
func (h *AuthHTTPHandler) internalError(c *fiber.Ctx, err error) error {
	h.log.WithFields(map[string]interface{}{"path": c.Path()}).Errorf("Unhandled error: %v", err)

	body := fiber.Map{
		"error": "Internal server error",
	}
	if !h.isProduction {
		body["message"] = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(body)
}

func (h *AuthHTTPHandler) setSessionCookie(c *fiber.Ctx, sessionID string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    sessionID,
		Path:     h.cookiePath,
		Domain:   h.cookieDomain,
		MaxAge:   h.cookieMaxAge,
		Secure:   h.cookieSecure,
		HTTPOnly: h.cookieHTTPOnly,
		SameSite: h.cookieSameSite,
	})
}

func (h *AuthHTTPHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     h.cookiePath,
		Domain:   h.cookieDomain,
		MaxAge:   -1,
		Secure:   h.cookieSecure,
		HTTPOnly: h.cookieHTTPOnly,
		SameSite: h.cookieSameSite,
	})
}
