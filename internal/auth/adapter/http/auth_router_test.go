package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authhttp "auth-service/internal/auth/adapter/http"
	"auth-service/internal/auth/adapter/persistence/memory"
	"auth-service/internal/auth/adapter/security"
	"auth-service/internal/auth/config"
	"auth-service/internal/auth/domain/repository"
	"auth-service/internal/auth/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret"

func testConfig(mode string) *config.Config {
	return &config.Config{
		Mode:           mode,
		Environment:    "development",
		JWTSecretKey:   testSecret,
		JWTIssuer:      "auth-service-test",
		AccessTokenTTL: time.Hour,
		SessionTTL:     24 * time.Hour,
		CookieName:     "sessionId",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		UserStore:      config.UserStoreMemory,
	}
}

// newTestApp wires a fiber app against real in-memory adapters so the tests
// exercise the full request path.
func newTestApp(t *testing.T, mode string) *fiber.App {
	t.Helper()
	cfg := testConfig(mode)

	users, err := memory.NewUserRepository()
	require.NoError(t, err)
	store := memory.NewSessionStore(cfg.SessionTTL)
	tokenSvc, err := security.NewJWTokenService(cfg)
	require.NoError(t, err)

	uc := usecase.NewAuthUsecase(cfg, users, store, tokenSvc)
	handler := authhttp.NewAuthHTTPHandler(uc, cfg)

	app := fiber.New()
	handler.SetupAuthRoutes(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *nethttp.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(nethttp.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *nethttp.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func sessionCookie(t *testing.T, resp *nethttp.Response) *nethttp.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "sessionId" {
			return c
		}
	}
	return nil
}

func loginSession(t *testing.T, app *fiber.App, username, password string) *nethttp.Cookie {
	t.Helper()
	resp := postJSON(t, app, "/auth/login", fiber.Map{"username": username, "password": password})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	cookie := sessionCookie(t, resp)
	require.NotNil(t, cookie)
	return cookie
}

func TestSessionLogin_SetsCookie(t *testing.T) {
	app := newTestApp(t, config.ModeSession)

	resp := postJSON(t, app, "/auth/login", fiber.Map{"username": "alice", "password": "alice123"})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Login successful", body["message"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, float64(1), user["id"])
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, body, "token")

	cookie := sessionCookie(t, resp)
	require.NotNil(t, cookie)
	assert.True(t, strings.HasPrefix(cookie.Value, "sess_"))
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, int((24 * time.Hour).Seconds()), cookie.MaxAge)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	app := newTestApp(t, config.ModeSession)

	resp := postJSON(t, app, "/auth/login", fiber.Map{"username": "alice", "password": "wrong"})
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Invalid credentials", body["error"])
	assert.Nil(t, sessionCookie(t, resp))
}

func TestLogin_MissingFields(t *testing.T) {
	app := newTestApp(t, config.ModeSession)

	cases := []fiber.Map{
		{"username": "alice"},
		{"password": "alice123"},
		{},
	}

	for _, payload := range cases {
		resp := postJSON(t, app, "/auth/login", payload)
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Username and password are required", body["error"])
	}
}

func TestLogin_MalformedBody(t *testing.T) {
	app := newTestApp(t, config.ModeSession)

	req := httptest.NewRequest(nethttp.MethodPost, "/auth/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestSessionProfile_RoundTrip(t *testing.T) {
	app := newTestApp(t, config.ModeSession)
	cookie := loginSession(t, app, "bob", "bob456")

	req := httptest.NewRequest(nethttp.MethodGet, "/auth/profile", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, float64(2), user["id"])
	assert.Equal(t, "bob", user["username"])
}

func TestSessionProfile_NoCookie(t *testing.T) {
	app := newTestApp(t, config.ModeSession)

	req := httptest.NewRequest(nethttp.MethodGet, "/auth/profile", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "No session found", body["error"])
}

func TestSessionProfile_UnknownCookie(t *testing.T) {
	app := newTestApp(t, config.ModeSession)

	req := httptest.NewRequest(nethttp.MethodGet, "/auth/profile", nil)
	req.AddCookie(&nethttp.Cookie{Name: "sessionId", Value: "sess_forged_id"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Invalid or expired session", body["error"])
}

func TestSessionLogout_InvalidatesSession(t *testing.T) {
	app := newTestApp(t, config.ModeSession)
	cookie := loginSession(t, app, "alice", "alice123")

	req := httptest.NewRequest(nethttp.MethodPost, "/auth/logout", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Logout successful", body["message"])

	cleared := sessionCookie(t, resp)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	// The old handle no longer authenticates.
	req = httptest.NewRequest(nethttp.MethodGet, "/auth/profile", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestSessionLogout_WithoutSession(t *testing.T) {
	app := newTestApp(t, config.ModeSession)

	req := httptest.NewRequest(nethttp.MethodPost, "/auth/logout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Logout successful", body["message"])
}

func TestSessionList_And_LogoutAll(t *testing.T) {
	app := newTestApp(t, config.ModeSession)

	first := loginSession(t, app, "carol", "carol789")
	second := loginSession(t, app, "carol", "carol789")
	other := loginSession(t, app, "alice", "alice123")

	req := httptest.NewRequest(nethttp.MethodGet, "/auth/sessions", nil)
	req.AddCookie(first)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	sessions := body["sessions"].([]interface{})
	assert.Len(t, sessions, 2)

	req = httptest.NewRequest(nethttp.MethodPost, "/auth/logout-all", nil)
	req.AddCookie(second)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	body = decodeBody(t, resp)
	assert.Equal(t, float64(2), body["count"])

	// Both of carol's handles are dead, alice's survives.
	for _, c := range []*nethttp.Cookie{first, second} {
		req = httptest.NewRequest(nethttp.MethodGet, "/auth/profile", nil)
		req.AddCookie(c)
		resp, err = app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	}

	req = httptest.NewRequest(nethttp.MethodGet, "/auth/profile", nil)
	req.AddCookie(other)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestSessionStatsEndpoint(t *testing.T) {
	app := newTestApp(t, config.ModeSession)

	loginSession(t, app, "alice", "alice123")
	loginSession(t, app, "bob", "bob456")

	req := httptest.NewRequest(nethttp.MethodGet, "/auth/sessions/stats", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var stats repository.SessionStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 2, stats.ActiveSessions)
}

func TestTokenLogin_ReturnsToken(t *testing.T) {
	app := newTestApp(t, config.ModeToken)

	resp := postJSON(t, app, "/auth/login", fiber.Map{"username": "alice", "password": "alice123"})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Login successful", body["message"])
	assert.NotEmpty(t, body["token"])
	assert.Nil(t, sessionCookie(t, resp), "token mode must not set a session cookie")
}

func TestTokenProfile_BearerAndRaw(t *testing.T) {
	app := newTestApp(t, config.ModeToken)

	resp := postJSON(t, app, "/auth/login", fiber.Map{"username": "bob", "password": "bob456"})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	token := decodeBody(t, resp)["token"].(string)

	for _, header := range []string{"Bearer " + token, token} {
		req := httptest.NewRequest(nethttp.MethodGet, "/auth/profile", nil)
		req.Header.Set("Authorization", header)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		user := body["user"].(map[string]interface{})
		assert.Equal(t, "bob", user["username"])
		assert.NotContains(t, body, "tokenRefreshed")
	}
}

func TestTokenProfile_NoToken(t *testing.T) {
	app := newTestApp(t, config.ModeToken)

	req := httptest.NewRequest(nethttp.MethodGet, "/auth/profile", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "No token provided", body["error"])
}

func TestTokenProfile_InvalidToken(t *testing.T) {
	app := newTestApp(t, config.ModeToken)

	req := httptest.NewRequest(nethttp.MethodGet, "/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer not.a.real.token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Invalid token", body["error"])
}

func TestTokenProfile_ExpiredTokenRefreshed(t *testing.T) {
	app := newTestApp(t, config.ModeToken)

	issuedAt := time.Now().Add(-2 * time.Hour)
	claims := &repository.Claims{
		UserID:   1,
		Username: "alice",
		Email:    "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    "auth-service-test",
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(nethttp.MethodGet, "/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["tokenRefreshed"])
	assert.NotEmpty(t, body["token"])
	assert.NotEqual(t, expired, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
}

func TestTokenLogout_AlwaysSucceeds(t *testing.T) {
	app := newTestApp(t, config.ModeToken)

	req := httptest.NewRequest(nethttp.MethodPost, "/auth/logout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Logout successful", body["message"])
	assert.Nil(t, sessionCookie(t, resp))
}

func TestTokenMode_SessionRoutesAbsent(t *testing.T) {
	app := newTestApp(t, config.ModeToken)

	for _, route := range []struct {
		method string
		path   string
	}{
		{nethttp.MethodGet, "/auth/sessions"},
		{nethttp.MethodGet, "/auth/sessions/stats"},
		{nethttp.MethodPost, "/auth/logout-all"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode, route.path)
	}
}
