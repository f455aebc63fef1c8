package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-rbac-api/common"
	"go-rbac-api/config"
	"go-rbac-api/domain"
	"go-rbac-api/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "root@example.com"
	adminPassword = "root-password"
)

func newTestApplication(t *testing.T) *application {
	t.Helper()
	gin.SetMode(gin.TestMode)

	t.Setenv("DATABASE_PROVIDER", config.ProviderMemory)
	t.Setenv("JWT_SECRET", "test-access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "test-refresh-secret")
	t.Setenv("PASSWORD_HASH_SECRET", "test-pepper")
	t.Setenv("SYSTEM_ADMIN_EMAIL", adminEmail)
	t.Setenv("SYSTEM_ADMIN_PASSWORD", adminPassword)

	config.Reset()
	t.Cleanup(config.Reset)
	cfg, err := config.Load("config/config.yml")
	require.NoError(t, err)

	app, err := newApplication(context.Background(), cfg, log.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	return app
}

type call struct {
	method string
	path   string
	body   any
	token  string
	cookie *http.Cookie
}

func (a *application) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if c.body != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(c.body))
	}
	req := httptest.NewRequest(c.method, c.path, &body)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) common.ResponseT[T] {
	t.Helper()
	var out common.ResponseT[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "refreshToken" {
			return cookie
		}
	}
	t.Fatalf("refresh cookie not set")
	return nil
}

func (a *application) signIn(t *testing.T, email, password string) (domain.AuthResponse, *http.Cookie) {
	t.Helper()
	w := a.do(t, call{method: http.MethodPost, path: "/auth/signin", body: domain.LoginRequest{Email: email, Password: password}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[domain.AuthResponse](t, w).Data, refreshCookie(t, w)
}

func TestAuthFlow(t *testing.T) {
	app := newTestApplication(t)

	w := app.do(t, call{method: http.MethodPost, path: "/auth/signup", body: map[string]any{
		"email":    "Alice@Example.com",
		"password": "correct-horse",
		"username": "alice",
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	signup := decode[map[string]any](t, w)
	assert.True(t, signup.Success)
	assert.Equal(t, "alice@example.com", signup.Data["email"])
	assert.NotContains(t, signup.Data, "password")

	session, cookie := app.signIn(t, "alice@example.com", "correct-horse")
	assert.NotEmpty(t, session.AccessToken)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/auth", cookie.Path)
	assert.Equal(t, session.RefreshToken, cookie.Value)

	w = app.do(t, call{method: http.MethodGet, path: "/auth/me", token: session.AccessToken})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice@example.com", decode[map[string]any](t, w).Data["email"])

	w = app.do(t, call{method: http.MethodGet, path: "/auth/me/permissions", token: session.AccessToken})
	require.Equal(t, http.StatusOK, w.Code)
	perms := decode[struct {
		Roles       []string `json:"roles"`
		Permissions []string `json:"permissions"`
	}](t, w).Data
	assert.Equal(t, []string{"user"}, perms.Roles)
	assert.ElementsMatch(t, domain.PermissionNamesToStrings(domain.DefaultRolePermissions[domain.RoleUser]), perms.Permissions)

	w = app.do(t, call{method: http.MethodPost, path: "/auth/refresh", cookie: cookie})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode[domain.RefreshResponse](t, w).Data.AccessToken)

	w = app.do(t, call{method: http.MethodPost, path: "/auth/refresh", body: domain.TokenRequest{RefreshToken: session.RefreshToken}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, call{method: http.MethodPost, path: "/auth/signout", cookie: cookie})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Signed out successfully", decode[common.MessageResponse](t, w).Data.Message)

	w = app.do(t, call{method: http.MethodPost, path: "/auth/refresh", cookie: cookie})
	assert.Equal(t, http.StatusNotFound, w.Code)
	failed := decode[any](t, w)
	assert.False(t, failed.Success)
	require.NotNil(t, failed.ErrorMessage)
}

func TestAuthErrors(t *testing.T) {
	app := newTestApplication(t)

	w := app.do(t, call{method: http.MethodPost, path: "/auth/signup", body: map[string]any{"email": "nope"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, call{method: http.MethodPost, path: "/auth/signin", body: domain.LoginRequest{Email: adminEmail, Password: "wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, call{method: http.MethodGet, path: "/auth/me"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, call{method: http.MethodPost, path: "/auth/refresh", body: domain.TokenRequest{RefreshToken: "garbage"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserRoutesEnforcePermissions(t *testing.T) {
	app := newTestApplication(t)

	w := app.do(t, call{method: http.MethodPost, path: "/auth/signup", body: map[string]any{
		"email":    "bob@example.com",
		"password": "correct-horse",
		"username": "bob",
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	bobID := decode[map[string]any](t, w).Data["id"].(string)

	w = app.do(t, call{method: http.MethodPost, path: "/auth/signup", body: map[string]any{
		"email":    "dave@example.com",
		"password": "correct-horse",
		"username": "dave",
		"roles":    []string{"admin"},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	bob, _ := app.signIn(t, "bob@example.com", "correct-horse")
	dave, _ := app.signIn(t, "dave@example.com", "correct-horse")
	root, _ := app.signIn(t, adminEmail, adminPassword)

	w = app.do(t, call{method: http.MethodGet, path: "/users", token: bob.AccessToken})
	assert.Equal(t, http.StatusForbidden, w.Code)
	denied := decode[any](t, w)
	require.NotNil(t, denied.ErrorMessage)
	assert.Equal(t, "Insufficient permissions: requires user:list", *denied.ErrorMessage)

	w = app.do(t, call{method: http.MethodGet, path: "/users", token: dave.AccessToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(3), decode[domain.UserListResponse](t, w).Data.Pagination.TotalItems)

	w = app.do(t, call{method: http.MethodGet, path: "/users/" + bobID, token: bob.AccessToken})
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, call{method: http.MethodGet, path: "/users/" + root.User.ID, token: bob.AccessToken})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, call{method: http.MethodGet, path: "/users?page=1&limit=10", token: root.AccessToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	list := decode[domain.UserListResponse](t, w).Data
	assert.Equal(t, int64(3), list.Pagination.TotalItems)

	w = app.do(t, call{method: http.MethodDelete, path: "/users/" + bobID, token: bob.AccessToken})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, call{method: http.MethodDelete, path: "/users/" + bobID, token: root.AccessToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The deleted account's access token no longer authenticates
	w = app.do(t, call{method: http.MethodGet, path: "/auth/me", token: bob.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleManagement(t *testing.T) {
	app := newTestApplication(t)
	root, _ := app.signIn(t, adminEmail, adminPassword)

	w := app.do(t, call{method: http.MethodGet, path: "/roles", token: root.AccessToken})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Role](t, w).Data, 5)

	w = app.do(t, call{method: http.MethodPost, path: "/roles/guest/permissions/add", token: root.AccessToken,
		body: domain.RolePermissionsRequest{Permissions: []string{"self:update"}}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, []string(decode[domain.Role](t, w).Data.Permissions), "self:update")

	w = app.do(t, call{method: http.MethodPost, path: "/roles/guest/permissions/add", token: root.AccessToken,
		body: domain.RolePermissionsRequest{Permissions: []string{"self:fly"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, call{method: http.MethodPost, path: "/roles", token: root.AccessToken,
		body: domain.RoleCreateRequest{Name: "guest"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, call{method: http.MethodDelete, path: "/roles/guest", token: root.AccessToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, call{method: http.MethodGet, path: "/roles/guest", token: root.AccessToken})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, call{method: http.MethodPost, path: "/roles", token: root.AccessToken,
		body: domain.RoleCreateRequest{Name: "guest", Permissions: []string{"self:read"}}})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// admin lacks role:create and is not super_admin
	w = app.do(t, call{method: http.MethodPost, path: "/auth/signup", body: map[string]any{
		"email":    "carol@example.com",
		"password": "correct-horse",
		"username": "carol",
		"roles":    []string{"admin"},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	carol, _ := app.signIn(t, "carol@example.com", "correct-horse")

	w = app.do(t, call{method: http.MethodDelete, path: "/roles/manager", token: carol.AccessToken})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPermissionRoutes(t *testing.T) {
	app := newTestApplication(t)
	root, _ := app.signIn(t, adminEmail, adminPassword)

	w := app.do(t, call{method: http.MethodGet, path: "/permissions", token: root.AccessToken})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Permission](t, w).Data, 20)

	w = app.do(t, call{method: http.MethodGet, path: "/permissions?resource=self", token: root.AccessToken})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Permission](t, w).Data, 3)

	w = app.do(t, call{method: http.MethodGet, path: "/permissions/user:read", token: root.AccessToken})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user", decode[domain.Permission](t, w).Data.Resource)

	w = app.do(t, call{method: http.MethodGet, path: "/permissions/user:fly", token: root.AccessToken})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOperationalRoutes(t *testing.T) {
	app := newTestApplication(t)

	w := app.do(t, call{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, call{method: http.MethodGet, path: "/nowhere"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, call{method: http.MethodGet, path: "/metrics"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rbac_http_requests_total")
}
