package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birlikweb/cms/middleware"
	"github.com/birlikweb/cms/models"
	"github.com/birlikweb/cms/utils"
)

func newAuthEnv(t *testing.T) (*gin.Engine, *memUserRepo) {
	t.Helper()

	users := newMemUserRepo()
	hash, err := utils.HashPassword("parola-123")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &models.User{
		Username:     "sekreter",
		PasswordHash: hash,
		DisplayName:  "Genel Sekreter",
		Role:         models.RoleEditor,
	}))

	controller := NewAuthController(users)
	r := gin.New()
	r.POST("/api/v1/auth/login", controller.Login)
	r.GET("/api/v1/auth/me", middleware.RequireRole(models.RoleViewer), controller.Me)
	r.POST("/api/v1/auth/logout", middleware.RequireRole(models.RoleViewer), controller.Logout)
	return r, users
}

func loginRequest(t *testing.T, username, password string) *http.Request {
	t.Helper()
	body, err := json.Marshal(gin.H{"username": username, "password": password})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestLoginIssuesRoleBearingToken(t *testing.T) {
	r, _ := newAuthEnv(t)

	w := do(r, loginRequest(t, "sekreter", "parola-123"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := dataMap(t, decodeResponse(t, w))
	token, ok := data["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	claims, err := utils.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sekreter", claims.Username)
	assert.Equal(t, "editor", claims.Role)
	assert.Equal(t, "Genel Sekreter", claims.Author)

	user := data["user"].(map[string]interface{})
	assert.Equal(t, "editor", user["role"])
	_, exposed := user["password_hash"]
	assert.False(t, exposed, "password hash must not leak in the login response")
}

func TestLoginWrongPassword(t *testing.T) {
	r, _ := newAuthEnv(t)

	w := do(r, loginRequest(t, "sekreter", "yanlis-parola"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "invalid credentials", resp.Message)
}

func TestLoginUnknownUser(t *testing.T) {
	r, _ := newAuthEnv(t)

	w := do(r, loginRequest(t, "bilinmeyen", "parola-123"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", decodeResponse(t, w).Message)
}

func TestLoginMissingFields(t *testing.T) {
	r, _ := newAuthEnv(t)

	w := do(r, loginRequest(t, "sekreter", ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeReturnsTokenIdentity(t *testing.T) {
	r, _ := newAuthEnv(t)

	login := do(r, loginRequest(t, "sekreter", "parola-123"))
	require.Equal(t, http.StatusOK, login.Code)
	token := dataMap(t, decodeResponse(t, login))["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := do(r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := dataMap(t, decodeResponse(t, w))
	assert.Equal(t, "sekreter", data["username"])
	assert.Equal(t, "editor", data["role"])
	assert.Equal(t, "Genel Sekreter", data["author"])
}

func TestLogoutRevokesToken(t *testing.T) {
	r, users := newAuthEnv(t)

	// distinct account: tokens minted in the same second carry identical
	// claims, and an identical token would stay revoked for later tests
	hash, err := utils.HashPassword("parola-123")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &models.User{
		Username:     "ayrilan",
		PasswordHash: hash,
		Role:         models.RoleViewer,
	}))

	login := do(r, loginRequest(t, "ayrilan", "parola-123"))
	require.Equal(t, http.StatusOK, login.Code)
	token := dataMap(t, decodeResponse(t, login))["token"].(string)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := do(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token revoked", decodeResponse(t, w).Message)
}
