package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/munidigital/tramites-api/internal/middleware"
	"github.com/munidigital/tramites-api/internal/models"
	"github.com/munidigital/tramites-api/internal/service"
	"github.com/munidigital/tramites-api/pkg/response"
)

type userStoreMock struct {
	users map[string]models.User
}

func (m *userStoreMock) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *userStoreMock) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &user, nil
}

func newAuthHandlerFixture(t *testing.T) *AuthHandler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &userStoreMock{users: map[string]models.User{
		"u1": {ID: "u1", Username: "admin", PasswordHash: string(hash), Role: models.RoleAdmin},
	}}
	svc := service.NewAuthService(repo, nil, nil, service.AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "tramites-api",
	})
	return NewAuthHandler(svc)
}

func performJSON(t *testing.T, handlerFn gin.HandlerFunc, method, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req, err := http.NewRequest(method, target, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	handlerFn(c)
	return w
}

func TestAuthHandlerLoginSuccess(t *testing.T) {
	handler := newAuthHandlerFixture(t)

	w := performJSON(t, handler.Login, http.MethodPost, "/auth/login",
		models.LoginRequest{Username: "admin", Password: "admin123"})

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.Token)
	assert.Equal(t, "admin", envelope.Data.User.Username)
	assert.Equal(t, models.RoleAdmin, envelope.Data.User.Role)
}

func TestAuthHandlerLoginFailuresAreUniform(t *testing.T) {
	handler := newAuthHandlerFixture(t)

	unknown := performJSON(t, handler.Login, http.MethodPost, "/auth/login",
		models.LoginRequest{Username: "ghost", Password: "admin123"})
	wrongPassword := performJSON(t, handler.Login, http.MethodPost, "/auth/login",
		models.LoginRequest{Username: "admin", Password: "nope"})

	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, unknown.Body.String(), wrongPassword.Body.String(),
		"unknown user and wrong password must be indistinguishable")
}

func TestAuthHandlerLoginMissingFields(t *testing.T) {
	handler := newAuthHandlerFixture(t)

	w := performJSON(t, handler.Login, http.MethodPost, "/auth/login",
		models.LoginRequest{Username: "admin"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestAuthHandlerVerify(t *testing.T) {
	handler := newAuthHandlerFixture(t)
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Username: "admin", Role: models.RoleAdmin})

	handler.Verify(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data struct {
			Valid bool            `json:"valid"`
			User  models.UserInfo `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Valid)
	assert.Equal(t, "admin", envelope.Data.User.Username)
}

func TestAuthHandlerVerifyWithoutClaims(t *testing.T) {
	handler := newAuthHandlerFixture(t)
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/verify", nil)

	handler.Verify(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
