package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/munidigital/tramites-api/internal/models"
	appErrors "github.com/munidigital/tramites-api/pkg/errors"
)

type mockUserRepo struct {
	users map[string]models.User
}

func (m *mockUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := m.users[username]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func newAuthFixture(t *testing.T) (*AuthService, *mockUserRepo) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockUserRepo{users: map[string]models.User{
		"admin": {ID: "u1", Username: "admin", PasswordHash: string(hash), Role: models.RoleAdmin},
	}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "test_secret",
		TokenExpiry: 24 * time.Hour,
		Issuer:      "tramites-api",
	})
	return svc, repo
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc, _ := newAuthFixture(t)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "admin", res.User.Username)
	assert.Equal(t, models.RoleAdmin, res.User.Role)
	assert.Equal(t, int64((24 * time.Hour).Seconds()), res.ExpiresIn)
}

func TestAuthServiceLoginUniformFailureShape(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, unknownErr := svc.Login(context.Background(), models.LoginRequest{Username: "nobody", Password: "admin123"})
	_, wrongPassErr := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "wrong"})

	require.Error(t, unknownErr)
	require.Error(t, wrongPassErr)

	unknown := appErrors.FromError(unknownErr)
	wrongPass := appErrors.FromError(wrongPassErr)

	// Unknown usernames and wrong passwords must be indistinguishable.
	assert.Equal(t, unknown.Code, wrongPass.Code)
	assert.Equal(t, unknown.Status, wrongPass.Status)
	assert.Equal(t, unknown.Message, wrongPass.Message)
	assert.Equal(t, 401, unknown.Status)
}

func TestAuthServiceLoginMissingFields(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRoundTrip(t *testing.T) {
	svc, _ := newAuthFixture(t)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceValidateTokenExpired(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockUserRepo{users: map[string]models.User{
		"admin": {ID: "u1", Username: "admin", PasswordHash: string(hash), Role: models.RoleAdmin},
	}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "test_secret",
		TokenExpiry: 24 * time.Hour,
	})

	user, err := repo.FindByUsername(context.Background(), "admin")
	require.NoError(t, err)

	// Issue a token that expired an hour ago.
	svc.config.TokenExpiry = -time.Hour
	token, err := svc.generateToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

func TestAuthServiceValidateTokenGarbage(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}
