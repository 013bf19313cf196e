package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheManishHQ/shipos-kit/internal/config"
	"github.com/TheManishHQ/shipos-kit/internal/dto"
	"github.com/TheManishHQ/shipos-kit/internal/repository"
	"github.com/TheManishHQ/shipos-kit/internal/testutil"
)

func newAuthService(t *testing.T) (*AuthService, *repository.Store) {
	t.Helper()
	store := repository.New(testutil.NewDB(t))
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
	return NewAuthService(store, cfg), store
}

func register(t *testing.T, svc *AuthService, email string) *dto.AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Jane",
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)
	return resp
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	resp := register(t, svc, "  Jane@Example.com ")
	assert.Equal(t, "jane@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.RefreshToken)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, resp.User.ID.String(), claims["sub"])

	_, err = svc.Register(ctx, &dto.RegisterRequest{Name: "x", Email: "jane@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "JANE@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	resp := register(t, svc, "rotate@example.com")

	next, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, next.RefreshToken)

	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, svc.Logout(ctx, &dto.LogoutRequest{RefreshToken: next.RefreshToken}))
	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: next.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_BannedUserCannotSignIn(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()
	resp := register(t, svc, "banned@example.com")

	require.NoError(t, NewAdminService(store).Ban(ctx, resp.User.ID, &dto.BanUserRequest{Reason: "abuse"}))

	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "banned@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrUserBanned)

	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrUserBanned)
}

func TestAuthService_ExpiredBanAllowsLogin(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()
	resp := register(t, svc, "lapsed@example.com")
	past := time.Now().Add(-time.Hour)

	require.NoError(t, NewAdminService(store).Ban(ctx, resp.User.ID, &dto.BanUserRequest{Reason: "cooldown", ExpiresAt: &past}))

	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "lapsed@example.com", Password: "password123"})
	assert.NoError(t, err)
}

func TestAuthService_DeleteAccount(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()
	resp := register(t, svc, "leave@example.com")

	assert.ErrorIs(t, svc.DeleteAccount(ctx, resp.User.ID, "nope"), ErrInvalidCredentials)
	require.NoError(t, svc.DeleteAccount(ctx, resp.User.ID, "password123"))

	_, err := store.Users.GetByID(ctx, resp.User.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
