package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webshop/storefront/internal/apperr"
	"github.com/webshop/storefront/internal/models"
	"github.com/webshop/storefront/internal/repo"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{
		Repo:          repo.New(newTestDB(t)),
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret",
		FullName: "Alice Example",
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{name: "empty username", mutate: func(r *RegisterRequest) { r.Username = "" }},
		{name: "empty email", mutate: func(r *RegisterRequest) { r.Email = "" }},
		{name: "malformed email", mutate: func(r *RegisterRequest) { r.Email = "not-an-email" }},
		{name: "empty password", mutate: func(r *RegisterRequest) { r.Password = "" }},
		{name: "empty full name", mutate: func(r *RegisterRequest) { r.FullName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegisterRequest()
			tt.mutate(&req)

			_, err := svc.Register(ctx, req)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestAuthService_Register_DuplicateUsernameOrEmail(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.True(t, user.IsActive)

	// same username
	dup := validRegisterRequest()
	dup.Email = "other@example.com"
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// same email
	dup = validRegisterRequest()
	dup.Username = "bob"
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestAuthService_Register_DoesNotStorePlaintextPassword(t *testing.T) {
	svc := newTestAuthService(t)

	user, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "secret", user.PasswordHash)
}

func TestAuthService_Login(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "wrong")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "secret")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})

	t.Run("success issues bearer tokens", func(t *testing.T) {
		res, err := svc.Login(ctx, "alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, "bearer", res.TokenType)
		require.NotEmpty(t, res.AccessToken)
		require.NotEmpty(t, res.RefreshToken)

		token, err := jwt.Parse(res.AccessToken, func(*jwt.Token) (any, error) {
			return svc.JWTSecret, nil
		})
		require.NoError(t, err)
		require.True(t, token.Valid)

		sub, err := token.Claims.GetSubject()
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprint(user.ID), sub)

		// refresh token is persisted for later revocation
		var stored models.RefreshToken
		require.NoError(t, svc.Repo.DB.Where("token = ?", res.RefreshToken).First(&stored).Error)
		assert.Equal(t, user.ID, stored.UserID)
		assert.False(t, stored.Revoked)
	})
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Repo.DB.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("is_active", false).Error)

	_, err = svc.Login(ctx, "alice", "secret")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestAuthService_LogOut(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	t.Run("empty token is a no-op", func(t *testing.T) {
		require.NoError(t, svc.LogOut(ctx, ""))
	})

	t.Run("revokes the stored refresh token", func(t *testing.T) {
		_, err := svc.Register(ctx, validRegisterRequest())
		require.NoError(t, err)
		res, err := svc.Login(ctx, "alice", "secret")
		require.NoError(t, err)

		require.NoError(t, svc.LogOut(ctx, res.RefreshToken))

		var stored models.RefreshToken
		require.NoError(t, svc.Repo.DB.Where("token = ?", res.RefreshToken).First(&stored).Error)
		assert.True(t, stored.Revoked)
	})
}
