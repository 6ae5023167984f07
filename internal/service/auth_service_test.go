// internal/service/auth_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"fitcoach/periodization-app/internal/domain"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, testJWTSecret, time.Hour)
	ctx := context.Background()

	email := gofakeit.Email()
	user, err := svc.Register(ctx, gofakeit.Name(), email, "correct-horse", domain.RoleClient)
	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())
	assert.Empty(t, user.PasswordHash, "hash must never leave the service")

	token, logged, err := svc.Login(ctx, email, "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.Empty(t, logged.PasswordHash)

	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleClient, claims.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, testJWTSecret, time.Hour)
	ctx := context.Background()

	email := gofakeit.Email()
	_, err := svc.Register(ctx, gofakeit.Name(), email, "password1", domain.RoleClient)
	require.NoError(t, err)

	_, err = svc.Register(ctx, gofakeit.Name(), email, "password2", domain.RoleTrainer)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin_WrongCredentials(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, testJWTSecret, time.Hour)
	ctx := context.Background()

	email := gofakeit.Email()
	_, err := svc.Register(ctx, gofakeit.Name(), email, "correct-horse", domain.RoleClient)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, email, "wrong-password")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, _, err = svc.Login(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
