package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	store := newTestStore(t)
	svc := newTestAuthService(t, store)
	ctx := context.Background()

	name := "  Alice  "
	user, token, err := svc.Register(ctx, RegisterInput{
		Email:    "  Alice@Example.com ",
		Password: "secret1",
		Name:     &name,
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	require.NotNil(t, user.Name)
	assert.Equal(t, "Alice", *user.Name)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	userID, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	store := newTestStore(t)
	svc := newTestAuthService(t, store)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{Email: "", Password: "secret1"})
	assert.ErrorIs(t, err, ErrCredentialsRequired)
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.Register(ctx, RegisterInput{Email: "bob@example.com", Password: "12345"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	svc := newTestAuthService(t, store)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, RegisterInput{Email: "ALICE@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	store := newTestStore(t)
	svc := newTestAuthService(t, store)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, token, err := svc.Login(ctx, LoginInput{Email: "Alice@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)
}

func TestAuthService_Profile(t *testing.T) {
	store := newTestStore(t)
	svc := newTestAuthService(t, store)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Nil(t, registered.Name)

	name := "Alice"
	updated, err := svc.UpdateProfile(ctx, registered.ID, &name)
	require.NoError(t, err)
	require.NotNil(t, updated.Name)
	assert.Equal(t, "Alice", *updated.Name)

	fetched, err := svc.GetUser(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", *fetched.Name)

	_, err = svc.GetUser(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.UpdateProfile(ctx, 999, &name)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
