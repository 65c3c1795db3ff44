package service

import (
	"context"
	"testing"

	"tasktracker/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndValidate(t *testing.T) {
	store := testutil.NewMemStore()
	svc := NewUserService(store)
	ctx := context.Background()

	u, err := svc.Register(ctx, " Ada@Example.com ", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEqual(t, "hunter2", u.PasswordHash)

	got, err := svc.ValidateCredentials(ctx, "ada@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.ValidateCredentials(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.ValidateCredentials(ctx, "nobody@example.com", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Register(ctx, "ADA@example.com", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(ctx, "", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInWithProviderCreatesOnce(t *testing.T) {
	store := testutil.NewMemStore()
	svc := NewUserService(store)
	ctx := context.Background()

	first, err := svc.SignInWithProvider(ctx, "Grace@example.com", "Grace")
	require.NoError(t, err)
	again, err := svc.SignInWithProvider(ctx, "grace@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Grace", again.Name)

	// OAuth-only accounts cannot sign in with a password.
	_, err = svc.ValidateCredentials(ctx, "grace@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.ValidateCredentials(ctx, "grace@example.com", "guess")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	byEmail, err := svc.ByEmail(ctx, "GRACE@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, byEmail.ID)

	_, err = svc.ByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
