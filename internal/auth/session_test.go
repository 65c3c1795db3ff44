package auth

import (
	"context"
	"testing"
	"time"

	"tasktracker/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLifecycle(t *testing.T) {
	rdb, mr := testutil.NewRedis(t)
	s := NewStore(rdb, time.Hour)
	ctx := context.Background()

	id, err := s.Create(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Len(t, id, 32)

	email, err := s.Email(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email)
	assert.Equal(t, time.Hour, mr.TTL(sessionKeyPrefix+id))

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Email(ctx, id)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStoreExpiry(t *testing.T) {
	rdb, mr := testutil.NewRedis(t)
	s := NewStore(rdb, time.Minute)
	ctx := context.Background()

	id, err := s.Create(ctx, "ada@example.com")
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, err = s.Email(ctx, id)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStoreDefaultTTLAndEmptyID(t *testing.T) {
	rdb, _ := testutil.NewRedis(t)
	s := NewStore(rdb, 0)
	assert.Equal(t, 24*time.Hour, s.TTL())

	_, err := s.Email(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoSession)
}
