package cache

import (
	"context"
	"testing"
	"time"

	dom "tasktracker/internal/domain"
	"tasktracker/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setList(t *testing.T, c *TaskCache, userID uuid.UUID, list []dom.Task) {
	t.Helper()
	ctx := context.Background()
	gen, err := c.Generation(ctx, userID)
	require.NoError(t, err)
	stored, err := c.SetListIfCurrent(ctx, userID, gen, list)
	require.NoError(t, err)
	require.True(t, stored)
}

func TestTaskCacheRoundTrip(t *testing.T) {
	rdb, mr := testutil.NewRedis(t)
	c := NewTaskCache(rdb, time.Minute)
	ctx := context.Background()
	userID := uuid.New()

	got, err := c.GetList(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, got, "miss returns nil")

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	list := []dom.Task{
		{ID: uuid.New(), UserID: userID, Name: "A", Description: "B", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), UserID: userID, Name: "C", Description: "D", CompletedAt: &now, CreatedAt: now, UpdatedAt: now},
	}
	setList(t, c, userID, list)

	got, err = c.GetList(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, list, got)
	assert.Equal(t, time.Minute, mr.TTL(listKey(userID)))

	require.NoError(t, c.Invalidate(ctx, userID))
	got, err = c.GetList(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTaskCacheEmptyListIsAHit(t *testing.T) {
	rdb, _ := testutil.NewRedis(t)
	c := NewTaskCache(rdb, time.Minute)
	ctx := context.Background()
	userID := uuid.New()

	setList(t, c, userID, nil)
	got, err := c.GetList(ctx, userID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTaskCacheIsPerUser(t *testing.T) {
	rdb, _ := testutil.NewRedis(t)
	c := NewTaskCache(rdb, time.Minute)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	setList(t, c, alice, []dom.Task{{ID: uuid.New(), UserID: alice, Name: "mine"}})
	got, err := c.GetList(ctx, bob)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSetListIfCurrentSkipsAfterInvalidate(t *testing.T) {
	rdb, _ := testutil.NewRedis(t)
	c := NewTaskCache(rdb, time.Minute)
	ctx := context.Background()
	userID := uuid.New()
	stale := []dom.Task{{ID: uuid.New(), UserID: userID, Name: "old"}}

	gen, err := c.Generation(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, gen)

	require.NoError(t, c.Invalidate(ctx, userID))

	stored, err := c.SetListIfCurrent(ctx, userID, gen, stale)
	require.NoError(t, err)
	assert.False(t, stored)
	got, err := c.GetList(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, got, "list read before the write must not be cached")

	gen, err = c.Generation(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
	stored, err = c.SetListIfCurrent(ctx, userID, gen, stale)
	require.NoError(t, err)
	assert.True(t, stored)
	got, err = c.GetList(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
