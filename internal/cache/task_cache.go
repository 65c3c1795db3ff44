package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	dom "tasktracker/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyTaskList = "tasks:list:"
	keyTaskGen  = "tasks:gen:"
)

// TaskCache caches each user's task list in Redis.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

func listKey(userID uuid.UUID) string {
	return keyTaskList + userID.String()
}

// genKey counts writes to a user's tasks. It has no TTL.
func genKey(userID uuid.UUID) string {
	return keyTaskGen + userID.String()
}

// Generation returns the user's current write generation. Read it before
// loading the list from the database and pass it to SetListIfCurrent.
func (c *TaskCache) Generation(ctx context.Context, userID uuid.UUID) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GetList returns the cached list, or nil on a miss.
func (c *TaskCache) GetList(ctx context.Context, userID uuid.UUID) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, listKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list := []dom.Task{}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetListIfCurrent stores the list only if no Invalidate ran since gen was
// read. It reports whether the list was stored.
func (c *TaskCache) SetListIfCurrent(ctx context.Context, userID uuid.UUID, gen int64, list []dom.Task) (bool, error) {
	if list == nil {
		list = []dom.Task{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return false, err
	}
	stored := false
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey(userID)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, listKey(userID), b, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, genKey(userID))
	if errors.Is(err, redis.TxFailedErr) {
		// The generation moved while we were writing.
		return false, nil
	}
	return stored, err
}

// Invalidate bumps the user's generation and drops the cached list.
func (c *TaskCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(userID))
		pipe.Del(ctx, listKey(userID))
		return nil
	})
	return err
}
