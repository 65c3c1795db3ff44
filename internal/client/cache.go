package client

import "sync"

// Predicate selects cached entries.
type Predicate func(Task) bool

// ByID matches the entry with the given id.
func ByID(id string) Predicate {
	return func(t Task) bool { return t.ID == id }
}

// Filter returns the entries of list that pred does not match, in order.
// list is not modified.
func Filter(list []Task, pred Predicate) []Task {
	out := make([]Task, 0, len(list))
	for _, t := range list {
		if !pred(t) {
			out = append(out, t)
		}
	}
	return out
}

// TaskListKey names the cached task list of a viewer.
func TaskListKey(viewerID string) string {
	return "viewer:" + viewerID + ":tasks"
}

// Cache holds query results as lists of tasks keyed by list name.
type Cache interface {
	Get(listKey string) ([]Task, bool)
	Set(listKey string, list []Task)
	// Modify replaces a cached list with fn's result. It reports false, and
	// does not call fn, when listKey is not cached.
	Modify(listKey string, fn func([]Task) []Task) bool
	// Evict removes the entries matched by pred and leaves everything else untouched.
	Evict(listKey string, pred Predicate)
	Invalidate(listKey string)
	Clear()
}

// MemoryCache is an in-process Cache, safe for concurrent use.
type MemoryCache struct {
	mu    sync.RWMutex
	lists map[string][]Task
}

var _ Cache = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{lists: map[string][]Task{}}
}

func (c *MemoryCache) Get(listKey string) ([]Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list, ok := c.lists[listKey]
	if !ok {
		return nil, false
	}
	return append([]Task(nil), list...), true
}

func (c *MemoryCache) Set(listKey string, list []Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[listKey] = append([]Task{}, list...)
}

func (c *MemoryCache) Modify(listKey string, fn func([]Task) []Task) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	list, ok := c.lists[listKey]
	if !ok {
		return false
	}
	c.lists[listKey] = fn(append([]Task(nil), list...))
	return true
}

func (c *MemoryCache) Evict(listKey string, pred Predicate) {
	c.Modify(listKey, func(list []Task) []Task { return Filter(list, pred) })
}

func (c *MemoryCache) Invalidate(listKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lists, listKey)
}

func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists = map[string][]Task{}
}
