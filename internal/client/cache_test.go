package client

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(list []Task) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.ID
	}
	return out
}

func TestFilterPreservesOrderAndInput(t *testing.T) {
	list := []Task{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	got := Filter(list, ByID("2"))
	assert.Equal(t, []string{"1", "3"}, ids(got))
	assert.Equal(t, []string{"1", "2", "3"}, ids(list))

	assert.Equal(t, []string{"1", "2", "3"}, ids(Filter(list, ByID("9"))))
	assert.Empty(t, Filter(nil, ByID("1")))
}

func TestMemoryCacheEvict(t *testing.T) {
	c := NewMemoryCache()
	c.Set("a", []Task{{ID: "1", Name: "one"}, {ID: "2"}, {ID: "3"}})
	c.Set("b", []Task{{ID: "2"}})

	c.Evict("a", ByID("2"))

	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []string{"1", "3"}, ids(got))
	assert.Equal(t, "one", got[0].Name)

	other, _ := c.Get("b")
	assert.Equal(t, []string{"2"}, ids(other), "other lists untouched")

	c.Evict("missing", ByID("1"))
	_, ok = c.Get("missing")
	assert.False(t, ok, "evict does not create lists")
}

func TestMemoryCacheReturnsCopies(t *testing.T) {
	c := NewMemoryCache()
	in := []Task{{ID: "1"}}
	c.Set("a", in)
	in[0].ID = "changed"

	got, _ := c.Get("a")
	got[0].ID = "mutated"

	again, _ := c.Get("a")
	assert.Equal(t, "1", again[0].ID)
}

func TestMemoryCacheModifyInvalidateClear(t *testing.T) {
	c := NewMemoryCache()
	assert.False(t, c.Modify("a", func(l []Task) []Task { t.Fatal("must not be called"); return l }))

	c.Set("a", []Task{{ID: "1"}})
	assert.True(t, c.Modify("a", func(l []Task) []Task { return append(l, Task{ID: "2"}) }))
	got, _ := c.Get("a")
	assert.Equal(t, []string{"1", "2"}, ids(got))

	c.Invalidate("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("b", nil)
	c.Clear()
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestMemoryCacheConcurrentEvict(t *testing.T) {
	c := NewMemoryCache()
	var list []Task
	for i := 0; i < 100; i++ {
		list = append(list, Task{ID: string(rune('a' + i%26)) + string(rune('0'+i/26))})
	}
	c.Set("k", list)

	var wg sync.WaitGroup
	for _, task := range list {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			c.Evict("k", ByID(id))
		}(task.ID)
	}
	wg.Wait()

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestTaskListKey(t *testing.T) {
	assert.Equal(t, "viewer:u1:tasks", TaskListKey("u1"))
}
