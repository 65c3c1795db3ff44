package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"tasktracker/internal/auth"
	"tasktracker/internal/graph"
	"tasktracker/internal/service"
	"tasktracker/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiServer struct {
	srv      *httptest.Server
	store    *testutil.MemStore
	sessions *auth.Store
	requests atomic.Int32
}

func newAPIServer(t *testing.T) *apiServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := testutil.NewMemStore()
	store.Now = testutil.TickingClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Second)
	rdb, _ := testutil.NewRedis(t)
	sessions := auth.NewStore(rdb, time.Hour)
	users := service.NewUserService(store)
	tasks := service.NewTaskService(store, store, nil)

	a := &apiServer{store: store, sessions: sessions}
	r := gin.New()
	r.POST("/api/graphql",
		func(c *gin.Context) { a.requests.Add(1); c.Next() },
		auth.LoadSession(sessions, users, zerolog.Nop()),
		graph.NewHandler(graph.NewSchema(), tasks, zerolog.Nop()).Serve,
	)
	a.srv = httptest.NewServer(r)
	t.Cleanup(a.srv.Close)
	return a
}

// signIn creates a user and returns a context carrying its session.
func (a *apiServer) signIn(t *testing.T, email string) context.Context {
	t.Helper()
	a.store.AddUser(email)
	token, err := a.sessions.Create(context.Background(), email)
	require.NoError(t, err)
	return WithSession(context.Background(), token)
}

func TestViewer(t *testing.T) {
	api := newAPIServer(t)
	c := New(api.srv.URL)
	defer c.Close()

	v, err := c.Viewer(context.Background())
	require.NoError(t, err)
	assert.Nil(t, v)

	ctx := api.signIn(t, "ada@example.com")
	v, err = c.Viewer(ctx)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "ada@example.com", v.Email)
}

func TestTaskLifecycleKeepsCacheInSync(t *testing.T) {
	api := newAPIServer(t)
	c := New(api.srv.URL + "/")
	ctx := api.signIn(t, "ada@example.com")
	viewer, err := c.Viewer(ctx)
	require.NoError(t, err)

	var created []Task
	for _, name := range []string{"1", "2", "3"} {
		task, err := c.CreateTask(ctx, *viewer, name, "desc")
		require.NoError(t, err)
		assert.Equal(t, task.CreatedAt, task.UpdatedAt)
		created = append(created, task)
	}

	list, err := c.Tasks(ctx, *viewer)
	require.NoError(t, err)
	assert.Equal(t, []string{created[2].ID, created[1].ID, created[0].ID}, ids(list))

	before := api.requests.Load()
	require.NoError(t, c.DeleteTask(ctx, *viewer, created[1].ID))
	assert.Equal(t, before+1, api.requests.Load(), "delete is a single request")

	list, err = c.Tasks(ctx, *viewer)
	require.NoError(t, err)
	assert.Equal(t, []string{created[2].ID, created[0].ID}, ids(list))
	assert.Equal(t, before+1, api.requests.Load(), "list served from cache, no refetch")

	desc := "changed"
	_, err = c.UpdateTask(ctx, *viewer, created[0].ID, UpdateTaskInput{Description: &desc})
	require.NoError(t, err)
	st, err := c.CreateSubtask(ctx, *viewer, created[0].ID, "sub", "d")
	require.NoError(t, err)

	list, err = c.Tasks(ctx, *viewer)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "changed", list[1].Description)
	require.Len(t, list[1].Subtasks, 1)
	assert.Equal(t, st.ID, list[1].Subtasks[0].ID)
}

func TestUpdateTaskCompletedAt(t *testing.T) {
	api := newAPIServer(t)
	c := New(api.srv.URL)
	ctx := api.signIn(t, "ada@example.com")
	viewer, err := c.Viewer(ctx)
	require.NoError(t, err)
	task, err := c.CreateTask(ctx, *viewer, "A", "B")
	require.NoError(t, err)

	at := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
	updated, err := c.UpdateTask(ctx, *viewer, task.ID, UpdateTaskInput{CompletedAt: &at})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.True(t, at.Equal(*updated.CompletedAt))
	assert.Equal(t, "A", updated.Name)
}

func TestErrorsAreTyped(t *testing.T) {
	api := newAPIServer(t)
	c := New(api.srv.URL)

	_, err := c.CreateTask(context.Background(), User{ID: "nobody"}, "A", "B")
	assert.True(t, IsUnauthenticated(err))

	ctx := api.signIn(t, "ada@example.com")
	viewer, err := c.Viewer(ctx)
	require.NoError(t, err)
	err = c.DeleteTask(ctx, *viewer, "00000000-0000-0000-0000-000000000000")
	assert.True(t, IsBadUserInput(err))
	assert.False(t, IsUnauthenticated(err))

	_, err = c.Tasks(context.Background(), *viewer)
	assert.True(t, IsUnauthenticated(err), "anonymous session cannot read a viewer's list")
}

func TestNon200IsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Viewer(context.Background())
	assert.ErrorContains(t, err, "502")
}

func TestWithTimeoutLeavesCallerHTTPClientAlone(t *testing.T) {
	own := &http.Client{Timeout: time.Minute}
	c := New("http://example.invalid", WithHTTPClient(own), WithTimeout(2*time.Second))

	assert.Equal(t, time.Minute, own.Timeout)
	assert.Equal(t, 2*time.Second, c.http.Timeout)
	assert.NotSame(t, own, c.http)
}
