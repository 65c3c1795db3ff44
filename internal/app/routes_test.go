package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "tasktracker/docs"
	"tasktracker/internal/auth"
	"tasktracker/internal/client"
	"tasktracker/internal/config"
	"tasktracker/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appEnv struct {
	srv   *httptest.Server
	store *testutil.MemStore
}

func newAppEnv(t *testing.T) *appEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var cfg config.Config
	cfg.App.Env = "test"
	cfg.App.Version = "1.2.3"
	require.NoError(t, cfg.Session.TTL.SetValue("1h"))
	require.NoError(t, cfg.Redis.DefaultTTL.SetValue("60"))

	store := testutil.NewMemStore()
	rdb, _ := testutil.NewRedis(t)

	r := newRouter(cfg, zerolog.Nop())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	api := client.New(srv.URL)
	t.Cleanup(api.Close)

	Setup(r, Deps{
		Config: cfg,
		Log:    zerolog.Nop(),
		Redis:  rdb,
		API:    api,
		Repos:  &Repos{Users: store, Tasks: store},
	})
	return &appEnv{srv: srv, store: store}
}

func (e *appEnv) post(t *testing.T, path, body string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServiceEndpoints(t *testing.T) {
	env := newAppEnv(t)

	for path, want := range map[string]string{
		"/health":  `"ok":true`,
		"/version": `"version":"1.2.3"`,
		"/api":     `"graphql":"/api/graphql"`,
	} {
		resp, err := http.Get(env.srv.URL + path)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, string(body), want, path)
	}

	resp, err := http.Get(env.srv.URL + "/swagger-doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Contains(t, doc["paths"], "/graphql")
}

func TestEndToEndThroughUI(t *testing.T) {
	env := newAppEnv(t)

	resp := env.post(t, "/api/auth/register", `{"email":"ada@example.com","password":"long enough"}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == auth.SessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)

	resp = env.post(t, "/api/graphql", `{"query":"mutation { createTask(name: \"Ship it\", description: \"v1\") { id } }"}`, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, env.store.TaskCount())

	req, err := http.NewRequest(http.MethodGet, env.srv.URL+"/", nil)
	require.NoError(t, err)
	req.AddCookie(session)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	page, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(page), "Ship it")
	assert.Contains(t, string(page), "ada@example.com")
}
