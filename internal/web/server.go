package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"tasktracker/internal/client"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server renders the task UI. All data goes through the GraphQL client,
// never straight to the services.
type Server struct {
	api    *client.Client
	tmpl   *template.Template
	log    zerolog.Logger
	github bool
}

// NewServer parses the embedded templates. githubLogin shows the GitHub
// sign-in link.
func NewServer(api *client.Client, log zerolog.Logger, githubLogin bool) *Server {
	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"date": formatDate,
	}).ParseFS(templateFS, "templates/*.html"))
	return &Server{api: api, tmpl: tmpl, log: log, github: githubLogin}
}

func (s *Server) Register(r gin.IRouter) {
	r.GET("/", s.handleIndex)
	r.POST("/tasks", s.handleCreateTask)
	r.POST("/tasks/:id", s.handleUpdateTask)
	r.POST("/tasks/:id/complete", s.handleCompleteTask)
	r.POST("/tasks/:id/delete", s.handleDeleteTask)
	r.POST("/tasks/:id/subtasks", s.handleCreateSubtask)
}

func (s *Server) html(c *gin.Context, status int, name string, data any) {
	c.Render(status, render.HTML{Template: s.tmpl, Name: name, Data: data})
}

func formatDate(v any) string {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case *time.Time:
		if x != nil {
			t = *x
		}
	}
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}

// redirectHome closes whatever form was open.
func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}
