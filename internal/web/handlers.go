package web

import (
	"context"
	"net/http"
	"time"

	"tasktracker/internal/auth"
	"tasktracker/internal/client"

	"github.com/gin-gonic/gin"
)

type indexPage struct {
	Viewer  client.User
	Tasks   []client.Task
	Error   string
	ShowNew bool
	EditID  string
	Form    taskForm
	Errors  formErrors
}

type signInPage struct {
	GitHub bool
	Error  string
}

// apiContext forwards the browser's session to the API.
func apiContext(c *gin.Context) context.Context {
	return client.WithSession(c.Request.Context(), auth.SessionID(c))
}

// viewer resolves the signed-in user. On false the response is already written.
func (s *Server) viewer(c *gin.Context) (client.User, bool) {
	v, err := s.api.Viewer(apiContext(c))
	if err != nil {
		s.log.Error().Err(err).Msg("viewer query")
		s.html(c, http.StatusBadGateway, "signin.html", signInPage{GitHub: s.github, Error: "Could not reach the task service"})
		return client.User{}, false
	}
	if v == nil {
		s.html(c, http.StatusOK, "signin.html", signInPage{GitHub: s.github, Error: c.Query("error")})
		return client.User{}, false
	}
	return *v, true
}

// renderIndex loads the task list into page and renders it with status.
func (s *Server) renderIndex(c *gin.Context, status int, page indexPage) {
	tasks, err := s.api.Tasks(apiContext(c), page.Viewer)
	if err != nil {
		if client.IsUnauthenticated(err) {
			redirectHome(c)
			return
		}
		s.log.Error().Err(err).Msg("tasks query")
		status = http.StatusBadGateway
		page.Error = "Could not load tasks"
	}
	page.Tasks = tasks
	s.html(c, status, "index.html", page)
}

// apiFailure shows err as a banner over the list. Sessions that expired
// mid-action go back to sign-in.
func (s *Server) apiFailure(c *gin.Context, page indexPage, err error) {
	switch {
	case client.IsUnauthenticated(err):
		redirectHome(c)
	case client.IsBadUserInput(err):
		page.Error = client.Message(err)
		s.renderIndex(c, http.StatusBadRequest, page)
	default:
		s.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("api call")
		page.Error = "Something went wrong, please try again"
		s.renderIndex(c, http.StatusBadGateway, page)
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	v, ok := s.viewer(c)
	if !ok {
		return
	}
	page := indexPage{Viewer: v, ShowNew: c.Query("new") == "1", EditID: c.Query("edit")}
	if page.EditID != "" {
		tasks, err := s.api.Tasks(apiContext(c), v)
		if err == nil {
			for _, t := range tasks {
				if t.ID == page.EditID {
					page.Form = taskForm{Name: t.Name, Description: t.Description}
				}
			}
		}
	}
	s.renderIndex(c, http.StatusOK, page)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	v, ok := s.viewer(c)
	if !ok {
		return
	}
	var f taskForm
	if errs := bindErrors(&f, c.ShouldBind(&f)); errs != nil {
		s.renderIndex(c, http.StatusBadRequest, indexPage{Viewer: v, ShowNew: true, Form: f, Errors: errs})
		return
	}
	if _, err := s.api.CreateTask(apiContext(c), v, f.Name, f.Description); err != nil {
		s.apiFailure(c, indexPage{Viewer: v, ShowNew: true, Form: f}, err)
		return
	}
	redirectHome(c)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	v, ok := s.viewer(c)
	if !ok {
		return
	}
	id := c.Param("id")
	var f taskForm
	if errs := bindErrors(&f, c.ShouldBind(&f)); errs != nil {
		s.renderIndex(c, http.StatusBadRequest, indexPage{Viewer: v, EditID: id, Form: f, Errors: errs})
		return
	}
	in := client.UpdateTaskInput{Name: &f.Name, Description: &f.Description}
	if _, err := s.api.UpdateTask(apiContext(c), v, id, in); err != nil {
		s.apiFailure(c, indexPage{Viewer: v, EditID: id, Form: f}, err)
		return
	}
	redirectHome(c)
}

func (s *Server) handleCompleteTask(c *gin.Context) {
	v, ok := s.viewer(c)
	if !ok {
		return
	}
	now := time.Now()
	if _, err := s.api.UpdateTask(apiContext(c), v, c.Param("id"), client.UpdateTaskInput{CompletedAt: &now}); err != nil {
		s.apiFailure(c, indexPage{Viewer: v}, err)
		return
	}
	redirectHome(c)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	v, ok := s.viewer(c)
	if !ok {
		return
	}
	if err := s.api.DeleteTask(apiContext(c), v, c.Param("id")); err != nil {
		s.apiFailure(c, indexPage{Viewer: v}, err)
		return
	}
	redirectHome(c)
}

func (s *Server) handleCreateSubtask(c *gin.Context) {
	v, ok := s.viewer(c)
	if !ok {
		return
	}
	var f taskForm
	if errs := bindErrors(&f, c.ShouldBind(&f)); errs != nil {
		s.renderIndex(c, http.StatusBadRequest, indexPage{Viewer: v, Error: "Subtask name and description are required"})
		return
	}
	if _, err := s.api.CreateSubtask(apiContext(c), v, c.Param("id"), f.Name, f.Description); err != nil {
		s.apiFailure(c, indexPage{Viewer: v}, err)
		return
	}
	redirectHome(c)
}
