package graph

import (
	"net/http"

	"tasktracker/internal/auth"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"
)

type request struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves POST /api/graphql. It expects auth.LoadSession to run first.
type Handler struct {
	schema *graphql.Schema
	tasks  *service.TaskService
	log    zerolog.Logger
}

func NewHandler(schema *graphql.Schema, tasks *service.TaskService, log zerolog.Logger) *Handler {
	return &Handler{schema: schema, tasks: tasks, log: log}
}

// Serve godoc
// @Summary      Execute a GraphQL operation
// @Tags         graphql
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]interface{}  true  "query, operationName, variables"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /graphql [post]
func (h *Handler) Serve(c *gin.Context) {
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rc := &RequestContext{
		Caller: auth.CallerFromContext(c),
		Tasks:  h.tasks,
	}
	ctx := WithRequestContext(c.Request.Context(), rc)
	ctx = h.log.WithContext(ctx)

	resp := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
	c.JSON(http.StatusOK, resp)
}
