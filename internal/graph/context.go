package graph

import (
	"context"

	dom "tasktracker/internal/domain"
	"tasktracker/internal/service"
)

// RequestContext is built once per inbound request and read by every resolver.
type RequestContext struct {
	// Caller is nil for anonymous requests.
	Caller *dom.User
	Tasks  *service.TaskService
}

type requestContextKey struct{}

// WithRequestContext attaches rc to ctx.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// RequestContextFrom returns the RequestContext attached by the handler.
// It panics if none is attached: resolvers only run behind the handler.
func RequestContextFrom(ctx context.Context) *RequestContext {
	rc, ok := ctx.Value(requestContextKey{}).(*RequestContext)
	if !ok {
		panic("graph: request context missing")
	}
	return rc
}
