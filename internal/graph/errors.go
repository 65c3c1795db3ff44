package graph

import (
	"context"
	"errors"

	"tasktracker/internal/service"

	"github.com/rs/zerolog"
)

// Error codes reported in errors[].extensions.code.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeBadUserInput    = "BAD_USER_INPUT"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// Error is a resolver error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// Extensions is picked up by graphql-go and copied into the response.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

// toGraphQLError maps service errors onto client-facing ones. Unknown errors
// are logged and replaced with a generic message.
func toGraphQLError(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrUnauthenticated):
		return &Error{Code: CodeUnauthenticated, Message: "You must be signed in", cause: err}
	case errors.Is(err, service.ErrNotFound):
		return &Error{Code: CodeBadUserInput, Message: "Task not found", cause: err}
	case errors.Is(err, service.ErrUnauthorized):
		return &Error{Code: CodeBadUserInput, Message: "Not authorized", cause: err}
	case errors.Is(err, service.ErrInvalidInput):
		return &Error{Code: CodeBadUserInput, Message: err.Error(), cause: err}
	}
	zerolog.Ctx(ctx).Error().Err(err).Msg("resolver failed")
	return &Error{Code: CodeInternal, Message: "Internal server error", cause: err}
}
