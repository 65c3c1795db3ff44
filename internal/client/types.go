package client

import (
	"errors"
	"strings"
	"time"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Task struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Subtasks    []Subtask  `json:"subtasks"`
}

type Subtask struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// UpdateTaskInput carries the fields to change; nil fields are not sent.
type UpdateTaskInput struct {
	Name        *string
	Description *string
	CompletedAt *time.Time
}

// GraphQLError is one entry of a response's errors array.
type GraphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// ResponseError is returned when the server answers with GraphQL errors.
type ResponseError struct {
	Errors []GraphQLError
}

func (e *ResponseError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ge := range e.Errors {
		msgs[i] = ge.Message
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

// Code returns the code of the first error.
func (e *ResponseError) Code() string {
	if len(e.Errors) == 0 {
		return ""
	}
	return e.Errors[0].Extensions.Code
}

// IsUnauthenticated reports whether err says the session is missing or invalid.
func IsUnauthenticated(err error) bool {
	var re *ResponseError
	return errors.As(err, &re) && re.Code() == "UNAUTHENTICATED"
}

// IsBadUserInput reports whether err rejects the request's arguments
// (unknown or foreign task, invalid field values).
func IsBadUserInput(err error) bool {
	var re *ResponseError
	return errors.As(err, &re) && re.Code() == "BAD_USER_INPUT"
}

// Message returns the first GraphQL error message in err, or err.Error().
func Message(err error) string {
	var re *ResponseError
	if errors.As(err, &re) && len(re.Errors) > 0 {
		return re.Errors[0].Message
	}
	return err.Error()
}
