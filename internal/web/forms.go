package web

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type taskForm struct {
	Name        string `form:"name" binding:"required,max=120"`
	Description string `form:"description" binding:"required,max=1000"`
}

// formErrors maps a form field name to the message shown next to it.
type formErrors map[string]string

// bindErrors turns a binding failure into per-field messages. Whitespace-only
// values pass the "required" tag, so they are checked here too.
func bindErrors(f *taskForm, err error) formErrors {
	out := formErrors{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[fieldName(fe.Field())] = message(fe)
		}
	} else if err != nil {
		out["form"] = "Invalid form"
	}
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	if _, ok := out["name"]; !ok && f.Name == "" {
		out["name"] = "Required"
	}
	if _, ok := out["description"]; !ok && f.Description == "" {
		out["description"] = "Required"
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func fieldName(structField string) string {
	return strings.ToLower(structField)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	default:
		return "Invalid"
	}
}
