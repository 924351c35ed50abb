// Package validation turns struct-tag checks into user-facing field errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Error reports the first invalid field of a submitted form.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func New(field, msg string) *Error { return &Error{Field: field, Message: msg} }

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		// report json names, which is what the forms submit
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return v
}

// Struct validates s and returns nil or a *Error for the first failing field.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var fe validator.ValidationErrors
	if !errors.As(err, &fe) || len(fe) == 0 {
		return &Error{Message: err.Error()}
	}
	f := fe[0]
	return &Error{Field: f.Field(), Message: describe(f)}
}

// Var validates a single value against a tag such as "required,oneof=a b".
func Var(field string, value any, tag string) error {
	err := instance().Var(value, tag)
	if err == nil {
		return nil
	}
	var fe validator.ValidationErrors
	if errors.As(err, &fe) && len(fe) > 0 {
		return &Error{Field: field, Message: describe(fe[0])}
	}
	return &Error{Field: field, Message: err.Error()}
}

func describe(f validator.FieldError) string {
	switch f.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + f.Param()
	case "gte":
		return "must be at least " + f.Param()
	case "oneof":
		return "must be one of: " + f.Param()
	case "max":
		return "must be at most " + f.Param() + " characters"
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid (" + f.Tag() + ")"
	}
}
