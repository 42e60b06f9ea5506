package validator

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single struct validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DefaultMessages maps validator tags to messages used by Struct.
var DefaultMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email",
	"min":      "is too short",
	"max":      "is too long",
	"url":      "must be a valid URL",
	"oneof":    "has an unsupported value",
	"gt":       "must be greater than zero",
}

var (
	once     sync.Once
	validate *validator.Validate
)

// Engine returns the shared go-playground validator. It is safe for
// concurrent use and caches struct metadata.
func Engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Var reports whether value satisfies the validator tag.
func Var(value interface{}, tag string) bool {
	return Engine().Var(value, tag) == nil
}

// IsEmail reports whether s has the shape of an email address.
func IsEmail(s string) bool {
	return Var(s, "email")
}

// MinRunes reports whether s has at least n characters.
func MinRunes(s string, n int) bool {
	return Var(s, "min="+strconv.Itoa(n))
}

// MaxRunes reports whether s has at most n characters.
func MaxRunes(s string, n int) bool {
	return Var(s, "max="+strconv.Itoa(n))
}

// Struct validates obj using `validate` tags and flattens the result.
func Struct(obj interface{}) []FieldError {
	err := Engine().Struct(obj)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		msg := DefaultMessages[e.Tag()]
		if msg == "" {
			msg = e.Error()
		}
		out = append(out, FieldError{
			Field:   e.Namespace(),
			Message: msg,
		})
	}
	return out
}
