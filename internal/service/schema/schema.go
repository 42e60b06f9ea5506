// Package schema builds the field validation rules of each auth form from
// the UI configuration. Builders are pure: the same configuration always
// yields the same schema, and nothing is cached between requests.
package schema

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jwalitptl/auth-ui/internal/model"
)

// Sensitive fields are cleared whenever a submission fails.
var SensitiveFields = []string{"password", "confirmPassword", "newPassword"}

// Values holds raw form values keyed by field name.
type Values map[string]string

// Clone returns a copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// ResetSensitive blanks every sensitive field present in v.
func (v Values) ResetSensitive() {
	for _, name := range SensitiveFields {
		if _, ok := v[name]; ok {
			v[name] = ""
		}
	}
}

// FieldErrors maps a field name to its first error message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Rule is one structural check. Check receives the raw value.
type Rule struct {
	Check   func(value string) bool
	Message string
}

// Field is a rendered and validated form field.
type Field struct {
	Name         string
	Label        string
	Placeholder  string
	Input        string
	Type         model.FieldType
	Required     bool
	Autocomplete string
	// Additional marks fields coming from the additional field definitions.
	Additional bool

	rules    []Rule
	validate model.FieldValidator
	invalid  string
}

// Cross is a rule over several fields whose error attaches to Field only.
type Cross struct {
	Field   string
	Check   func(Values) bool
	Message string
}

// Schema is the ordered set of fields of one form.
type Schema struct {
	fields       []*Field
	byName       map[string]*Field
	cross        []Cross
	configErrors []error
}

func newSchema() *Schema {
	return &Schema{byName: make(map[string]*Field)}
}

func (s *Schema) add(f *Field) {
	s.fields = append(s.fields, f)
	s.byName[f.Name] = f
}

func (s *Schema) addCross(c Cross) {
	s.cross = append(s.cross, c)
}

// Fields returns the fields in render order.
func (s *Schema) Fields() []Field {
	out := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, *f)
	}
	return out
}

// Field returns the named field.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return *f, true
}

// Has reports whether the schema contains name.
func (s *Schema) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// ConfigErrors returns the configuration problems found while building.
func (s *Schema) ConfigErrors() []error {
	return s.configErrors
}

// Defaults returns the initial form values: "false" for boolean fields and
// "" for everything else.
func (s *Schema) Defaults() Values {
	out := make(Values, len(s.fields))
	for _, f := range s.fields {
		if f.Type == model.FieldTypeBoolean {
			out[f.Name] = "false"
			continue
		}
		out[f.Name] = ""
	}
	return out
}

// Normalize keeps only the schema's fields, filling absent ones with their
// defaults and coercing booleans to "true" or "false".
func (s *Schema) Normalize(in Values) Values {
	out := s.Defaults()
	for _, f := range s.fields {
		v, ok := in[f.Name]
		if !ok {
			continue
		}
		if f.Type == model.FieldTypeBoolean {
			out[f.Name] = strconv.FormatBool(ParseBool(v))
			continue
		}
		out[f.Name] = v
	}
	return out
}

// Validate runs the structural rules of every field, then every cross-field
// rule whose own field passed. It returns nil when the values are valid.
func (s *Schema) Validate(values Values) FieldErrors {
	errs := FieldErrors{}
	for _, f := range s.fields {
		v := values[f.Name]
		for _, r := range f.rules {
			if !r.Check(v) {
				errs[f.Name] = r.Message
				break
			}
		}
	}

	for _, c := range s.cross {
		if _, failed := errs[c.Field]; failed {
			continue
		}
		if !c.Check(values) {
			errs[c.Field] = c.Message
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// RunValidators runs the custom validators of string fields one after the
// other and stops at the first failure. A validator error is returned
// alongside the field error.
func (s *Schema) RunValidators(ctx context.Context, values Values) (FieldErrors, error) {
	for _, f := range s.fields {
		if f.validate == nil || f.Type != model.FieldTypeString {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, err := f.validate(ctx, values[f.Name])
		if err != nil {
			return FieldErrors{f.Name: f.invalid}, fmt.Errorf("validator for %s failed: %w", f.Name, err)
		}
		if !ok {
			return FieldErrors{f.Name: f.invalid}, nil
		}
	}
	return nil, nil
}

// Typed converts the additional fields of values to their declared types:
// numbers to float64 (absent when empty), booleans to bool and strings as
// they are.
func (s *Schema) Typed(values Values) map[string]interface{} {
	out := make(map[string]interface{})
	for _, f := range s.fields {
		if !f.Additional {
			continue
		}
		raw := values[f.Name]
		switch f.Type {
		case model.FieldTypeNumber:
			if n, ok := ParseNumber(raw); ok {
				out[f.Name] = n
			}
		case model.FieldTypeBoolean:
			out[f.Name] = ParseBool(raw)
		default:
			out[f.Name] = raw
		}
	}
	return out
}

// ParseBool coerces a checkbox value.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "1", "yes":
		return true
	default:
		return false
	}
}

// ParseNumber parses a finite numeric field. Empty input is absent.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
