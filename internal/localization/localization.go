// Package localization holds the flat message-key table used by every view.
package localization

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Localization maps message keys to display strings. A Localization is
// never mutated after construction; Merge returns a new table.
type Localization map[string]string

// Coder is implemented by errors that carry a machine readable code.
type Coder interface {
	ErrorCode() string
}

// Default returns a fresh copy of the built-in English table.
func Default() Localization {
	out := make(Localization, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	return out
}

// Merge returns a copy of l with override applied on top.
func (l Localization) Merge(override map[string]string) Localization {
	out := make(Localization, len(l)+len(override))
	for k, v := range l {
		out[k] = v
	}
	for k, v := range override {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Get returns the string for key, or the key itself when missing.
func (l Localization) Get(key string) string {
	if v, ok := l[key]; ok {
		return v
	}
	return key
}

// Join resolves each key and joins the results with a space, as in
// "Email is required".
func (l Localization) Join(keys ...string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, l.Get(k))
	}
	return strings.Join(parts, " ")
}

// Label joins a literal label with localized suffix keys.
func (l Localization) Label(label string, keys ...string) string {
	if len(keys) == 0 {
		return label
	}
	return label + " " + l.Join(keys...)
}

// ErrorMessage translates an error for display. Errors carrying a code
// known to the table use the localized string, otherwise the error's own
// message, otherwise the generic requestFailed string.
func (l Localization) ErrorMessage(err error) string {
	if err == nil {
		return l.Get(KeyRequestFailed)
	}

	var coder Coder
	if errors.As(err, &coder) {
		if msg, ok := l[coder.ErrorCode()]; ok && msg != "" {
			return msg
		}
	}

	var msgr interface{ ErrorMessage() string }
	if errors.As(err, &msgr) {
		if msg := msgr.ErrorMessage(); msg != "" {
			return msg
		}
	}

	return l.Get(KeyRequestFailed)
}

// Load reads a YAML file of key: value overrides and merges it onto the
// defaults. An empty path returns the defaults.
func Load(path string) (Localization, error) {
	base := Default()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read localization file: %w", err)
	}

	return Parse(base, data)
}

// Parse merges YAML overrides onto base.
func Parse(base Localization, data []byte) (Localization, error) {
	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse localization file: %w", err)
	}
	return base.Merge(overrides), nil
}
