package web

import (
	"github.com/jwalitptl/auth-ui/internal/model"
	"github.com/jwalitptl/auth-ui/internal/service/schema"
)

// Page is the data of an auth view.
type Page struct {
	View        model.ViewName
	Title       string
	Description string
	Toasts      []model.Toast
	Form        *Form
	Links       []Link
	// Message replaces the form on views that only show a status.
	Message string
}

// Link is a navigation link under the form.
type Link struct {
	Prefix string
	Label  string
	Href   string
}

// Form is a rendered form.
type Form struct {
	Action string
	Submit string
	Inputs []Input
	Hidden []Hidden
}

// Input is one rendered field. Password values are never set.
type Input struct {
	Name         string
	Label        string
	Type         string
	Value        string
	Placeholder  string
	Autocomplete string
	Error        string
	Required     bool
	Checked      bool
	ReadOnly     bool
}

// Hidden is a hidden form value.
type Hidden struct {
	Name  string
	Value string
}

// NewForm renders sch with the submitted values and errors.
func NewForm(action, submit string, sch *schema.Schema, values schema.Values, errs schema.FieldErrors) *Form {
	f := &Form{Action: action, Submit: submit}
	if sch == nil {
		return f
	}
	if values == nil {
		values = sch.Defaults()
	}

	for _, field := range sch.Fields() {
		in := Input{
			Name:         field.Name,
			Label:        field.Label,
			Type:         field.Input,
			Placeholder:  field.Placeholder,
			Autocomplete: field.Autocomplete,
			Error:        errs[field.Name],
			Required:     field.Required,
		}
		switch {
		case field.Input == "checkbox":
			in.Checked = schema.ParseBool(values[field.Name])
		case field.Input != "password" && !isSensitive(field.Name):
			in.Value = values[field.Name]
		}
		f.Inputs = append(f.Inputs, in)
	}
	return f
}

// WithHidden appends a hidden value.
func (f *Form) WithHidden(name, value string) *Form {
	f.Hidden = append(f.Hidden, Hidden{Name: name, Value: value})
	return f
}

func isSensitive(name string) bool {
	for _, s := range schema.SensitiveFields {
		if s == name {
			return true
		}
	}
	return false
}

// SettingsPage is the data of the account settings page.
type SettingsPage struct {
	Title   string
	User    model.User
	Toasts  []model.Toast
	Email   *Form
	Resend  *Form
	SignOut string
	// Sessions is empty when the list could not be loaded.
	Sessions []SessionCell
}

// SessionCell is one row of the sessions card.
type SessionCell struct {
	Token       string
	Icon        string
	Description string
	Current     bool
	IPAddress   string
	Revoke      *Form
}

// ErrorPage is rendered when a request fails unexpectedly.
type ErrorPage struct {
	Status    int
	Message   string
	RequestID string
}
