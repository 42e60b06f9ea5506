package model

import (
	"context"
	"strings"
)

// FeatureConfig holds the authentication capabilities enabled by the
// embedding application.
type FeatureConfig struct {
	Credentials       bool `mapstructure:"credentials" json:"credentials"`
	MagicLink         bool `mapstructure:"magic_link" json:"magic_link"`
	EmailOTP          bool `mapstructure:"email_otp" json:"email_otp"`
	SignUp            bool `mapstructure:"sign_up" json:"sign_up"`
	TwoFactor         bool `mapstructure:"two_factor" json:"two_factor"`
	ConfirmPassword   bool `mapstructure:"confirm_password" json:"confirm_password"`
	Username          bool `mapstructure:"username" json:"username"`
	NameRequired      bool `mapstructure:"name_required" json:"name_required"`
	EmailVerification bool `mapstructure:"email_verification" json:"email_verification"`
	PersistClient     bool `mapstructure:"persist_client" json:"persist_client"`
	ChangeEmail       bool `mapstructure:"change_email" json:"change_email"`
	RememberMe        bool `mapstructure:"remember_me" json:"remember_me"`
}

// FieldType is the value type of an additional sign-up field.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
)

// FieldValidator is a custom check run at submission time, after the
// structural validation passed.
type FieldValidator func(ctx context.Context, value string) (bool, error)

// AdditionalField describes an extra sign-up field beyond the fixed set.
type AdditionalField struct {
	Label       string         `mapstructure:"label" json:"label"`
	Type        FieldType      `mapstructure:"type" json:"type"`
	Required    bool           `mapstructure:"required" json:"required"`
	Placeholder string         `mapstructure:"placeholder" json:"placeholder,omitempty"`
	Validate    FieldValidator `mapstructure:"-" json:"-"`
}

// UIConfig is the single immutable configuration value shared by every
// view. It is passed explicitly to the services that need it.
type UIConfig struct {
	BasePath         string
	BaseURL          string
	RedirectTo       string
	SettingsPath     string
	ViewPaths        ViewPaths
	Features         FeatureConfig
	PasswordPolicy   PasswordPolicy
	SignUpFields     []string
	AdditionalFields map[string]AdditionalField
}

// ViewURL returns basePath/segment for a view with an optional raw query.
func (c UIConfig) ViewURL(view ViewName, rawQuery string) string {
	u := strings.TrimRight(c.BasePath, "/") + "/" + c.ViewPaths.Path(view)
	if rawQuery != "" {
		u += "?" + strings.TrimPrefix(rawQuery, "?")
	}
	return u
}

// WantsSignUpField reports whether name is listed in SignUpFields.
func (c UIConfig) WantsSignUpField(name string) bool {
	for _, f := range c.SignUpFields {
		if f == name {
			return true
		}
	}
	return false
}
