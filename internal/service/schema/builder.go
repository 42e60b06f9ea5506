package schema

import (
	"strings"

	"github.com/jwalitptl/auth-ui/internal/localization"
	"github.com/jwalitptl/auth-ui/internal/model"
	apperrors "github.com/jwalitptl/auth-ui/pkg/errors"
	"github.com/jwalitptl/auth-ui/pkg/validator"
)

func required(message string) Rule {
	return Rule{Check: func(v string) bool { return v != "" }, Message: message}
}

func emailField(loc localization.Localization) *Field {
	return &Field{
		Name:         "email",
		Label:        loc.Get(localization.KeyEmail),
		Placeholder:  loc.Get(localization.KeyEmailPlaceholder),
		Input:        "email",
		Type:         model.FieldTypeString,
		Required:     true,
		Autocomplete: "email",
		rules: []Rule{
			required(loc.Join(localization.KeyEmail, localization.KeyIsRequired)),
			{Check: validator.IsEmail, Message: loc.Join(localization.KeyEmail, localization.KeyIsInvalid)},
		},
	}
}

// passwordField applies the policy: a set MinLength replaces the non-empty
// check, then MaxLength, then Pattern.
func passwordField(name, labelKey, placeholderKey, requiredKey, autocomplete string, policy model.PasswordPolicy, loc localization.Localization) *Field {
	f := &Field{
		Name:         name,
		Label:        loc.Get(labelKey),
		Placeholder:  loc.Get(placeholderKey),
		Input:        "password",
		Type:         model.FieldTypeString,
		Required:     true,
		Autocomplete: autocomplete,
	}

	if policy.MinLength > 0 {
		n := policy.MinLength
		f.rules = append(f.rules, Rule{
			Check:   func(v string) bool { return validator.MinRunes(v, n) },
			Message: loc.Get(localization.KeyPasswordTooShort),
		})
	} else {
		f.rules = append(f.rules, required(loc.Get(requiredKey)))
	}

	if policy.MaxLength > 0 {
		n := policy.MaxLength
		f.rules = append(f.rules, Rule{
			Check:   func(v string) bool { return validator.MaxRunes(v, n) },
			Message: loc.Get(localization.KeyPasswordTooLong),
		})
	}

	if policy.Pattern != nil {
		re := policy.Pattern
		f.rules = append(f.rules, Rule{
			Check:   re.MatchString,
			Message: loc.Get(localization.KeyPasswordInvalid),
		})
	}

	return f
}

func matches(field, other string, loc localization.Localization) Cross {
	return Cross{
		Field:   field,
		Check:   func(v Values) bool { return v[field] == v[other] },
		Message: loc.Get(localization.KeyPasswordsDoNotMatch),
	}
}

func additionalField(name string, def model.AdditionalField, loc localization.Localization) *Field {
	f := &Field{
		Name:        name,
		Label:       def.Label,
		Placeholder: def.Placeholder,
		Type:        def.Type,
		Required:    def.Required,
		Additional:  true,
		validate:    def.Validate,
		invalid:     loc.Label(def.Label, localization.KeyIsInvalid),
	}
	isRequired := loc.Label(def.Label, localization.KeyIsRequired)

	switch def.Type {
	case model.FieldTypeNumber:
		f.Input = "number"
		if def.Required {
			f.rules = append(f.rules, Rule{
				Check:   func(v string) bool { return strings.TrimSpace(v) != "" },
				Message: isRequired,
			})
		}
		f.rules = append(f.rules, Rule{
			Check: func(v string) bool {
				_, ok := ParseNumber(v)
				return ok || strings.TrimSpace(v) == ""
			},
			Message: f.invalid,
		})
	case model.FieldTypeBoolean:
		f.Input = "checkbox"
		if def.Required {
			f.rules = append(f.rules, Rule{Check: ParseBool, Message: isRequired})
		}
	default:
		f.Type = model.FieldTypeString
		f.Input = "text"
		if def.Required {
			f.rules = append(f.rules, required(isRequired))
		}
	}

	return f
}

// BuildSignUp assembles the sign-up form: optional name and username, email,
// password and confirmation, then every additional field listed in
// cfg.SignUpFields. Listed fields without a definition are skipped and
// reported through ConfigErrors.
func BuildSignUp(cfg model.UIConfig, policy model.PasswordPolicy, loc localization.Localization) *Schema {
	s := newSchema()
	features := cfg.Features

	if features.NameRequired || cfg.WantsSignUpField("name") {
		name := &Field{
			Name:         "name",
			Label:        loc.Get(localization.KeyName),
			Placeholder:  loc.Get(localization.KeyNamePlaceholder),
			Input:        "text",
			Type:         model.FieldTypeString,
			Required:     features.NameRequired,
			Autocomplete: "name",
		}
		if features.NameRequired {
			name.rules = []Rule{required(loc.Join(localization.KeyName, localization.KeyIsRequired))}
		}
		s.add(name)
	}

	if features.Username {
		s.add(&Field{
			Name:         "username",
			Label:        loc.Get(localization.KeyUsername),
			Placeholder:  loc.Get(localization.KeyUsernamePlaceholder),
			Input:        "text",
			Type:         model.FieldTypeString,
			Required:     true,
			Autocomplete: "username",
			rules:        []Rule{required(loc.Join(localization.KeyUsername, localization.KeyIsRequired))},
		})
	}

	s.add(emailField(loc))
	s.add(passwordField("password", localization.KeyPassword, localization.KeyPasswordPlaceholder,
		localization.KeyPasswordRequired, "new-password", policy, loc))

	if features.ConfirmPassword {
		s.add(passwordField("confirmPassword", localization.KeyConfirmPassword, localization.KeyConfirmPasswordPlaceholder,
			localization.KeyConfirmPasswordRequired, "new-password", policy, loc))
		s.addCross(matches("confirmPassword", "password", loc))
	}

	for _, name := range cfg.SignUpFields {
		if name == "name" || s.Has(name) {
			continue
		}
		def, ok := cfg.AdditionalFields[name]
		if !ok {
			s.configErrors = append(s.configErrors,
				apperrors.Configuration("Additional field "+name+" not found", nil))
			continue
		}
		s.add(additionalField(name, def, loc))
	}

	return s
}

// BuildResetPassword assembles the reset-password form.
func BuildResetPassword(cfg model.UIConfig, policy model.PasswordPolicy, loc localization.Localization) *Schema {
	s := newSchema()
	s.add(passwordField("newPassword", localization.KeyNewPassword, localization.KeyNewPasswordPlaceholder,
		localization.KeyNewPasswordRequired, "new-password", policy, loc))

	if cfg.Features.ConfirmPassword {
		s.add(passwordField("confirmPassword", localization.KeyConfirmPassword, localization.KeyConfirmPasswordPlaceholder,
			localization.KeyConfirmPasswordRequired, "new-password", policy, loc))
		s.addCross(matches("confirmPassword", "newPassword", loc))
	}

	return s
}

// BuildSignIn assembles the credentials sign-in form. With usernames
// enabled the identifier field accepts a username or an email. The
// password policy is not applied on sign-in.
func BuildSignIn(cfg model.UIConfig, loc localization.Localization) *Schema {
	s := newSchema()

	if cfg.Features.Username {
		s.add(&Field{
			Name:         "username",
			Label:        loc.Get(localization.KeyUsername),
			Placeholder:  loc.Get(localization.KeyUsernamePlaceholder),
			Input:        "text",
			Type:         model.FieldTypeString,
			Required:     true,
			Autocomplete: "username",
			rules:        []Rule{required(loc.Join(localization.KeyUsername, localization.KeyIsRequired))},
		})
	} else {
		s.add(emailField(loc))
	}

	s.add(passwordField("password", localization.KeyPassword, localization.KeyPasswordPlaceholder,
		localization.KeyPasswordRequired, "current-password", model.PasswordPolicy{}, loc))

	if cfg.Features.RememberMe {
		s.add(checkbox("rememberMe", loc.Get(localization.KeyRememberMe)))
	}

	return s
}

// BuildEmail assembles a single email field form, used by forgot password,
// magic link, the first email OTP step and change email.
func BuildEmail(loc localization.Localization) *Schema {
	s := newSchema()
	s.add(emailField(loc))
	return s
}

// BuildCode assembles a single required code field.
func BuildCode(name, labelKey string, loc localization.Localization) *Schema {
	s := newSchema()
	s.add(codeField(name, labelKey, loc))
	return s
}

// BuildEmailOTPVerify assembles the second email OTP step.
func BuildEmailOTPVerify(loc localization.Localization) *Schema {
	s := newSchema()
	s.add(emailField(loc))
	s.add(codeField("otp", localization.KeyOneTimePassword, loc))
	return s
}

// BuildTwoFactor assembles the TOTP form with its trust-device checkbox.
func BuildTwoFactor(loc localization.Localization) *Schema {
	s := newSchema()
	s.add(codeField("code", localization.KeyTwoFactorCode, loc))
	s.add(checkbox("trustDevice", loc.Get(localization.KeyTrustDevice)))
	return s
}

func codeField(name, labelKey string, loc localization.Localization) *Field {
	return &Field{
		Name:         name,
		Label:        loc.Get(labelKey),
		Input:        "text",
		Type:         model.FieldTypeString,
		Required:     true,
		Autocomplete: "one-time-code",
		rules:        []Rule{required(loc.Join(labelKey, localization.KeyIsRequired))},
	}
}

func checkbox(name, label string) *Field {
	return &Field{
		Name:  name,
		Label: label,
		Input: "checkbox",
		Type:  model.FieldTypeBoolean,
	}
}
