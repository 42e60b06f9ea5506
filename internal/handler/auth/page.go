package auth

import (
	"github.com/jwalitptl/auth-ui/internal/localization"
	"github.com/jwalitptl/auth-ui/internal/model"
	"github.com/jwalitptl/auth-ui/internal/service/form"
	"github.com/jwalitptl/auth-ui/internal/service/schema"
	"github.com/jwalitptl/auth-ui/internal/service/view"
	"github.com/jwalitptl/auth-ui/internal/web"
)

// viewText holds the localization keys of a view's title, description and
// submit button.
type viewText struct {
	title       string
	description string
	submit      string
}

var viewCopy = map[model.ViewName]viewText{
	model.ViewSignIn:         {localization.KeySignIn, localization.KeySignInDescription, localization.KeySignInAction},
	model.ViewSignUp:         {localization.KeySignUp, localization.KeySignUpDescription, localization.KeySignUpAction},
	model.ViewMagicLink:      {localization.KeySignIn, localization.KeyMagicLinkDescription, localization.KeyMagicLinkAction},
	model.ViewEmailOTP:       {localization.KeySignIn, localization.KeyEmailOTPDescription, localization.KeyEmailOTPSendAction},
	model.ViewForgotPassword: {localization.KeyForgotPassword, localization.KeyForgotPasswordDescription, localization.KeyForgotPasswordAction},
	model.ViewResetPassword:  {localization.KeyResetPassword, localization.KeyResetPasswordDescription, localization.KeyResetPasswordAction},
	model.ViewTwoFactor:      {localization.KeyTwoFactor, localization.KeyTwoFactorPrompt, localization.KeyTwoFactorAction},
	model.ViewRecoverAccount: {localization.KeyRecoverAccount, localization.KeyRecoverAccountDescription, localization.KeyRecoverAccountAction},
}

// page builds the data of the form v served at route.
func (h *Handler) page(route, v model.ViewName, req form.Request, out *form.Outcome) web.Page {
	cfg := h.forms.Config()
	loc := h.forms.Localization()
	text := viewCopy[v]

	var (
		values schema.Values
		errs   schema.FieldErrors
		step   string
	)
	if out != nil {
		values, errs, step = out.Values, out.Errors, out.Step
	}

	description := loc.Get(text.description)
	submit := loc.Get(text.submit)
	if v == model.ViewEmailOTP && step == form.StepVerify {
		description = loc.Get(localization.KeyEmailOTPVerificationSent)
		submit = loc.Get(localization.KeyEmailOTPVerifyAction)
	}

	f := web.NewForm(cfg.ViewURL(route, req.RawQuery), submit, h.forms.Schema(v, req, step), values, errs)
	if v == model.ViewEmailOTP {
		if step == "" {
			step = form.StepSend
		}
		f.WithHidden("step", step)
	}

	return web.Page{
		View:        v,
		Title:       loc.Get(text.title),
		Description: description,
		Form:        f,
		Links:       links(v, req.RawQuery, cfg, loc),
	}
}

// links returns the navigation shown under a view's form. Only views the
// feature flags allow are linked.
func links(v model.ViewName, rawQuery string, cfg model.UIConfig, loc localization.Localization) []web.Link {
	var out []web.Link
	add := func(target model.ViewName, prefix, label string) {
		if !view.Allowed(target, cfg.Features) {
			return
		}
		out = append(out, web.Link{Prefix: prefix, Label: label, Href: cfg.ViewURL(target, rawQuery)})
	}
	methods := func(except model.ViewName) {
		if except != model.ViewSignIn && cfg.Features.Credentials {
			add(model.ViewSignIn, "", loc.Get(localization.KeyPassword))
		}
		if except != model.ViewMagicLink {
			add(model.ViewMagicLink, "", loc.Get(localization.KeyMagicLink))
		}
		if except != model.ViewEmailOTP {
			add(model.ViewEmailOTP, "", loc.Get(localization.KeyEmailOTP))
		}
	}
	signUp := func() {
		add(model.ViewSignUp, loc.Get(localization.KeyDontHaveAnAccount), loc.Get(localization.KeySignUp))
	}

	switch v {
	case model.ViewSignIn:
		if cfg.Features.Credentials {
			add(model.ViewForgotPassword, "", loc.Get(localization.KeyForgotPasswordLink))
		}
		methods(v)
		signUp()
	case model.ViewMagicLink, model.ViewEmailOTP:
		methods(v)
		signUp()
	case model.ViewSignUp:
		if variant := view.SignInVariant(cfg.Features); variant != "" {
			add(variant, loc.Get(localization.KeyAlreadyHaveAnAccount), loc.Get(localization.KeySignIn))
		}
	case model.ViewForgotPassword:
		add(model.ViewSignIn, "", loc.Get(localization.KeyGoBack))
	case model.ViewResetPassword:
		rawQuery = ""
		add(model.ViewSignIn, "", loc.Get(localization.KeyGoBack))
	case model.ViewTwoFactor:
		add(model.ViewRecoverAccount, "", loc.Get(localization.KeyRecoverAccount))
	case model.ViewRecoverAccount:
		add(model.ViewTwoFactor, "", loc.Get(localization.KeyGoBack))
	}
	return out
}
