// Package view maps request paths to auth views and keeps every resolved
// view consistent with the enabled features.
package view

import (
	"github.com/rs/zerolog"

	"github.com/jwalitptl/auth-ui/internal/model"
	"github.com/jwalitptl/auth-ui/pkg/metrics"
)

// Redirect reasons
const (
	ReasonUnknownPath = "unknown_path"
	ReasonDisabled    = "disabled"
)

// Resolution is the outcome of resolving a path segment. When Redirect is
// set the caller must send the browser there instead of rendering View.
type Resolution struct {
	View     model.ViewName
	Redirect string
	Reason   string
}

// Check is one feature requirement of a view.
type Check func(model.FeatureConfig) bool

var compatibility = map[model.ViewName][]Check{
	model.ViewMagicLink: {
		func(f model.FeatureConfig) bool { return f.MagicLink },
		func(f model.FeatureConfig) bool { return f.Credentials || f.EmailOTP },
	},
	model.ViewEmailOTP: {
		func(f model.FeatureConfig) bool { return f.EmailOTP },
		func(f model.FeatureConfig) bool { return f.Credentials || f.MagicLink },
	},
	model.ViewSignUp: {
		func(f model.FeatureConfig) bool { return f.SignUp },
		credentials,
	},
	model.ViewForgotPassword: {credentials},
	model.ViewResetPassword:  {credentials},
	model.ViewTwoFactor:      {credentials, twoFactor},
	model.ViewRecoverAccount: {credentials, twoFactor},
}

func credentials(f model.FeatureConfig) bool { return f.Credentials }
func twoFactor(f model.FeatureConfig) bool   { return f.TwoFactor }

// Allowed reports whether every requirement of view holds.
func Allowed(view model.ViewName, features model.FeatureConfig) bool {
	for _, check := range compatibility[view] {
		if !check(features) {
			return false
		}
	}
	return true
}

// Resolve maps segment to a view. An empty segment is the sign-in view.
// Unknown segments and views disabled by cfg.Features redirect to the
// sign-in view, keeping rawQuery.
func Resolve(segment, rawQuery string, cfg model.UIConfig) Resolution {
	if segment == "" {
		return Resolution{View: model.ViewSignIn}
	}

	v, ok := cfg.ViewPaths.View(segment)
	if !ok {
		return Resolution{
			View:     model.ViewSignIn,
			Redirect: cfg.ViewURL(model.ViewSignIn, rawQuery),
			Reason:   ReasonUnknownPath,
		}
	}

	if !Allowed(v, cfg.Features) {
		return Resolution{
			View:     v,
			Redirect: cfg.ViewURL(model.ViewSignIn, rawQuery),
			Reason:   ReasonDisabled,
		}
	}

	return Resolution{View: v}
}

// SignInVariant returns which form the sign-in view renders: the
// credentials form, else magic link, else email OTP. It returns "" when no
// sign-in method is enabled.
func SignInVariant(features model.FeatureConfig) model.ViewName {
	switch {
	case features.Credentials:
		return model.ViewSignIn
	case features.MagicLink:
		return model.ViewMagicLink
	case features.EmailOTP:
		return model.ViewEmailOTP
	default:
		return ""
	}
}

// Resolver wraps Resolve with logging and metrics.
type Resolver struct {
	cfg     model.UIConfig
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewResolver(cfg model.UIConfig, log zerolog.Logger, m *metrics.Metrics) *Resolver {
	return &Resolver{
		cfg:     cfg,
		log:     log.With().Str("component", "view_resolver").Logger(),
		metrics: m,
	}
}

func (r *Resolver) Resolve(segment, rawQuery string) Resolution {
	res := Resolve(segment, rawQuery, r.cfg)

	switch res.Reason {
	case ReasonUnknownPath:
		r.log.Error().Str("path", segment).Msg("invalid auth view")
	case ReasonDisabled:
		r.log.Debug().Str("view", string(res.View)).Msg("view disabled by features, redirecting to sign in")
	}
	if res.Redirect != "" {
		r.metrics.ObserveRedirect(string(res.View), res.Reason)
	}

	return res
}

// SignInVariant returns the sign-in form for the resolver's features.
func (r *Resolver) SignInVariant() model.ViewName {
	return SignInVariant(r.cfg.Features)
}

// Config returns the configuration the resolver was built with.
func (r *Resolver) Config() model.UIConfig {
	return r.cfg
}
