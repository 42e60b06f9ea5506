// Package form drives auth form submissions: local validation, the
// delegated auth backend call, and the resulting toast or redirect.
package form

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/auth-ui/internal/authclient"
	"github.com/jwalitptl/auth-ui/internal/localization"
	"github.com/jwalitptl/auth-ui/internal/model"
	"github.com/jwalitptl/auth-ui/internal/service/schema"
	apperrors "github.com/jwalitptl/auth-ui/pkg/errors"
	"github.com/jwalitptl/auth-ui/pkg/metrics"
)

// Form names, used for the in-flight guard, logs and metrics.
const (
	FormSignUp         = "sign_up"
	FormSignIn         = "sign_in"
	FormMagicLink      = "magic_link"
	FormEmailOTPSend   = "email_otp_send"
	FormEmailOTPVerify = "email_otp_verify"
	FormForgotPassword = "forgot_password"
	FormResetPassword  = "reset_password"
	FormTwoFactor      = "two_factor"
	FormRecoverAccount = "recover_account"
	FormSignOut        = "sign_out"
	FormChangeEmail    = "change_email"
	FormResendEmail    = "resend_verification"
	FormRevokeSession  = "revoke_session"
)

// Email OTP steps
const (
	StepSend   = "send"
	StepVerify = "verify"
)

// SessionCache is refreshed after mutations that change the session.
type SessionCache interface {
	Invalidate(cookieHeader string)
}

// Request is one submission as received from the browser.
type Request struct {
	// ClientKey identifies the browser for the in-flight guard.
	ClientKey string
	// Cookies is the browser's Cookie header, forwarded to the backend.
	Cookies  string
	Values   schema.Values
	RawQuery string
	// RedirectTo overrides the redirectTo query parameter.
	RedirectTo string
	// PasswordPolicy is merged over the configured policy.
	PasswordPolicy model.PasswordPolicy
}

// Query parses RawQuery.
func (r Request) Query() url.Values {
	q, _ := url.ParseQuery(r.RawQuery)
	return q
}

// Outcome is the result of a submission. A zero Redirect means the form is
// rendered again with Values, Errors and Toast.
type Outcome struct {
	Form       string
	State      State
	History    []State
	Values     schema.Values
	Errors     schema.FieldErrors
	Toast      *model.Toast
	Redirect   string
	SetCookies []string
	Step       string
	// Err classifies a failed outcome.
	Err error
}

type Service struct {
	cfg      model.UIConfig
	loc      localization.Localization
	client   authclient.Client
	sessions SessionCache
	guard    *Guard
	log      zerolog.Logger
	metrics  *metrics.Metrics
}

func NewService(cfg model.UIConfig, loc localization.Localization, client authclient.Client, sessions SessionCache, guard *Guard, log zerolog.Logger, m *metrics.Metrics) *Service {
	if guard == nil {
		guard = NewGuard(0)
	}
	return &Service{
		cfg:      cfg,
		loc:      loc,
		client:   client,
		sessions: sessions,
		guard:    guard,
		log:      log.With().Str("component", "form").Logger(),
		metrics:  m,
	}
}

// Config returns the UI configuration.
func (s *Service) Config() model.UIConfig {
	return s.cfg
}

// Localization returns the message table.
func (s *Service) Localization() localization.Localization {
	return s.loc
}

type action func(ctx context.Context, values schema.Values) (*Outcome, error)

type options struct {
	// resetAll clears every field on failure instead of the sensitive ones.
	resetAll bool
	step     string
}

// submit runs one submission through the state machine. It returns
// ErrSubmitInFlight when the guard rejects it and ctx's error when the
// request was cancelled during the backend call.
func (s *Service) submit(ctx context.Context, form string, req Request, sch *schema.Schema, act action, opts options) (*Outcome, error) {
	started := time.Now()

	release, err := s.guard.Acquire(req.ClientKey, form)
	if err != nil {
		s.log.Debug().Str("form", form).Msg("submission ignored, another one is in flight")
		s.metrics.ObserveSubmission(form, "in_flight", started)
		return nil, err
	}
	defer release()

	ctx = authclient.WithCookies(ctx, req.Cookies)
	sub := NewSubmission()

	values := req.Values.Clone()
	if sch != nil {
		values = sch.Normalize(req.Values)
	}

	s.must(sub.transition(StateValidating))
	if sch != nil {
		errs := sch.Validate(values)
		if errs == nil {
			var verr error
			errs, verr = sch.RunValidators(ctx, values)
			if verr != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				s.log.Warn().Err(verr).Str("form", form).Msg("custom validator failed")
			}
		}
		if errs != nil {
			s.must(sub.transition(StateIdle))
			s.metrics.ObserveSubmission(form, "invalid", started)
			return &Outcome{
				Form:    form,
				State:   sub.State(),
				History: sub.History(),
				Values:  values,
				Errors:  errs,
				Step:    opts.step,
				Err:     apperrors.Validation(firstInvalid(sch, errs), errs.Error()),
			}, nil
		}
	}

	s.must(sub.transition(StateSubmitting))
	out, err := act(ctx, values)
	if err != nil {
		if ctx.Err() != nil {
			s.metrics.ObserveSubmission(form, "cancelled", started)
			return nil, ctx.Err()
		}

		s.must(sub.transition(StateFailed))
		s.log.Warn().
			Str("form", form).
			Str("code", codeOf(err)).
			Err(err).
			Msg("submission failed")

		if opts.resetAll && sch != nil {
			values = sch.Defaults()
		} else {
			values.ResetSensitive()
		}
		s.must(sub.transition(StateIdle))
		s.metrics.ObserveSubmission(form, "failed", started)

		return &Outcome{
			Form:    form,
			State:   sub.State(),
			History: sub.History(),
			Values:  values,
			Toast:   model.NewErrorToast(s.loc.ErrorMessage(err)),
			Step:    opts.step,
			Err:     classify(err),
		}, nil
	}

	s.must(sub.transition(StateSuccess))
	s.metrics.ObserveSubmission(form, "success", started)

	if out == nil {
		out = &Outcome{}
	}
	out.Form = form
	out.State = sub.State()
	out.History = sub.History()
	if out.Values == nil {
		out.Values = values
	}
	return out, nil
}

func (s *Service) must(err error) {
	if err != nil {
		s.log.Error().Err(err).Msg("submission state machine violated")
	}
}

func firstInvalid(sch *schema.Schema, errs schema.FieldErrors) string {
	for _, f := range sch.Fields() {
		if _, ok := errs[f.Name]; ok {
			return f.Name
		}
	}
	return ""
}

func codeOf(err error) string {
	var coder localization.Coder
	if apperrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// classify keeps application errors as they are and marks everything else
// as a failure of the delegated backend call.
func classify(err error) error {
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		return appErr
	}

	var authErr *authclient.Error
	if apperrors.As(err, &authErr) {
		return apperrors.DelegatedFailure(authErr.Code, authErr.Message, err)
	}
	return apperrors.DelegatedFailure(authclient.CodeUnknown, err.Error(), err)
}

// RedirectTarget returns where a successful sign in goes: the request's
// explicit target, the redirectTo query parameter, the configured default.
// Targets outside this application are ignored.
func (s *Service) RedirectTarget(req Request) string {
	for _, candidate := range []string{req.RedirectTo, req.Query().Get("redirectTo"), s.cfg.RedirectTo} {
		if candidate != "" && s.isLocal(candidate) {
			return candidate
		}
	}
	return "/"
}

func (s *Service) isLocal(target string) bool {
	// Browsers drop tabs and newlines and read a backslash as a slash, so
	// "/\t/host" would become "//host".
	if strings.IndexFunc(target, unsafeURLRune) >= 0 {
		return false
	}
	if strings.HasPrefix(target, "/") {
		if strings.HasPrefix(target, "//") {
			return false
		}
		u, err := url.Parse(target)
		return err == nil && u.Scheme == "" && u.Host == ""
	}
	base := strings.TrimRight(s.cfg.BaseURL, "/")
	return base != "" && (target == base || strings.HasPrefix(target, base+"/"))
}

func unsafeURLRune(r rune) bool {
	return r < 0x20 || r == 0x7f || r == '\\'
}

// absolute prefixes path with the configured base URL.
func (s *Service) absolute(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(s.cfg.BaseURL, "/") + path
}

// callbackURL is where links sent by email land. With a persisted client
// they go through the callback view so the session is picked up first.
func (s *Service) callbackURL(req Request) string {
	target := s.RedirectTarget(req)
	if s.cfg.Features.PersistClient {
		return s.absolute(s.cfg.ViewURL(model.ViewCallback, "redirectTo="+url.QueryEscape(target)))
	}
	return s.absolute(target)
}

func (s *Service) signInURL(req Request) string {
	return s.cfg.ViewURL(model.ViewSignIn, req.RawQuery)
}

// SettingsURL is the path of the account settings page.
func (s *Service) SettingsURL() string {
	if s.cfg.SettingsPath != "" {
		return s.cfg.SettingsPath
	}
	return strings.TrimRight(s.cfg.BasePath, "/") + "/settings"
}

func (s *Service) invalidate(req Request) {
	if s.sessions != nil {
		s.sessions.Invalidate(req.Cookies)
	}
}
