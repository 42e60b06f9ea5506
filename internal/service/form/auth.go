package form

import (
	"context"

	"github.com/jwalitptl/auth-ui/internal/authclient"
	"github.com/jwalitptl/auth-ui/internal/localization"
	"github.com/jwalitptl/auth-ui/internal/model"
	"github.com/jwalitptl/auth-ui/internal/service/schema"
	"github.com/jwalitptl/auth-ui/pkg/validator"
)

// SignUpSchema builds the sign-up schema for req and logs configuration
// problems found on the way.
func (s *Service) SignUpSchema(req Request) *schema.Schema {
	sch := schema.BuildSignUp(s.cfg, s.cfg.PasswordPolicy.Merge(req.PasswordPolicy), s.loc)
	for _, err := range sch.ConfigErrors() {
		s.log.Error().Err(err).Msg("sign up form misconfigured")
	}
	return sch
}

// SignUp creates an account. A session token in the answer signs the user
// in; without one the user must verify the email first and is sent to the
// sign-in view.
func (s *Service) SignUp(ctx context.Context, req Request) (*Outcome, error) {
	sch := s.SignUpSchema(req)

	return s.submit(ctx, FormSignUp, req, sch, func(ctx context.Context, v schema.Values) (*Outcome, error) {
		in := authclient.SignUpEmailInput{
			Email:      v["email"],
			Password:   v["password"],
			Name:       v["name"],
			Additional: sch.Typed(v),
		}
		if sch.Has("username") {
			username := v["username"]
			in.Username = &username
		}
		if s.cfg.Features.EmailVerification && s.cfg.Features.PersistClient {
			in.CallbackURL = s.callbackURL(req)
		}

		res, err := s.client.SignUpEmail(ctx, in)
		if err != nil {
			return nil, err
		}

		if res.Token != "" {
			return &Outcome{Redirect: s.RedirectTarget(req), SetCookies: res.SetCookies}, nil
		}
		return &Outcome{
			Redirect:   s.signInURL(req),
			Toast:      model.NewSuccessToast(s.loc.Get(localization.KeySignUpEmail)),
			SetCookies: res.SetCookies,
		}, nil
	}, options{})
}

// SignIn signs in with email or username and password. A backend asking
// for a second factor sends the user to the two-factor view.
func (s *Service) SignIn(ctx context.Context, req Request) (*Outcome, error) {
	sch := schema.BuildSignIn(s.cfg, s.loc)

	return s.submit(ctx, FormSignIn, req, sch, func(ctx context.Context, v schema.Values) (*Outcome, error) {
		rememberMe := schema.ParseBool(v["rememberMe"])

		email := v["email"]
		if sch.Has("username") {
			email = v["username"]
		}

		var (
			res *authclient.AuthResult
			err error
		)
		if sch.Has("username") && !validator.IsEmail(email) {
			res, err = s.client.SignInUsername(ctx, authclient.SignInUsernameInput{
				Username:   email,
				Password:   v["password"],
				RememberMe: rememberMe,
			})
		} else {
			res, err = s.client.SignInEmail(ctx, authclient.SignInEmailInput{
				Email:      email,
				Password:   v["password"],
				RememberMe: rememberMe,
			})
		}
		if err != nil {
			return nil, err
		}

		if res.TwoFactorRedirect {
			return &Outcome{
				Redirect:   s.cfg.ViewURL(model.ViewTwoFactor, req.RawQuery),
				SetCookies: res.SetCookies,
			}, nil
		}
		return &Outcome{Redirect: s.RedirectTarget(req), SetCookies: res.SetCookies}, nil
	}, options{})
}

// MagicLink emails a sign-in link.
func (s *Service) MagicLink(ctx context.Context, req Request) (*Outcome, error) {
	sch := schema.BuildEmail(s.loc)

	return s.submit(ctx, FormMagicLink, req, sch, func(ctx context.Context, v schema.Values) (*Outcome, error) {
		res, err := s.client.SignInMagicLink(ctx, authclient.MagicLinkInput{
			Email:       v["email"],
			CallbackURL: s.callbackURL(req),
		})
		if err != nil {
			return nil, err
		}
		return &Outcome{
			Values:     sch.Defaults(),
			Toast:      model.NewSuccessToast(s.loc.Get(localization.KeyMagicLinkEmail)),
			SetCookies: res.SetCookies,
		}, nil
	}, options{})
}

// SendEmailOTP emails a one-time code and moves the form to its verify step.
func (s *Service) SendEmailOTP(ctx context.Context, req Request) (*Outcome, error) {
	sch := schema.BuildEmail(s.loc)

	return s.submit(ctx, FormEmailOTPSend, req, sch, func(ctx context.Context, v schema.Values) (*Outcome, error) {
		res, err := s.client.SendVerificationOTP(ctx, authclient.SendOTPInput{
			Email: v["email"],
			Type:  "sign-in",
		})
		if err != nil {
			return nil, err
		}
		return &Outcome{
			Values:     schema.Values{"email": v["email"], "otp": ""},
			Step:       StepVerify,
			SetCookies: res.SetCookies,
		}, nil
	}, options{step: StepSend})
}

// VerifyEmailOTP signs in with the emailed code.
func (s *Service) VerifyEmailOTP(ctx context.Context, req Request) (*Outcome, error) {
	sch := schema.BuildEmailOTPVerify(s.loc)

	return s.submit(ctx, FormEmailOTPVerify, req, sch, func(ctx context.Context, v schema.Values) (*Outcome, error) {
		res, err := s.client.SignInEmailOTP(ctx, authclient.EmailOTPInput{
			Email: v["email"],
			OTP:   v["otp"],
		})
		if err != nil {
			return nil, err
		}
		return &Outcome{Redirect: s.RedirectTarget(req), SetCookies: res.SetCookies}, nil
	}, options{step: StepVerify})
}

// ForgotPassword emails a reset link pointing at the reset-password view.
func (s *Service) ForgotPassword(ctx context.Context, req Request) (*Outcome, error) {
	sch := schema.BuildEmail(s.loc)

	return s.submit(ctx, FormForgotPassword, req, sch, func(ctx context.Context, v schema.Values) (*Outcome, error) {
		res, err := s.client.ForgetPassword(ctx, authclient.ForgetPasswordInput{
			Email:      v["email"],
			RedirectTo: s.absolute(s.cfg.ViewURL(model.ViewResetPassword, "")),
		})
		if err != nil {
			return nil, err
		}
		return &Outcome{
			Redirect:   s.signInURL(req),
			Toast:      model.NewSuccessToast(s.loc.Get(localization.KeyForgotPasswordEmail)),
			SetCookies: res.SetCookies,
		}, nil
	}, options{})
}

// ResetPasswordSchema builds the reset-password schema for req.
func (s *Service) ResetPasswordSchema(req Request) *schema.Schema {
	return schema.BuildResetPassword(s.cfg, s.cfg.PasswordPolicy.Merge(req.PasswordPolicy), s.loc)
}

// CheckResetToken is run before rendering the reset-password view. It
// returns a redirect to sign in when the link carries no usable token.
func (s *Service) CheckResetToken(req Request) *Outcome {
	q := req.Query()
	token := q.Get("token")
	if token != "" && token != invalidToken && q.Get("error") != invalidToken {
		return nil
	}

	s.log.Debug().Msg("reset password link without a valid token")
	return &Outcome{
		Form:     FormResetPassword,
		Redirect: s.cfg.ViewURL(model.ViewSignIn, ""),
		Toast:    model.NewErrorToast(s.loc.Get(localization.KeyResetPasswordInvalidToken)),
	}
}

const invalidToken = "INVALID_TOKEN"

// ResetPassword sets a new password using the token from the reset link.
// A failure clears the whole form.
func (s *Service) ResetPassword(ctx context.Context, req Request) (*Outcome, error) {
	if out := s.CheckResetToken(req); out != nil {
		return out, nil
	}
	sch := s.ResetPasswordSchema(req)
	token := req.Query().Get("token")

	return s.submit(ctx, FormResetPassword, req, sch, func(ctx context.Context, v schema.Values) (*Outcome, error) {
		res, err := s.client.ResetPassword(ctx, authclient.ResetPasswordInput{
			NewPassword: v["newPassword"],
			Token:       token,
		})
		if err != nil {
			return nil, err
		}
		return &Outcome{
			Redirect:   s.cfg.ViewURL(model.ViewSignIn, ""),
			Toast:      model.NewSuccessToast(s.loc.Get(localization.KeyResetPasswordSuccess)),
			SetCookies: res.SetCookies,
		}, nil
	}, options{resetAll: true})
}

// TwoFactor verifies a TOTP code.
func (s *Service) TwoFactor(ctx context.Context, req Request) (*Outcome, error) {
	sch := schema.BuildTwoFactor(s.loc)

	return s.submit(ctx, FormTwoFactor, req, sch, func(ctx context.Context, v schema.Values) (*Outcome, error) {
		res, err := s.client.VerifyTOTP(ctx, authclient.VerifyCodeInput{
			Code:        v["code"],
			TrustDevice: schema.ParseBool(v["trustDevice"]),
		})
		if err != nil {
			return nil, err
		}
		return &Outcome{Redirect: s.RedirectTarget(req), SetCookies: res.SetCookies}, nil
	}, options{})
}

// RecoverAccount signs in with a backup code.
func (s *Service) RecoverAccount(ctx context.Context, req Request) (*Outcome, error) {
	sch := schema.BuildCode("code", localization.KeyBackupCode, s.loc)

	return s.submit(ctx, FormRecoverAccount, req, sch, func(ctx context.Context, v schema.Values) (*Outcome, error) {
		res, err := s.client.VerifyBackupCode(ctx, authclient.VerifyCodeInput{Code: v["code"]})
		if err != nil {
			return nil, err
		}
		return &Outcome{Redirect: s.RedirectTarget(req), SetCookies: res.SetCookies}, nil
	}, options{})
}

// SignOut ends the session and returns to the sign-in view. The user lands
// on sign in even when the backend call fails.
func (s *Service) SignOut(ctx context.Context, req Request) (*Outcome, error) {
	out, err := s.submit(ctx, FormSignOut, req, nil, func(ctx context.Context, _ schema.Values) (*Outcome, error) {
		res, err := s.client.SignOut(ctx)
		if err != nil {
			return nil, err
		}
		return &Outcome{SetCookies: res.SetCookies}, nil
	}, options{})
	if err != nil {
		return nil, err
	}

	s.invalidate(req)
	out.Redirect = s.cfg.ViewURL(model.ViewSignIn, "")
	return out, nil
}

// Callback finishes a redirect based flow: with a session the user goes to
// the redirect target, otherwise back to sign in.
func (s *Service) Callback(req Request, current *model.SessionData) *Outcome {
	if current == nil {
		return &Outcome{Redirect: s.signInURL(req)}
	}
	return &Outcome{Redirect: s.RedirectTarget(req)}
}
