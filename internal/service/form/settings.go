package form

import (
	"context"
	"errors"

	"github.com/jwalitptl/auth-ui/internal/authclient"
	"github.com/jwalitptl/auth-ui/internal/localization"
	"github.com/jwalitptl/auth-ui/internal/model"
	"github.com/jwalitptl/auth-ui/internal/service/schema"
	apperrors "github.com/jwalitptl/auth-ui/pkg/errors"
)

// ErrNoSession is returned by settings operations called without a session.
var ErrNoSession = errors.New("no active session")

// ChangeEmailSchema builds the change-email schema.
func (s *Service) ChangeEmailSchema() *schema.Schema {
	return schema.BuildEmail(s.loc)
}

// ChangeEmail asks the backend to change the user's email. Submitting the
// current address fails locally without a backend call.
func (s *Service) ChangeEmail(ctx context.Context, req Request, current *model.SessionData) (*Outcome, error) {
	if current == nil {
		return nil, ErrNoSession
	}
	if !s.cfg.Features.ChangeEmail {
		return nil, apperrors.Validation("email", "email changes are disabled")
	}

	return s.submit(ctx, FormChangeEmail, req, s.ChangeEmailSchema(), func(ctx context.Context, v schema.Values) (*Outcome, error) {
		newEmail := v["email"]
		if newEmail == current.User.Email {
			return nil, apperrors.Validation("email", s.loc.Get(localization.KeyEmailIsTheSame))
		}

		res, err := s.client.ChangeEmail(ctx, authclient.ChangeEmailInput{
			NewEmail:    newEmail,
			CallbackURL: s.absolute(s.SettingsURL()),
		})
		if err != nil {
			return nil, err
		}

		out := &Outcome{Redirect: s.SettingsURL(), SetCookies: res.SetCookies}
		if current.User.EmailVerified {
			out.Toast = model.NewSuccessToast(s.loc.Get(localization.KeyEmailVerifyChange))
			return out, nil
		}

		s.invalidate(req)
		out.Toast = model.NewSuccessToast(s.loc.Join(localization.KeyEmail, localization.KeyUpdatedSuccessfully))
		return out, nil
	}, options{})
}

// NeedsVerification reports whether the resend verification card is shown.
func (s *Service) NeedsVerification(current *model.SessionData) bool {
	return s.cfg.Features.EmailVerification && current != nil && !current.User.EmailVerified
}

// ResendVerification sends the verification email again.
func (s *Service) ResendVerification(ctx context.Context, req Request, current *model.SessionData) (*Outcome, error) {
	if current == nil {
		return nil, ErrNoSession
	}
	if !s.NeedsVerification(current) {
		return nil, apperrors.Validation("email", "email is already verified")
	}

	return s.submit(ctx, FormResendEmail, req, nil, func(ctx context.Context, _ schema.Values) (*Outcome, error) {
		res, err := s.client.SendVerificationEmail(ctx, authclient.SendVerificationEmailInput{
			Email:       current.User.Email,
			CallbackURL: s.absolute(s.SettingsURL()),
		})
		if err != nil {
			return nil, err
		}
		return &Outcome{
			Redirect:   s.SettingsURL(),
			Toast:      model.NewSuccessToast(s.loc.Get(localization.KeyEmailVerification)),
			SetCookies: res.SetCookies,
		}, nil
	}, options{})
}

// RevokeSession revokes one of the user's sessions. Revoking the current
// one is a sign out.
func (s *Service) RevokeSession(ctx context.Context, req Request, current *model.SessionData, token string) (*Outcome, error) {
	if current == nil {
		return nil, ErrNoSession
	}
	if token == "" {
		return nil, apperrors.Validation("token", "session token is required")
	}
	if token == current.Session.Token {
		return &Outcome{Form: FormRevokeSession, Redirect: s.cfg.ViewURL(model.ViewSignOut, "")}, nil
	}

	return s.submit(ctx, FormRevokeSession, req, nil, func(ctx context.Context, _ schema.Values) (*Outcome, error) {
		res, err := s.client.RevokeSession(ctx, token)
		if err != nil {
			return nil, err
		}
		s.invalidate(req)
		return &Outcome{Redirect: s.SettingsURL(), SetCookies: res.SetCookies}, nil
	}, options{})
}
