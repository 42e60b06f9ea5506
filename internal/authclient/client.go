// Package authclient is the boundary to the external authentication
// backend. Every security sensitive operation crosses through Client.
package authclient

import (
	"context"

	"github.com/jwalitptl/auth-ui/internal/model"
)

// Client performs authentication operations against the backend. All
// methods honour ctx cancellation and never retry on their own.
type Client interface {
	SignUpEmail(ctx context.Context, in SignUpEmailInput) (*AuthResult, error)
	SignInEmail(ctx context.Context, in SignInEmailInput) (*AuthResult, error)
	SignInUsername(ctx context.Context, in SignInUsernameInput) (*AuthResult, error)
	SignInMagicLink(ctx context.Context, in MagicLinkInput) (*Result, error)
	SendVerificationOTP(ctx context.Context, in SendOTPInput) (*Result, error)
	SignInEmailOTP(ctx context.Context, in EmailOTPInput) (*AuthResult, error)
	ForgetPassword(ctx context.Context, in ForgetPasswordInput) (*Result, error)
	ResetPassword(ctx context.Context, in ResetPasswordInput) (*Result, error)
	VerifyTOTP(ctx context.Context, in VerifyCodeInput) (*AuthResult, error)
	VerifyBackupCode(ctx context.Context, in VerifyCodeInput) (*AuthResult, error)
	ChangeEmail(ctx context.Context, in ChangeEmailInput) (*Result, error)
	SendVerificationEmail(ctx context.Context, in SendVerificationEmailInput) (*Result, error)
	RevokeSession(ctx context.Context, token string) (*Result, error)
	ListSessions(ctx context.Context) ([]model.Session, error)
	GetSession(ctx context.Context) (*model.SessionData, error)
	SignOut(ctx context.Context) (*Result, error)
	Ping(ctx context.Context) error
}

// Result carries the Set-Cookie headers the backend returned; the HTTP
// layer relays them to the browser.
type Result struct {
	SetCookies []string `json:"-"`
}

// AuthResult is returned by operations that may establish a session.
type AuthResult struct {
	Result
	Token             string      `json:"token,omitempty"`
	TwoFactorRedirect bool        `json:"twoFactorRedirect,omitempty"`
	User              *model.User `json:"user,omitempty"`
}

type SignUpEmailInput struct {
	Email       string
	Password    string
	Name        string
	Username    *string
	CallbackURL string
	// Additional holds extra sign-up fields, already coerced to their types.
	Additional map[string]interface{}
}

type SignInEmailInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	RememberMe  bool   `json:"rememberMe"`
	CallbackURL string `json:"callbackURL,omitempty"`
}

type SignInUsernameInput struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type MagicLinkInput struct {
	Email       string `json:"email"`
	CallbackURL string `json:"callbackURL,omitempty"`
}

type SendOTPInput struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

type EmailOTPInput struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type ForgetPasswordInput struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

type ResetPasswordInput struct {
	NewPassword string `json:"newPassword"`
	Token       string `json:"token"`
}

type VerifyCodeInput struct {
	Code        string `json:"code"`
	TrustDevice bool   `json:"trustDevice,omitempty"`
}

type ChangeEmailInput struct {
	NewEmail    string `json:"newEmail"`
	CallbackURL string `json:"callbackURL,omitempty"`
}

type SendVerificationEmailInput struct {
	Email       string `json:"email"`
	CallbackURL string `json:"callbackURL,omitempty"`
}

type cookieKey struct{}

// WithCookies returns a context carrying the browser's Cookie header so the
// backend sees the same session as the browser.
func WithCookies(ctx context.Context, cookieHeader string) context.Context {
	return context.WithValue(ctx, cookieKey{}, cookieHeader)
}

// CookiesFrom returns the Cookie header stored by WithCookies.
func CookiesFrom(ctx context.Context) string {
	v, _ := ctx.Value(cookieKey{}).(string)
	return v
}
