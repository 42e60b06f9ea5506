// Package authclienttest provides an in-memory authclient.Client for tests.
package authclienttest

import (
	"context"
	"sync"

	"github.com/jwalitptl/auth-ui/internal/authclient"
	"github.com/jwalitptl/auth-ui/internal/model"
)

// Call is one recorded invocation.
type Call struct {
	Method string
	Input  interface{}
}

// Fake records every call and answers with the canned values below.
// Errors is keyed by method name, e.g. "SignUpEmail".
type Fake struct {
	Errors     map[string]error
	AuthResult *authclient.AuthResult
	Session    *model.SessionData
	Sessions   []model.Session
	SetCookies []string

	// Block, when set, makes every call wait until it is closed or ctx ends.
	Block chan struct{}
	// Entered receives a value each time a call starts, when set.
	Entered chan string

	mu    sync.Mutex
	calls []Call
}

var _ authclient.Client = (*Fake)(nil)

func New() *Fake {
	return &Fake{Errors: map[string]error{}}
}

// Calls returns a copy of the recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times method was called.
func (f *Fake) CallCount(method string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}

// LastInput returns the input of the last call to method, or nil.
func (f *Fake) LastInput(method string) interface{} {
	calls := f.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == method {
			return calls[i].Input
		}
	}
	return nil
}

func (f *Fake) record(ctx context.Context, method string, in interface{}) error {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: method, Input: in})
	err := f.Errors[method]
	f.mu.Unlock()

	if f.Entered != nil {
		f.Entered <- method
	}
	if f.Block != nil {
		select {
		case <-f.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *Fake) result() *authclient.Result {
	return &authclient.Result{SetCookies: f.SetCookies}
}

func (f *Fake) authResult() *authclient.AuthResult {
	if f.AuthResult != nil {
		res := *f.AuthResult
		res.SetCookies = f.SetCookies
		return &res
	}
	return &authclient.AuthResult{Result: *f.result()}
}

func (f *Fake) SignUpEmail(ctx context.Context, in authclient.SignUpEmailInput) (*authclient.AuthResult, error) {
	if err := f.record(ctx, "SignUpEmail", in); err != nil {
		return nil, err
	}
	return f.authResult(), nil
}

func (f *Fake) SignInEmail(ctx context.Context, in authclient.SignInEmailInput) (*authclient.AuthResult, error) {
	if err := f.record(ctx, "SignInEmail", in); err != nil {
		return nil, err
	}
	return f.authResult(), nil
}

func (f *Fake) SignInUsername(ctx context.Context, in authclient.SignInUsernameInput) (*authclient.AuthResult, error) {
	if err := f.record(ctx, "SignInUsername", in); err != nil {
		return nil, err
	}
	return f.authResult(), nil
}

func (f *Fake) SignInMagicLink(ctx context.Context, in authclient.MagicLinkInput) (*authclient.Result, error) {
	if err := f.record(ctx, "SignInMagicLink", in); err != nil {
		return nil, err
	}
	return f.result(), nil
}

func (f *Fake) SendVerificationOTP(ctx context.Context, in authclient.SendOTPInput) (*authclient.Result, error) {
	if err := f.record(ctx, "SendVerificationOTP", in); err != nil {
		return nil, err
	}
	return f.result(), nil
}

func (f *Fake) SignInEmailOTP(ctx context.Context, in authclient.EmailOTPInput) (*authclient.AuthResult, error) {
	if err := f.record(ctx, "SignInEmailOTP", in); err != nil {
		return nil, err
	}
	return f.authResult(), nil
}

func (f *Fake) ForgetPassword(ctx context.Context, in authclient.ForgetPasswordInput) (*authclient.Result, error) {
	if err := f.record(ctx, "ForgetPassword", in); err != nil {
		return nil, err
	}
	return f.result(), nil
}

func (f *Fake) ResetPassword(ctx context.Context, in authclient.ResetPasswordInput) (*authclient.Result, error) {
	if err := f.record(ctx, "ResetPassword", in); err != nil {
		return nil, err
	}
	return f.result(), nil
}

func (f *Fake) VerifyTOTP(ctx context.Context, in authclient.VerifyCodeInput) (*authclient.AuthResult, error) {
	if err := f.record(ctx, "VerifyTOTP", in); err != nil {
		return nil, err
	}
	return f.authResult(), nil
}

func (f *Fake) VerifyBackupCode(ctx context.Context, in authclient.VerifyCodeInput) (*authclient.AuthResult, error) {
	if err := f.record(ctx, "VerifyBackupCode", in); err != nil {
		return nil, err
	}
	return f.authResult(), nil
}

func (f *Fake) ChangeEmail(ctx context.Context, in authclient.ChangeEmailInput) (*authclient.Result, error) {
	if err := f.record(ctx, "ChangeEmail", in); err != nil {
		return nil, err
	}
	return f.result(), nil
}

func (f *Fake) SendVerificationEmail(ctx context.Context, in authclient.SendVerificationEmailInput) (*authclient.Result, error) {
	if err := f.record(ctx, "SendVerificationEmail", in); err != nil {
		return nil, err
	}
	return f.result(), nil
}

func (f *Fake) RevokeSession(ctx context.Context, token string) (*authclient.Result, error) {
	if err := f.record(ctx, "RevokeSession", token); err != nil {
		return nil, err
	}
	return f.result(), nil
}

func (f *Fake) ListSessions(ctx context.Context) ([]model.Session, error) {
	if err := f.record(ctx, "ListSessions", nil); err != nil {
		return nil, err
	}
	return f.Sessions, nil
}

func (f *Fake) GetSession(ctx context.Context) (*model.SessionData, error) {
	if err := f.record(ctx, "GetSession", nil); err != nil {
		return nil, err
	}
	return f.Session, nil
}

func (f *Fake) SignOut(ctx context.Context) (*authclient.Result, error) {
	if err := f.record(ctx, "SignOut", nil); err != nil {
		return nil, err
	}
	return f.result(), nil
}

func (f *Fake) Ping(ctx context.Context) error {
	return f.record(ctx, "Ping", nil)
}
