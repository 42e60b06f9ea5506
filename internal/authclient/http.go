package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/auth-ui/internal/model"
	"github.com/jwalitptl/auth-ui/pkg/circuitbreaker"
	"github.com/jwalitptl/auth-ui/pkg/metrics"
)

const maxResponseBytes = 1 << 20

// Config configures the HTTP client.
type Config struct {
	// BaseURL is the backend's auth mount, e.g. https://app.example.com/api/auth.
	BaseURL string
	Timeout time.Duration
	// Origin is sent on every request; backends use it for CSRF checks.
	Origin         string
	MaxFailures    int
	BreakerTimeout time.Duration
}

// HTTPClient implements Client against a JSON auth backend.
type HTTPClient struct {
	baseURL string
	origin  string
	http    *http.Client
	cb      *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
	log     zerolog.Logger
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(cfg Config, m *metrics.Metrics, log zerolog.Logger) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		origin:  cfg.Origin,
		http:    &http.Client{Timeout: cfg.Timeout},
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "auth-backend",
			MaxFailures: cfg.MaxFailures,
			Timeout:     cfg.BreakerTimeout,
			IsFailure: func(err error) bool {
				return !errors.Is(err, context.Canceled)
			},
		}),
		metrics: m,
		log:     log.With().Str("component", "authclient").Logger(),
	}
}

func (c *HTTPClient) SignUpEmail(ctx context.Context, in SignUpEmailInput) (*AuthResult, error) {
	body := make(map[string]interface{}, len(in.Additional)+5)
	for k, v := range in.Additional {
		body[k] = v
	}
	body["email"] = in.Email
	body["password"] = in.Password
	body["name"] = in.Name
	if in.Username != nil {
		body["username"] = *in.Username
	}
	if in.CallbackURL != "" {
		body["callbackURL"] = in.CallbackURL
	}

	var out AuthResult
	res, err := c.do(ctx, "sign_up_email", http.MethodPost, "/sign-up/email", body, &out)
	if err != nil {
		return nil, err
	}
	out.Result = *res
	return &out, nil
}

func (c *HTTPClient) SignInEmail(ctx context.Context, in SignInEmailInput) (*AuthResult, error) {
	return c.authCall(ctx, "sign_in_email", "/sign-in/email", in)
}

func (c *HTTPClient) SignInUsername(ctx context.Context, in SignInUsernameInput) (*AuthResult, error) {
	return c.authCall(ctx, "sign_in_username", "/sign-in/username", in)
}

func (c *HTTPClient) SignInMagicLink(ctx context.Context, in MagicLinkInput) (*Result, error) {
	return c.do(ctx, "sign_in_magic_link", http.MethodPost, "/sign-in/magic-link", in, nil)
}

func (c *HTTPClient) SendVerificationOTP(ctx context.Context, in SendOTPInput) (*Result, error) {
	if in.Type == "" {
		in.Type = "sign-in"
	}
	return c.do(ctx, "send_verification_otp", http.MethodPost, "/email-otp/send-verification-otp", in, nil)
}

func (c *HTTPClient) SignInEmailOTP(ctx context.Context, in EmailOTPInput) (*AuthResult, error) {
	return c.authCall(ctx, "sign_in_email_otp", "/sign-in/email-otp", in)
}

func (c *HTTPClient) ForgetPassword(ctx context.Context, in ForgetPasswordInput) (*Result, error) {
	return c.do(ctx, "forget_password", http.MethodPost, "/forget-password", in, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, in ResetPasswordInput) (*Result, error) {
	return c.do(ctx, "reset_password", http.MethodPost, "/reset-password", in, nil)
}

func (c *HTTPClient) VerifyTOTP(ctx context.Context, in VerifyCodeInput) (*AuthResult, error) {
	return c.authCall(ctx, "verify_totp", "/two-factor/verify-totp", in)
}

func (c *HTTPClient) VerifyBackupCode(ctx context.Context, in VerifyCodeInput) (*AuthResult, error) {
	return c.authCall(ctx, "verify_backup_code", "/two-factor/verify-backup-code", in)
}

func (c *HTTPClient) ChangeEmail(ctx context.Context, in ChangeEmailInput) (*Result, error) {
	return c.do(ctx, "change_email", http.MethodPost, "/change-email", in, nil)
}

func (c *HTTPClient) SendVerificationEmail(ctx context.Context, in SendVerificationEmailInput) (*Result, error) {
	return c.do(ctx, "send_verification_email", http.MethodPost, "/send-verification-email", in, nil)
}

func (c *HTTPClient) RevokeSession(ctx context.Context, token string) (*Result, error) {
	return c.do(ctx, "revoke_session", http.MethodPost, "/revoke-session", map[string]string{"token": token}, nil)
}

func (c *HTTPClient) ListSessions(ctx context.Context) ([]model.Session, error) {
	var sessions []model.Session
	if _, err := c.do(ctx, "list_sessions", http.MethodGet, "/list-sessions", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetSession returns nil without error when the browser has no session.
func (c *HTTPClient) GetSession(ctx context.Context) (*model.SessionData, error) {
	var data *model.SessionData
	if _, err := c.do(ctx, "get_session", http.MethodGet, "/get-session", nil, &data); err != nil {
		return nil, err
	}
	if data == nil || data.Session.ID == "" {
		return nil, nil
	}
	return data, nil
}

func (c *HTTPClient) SignOut(ctx context.Context) (*Result, error) {
	return c.do(ctx, "sign_out", http.MethodPost, "/sign-out", struct{}{}, nil)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, "ping", http.MethodGet, "/ok", nil, nil)
	return err
}

func (c *HTTPClient) authCall(ctx context.Context, op, path string, in interface{}) (*AuthResult, error) {
	var out AuthResult
	res, err := c.do(ctx, op, http.MethodPost, path, in, &out)
	if err != nil {
		return nil, err
	}
	out.Result = *res
	return &out, nil
}

type rawResponse struct {
	status  int
	header  http.Header
	payload []byte
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, in, out interface{}) (*Result, error) {
	started := time.Now()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookies := CookiesFrom(ctx); cookies != "" {
		req.Header.Set("Cookie", cookies)
	}
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}

	var raw rawResponse
	err = c.cb.Execute(func() error {
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return err
		}
		raw = rawResponse{status: resp.StatusCode, header: resp.Header, payload: payload}

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("backend returned %d", resp.StatusCode)
		}
		return nil
	})

	if err != nil && raw.status < http.StatusInternalServerError {
		c.metrics.ObserveAuthClient(op, "unavailable", started)
		if errors.Is(err, circuitbreaker.ErrOpen) {
			c.log.Warn().Str("operation", op).Msg("circuit open, auth backend call rejected")
		} else {
			c.log.Error().Err(err).Str("operation", op).Msg("auth backend request failed")
		}
		return nil, &Error{
			Code:    CodeUnavailable,
			Message: "auth backend unavailable",
			Err:     err,
		}
	}

	c.metrics.ObserveAuthClient(op, fmt.Sprintf("%d", raw.status), started)

	if raw.status >= http.StatusBadRequest {
		return nil, decodeError(raw)
	}

	if out != nil && len(bytes.TrimSpace(raw.payload)) > 0 {
		if err := json.Unmarshal(raw.payload, out); err != nil {
			return nil, &Error{
				Code:    CodeUnknown,
				Message: "malformed auth backend response",
				Status:  raw.status,
				Err:     err,
			}
		}
	}

	return &Result{SetCookies: raw.header.Values("Set-Cookie")}, nil
}

func decodeError(raw rawResponse) *Error {
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw.payload, &body)

	if body.Code == "" {
		body.Code = CodeUnknown
		if raw.status >= http.StatusInternalServerError {
			body.Code = CodeUnavailable
		}
	}
	if body.Message == "" {
		body.Message = http.StatusText(raw.status)
	}

	return &Error{
		Code:    body.Code,
		Message: body.Message,
		Status:  raw.status,
	}
}
