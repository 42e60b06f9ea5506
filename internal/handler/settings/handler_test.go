package settings

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/auth-ui/internal/authclient"
	"github.com/jwalitptl/auth-ui/internal/authclient/authclienttest"
	"github.com/jwalitptl/auth-ui/internal/flash"
	"github.com/jwalitptl/auth-ui/internal/localization"
	"github.com/jwalitptl/auth-ui/internal/middleware"
	"github.com/jwalitptl/auth-ui/internal/model"
	"github.com/jwalitptl/auth-ui/internal/service/device"
	"github.com/jwalitptl/auth-ui/internal/service/form"
	"github.com/jwalitptl/auth-ui/internal/service/session"
	"github.com/jwalitptl/auth-ui/internal/web"
)

const (
	iphone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	windows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

type fixture struct {
	engine *gin.Engine
	fake   *authclienttest.Fake
}

func newFixture(t *testing.T, features model.FeatureConfig, signedIn bool) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := model.UIConfig{
		BasePath:  "/auth",
		BaseURL:   "https://app.example.com",
		ViewPaths: model.NewViewPaths(nil),
		Features:  features,
	}
	loc := localization.Default()

	fake := authclienttest.New()
	if signedIn {
		fake.Session = &model.SessionData{
			User:    model.User{ID: "u1", Email: "ada@example.com", EmailVerified: true},
			Session: model.Session{ID: "s1", Token: "current-token"},
		}
		fake.Sessions = []model.Session{
			{ID: "s1", Token: "current-token", UserAgent: windows, IPAddress: "10.0.0.1"},
			{ID: "s2", Token: "phone-token", UserAgent: iphone, IPAddress: "10.0.0.2"},
		}
	}

	sessions := session.NewProvider(fake, session.DefaultConfig(), zerolog.Nop(), nil)
	forms := form.NewService(cfg, loc, fake, sessions, form.NewGuard(time.Minute), zerolog.Nop(), nil)
	fm := flash.NewManager(flash.NewMemoryStore(time.Minute), flash.Config{}, zerolog.Nop(), nil)

	tmpl, err := web.Templates(loc)
	require.NoError(t, err)

	engine := gin.New()
	engine.SetHTMLTemplate(tmpl)
	engine.Use(middleware.ErrorHandler(), fm.Middleware())
	NewHandler(forms, sessions, device.NewDetector(nil), fm, nil).RegisterRoutes(engine.Group("/auth/settings"))

	return &fixture{engine: engine, fake: fake}
}

func (f *fixture) do(method, path string, values url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if values != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Cookie", "better-auth.session_token=current-token; authui_client=0b7c6a8e-3f61-4c55-9a43-2b7c5f0b1d11")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestShow_RequiresSession(t *testing.T) {
	f := newFixture(t, model.FeatureConfig{Credentials: true}, false)

	w := f.do(http.MethodGet, "/auth/settings", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/sign-in?redirectTo=%2Fauth%2Fsettings", w.Header().Get("Location"))
}

func TestShow_Sessions(t *testing.T) {
	f := newFixture(t, model.FeatureConfig{Credentials: true, ChangeEmail: true}, true)

	w := f.do(http.MethodGet, "/auth/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, "Windows, Chrome")
	assert.Contains(t, body, "iOS, Safari")
	assert.Contains(t, body, `data-device="mobile"`)
	assert.Contains(t, body, `data-device="laptop"`)
	assert.Contains(t, body, "Current Session")
	assert.Contains(t, body, "10.0.0.2")
	assert.Contains(t, body, `action="/auth/settings/email"`)
	assert.NotContains(t, body, "Verify Your Email", "verified users get no resend card")
}

func TestShow_ChangeEmailDisabled(t *testing.T) {
	f := newFixture(t, model.FeatureConfig{Credentials: true}, true)

	w := f.do(http.MethodGet, "/auth/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="ada@example.com"`)
	assert.Contains(t, w.Body.String(), " readonly")
	assert.NotContains(t, w.Body.String(), `action="/auth/settings/email"`)

	w = f.do(http.MethodPost, "/auth/settings/email", url.Values{"email": {"new@example.com"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Zero(t, f.fake.CallCount("ChangeEmail"))
}

func TestChangeEmail(t *testing.T) {
	f := newFixture(t, model.FeatureConfig{Credentials: true, ChangeEmail: true}, true)

	w := f.do(http.MethodPost, "/auth/settings/email", url.Values{"email": {"ada@example.com"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Email is the same")
	assert.Zero(t, f.fake.CallCount("ChangeEmail"))

	w = f.do(http.MethodPost, "/auth/settings/email", url.Values{"email": {"new@example.com"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/settings", w.Header().Get("Location"))

	in := f.fake.LastInput("ChangeEmail").(authclient.ChangeEmailInput)
	assert.Equal(t, "new@example.com", in.NewEmail)

	w = f.do(http.MethodGet, "/auth/settings", nil)
	assert.Contains(t, w.Body.String(), "Please check your email to verify the change")
}

func TestResendVerification(t *testing.T) {
	f := newFixture(t, model.FeatureConfig{Credentials: true, EmailVerification: true}, true)
	f.fake.Session.User.EmailVerified = false

	w := f.do(http.MethodGet, "/auth/settings", nil)
	assert.Contains(t, w.Body.String(), `action="/auth/settings/verification"`)

	w = f.do(http.MethodPost, "/auth/settings/verification", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 1, f.fake.CallCount("SendVerificationEmail"))
}

func TestRevokeSession(t *testing.T) {
	f := newFixture(t, model.FeatureConfig{Credentials: true}, true)

	w := f.do(http.MethodPost, "/auth/settings/sessions/revoke", url.Values{"token": {"phone-token"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/settings", w.Header().Get("Location"))
	assert.Equal(t, "phone-token", f.fake.LastInput("RevokeSession"))

	w = f.do(http.MethodPost, "/auth/settings/sessions/revoke", url.Values{"token": {"current-token"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/sign-out", w.Header().Get("Location"))
	assert.Equal(t, 1, f.fake.CallCount("RevokeSession"))
}

func TestRevokeSession_Failure(t *testing.T) {
	f := newFixture(t, model.FeatureConfig{Credentials: true}, true)
	f.fake.Errors["RevokeSession"] = &authclient.Error{Code: "SESSION_NOT_FOUND", Message: "Session not found", Status: 404}

	w := f.do(http.MethodPost, "/auth/settings/sessions/revoke", url.Values{"token": {"phone-token"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Session not found")
}
