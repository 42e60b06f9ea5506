package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/auth-ui/internal/authclient"
	"github.com/jwalitptl/auth-ui/internal/authclient/authclienttest"
	"github.com/jwalitptl/auth-ui/internal/flash"
	"github.com/jwalitptl/auth-ui/internal/localization"
	"github.com/jwalitptl/auth-ui/internal/middleware"
	"github.com/jwalitptl/auth-ui/internal/model"
	"github.com/jwalitptl/auth-ui/internal/service/form"
	"github.com/jwalitptl/auth-ui/internal/service/session"
	"github.com/jwalitptl/auth-ui/internal/service/view"
	"github.com/jwalitptl/auth-ui/internal/web"
)

type fixture struct {
	engine *gin.Engine
	fake   *authclienttest.Fake
	client *http.Cookie
}

func defaultFeatures() model.FeatureConfig {
	return model.FeatureConfig{
		Credentials:     true,
		SignUp:          true,
		ConfirmPassword: true,
		TwoFactor:       true,
		EmailOTP:        true,
		RememberMe:      true,
	}
}

func newFixture(t *testing.T, features model.FeatureConfig) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := model.UIConfig{
		BasePath:       "/auth",
		BaseURL:        "https://app.example.com",
		RedirectTo:     "/dashboard",
		ViewPaths:      model.NewViewPaths(nil),
		Features:       features,
		PasswordPolicy: model.PasswordPolicy{MinLength: 8},
	}
	loc := localization.Default()
	fake := authclienttest.New()

	sessions := session.NewProvider(fake, session.DefaultConfig(), zerolog.Nop(), nil)
	forms := form.NewService(cfg, loc, fake, sessions, form.NewGuard(time.Minute), zerolog.Nop(), nil)
	fm := flash.NewManager(flash.NewMemoryStore(time.Minute), flash.Config{}, zerolog.Nop(), nil)

	tmpl, err := web.Templates(loc)
	require.NoError(t, err)

	engine := gin.New()
	engine.SetHTMLTemplate(tmpl)
	engine.Use(middleware.ErrorHandler(), fm.Middleware())
	NewHandler(forms, view.NewResolver(cfg, zerolog.Nop(), nil), sessions, fm, nil).
		RegisterRoutes(engine.Group("/auth"))

	return &fixture{
		engine: engine,
		fake:   fake,
		client: &http.Cookie{Name: "authui_client", Value: uuid.New().String()},
	}
}

func (f *fixture) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(f.client)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *fixture) post(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(f.client)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *fixture) postJSON(path string, body map[string]interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(data)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.AddCookie(f.client)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestShow_SignIn(t *testing.T) {
	f := newFixture(t, defaultFeatures())

	for _, path := range []string{"/auth", "/auth/sign-in"} {
		w := f.get(path)
		require.Equal(t, http.StatusOK, w.Code, path)

		body := w.Body.String()
		assert.Contains(t, body, `data-view="signIn"`)
		assert.Contains(t, body, `action="/auth/sign-in"`)
		assert.Contains(t, body, `href="/auth/forgot-password"`)
		assert.Contains(t, body, `href="/auth/sign-up"`)
		assert.Contains(t, body, `href="/auth/email-otp"`)
		assert.NotContains(t, body, `href="/auth/magic-link"`, "magic link is disabled")
		assert.Contains(t, body, `name="rememberMe"`)
	}
}

func TestShow_RedirectsToSignIn(t *testing.T) {
	features := defaultFeatures()
	features.SignUp = false
	f := newFixture(t, features)

	tests := []struct {
		path     string
		location string
	}{
		{"/auth/sign-up", "/auth/sign-in"},
		{"/auth/nope?redirectTo=%2Fbilling", "/auth/sign-in?redirectTo=%2Fbilling"},
		{"/auth/magic-link", "/auth/sign-in"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := f.get(tt.path)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}

	w := f.post("/auth/sign-up", url.Values{"email": {"a@b.co"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Zero(t, f.fake.CallCount("SignUpEmail"))
}

func TestSubmit_SignUpBlockedLocally(t *testing.T) {
	f := newFixture(t, defaultFeatures())

	w := f.post("/auth/sign-up", url.Values{
		"email":           {"new@example.com"},
		"password":        {"short1"},
		"confirmPassword": {"short1"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Password is too short")
	assert.Contains(t, w.Body.String(), `value="new@example.com"`)
	assert.NotContains(t, w.Body.String(), "short1")
	assert.Zero(t, f.fake.CallCount("SignUpEmail"))
}

func TestSubmit_SignUpBackendError(t *testing.T) {
	f := newFixture(t, defaultFeatures())
	f.fake.Errors["SignUpEmail"] = &authclient.Error{Code: "USER_ALREADY_EXISTS", Message: "exists", Status: 422}

	w := f.post("/auth/sign-up", url.Values{
		"email":           {"new@example.com"},
		"password":        {"long-enough-1"},
		"confirmPassword": {"long-enough-1"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User already exists")
	assert.Contains(t, w.Body.String(), `class="toast toast-error"`)
	assert.NotContains(t, w.Body.String(), "long-enough-1")
	assert.Equal(t, 1, f.fake.CallCount("SignUpEmail"))
}

func TestSubmit_SignInRelaysCookies(t *testing.T) {
	f := newFixture(t, defaultFeatures())
	f.fake.SetCookies = []string{"better-auth.session_token=abc; Path=/; HttpOnly"}

	w := f.post("/auth/sign-in?redirectTo=%2Fbilling", url.Values{
		"email":    {"ada@example.com"},
		"password": {"hunter22"},
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/billing", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Values("Set-Cookie"), "better-auth.session_token=abc; Path=/; HttpOnly")

	in := f.fake.LastInput("SignInEmail").(authclient.SignInEmailInput)
	assert.Equal(t, "ada@example.com", in.Email)
}

func TestSubmit_TwoFactorRedirect(t *testing.T) {
	f := newFixture(t, defaultFeatures())
	f.fake.AuthResult = &authclient.AuthResult{TwoFactorRedirect: true}

	w := f.post("/auth/sign-in", url.Values{"email": {"ada@example.com"}, "password": {"hunter22"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/two-factor", w.Header().Get("Location"))

	w = f.get("/auth/two-factor")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/auth/recover-account"`)
}

func TestSubmit_FlashShownOnce(t *testing.T) {
	f := newFixture(t, defaultFeatures())

	w := f.post("/auth/forgot-password", url.Values{"email": {"ada@example.com"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/sign-in", w.Header().Get("Location"))

	w = f.get("/auth/sign-in")
	assert.Contains(t, w.Body.String(), "Check your email for the password reset link.")

	w = f.get("/auth/sign-in")
	assert.NotContains(t, w.Body.String(), "Check your email for the password reset link.")
}

func TestShow_ResetPasswordWithoutToken(t *testing.T) {
	f := newFixture(t, defaultFeatures())

	w := f.get("/auth/reset-password?error=INVALID_TOKEN")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/sign-in", w.Header().Get("Location"))

	w = f.get("/auth/sign-in")
	assert.Contains(t, w.Body.String(), "Invalid reset password link")

	w = f.get("/auth/reset-password?token=tok")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="newPassword"`)
}

func TestSubmit_EmailOTPSteps(t *testing.T) {
	f := newFixture(t, defaultFeatures())

	w := f.post("/auth/email-otp", url.Values{"step": {"send"}, "email": {"ada@example.com"}})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="step" value="verify"`)
	assert.Contains(t, body, `name="otp"`)
	assert.Contains(t, body, "Verify code")
	assert.Equal(t, 1, f.fake.CallCount("SendVerificationOTP"))

	w = f.post("/auth/email-otp", url.Values{"step": {"verify"}, "email": {"ada@example.com"}, "otp": {"123456"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	in := f.fake.LastInput("SignInEmailOTP").(authclient.EmailOTPInput)
	assert.Equal(t, "123456", in.OTP)
}

func TestShow_SignOutAndCallback(t *testing.T) {
	f := newFixture(t, defaultFeatures())

	w := f.get("/auth/sign-out")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/sign-in", w.Header().Get("Location"))
	assert.Equal(t, 1, f.fake.CallCount("SignOut"))

	w = f.get("/auth/callback")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/sign-in", w.Header().Get("Location"))

	f = newFixture(t, defaultFeatures())
	f.fake.Session = &model.SessionData{User: model.User{ID: "u1"}, Session: model.Session{Token: "t1"}}
	w = f.get("/auth/callback?redirectTo=%2Fbilling")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/billing", w.Header().Get("Location"))
}

func TestSubmit_JSON(t *testing.T) {
	f := newFixture(t, defaultFeatures())

	w := f.postJSON("/auth/sign-in", map[string]interface{}{
		"email":      "ada@example.com",
		"password":   "hunter22",
		"rememberMe": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var ok struct {
		Success bool
		Data    struct {
			Form     string `json:"form"`
			State    string `json:"state"`
			Redirect string `json:"redirect"`
		}
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ok))
	assert.True(t, ok.Success)
	assert.Equal(t, form.FormSignIn, ok.Data.Form)
	assert.Equal(t, "/dashboard", ok.Data.Redirect)
	assert.True(t, f.fake.LastInput("SignInEmail").(authclient.SignInEmailInput).RememberMe)

	w = f.postJSON("/auth/sign-in", map[string]interface{}{"email": "not-an-email"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var failed struct {
		Error struct {
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		}
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &failed))
	assert.Equal(t, "VALIDATION_ERROR", failed.Error.Code)
	assert.Contains(t, failed.Error.Fields, "email")
	assert.Contains(t, failed.Error.Fields, "password")
}

func TestSignInFallsBackToMagicLink(t *testing.T) {
	f := newFixture(t, model.FeatureConfig{MagicLink: true})

	w := f.get("/auth/sign-in")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-view="magicLink"`)
	assert.Contains(t, w.Body.String(), `action="/auth/sign-in"`)
	assert.Contains(t, w.Body.String(), "Send magic link")

	w = f.post("/auth/sign-in", url.Values{"email": {"ada@example.com"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Check your email for the magic link")
	assert.Equal(t, 1, f.fake.CallCount("SignInMagicLink"))
	assert.Zero(t, f.fake.CallCount("SignInEmail"))
}

func TestSubmit_InFlight(t *testing.T) {
	f := newFixture(t, defaultFeatures())
	f.fake.Block = make(chan struct{})
	f.fake.Entered = make(chan string, 1)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- f.post("/auth/sign-in", url.Values{"email": {"ada@example.com"}, "password": {"hunter22"}})
	}()
	<-f.fake.Entered

	w := f.post("/auth/sign-in", url.Values{"email": {"ada@example.com"}, "password": {"hunter22"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/sign-in", w.Header().Get("Location"))

	close(f.fake.Block)
	first := <-done
	assert.Equal(t, "/dashboard", first.Header().Get("Location"))
	assert.Equal(t, 1, f.fake.CallCount("SignInEmail"))
}
