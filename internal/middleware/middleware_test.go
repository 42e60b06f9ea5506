package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/auth-ui/internal/localization"
	"github.com/jwalitptl/auth-ui/internal/web"
	apperrors "github.com/jwalitptl/auth-ui/pkg/errors"
)

func newEngine(t *testing.T, mw ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tmpl, err := web.Templates(localization.Default())
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(mw...)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	var buf bytes.Buffer
	r := newEngine(t, RequestID(zerolog.New(&buf)))
	r.GET("/", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside")
		c.Status(http.StatusNoContent)
	})

	t.Run("generated", func(t *testing.T) {
		buf.Reset()
		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		rid := w.Header().Get(HeaderXRequestID)
		assert.Len(t, rid, 36)
		assert.Contains(t, buf.String(), rid)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderXRequestID, "7f1c0f7e-0000-4000-8000-000000000001")
		w := serve(r, req)
		assert.Equal(t, "7f1c0f7e-0000-4000-8000-000000000001", w.Header().Get(HeaderXRequestID))
	})

	t.Run("garbage replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderXRequestID, "<script>")
		w := serve(r, req)
		assert.NotEqual(t, "<script>", w.Header().Get(HeaderXRequestID))
	})
}

func TestLogger_NeverLogsBodies(t *testing.T) {
	var buf bytes.Buffer
	r := newEngine(t, RequestID(zerolog.New(&buf)), Logger())
	r.POST("/sign-in", func(c *gin.Context) {
		_, _ = io.ReadAll(c.Request.Body)
		c.Status(http.StatusUnprocessableEntity)
	})

	serve(r, httptest.NewRequest(http.MethodPost, "/sign-in", strings.NewReader("password=hunter22")))

	out := buf.String()
	assert.Contains(t, out, `"status":422`)
	assert.Contains(t, out, "Client error")
	assert.NotContains(t, out, "hunter22")
}

func TestRecovery(t *testing.T) {
	r := newEngine(t, RequestID(zerolog.Nop()), Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	t.Run("html", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Internal server error")
		assert.Contains(t, w.Body.String(), w.Header().Get(HeaderXRequestID))
	})

	t.Run("json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/panic", nil)
		req.Header.Set("Accept", "application/json")
		w := serve(r, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), `"status":500`)
	})
}

func TestErrorHandler(t *testing.T) {
	r := newEngine(t, ErrorHandler())
	r.GET("/internal", func(c *gin.Context) {
		_ = c.Error(apperrors.New("db exploded"))
	})
	r.GET("/validation", func(c *gin.Context) {
		_ = c.Error(apperrors.Validation("email", "Email is invalid"))
	})
	r.GET("/written", func(c *gin.Context) {
		_ = c.Error(apperrors.New("logged only"))
		c.String(http.StatusOK, "fine")
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/internal", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db exploded")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/validation", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Email is invalid")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/written", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fine", w.Body.String())
}

func TestTimeout(t *testing.T) {
	r := newEngine(t, Timeout(TimeoutConfig{Duration: 20 * time.Millisecond}))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 2})
	r := newEngine(t, rl.RateLimit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	from := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(r, req).Code
	}

	assert.Equal(t, http.StatusNoContent, from("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, from("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, from("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, from("10.0.0.2"), "buckets are per client")
}

func TestHeaders(t *testing.T) {
	r := newEngine(t, SecurityHeaders(DefaultSecurityConfig()), NoStore())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "form-action 'self'")
	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "includeSubDomains")
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
}

func TestCORS(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://app.example.com"}
	r := newEngine(t, CORS(cfg))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.OPTIONS("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCompress(t *testing.T) {
	r := newEngine(t, Compress(DefaultCompressConfig()))
	r.GET("/page", func(c *gin.Context) { c.String(http.StatusOK, strings.Repeat("sign in ", 100)) })

	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := serve(r, req)
	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("sign in ", 100), string(body))

	req = httptest.NewRequest(http.MethodGet, "/page", nil)
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
}

func TestSizeLimit(t *testing.T) {
	cfg := DefaultSizeLimitConfig()
	cfg.MaxBodySize = 8
	r := newEngine(t, SizeLimit(cfg))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("email=a@b.co&password=x")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a=b")))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
