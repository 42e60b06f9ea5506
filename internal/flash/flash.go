package flash

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/auth-ui/internal/model"
	"github.com/jwalitptl/auth-ui/pkg/metrics"
)

const clientIDKey = "flash_client_id"

// Config for the flash cookie.
type Config struct {
	CookieName string
	Secure     bool
	// MaxAge of the browser id cookie. Zero makes it a session cookie.
	MaxAge time.Duration
}

// Manager binds a Store to browsers through an opaque id cookie. The same
// id keys the in-flight submission guard.
type Manager struct {
	store   Store
	cfg     Config
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewManager(store Store, cfg Config, log zerolog.Logger, m *metrics.Metrics) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = "authui_client"
	}
	return &Manager{
		store:   store,
		cfg:     cfg,
		log:     log.With().Str("component", "flash").Str("store", store.Name()).Logger(),
		metrics: m,
	}
}

// Middleware makes sure every browser carries a client id cookie.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ""
		if cookie, err := c.Cookie(m.cfg.CookieName); err == nil {
			if parsed, err := uuid.Parse(cookie); err == nil {
				id = parsed.String()
			}
		}

		if id == "" {
			id = uuid.New().String()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     m.cfg.CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(m.cfg.MaxAge.Seconds()),
				HttpOnly: true,
				Secure:   m.cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		c.Set(clientIDKey, id)
		c.Next()
	}
}

// ClientID returns the browser id set by Middleware.
func ClientID(c *gin.Context) string {
	return c.GetString(clientIDKey)
}

// Add queues toast for the browser's next page. Failures are logged, the
// request carries on without the message.
func (m *Manager) Add(c *gin.Context, toast *model.Toast) {
	if toast == nil {
		return
	}
	id := ClientID(c)
	if id == "" {
		return
	}

	err := m.store.Push(c.Request.Context(), id, *toast)
	m.metrics.ObserveFlash(m.store.Name(), "push", err)
	if err != nil {
		m.log.Error().Err(err).Msg("failed to store flash message")
	}
}

// Consume returns and clears the browser's pending toasts.
func (m *Manager) Consume(c *gin.Context) []model.Toast {
	id := ClientID(c)
	if id == "" {
		return nil
	}

	toasts, err := m.store.Pop(c.Request.Context(), id)
	m.metrics.ObserveFlash(m.store.Name(), "pop", err)
	if err != nil {
		m.log.Error().Err(err).Msg("failed to read flash messages")
		return nil
	}
	return toasts
}
