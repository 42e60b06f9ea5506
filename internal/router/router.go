package router

import (
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/auth-ui/internal/flash"
	"github.com/jwalitptl/auth-ui/internal/handler"
	"github.com/jwalitptl/auth-ui/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine    *gin.Engine
	authH     Handler
	settingsH Handler
	h         *handler.Handler
	flash     *flash.Manager
	limiter   *middleware.RateLimiter
	metrics   *routerMetrics
	config    RouterConfig
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type RouterConfig struct {
	BasePath     string
	SettingsPath string
	// RateLimit is applied to the auth and settings pages. Nil disables it.
	RateLimit      *middleware.RateLimiterConfig
	RequestTimeout time.Duration
	Security       middleware.SecurityConfig
	CORS           middleware.CORSConfig
	SizeLimit      middleware.SizeLimitConfig
	MetricsPrefix  string
}

func NewRouter(
	authH Handler,
	settingsH Handler,
	h *handler.Handler,
	f *flash.Manager,
	templates *template.Template,
	reg prometheus.Registerer,
	log zerolog.Logger,
	config RouterConfig,
) *Router {
	engine := gin.New()
	engine.SetHTMLTemplate(templates)

	r := &Router{
		engine:    engine,
		authH:     authH,
		settingsH: settingsH,
		h:         h,
		flash:     f,
		metrics:   initRouterMetrics(reg, config.MetricsPrefix),
		config:    config,
	}
	if config.RateLimit != nil {
		r.limiter = middleware.NewRateLimiter(*config.RateLimit)
	}

	// RequestID goes first so every later log line carries the id.
	engine.Use(
		middleware.RequestID(log),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}),
		middleware.SecurityHeaders(config.Security),
		middleware.CORS(config.CORS),
		middleware.Compress(middleware.DefaultCompressConfig()),
		middleware.SizeLimit(config.SizeLimit),
	)
	engine.NoRoute(middleware.NotFound())

	return r
}

func (r *Router) Setup() {
	r.setupHealthCheck(r.engine.Group("/health"))

	pages := []gin.HandlerFunc{middleware.NoStore()}
	if r.limiter != nil {
		pages = append(pages, r.limiter.RateLimit())
	}
	pages = append(pages, r.flash.Middleware())

	basePath := "/" + strings.Trim(r.config.BasePath, "/")
	settingsPath := r.config.SettingsPath
	if settingsPath == "" {
		settingsPath = strings.TrimRight(basePath, "/") + "/settings"
	}

	r.settingsH.RegisterRoutes(r.engine.Group(settingsPath, pages...))
	r.authH.RegisterRoutes(r.engine.Group(basePath, pages...))
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	rg.GET("/live", r.h.LivenessCheck)
	rg.GET("/ready", r.h.ReadinessCheck)
	rg.GET("/metrics", r.h.MetricsHandler)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(reg prometheus.Registerer, prefix string) *routerMetrics {
	if prefix == "" {
		prefix = "authui"
	}
	factory := promauto.With(reg)
	return &routerMetrics{
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_http_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Unmatched paths share one label.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		switch {
		case c.Writer.Status() >= 500:
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "server").Inc()
		case c.Writer.Status() >= 400:
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "client").Inc()
		}
	}
}
