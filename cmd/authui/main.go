package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/auth-ui/internal/authclient"
	"github.com/jwalitptl/auth-ui/internal/config"
	"github.com/jwalitptl/auth-ui/internal/flash"
	"github.com/jwalitptl/auth-ui/internal/handler"
	"github.com/jwalitptl/auth-ui/internal/handler/auth"
	"github.com/jwalitptl/auth-ui/internal/handler/settings"
	"github.com/jwalitptl/auth-ui/internal/localization"
	"github.com/jwalitptl/auth-ui/internal/middleware"
	"github.com/jwalitptl/auth-ui/internal/router"
	"github.com/jwalitptl/auth-ui/internal/service/device"
	"github.com/jwalitptl/auth-ui/internal/service/form"
	"github.com/jwalitptl/auth-ui/internal/service/session"
	"github.com/jwalitptl/auth-ui/internal/service/view"
	"github.com/jwalitptl/auth-ui/internal/web"
	"github.com/jwalitptl/auth-ui/pkg/logger"
	"github.com/jwalitptl/auth-ui/pkg/metrics"
	"github.com/jwalitptl/auth-ui/pkg/redis"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to config.yaml")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	l := logger.New(&logger.Config{
		Level:   logger.ParseLevel(cfg.Logging.Level),
		Console: cfg.Logging.Console,
	})
	logger.SetGlobal(l)
	gin.SetMode(cfg.Server.Mode)

	ui := cfg.UIConfig()
	loc, err := localization.Load(cfg.UI.LocalizationFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load localization")
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	var m *metrics.Metrics
	if cfg.Monitoring.PrometheusEnabled {
		m = metrics.NewMetrics(reg, cfg.Monitoring.Namespace)
	}

	// Auth backend
	client := authclient.NewHTTPClient(authclient.Config{
		BaseURL:        cfg.AuthClient.BaseURL,
		Timeout:        cfg.AuthClient.Timeout,
		Origin:         cfg.AuthClient.Origin,
		MaxFailures:    cfg.AuthClient.MaxFailures,
		BreakerTimeout: cfg.AuthClient.BreakerTimeout,
	}, m, l)
	checks := map[string]handler.Pinger{"auth_backend": client}

	// Flash store
	var store flash.Store = flash.NewMemoryStore(cfg.Flash.TTL)
	if cfg.Flash.Driver == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := redis.NewClient(ctx, cfg.Redis)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer rdb.Close()
		store = flash.NewRedisStore(rdb, cfg.Flash.KeyPrefix, cfg.Flash.TTL)
		checks["redis"] = redis.Pinger{Client: rdb}
	}
	fm := flash.NewManager(store, flash.Config{
		CookieName: cfg.Flash.CookieName,
		Secure:     cfg.Flash.Secure,
	}, l, m)

	// Services
	sessions := session.NewProvider(client, session.Config{TTL: cfg.SessionCache.TTL}, l, m)
	forms := form.NewService(ui, loc, client, sessions, form.NewGuard(cfg.Server.RequestTimeout), l, m)
	resolver := view.NewResolver(ui, l, m)

	templates, err := web.Templates(loc)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse templates")
	}

	var limit *middleware.RateLimiterConfig
	if cfg.RateLimit.Enabled {
		limit = &middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
			Burst: cfg.RateLimit.Burst,
		}
	}

	sizeLimit := middleware.DefaultSizeLimitConfig()
	if cfg.Server.MaxBodyBytes > 0 {
		sizeLimit.MaxBodySize = cfg.Server.MaxBodyBytes
	}

	// Setup router
	r := router.NewRouter(
		auth.NewHandler(forms, resolver, sessions, fm, m),
		settings.NewHandler(forms, sessions, device.NewDetector(nil), fm, m),
		handler.NewHandler(checks, reg, l),
		fm,
		templates,
		reg,
		l,
		router.RouterConfig{
			BasePath:       ui.BasePath,
			SettingsPath:   forms.SettingsURL(),
			RateLimit:      limit,
			RequestTimeout: cfg.Server.RequestTimeout,
			Security:       cfg.Security,
			CORS:           cfg.CORS,
			SizeLimit:      sizeLimit,
			MetricsPrefix:  cfg.Monitoring.Namespace,
		},
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r.Engine(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		MaxHeaderBytes:    sizeLimit.MaxHeaderSize,
	}

	// Start server
	go func() {
		log.Info().Str("addr", srv.Addr).Str("base_path", ui.BasePath).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
