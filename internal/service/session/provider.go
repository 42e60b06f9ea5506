// Package session looks up the browser's current session and its session
// list through the auth backend, caching answers for a short time.
package session

import (
	"context"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/auth-ui/internal/authclient"
	"github.com/jwalitptl/auth-ui/internal/model"
	"github.com/jwalitptl/auth-ui/pkg/metrics"
)

// Config for the session cache.
type Config struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		TTL:             10 * time.Second,
		CleanupInterval: time.Minute,
	}
}

// Provider caches session lookups per Cookie header. Entries are keyed by
// a hash so raw session tokens never sit in the cache keys.
type Provider struct {
	client  authclient.Client
	cache   *cache.Cache
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewProvider(client authclient.Client, cfg Config, log zerolog.Logger, m *metrics.Metrics) *Provider {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultConfig().CleanupInterval
	}

	return &Provider{
		client:  client,
		cache:   cache.New(cfg.TTL, cfg.CleanupInterval),
		log:     log.With().Str("component", "session_provider").Logger(),
		metrics: m,
	}
}

func key(kind, cookieHeader string) string {
	return kind + ":" + strconv.FormatUint(xxhash.Sum64String(cookieHeader), 16)
}

// Current returns the session of the browser sending cookieHeader, or nil
// when it has none.
func (p *Provider) Current(ctx context.Context, cookieHeader string) (*model.SessionData, error) {
	if cookieHeader == "" {
		p.metrics.ObserveSessionLookup("anonymous")
		return nil, nil
	}

	k := key("current", cookieHeader)
	if cached, found := p.cache.Get(k); found {
		p.metrics.ObserveSessionLookup("hit")
		data, _ := cached.(*model.SessionData)
		return data, nil
	}

	data, err := p.client.GetSession(authclient.WithCookies(ctx, cookieHeader))
	if err != nil {
		p.metrics.ObserveSessionLookup("error")
		return nil, err
	}

	p.metrics.ObserveSessionLookup("miss")
	p.cache.Set(k, data, cache.DefaultExpiration)
	return data, nil
}

// List returns every active session of the browser's user.
func (p *Provider) List(ctx context.Context, cookieHeader string) ([]model.Session, error) {
	k := key("list", cookieHeader)
	if cached, found := p.cache.Get(k); found {
		sessions, _ := cached.([]model.Session)
		return sessions, nil
	}

	sessions, err := p.client.ListSessions(authclient.WithCookies(ctx, cookieHeader))
	if err != nil {
		return nil, err
	}

	p.cache.Set(k, sessions, cache.DefaultExpiration)
	return sessions, nil
}

// Invalidate drops cached answers for cookieHeader so the next lookup
// refetches.
func (p *Provider) Invalidate(cookieHeader string) {
	p.cache.Delete(key("current", cookieHeader))
	p.cache.Delete(key("list", cookieHeader))
	p.log.Debug().Msg("session cache invalidated")
}
