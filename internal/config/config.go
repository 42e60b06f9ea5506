// Package config loads the service configuration from config.yaml and the
// environment.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/jwalitptl/auth-ui/internal/middleware"
	"github.com/jwalitptl/auth-ui/internal/model"
	apperrors "github.com/jwalitptl/auth-ui/pkg/errors"
	"github.com/jwalitptl/auth-ui/pkg/redis"
	"github.com/jwalitptl/auth-ui/pkg/validator"
)

const envPrefix = "AUTHUI"

type Config struct {
	Server       ServerConfig              `mapstructure:"server"`
	AuthClient   AuthClientConfig          `mapstructure:"auth_client"`
	UI           UISection                 `mapstructure:"ui"`
	Flash        FlashConfig               `mapstructure:"flash"`
	SessionCache SessionCacheConfig        `mapstructure:"session_cache"`
	Redis        redis.Config              `mapstructure:"redis"`
	RateLimit    RateLimitConfig           `mapstructure:"rate_limit"`
	Security     middleware.SecurityConfig `mapstructure:"security"`
	CORS         middleware.CORSConfig     `mapstructure:"cors"`
	Monitoring   MonitoringConfig          `mapstructure:"monitoring"`
	Logging      LoggingConfig             `mapstructure:"logging"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"gt=0,lt=65536"`
	Mode            string        `mapstructure:"mode" validate:"oneof=debug release test"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

type AuthClientConfig struct {
	BaseURL        string        `mapstructure:"base_url" validate:"required,url"`
	Origin         string        `mapstructure:"origin"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxFailures    int           `mapstructure:"max_failures"`
	BreakerTimeout time.Duration `mapstructure:"breaker_timeout"`
}

type UISection struct {
	BasePath     string              `mapstructure:"base_path" validate:"required,startswith=/"`
	BaseURL      string              `mapstructure:"base_url" validate:"omitempty,url"`
	RedirectTo   string              `mapstructure:"redirect_to"`
	SettingsPath string              `mapstructure:"settings_path"`
	ViewPaths    map[string]string   `mapstructure:"view_paths"`
	Features     model.FeatureConfig `mapstructure:"features"`
	// PasswordPolicy applies to sign-up and reset password.
	PasswordPolicy   PasswordPolicyConfig             `mapstructure:"password_policy"`
	SignUpFields     []string                         `mapstructure:"sign_up_fields"`
	AdditionalFields map[string]model.AdditionalField `mapstructure:"additional_fields"`
	LocalizationFile string                           `mapstructure:"localization_file"`
}

type PasswordPolicyConfig struct {
	MinLength int    `mapstructure:"min_length"`
	MaxLength int    `mapstructure:"max_length"`
	Pattern   string `mapstructure:"pattern"`
}

type FlashConfig struct {
	Driver     string        `mapstructure:"driver" validate:"oneof=memory redis"`
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookie_name"`
	Secure     bool          `mapstructure:"secure"`
	KeyPrefix  string        `mapstructure:"key_prefix"`
}

type SessionCacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool   `mapstructure:"prometheus_enabled"`
	Namespace         string `mapstructure:"namespace"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

// secrets are read from the environment only, e.g. AUTHUI_AUTH_BACKEND_URL.
type secrets struct {
	AuthBackendURL string `envconfig:"AUTH_BACKEND_URL"`
	RedisURL       string `envconfig:"REDIS_URL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.max_body_bytes", 64<<10)

	v.SetDefault("auth_client.timeout", 10*time.Second)
	v.SetDefault("auth_client.max_failures", 5)
	v.SetDefault("auth_client.breaker_timeout", 10*time.Second)

	v.SetDefault("ui.base_path", "/auth")
	v.SetDefault("ui.redirect_to", "/")
	v.SetDefault("ui.features.credentials", true)
	v.SetDefault("ui.features.sign_up", true)
	v.SetDefault("ui.features.remember_me", true)

	v.SetDefault("flash.driver", "memory")
	v.SetDefault("flash.ttl", 5*time.Minute)
	v.SetDefault("flash.cookie_name", "authui_client")
	v.SetDefault("flash.secure", true)

	v.SetDefault("session_cache.ttl", 10*time.Second)

	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 5)
	v.SetDefault("rate_limit.burst", 20)

	sec := middleware.DefaultSecurityConfig()
	v.SetDefault("security.hsts", sec.HSTS)
	v.SetDefault("security.hsts_max_age", sec.HSTSMaxAge)
	v.SetDefault("security.hsts_include_subdomains", sec.HSTSIncludeSubdomains)
	v.SetDefault("security.frame_options", sec.FrameOptions)
	v.SetDefault("security.content_type_options", sec.ContentTypeOptions)
	v.SetDefault("security.referrer_policy", sec.ReferrerPolicy)
	v.SetDefault("security.csp_directives", sec.CSPDirectives)

	cors := middleware.DefaultCORSConfig()
	v.SetDefault("cors.allow_methods", cors.AllowMethods)
	v.SetDefault("cors.allow_headers", cors.AllowHeaders)
	v.SetDefault("cors.expose_headers", cors.ExposeHeaders)
	v.SetDefault("cors.allow_credentials", cors.AllowCredentials)
	v.SetDefault("cors.max_age", cors.MaxAge)

	v.SetDefault("monitoring.prometheus_enabled", true)
	v.SetDefault("monitoring.namespace", "authui")

	v.SetDefault("logging.level", "info")
}

// Load reads the configuration. An empty path searches for config.yaml in
// the usual places; a missing file leaves the defaults and environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/app/config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var env secrets
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if env.AuthBackendURL != "" {
		cfg.AuthClient.BaseURL = env.AuthBackendURL
	}
	if env.RedisURL != "" {
		cfg.Redis.URL = env.RedisURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations no view could work with.
func (c *Config) Validate() error {
	if errs := validator.Struct(c); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Field+" "+e.Message)
		}
		return apperrors.Configuration(strings.Join(msgs, "; "), nil)
	}

	f := c.UI.Features
	if !f.Credentials && !f.MagicLink && !f.EmailOTP {
		return apperrors.Configuration("at least one sign-in method must be enabled", nil)
	}
	if c.Flash.Driver == "redis" && c.Redis.URL == "" {
		return apperrors.Configuration("flash driver redis needs redis.url", nil)
	}
	if p := c.UI.PasswordPolicy; p.MaxLength > 0 && p.MinLength > p.MaxLength {
		return apperrors.Configuration("password_policy.min_length exceeds max_length", nil)
	}
	if _, err := c.passwordPattern(); err != nil {
		return apperrors.Configuration("invalid password_policy.pattern", err)
	}
	return c.validateViewPaths()
}

// validateViewPaths rejects unknown views and segments that would route two
// pages to the same URL.
func (c *Config) validateViewPaths() error {
	segments := model.DefaultViewPaths()
	for key, segment := range c.UI.ViewPaths {
		view, ok := viewByKey(key)
		if !ok {
			return apperrors.Configuration("unknown view in view_paths: "+key, nil)
		}
		if segment = strings.Trim(segment, "/"); segment != "" {
			segments[view] = segment
		}
	}

	base := strings.TrimRight("/"+strings.Trim(c.UI.BasePath, "/"), "/")
	settings := c.UI.SettingsPath
	if settings == "" {
		settings = base + "/settings"
	}
	settings = strings.TrimRight(settings, "/")

	owner := make(map[string]model.ViewName, len(segments))
	for _, view := range model.AllViews() {
		segment := segments[view]
		if other, dup := owner[segment]; dup {
			return apperrors.Configuration(fmt.Sprintf("duplicate view_paths segment %q for %s and %s", segment, other, view), nil)
		}
		owner[segment] = view
		if base+"/"+segment == settings {
			return apperrors.Configuration(fmt.Sprintf("view_paths segment %q for %s collides with the settings path", segment, view), nil)
		}
	}
	return nil
}

func (c *Config) passwordPattern() (*regexp.Regexp, error) {
	if c.UI.PasswordPolicy.Pattern == "" {
		return nil, nil
	}
	return regexp.Compile(c.UI.PasswordPolicy.Pattern)
}

// viewByKey matches a config key to a view ignoring case; viper lowercases
// map keys.
func viewByKey(key string) (model.ViewName, bool) {
	for _, v := range model.AllViews() {
		if strings.EqualFold(string(v), key) {
			return v, true
		}
	}
	return "", false
}

// UIConfig builds the immutable view configuration. Call it on a validated
// Config.
func (c *Config) UIConfig() model.UIConfig {
	overrides := make(map[model.ViewName]string, len(c.UI.ViewPaths))
	for key, segment := range c.UI.ViewPaths {
		if view, ok := viewByKey(key); ok {
			overrides[view] = strings.Trim(segment, "/")
		}
	}

	pattern, _ := c.passwordPattern()

	// Field names come back lowercased from viper; restore the spelling used
	// in sign_up_fields.
	additional := make(map[string]model.AdditionalField, len(c.UI.AdditionalFields))
	for key, field := range c.UI.AdditionalFields {
		name := key
		for _, listed := range c.UI.SignUpFields {
			if strings.EqualFold(listed, key) {
				name = listed
				break
			}
		}
		if field.Type == "" {
			field.Type = model.FieldTypeString
		}
		additional[name] = field
	}

	return model.UIConfig{
		BasePath:     "/" + strings.Trim(c.UI.BasePath, "/"),
		BaseURL:      strings.TrimRight(c.UI.BaseURL, "/"),
		RedirectTo:   c.UI.RedirectTo,
		SettingsPath: c.UI.SettingsPath,
		ViewPaths:    model.NewViewPaths(overrides),
		Features:     c.UI.Features,
		PasswordPolicy: model.PasswordPolicy{
			MinLength: c.UI.PasswordPolicy.MinLength,
			MaxLength: c.UI.PasswordPolicy.MaxLength,
			Pattern:   pattern,
		},
		SignUpFields:     c.UI.SignUpFields,
		AdditionalFields: additional,
	}
}
