package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthEngine(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/live", h.LivenessCheck)
	r.GET("/ready", h.ReadinessCheck)
	r.GET("/metrics", h.MetricsHandler)
	return r
}

func TestReadinessCheck(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		checks     map[string]Pinger
		wantStatus int
		wantState  string
	}{
		{"no checks", nil, http.StatusOK, "ready"},
		{"all up", map[string]Pinger{"auth_backend": up, "redis": up}, http.StatusOK, "ready"},
		{"one down", map[string]Pinger{"auth_backend": up, "redis": down}, http.StatusServiceUnavailable, "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := healthEngine(NewHandler(tt.checks, prometheus.NewRegistry(), zerolog.Nop()))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.wantStatus, w.Code)

			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body.Status)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, "down", body.Checks["redis"])
				assert.Equal(t, "up", body.Checks["auth_backend"])
			}
		})
	}
}

func TestLivenessCheck(t *testing.T) {
	down := pingFunc(func(context.Context) error { return errors.New("down") })
	r := healthEngine(NewHandler(map[string]Pinger{"redis": down}, prometheus.NewRegistry(), zerolog.Nop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusOK, w.Code, "liveness ignores dependencies")
	assert.Contains(t, w.Body.String(), `"alive"`)
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "authui_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	r := healthEngine(NewHandler(nil, reg, zerolog.Nop()))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "authui_test_total 1")
}
