package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// View metrics
	ViewsRendered    *prometheus.CounterVec
	RoutingRedirects *prometheus.CounterVec

	// Form metrics
	Submissions        *prometheus.CounterVec
	SubmissionDuration *prometheus.HistogramVec

	// Auth backend metrics
	AuthClientRequests *prometheus.CounterVec
	AuthClientLatency  *prometheus.HistogramVec

	// Flash store and session cache metrics
	FlashOperations *prometheus.CounterVec
	SessionLookups  *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics on reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ViewsRendered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "views_rendered_total",
			Help:      "Total number of rendered auth views",
		}, []string{"view"}),
		RoutingRedirects: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routing_redirects_total",
			Help:      "Total number of view resolutions redirected to sign-in",
		}, []string{"view", "reason"}),

		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_submissions_total",
			Help:      "Total number of form submissions by outcome",
		}, []string{"form", "outcome"}),
		SubmissionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "form_submission_duration_seconds",
			Help:      "Time spent handling a form submission",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"form"}),

		AuthClientRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_client_requests_total",
			Help:      "Total number of requests sent to the auth backend",
		}, []string{"operation", "status"}),
		AuthClientLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "auth_client_request_duration_seconds",
			Help:      "Duration of auth backend requests",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),

		FlashOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flash_operations_total",
			Help:      "Total number of flash store operations",
		}, []string{"store", "operation", "status"}),
		SessionLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_lookups_total",
			Help:      "Total number of current-session lookups by cache result",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveView(view string) {
	if m == nil {
		return
	}
	m.ViewsRendered.WithLabelValues(view).Inc()
}

func (m *Metrics) ObserveRedirect(view, reason string) {
	if m == nil {
		return
	}
	m.RoutingRedirects.WithLabelValues(view, reason).Inc()
}

func (m *Metrics) ObserveSubmission(form, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(form, outcome).Inc()
	m.SubmissionDuration.WithLabelValues(form).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveAuthClient(operation, status string, started time.Time) {
	if m == nil {
		return
	}
	m.AuthClientRequests.WithLabelValues(operation, status).Inc()
	m.AuthClientLatency.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveFlash(store, operation string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.FlashOperations.WithLabelValues(store, operation, status).Inc()
}

func (m *Metrics) ObserveSessionLookup(result string) {
	if m == nil {
		return
	}
	m.SessionLookups.WithLabelValues(result).Inc()
}
