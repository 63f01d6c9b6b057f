package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

const namespace = "ops_dashboard"

// Metrics bundles prometheus collectors used by the simulator.
// Реализует port.TickObserver.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDurationSec *prometheus.HistogramVec
	AuthFailures       prometheus.Counter
	RateLimitDropped   prometheus.Counter

	TicksTotal        *prometheus.CounterVec
	TickDurationSec   prometheus.Histogram
	AlertTransitions  prometheus.Counter
	TotalRequests     prometheus.Gauge
	ErrorRatePercent  prometheus.Gauge
	AvgLatencyMs      prometheus.Gauge
	ActiveConsumers   prometheus.Gauge
	OpenTickets       prometheus.Gauge
	KPIValue          *prometheus.GaugeVec
	LastTickTimestamp prometheus.Gauge
}

func New(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "method", "status"}),
		RequestDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		AuthFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Total number of auth failures.",
		}),
		RateLimitDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratelimit_dropped_total",
			Help:      "Total number of requests dropped by rate limiter.",
		}),
		TicksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Total number of simulation ticks by result.",
		}, []string{"result"}),
		TickDurationSec: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Duration of tick plus persistence in seconds.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		AlertTransitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_transitions_total",
			Help:      "Total number of alert status changes.",
		}),
		TotalRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "summary_total_requests",
			Help:      "Simulated total requests of the current snapshot.",
		}),
		ErrorRatePercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "summary_error_rate_percent",
			Help:      "Simulated error rate of the current snapshot.",
		}),
		AvgLatencyMs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "summary_avg_latency_ms",
			Help:      "Simulated average latency of the current snapshot.",
		}),
		ActiveConsumers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "summary_active_consumers",
			Help:      "Number of consumers in the current snapshot.",
		}),
		OpenTickets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_tickets",
			Help:      "Alerts currently firing or with an open ticket.",
		}),
		KPIValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "kpi_value",
			Help:      "Value of each KPI card.",
		}, []string{"kpi"}),
		LastTickTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_tick_timestamp_seconds",
			Help:      "Unix time of the last published snapshot.",
		}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSec,
		m.AuthFailures,
		m.RateLimitDropped,
		m.TicksTotal,
		m.TickDurationSec,
		m.AlertTransitions,
		m.TotalRequests,
		m.ErrorRatePercent,
		m.AvgLatencyMs,
		m.ActiveConsumers,
		m.OpenTickets,
		m.KPIValue,
		m.LastTickTimestamp,
	)

	return m
}

// ObserveTick реализует port.TickObserver
func (m *Metrics) ObserveTick(d time.Duration, snapshot *entity.Snapshot, transitions int, err error) {
	m.TickDurationSec.Observe(d.Seconds())

	if err != nil || snapshot == nil {
		m.TicksTotal.WithLabelValues("error").Inc()
		return
	}

	m.TicksTotal.WithLabelValues("ok").Inc()
	m.AlertTransitions.Add(float64(transitions))

	m.TotalRequests.Set(float64(snapshot.Summary.TotalRequests))
	m.ErrorRatePercent.Set(snapshot.Summary.ErrorRatePercent)
	m.AvgLatencyMs.Set(float64(snapshot.Summary.AvgLatencyMs))
	m.ActiveConsumers.Set(float64(snapshot.Summary.ActiveConsumers))
	m.OpenTickets.Set(float64(len(snapshot.OpenTickets)))
	for _, kpi := range snapshot.KPIs {
		m.KPIValue.WithLabelValues(kpi.ID.String()).Set(kpi.Value)
	}
	if !snapshot.Meta.GeneratedAt.IsZero() {
		m.LastTickTimestamp.Set(float64(snapshot.Meta.GeneratedAt.Time().Unix()))
	}
}

// AuthFailed nil-safe счетчик отказов авторизации
func (m *Metrics) AuthFailed() {
	if m != nil {
		m.AuthFailures.Inc()
	}
}

// RateLimited nil-safe счетчик отброшенных запросов
func (m *Metrics) RateLimited() {
	if m != nil {
		m.RateLimitDropped.Inc()
	}
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedAt := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		status := strconv.Itoa(wrapped.statusCode)
		route := normalizeRoute(r.URL.Path)
		m.RequestsTotal.WithLabelValues(route, r.Method, status).Inc()
		m.RequestDurationSec.WithLabelValues(route, r.Method, status).Observe(time.Since(startedAt).Seconds())
	})
}

// normalizeRoute ограничивает кардинальность label route
func normalizeRoute(path string) string {
	switch {
	case path == "/", path == "/ws", path == "/healthz", path == "/readyz", path == "/metrics",
		path == "/api/dashboard", path == "/api/v1/apis", path == "/api/v1/alerts/open":
		return path
	case strings.HasPrefix(path, "/api/v1/apis/"):
		return "/api/v1/apis/{id}"
	case strings.HasPrefix(path, "/api/v1/auth/"):
		return "/api/v1/auth/*"
	case strings.HasPrefix(path, "/api/"):
		return "/api/*"
	default:
		return "other"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Hijack passes websocket upgrades through wrapped ResponseWriter.
func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

// Flush keeps streaming behavior for handlers that require it.
func (rw *statusRecorder) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
