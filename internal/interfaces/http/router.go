package http

import (
	"io/fs"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dreschagin/ops-dashboard-simulator/internal/interfaces/http/handler"
	"github.com/dreschagin/ops-dashboard-simulator/internal/interfaces/http/middleware"
	"github.com/dreschagin/ops-dashboard-simulator/internal/metrics"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/config"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

// Handlers набор HTTP handlers приложения
type Handlers struct {
	Dashboard *handler.DashboardHandler
	APIs      *handler.APIsHandler
	Alerts    *handler.AlertsHandler
	Health    *handler.HealthHandler
	WebSocket *handler.WebSocketHandler
	Auth      *handler.AuthAPIHandler
}

// Router настраивает маршруты приложения
type Router struct {
	mux       *http.ServeMux
	handlers  Handlers
	security  config.SecurityConfig
	rateLimit config.RateLimitConfig
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
	logger    *logger.Logger
}

// NewRouter создает новый router. metrics и gatherer могут быть nil.
func NewRouter(
	handlers Handlers,
	security config.SecurityConfig,
	rateLimit config.RateLimitConfig,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	logger *logger.Logger,
) *Router {
	return &Router{
		mux:       http.NewServeMux(),
		handlers:  handlers,
		security:  security,
		rateLimit: rateLimit,
		metrics:   m,
		gatherer:  gatherer,
		logger:    logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("failed to initialize embedded static assets: " + err.Error())
	}
	rt.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Пробы и метрики без авторизации
	rt.mux.HandleFunc("GET /healthz", rt.handlers.Health.Healthz)
	rt.mux.HandleFunc("GET /readyz", rt.handlers.Health.Readyz)
	if rt.gatherer != nil {
		rt.mux.Handle("GET /metrics", promhttp.HandlerFor(rt.gatherer, promhttp.HandlerOpts{}))
	}

	auth := middleware.Auth(middleware.AuthConfig{
		Enabled:     rt.security.AuthEnabled,
		BearerToken: rt.security.AuthToken,
		JWTSecret:   rt.security.JWTSecret,
	}, rt.logger, rt.metrics)
	protect := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	// Dashboard
	rt.mux.Handle("GET /{$}", protect(rt.handlers.Dashboard.ShowDashboard))
	rt.mux.Handle("GET /api/dashboard", protect(rt.handlers.Dashboard.GetDashboard))

	// WebSocket
	rt.mux.Handle("GET /ws", protect(rt.handlers.WebSocket.HandleConnection))

	// API endpoints
	rt.mux.Handle("GET /api/v1/apis", protect(rt.handlers.APIs.ListAPIs))
	rt.mux.Handle("GET /api/v1/apis/{id}", protect(rt.handlers.APIs.GetAPI))
	rt.mux.Handle("POST /api/v1/apis", protect(rt.handlers.APIs.CreateAPI))
	rt.mux.Handle("PATCH /api/v1/apis/{id}", protect(rt.handlers.APIs.UpdateAPI))
	rt.mux.Handle("DELETE /api/v1/apis/{id}", protect(rt.handlers.APIs.DeleteAPI))
	rt.mux.Handle("GET /api/v1/alerts/open", protect(rt.handlers.Alerts.ListOpenTickets))

	rt.mux.HandleFunc("POST /api/v1/auth/login", rt.handlers.Auth.Login)
	rt.mux.HandleFunc("POST /api/v1/auth/logout", rt.handlers.Auth.Logout)
	rt.mux.HandleFunc("GET /api/v1/auth/status", rt.handlers.Auth.Status)

	// Применяем middleware, последний добавленный выполняется первым
	var handler http.Handler = rt.mux
	handler = middleware.Compression(handler)
	if rt.rateLimit.Enabled {
		ips, err := middleware.NewClientIPResolver(rt.rateLimit.TrustedProxies)
		if err != nil {
			panic("failed to initialize rate limiter: " + err.Error())
		}
		limiter := middleware.NewIPRateLimiter(rt.rateLimit.RPS, rt.rateLimit.Burst)
		handler = middleware.RateLimit(limiter, ips, rt.metrics)(handler)
	}
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	handler = middleware.Recovery(rt.logger)(handler)
	handler = middleware.Logger(rt.logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}
