package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/port"
	"github.com/dreschagin/ops-dashboard-simulator/internal/interfaces/http/middleware"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// ReadinessChecker сообщает, загружен ли snapshot
type ReadinessChecker interface {
	Ready() bool
}

// Pinger внешняя зависимость, проверяемая в /readyz
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc адаптер функции к Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler liveness и readiness пробы
type HealthHandler struct {
	ready     ReadinessChecker
	collector port.SystemStatsCollector
	pingers   map[string]Pinger
	logger    *logger.Logger
}

// NewHealthHandler collector и pingers необязательны
func NewHealthHandler(
	ready ReadinessChecker,
	collector port.SystemStatsCollector,
	pingers map[string]Pinger,
	log *logger.Logger,
) *HealthHandler {
	return &HealthHandler{
		ready:     ready,
		collector: collector,
		pingers:   pingers,
		logger:    log,
	}
}

// Healthz GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz GET /readyz. Без загруженного snapshot или при недоступной зависимости отвечает 503.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	status := http.StatusOK
	body := map[string]any{}

	loaded := h.ready.Ready()
	body["snapshot_loaded"] = loaded
	if !loaded {
		status = http.StatusServiceUnavailable
	}

	deps := make(map[string]string, len(h.pingers))
	for name, p := range h.pingers {
		if err := p.Ping(ctx); err != nil {
			h.logger.Warn("Readiness dependency check failed", "dependency", name, "error", err)
			deps[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}
	if len(deps) > 0 {
		body["dependencies"] = deps
	}

	if h.collector != nil {
		stats, err := h.collector.Collect(ctx)
		if err != nil {
			// статистика хоста не влияет на готовность
			h.logger.Debug("System stats collected partially", "error", err)
		}
		body["system"] = stats
	}

	if status == http.StatusOK {
		body["status"] = "ready"
	} else {
		body["status"] = "not_ready"
	}
	middleware.WriteJSON(w, status, body)
}
