package service

import (
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

// Reconciler строит публикуемый summary строго по часовым корзинам.
// Итоги Propagate здесь намеренно не используются: источник истины это корзины.
type Reconciler struct{}

// NewReconciler создает новый Reconciler
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Reconcile вычисляет summary по корзинам и потребителям
func (r *Reconciler) Reconcile(hours []entity.HourBucket, consumers []entity.ConsumerEntry, totalAPIs int) entity.Summary {
	var totalRequests, totalErrors, weightedLatency int64
	for _, h := range hours {
		totalRequests += h.Requests
		totalErrors += h.Errors
		weightedLatency += h.AvgLatencyMs * h.Requests
	}

	summary := entity.Summary{
		TotalAPIs:       totalAPIs,
		TotalRequests:   totalRequests,
		ActiveConsumers: len(consumers),
	}

	if totalRequests > 0 {
		summary.AvgLatencyMs = weightedLatency / totalRequests
		summary.ErrorRatePercent = Clamp(errorRate(totalErrors, totalRequests), 0, 100)
	}

	return summary
}
