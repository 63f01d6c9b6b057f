package service

import (
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

// AggregateTotals целевые итоги, вычисленные по API.
// Служат только целью для перераспределения по часам, в summary не публикуются.
type AggregateTotals struct {
	TotalAPIs        int
	TotalRequests    int64
	TotalErrors      int64
	ErrorRatePercent float64
}

// MetricAggregator пересчитывает глобальные итоги по листовым API (Domain Service)
type MetricAggregator struct {
	jitter *Jitterer
}

// NewMetricAggregator создает новый MetricAggregator
func NewMetricAggregator(rnd Random) *MetricAggregator {
	return &MetricAggregator{jitter: NewJitterer(rnd)}
}

// Propagate вычисляет итоги по уже обновленным API
func (a *MetricAggregator) Propagate(apis []entity.APIEntry) AggregateTotals {
	var rawRequests, rawErrors int64
	for _, api := range apis {
		rawRequests += api.Requests
		rawErrors += percentOf(api.Requests, api.ErrorRatePercent)
	}

	// защита от деления на ноль ниже по конвейеру
	if rawRequests == 0 {
		rawRequests = 1
	}

	totals := AggregateTotals{
		TotalAPIs:     len(apis),
		TotalRequests: a.jitter.JitterInt(rawRequests, 0.01, 0),
		TotalErrors:   a.jitter.JitterInt(rawErrors, 0.05, 0),
	}
	totals.ErrorRatePercent = errorRate(totals.TotalErrors, totals.TotalRequests)

	return totals
}

// errorRate возвращает процент ошибок с двумя знаками, 0 при нулевом трафике
func errorRate(errs, requests int64) float64 {
	if requests <= 0 {
		return 0
	}
	return RoundTo(float64(errs)/float64(requests)*100, 2)
}
