package service

import (
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/valueobject"
)

const secondsPerHour = 3600

// KPIProjector отображает summary и часовые корзины на карточки KPI
type KPIProjector struct{}

// NewKPIProjector создает новый KPIProjector
func NewKPIProjector() *KPIProjector {
	return &KPIProjector{}
}

// Project возвращает новые KPI; карточки с неизвестным id остаются как есть
func (p *KPIProjector) Project(kpis []entity.KPI, summary entity.Summary, hours []entity.HourBucket) []entity.KPI {
	throughput := PeakThroughput(summary.TotalRequests, hours)

	out := make([]entity.KPI, len(kpis))
	for i, k := range kpis {
		switch k.ID {
		case valueobject.KPIRequests:
			k.Value = float64(summary.TotalRequests)
		case valueobject.KPILatency:
			k.Value = float64(summary.AvgLatencyMs)
		case valueobject.KPIErrors:
			k.Value = summary.ErrorRatePercent
		case valueobject.KPIThroughput:
			k.Value = float64(throughput)
		}
		out[i] = k
	}
	return out
}

// PeakThroughput оценивает пиковые запросы в секунду по самому нагруженному часу
func PeakThroughput(totalRequests int64, hours []entity.HourBucket) int64 {
	if totalRequests <= 0 {
		return 0
	}

	var peak int64
	for _, h := range hours {
		peak = max(peak, h.Requests)
	}
	return peak / secondsPerHour
}
