package service

import (
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/valueobject"
)

// Доли ошибок по кодам, в процентах; 500 забирает остаток
const (
	share400 = 35
	share401 = 15
	share404 = 25
)

// StatusPartitioner делит запросы по HTTP кодам в фиксированных пропорциях (Domain Service)
type StatusPartitioner struct{}

// NewStatusPartitioner создает новый StatusPartitioner
func NewStatusPartitioner() *StatusPartitioner {
	return &StatusPartitioner{}
}

// Split возвращает количество ответов по каждому известному коду
func (p *StatusPartitioner) Split(totalRequests int64, errorRatePercent float64) map[valueobject.StatusCode]int64 {
	counts := make(map[valueobject.StatusCode]int64, 5)
	if totalRequests <= 0 {
		return counts
	}

	totalErrors := min(percentOf(totalRequests, Clamp(errorRatePercent, 0, 100)), totalRequests)
	err400 := totalErrors * share400 / 100
	err401 := totalErrors * share401 / 100
	err404 := totalErrors * share404 / 100

	counts[valueobject.StatusOK] = totalRequests - totalErrors
	counts[valueobject.StatusBadRequest] = err400
	counts[valueobject.StatusUnauthorized] = err401
	counts[valueobject.StatusNotFound] = err404
	counts[valueobject.StatusServerError] = totalErrors - (err400 + err401 + err404)

	return counts
}

// Partition возвращает новые корзины кодов; неизвестные коды обнуляются
func (p *StatusPartitioner) Partition(buckets []entity.StatusBucket, summary entity.Summary) []entity.StatusBucket {
	counts := p.Split(summary.TotalRequests, summary.ErrorRatePercent)

	out := make([]entity.StatusBucket, len(buckets))
	for i, b := range buckets {
		b.Count = max(0, counts[b.Code])
		out[i] = b
	}
	return out
}
