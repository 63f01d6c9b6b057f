package entity

import (
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/valueobject"
)

// Snapshot представляет весь набор данных dashboard за один цикл (Aggregate Root)
// Каждый tick строит новый Snapshot из копии предыдущего, предыдущий не изменяется
type Snapshot struct {
	Meta          Meta            `json:"meta"`
	Summary       Summary         `json:"summary"`
	APIs          []APIEntry      `json:"topApis"`
	Consumers     []ConsumerEntry `json:"topConsumers"`
	TrafficByHour []HourBucket    `json:"trafficByHour"`
	StatusCodes   []StatusBucket  `json:"statusCodes"`
	KPIs          []KPI           `json:"kpis"`
	Alerts        []Alert         `json:"alerts"`
	OpenTickets   []Alert         `json:"openTickets"`
}

// Meta содержит служебную информацию о snapshot
type Meta struct {
	Environment string                `json:"environment,omitempty"`
	GeneratedAt valueobject.Timestamp `json:"generatedAt,omitzero"`
	TimeRange   valueobject.TimeRange `json:"timeRange"`
}

// Summary глобальная сводка, полностью вычисляется на каждом tick
type Summary struct {
	TotalAPIs        int     `json:"totalApis"`
	TotalRequests    int64   `json:"totalRequests"`
	ErrorRatePercent float64 `json:"errorRatePercent"`
	AvgLatencyMs     int64   `json:"avgLatencyMs"`
	ActiveConsumers  int     `json:"activeConsumers"`
}

// APIEntry метрики одного API (листовая запись)
type APIEntry struct {
	ID               string  `json:"id,omitempty"`
	Name             string  `json:"name"`
	Version          string  `json:"version,omitempty"`
	Method           string  `json:"method,omitempty"`
	Path             string  `json:"path,omitempty"`
	Status           string  `json:"status,omitempty"`
	OwnerTeam        string  `json:"ownerTeam,omitempty"`
	Requests         int64   `json:"requests"`
	P95LatencyMs     int64   `json:"p95LatencyMs"`
	ErrorRatePercent float64 `json:"errorRatePercent"`
}

// ConsumerEntry метрики одного потребителя API (листовая запись)
type ConsumerEntry struct {
	ID               string                `json:"id,omitempty"`
	Name             string                `json:"name"`
	Type             string                `json:"type,omitempty"`
	Requests         int64                 `json:"requests"`
	ErrorRatePercent float64               `json:"errorRatePercent,omitempty"`
	LastSeen         valueobject.Timestamp `json:"lastSeen,omitzero"`
}

// HourBucket трафик за один час окна; позиция в последовательности и есть идентичность
type HourBucket struct {
	Hour         string `json:"hour,omitempty"`
	Requests     int64  `json:"requests"`
	Errors       int64  `json:"errors"`
	AvgLatencyMs int64  `json:"avgLatencyMs"`
}

// StatusBucket количество ответов с указанным HTTP кодом
type StatusBucket struct {
	Code  valueobject.StatusCode `json:"code"`
	Count int64                  `json:"count"`
}

// KPI карточка dashboard
type KPI struct {
	ID    valueobject.KPIID `json:"id"`
	Label string            `json:"label,omitempty"`
	Unit  string            `json:"unit,omitempty"`
	Value float64           `json:"value"`
}

// Clone возвращает глубокую копию snapshot без общих слайсов с оригиналом
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	clone := &Snapshot{
		Meta:          s.Meta,
		Summary:       s.Summary,
		APIs:          cloneSlice(s.APIs),
		Consumers:     cloneSlice(s.Consumers),
		TrafficByHour: cloneSlice(s.TrafficByHour),
		StatusCodes:   cloneSlice(s.StatusCodes),
		KPIs:          cloneSlice(s.KPIs),
		Alerts:        cloneAlerts(s.Alerts),
		OpenTickets:   cloneAlerts(s.OpenTickets),
	}

	return clone
}

// FindAPI ищет API по имени
func (s *Snapshot) FindAPI(name string) (APIEntry, bool) {
	for _, api := range s.APIs {
		if api.Name == name {
			return api, true
		}
	}
	return APIEntry{}, false
}

func cloneSlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}

func cloneAlerts(src []Alert) []Alert {
	if src == nil {
		return nil
	}
	dst := make([]Alert, len(src))
	for i, a := range src {
		dst[i] = a.Clone()
	}
	return dst
}
