package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/service"
)

// TickEvent публикуется после каждого успешно сохраненного цикла
type TickEvent struct {
	EventID          string    `json:"event_id"`
	GeneratedAt      time.Time `json:"generated_at"`
	TotalRequests    int64     `json:"total_requests"`
	ErrorRatePercent float64   `json:"error_rate_percent"`
	AvgLatencyMs     int64     `json:"avg_latency_ms"`
	ActiveConsumers  int       `json:"active_consumers"`
	OpenTickets      int       `json:"open_tickets"`
}

// NewTickEvent создает событие по новому snapshot
func NewTickEvent(snapshot *entity.Snapshot) *TickEvent {
	return &TickEvent{
		EventID:          uuid.NewString(),
		GeneratedAt:      snapshot.Meta.GeneratedAt.Time(),
		TotalRequests:    snapshot.Summary.TotalRequests,
		ErrorRatePercent: snapshot.Summary.ErrorRatePercent,
		AvgLatencyMs:     snapshot.Summary.AvgLatencyMs,
		ActiveConsumers:  snapshot.Summary.ActiveConsumers,
		OpenTickets:      len(snapshot.OpenTickets),
	}
}

// AlertTransitionEvent смена статуса alert, для брокера и WebSocket клиентов
type AlertTransitionEvent struct {
	EventID  string    `json:"event_id"`
	AlertID  string    `json:"alert_id"`
	Title    string    `json:"title,omitempty"`
	API      string    `json:"api,omitempty"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	Severity string    `json:"severity"`
	At       time.Time `json:"at"`
}

// NewAlertTransitionEvents строит события по переходам, дополняя их описанием alert
func NewAlertTransitionEvents(transitions []service.AlertTransition, alerts []entity.Alert) []*AlertTransitionEvent {
	byID := make(map[string]entity.Alert, len(alerts))
	for _, a := range alerts {
		byID[a.ID] = a
	}

	events := make([]*AlertTransitionEvent, 0, len(transitions))
	for _, t := range transitions {
		alert := byID[t.AlertID]
		events = append(events, &AlertTransitionEvent{
			EventID:  uuid.NewString(),
			AlertID:  t.AlertID,
			Title:    alert.Title,
			API:      alert.API,
			From:     t.From.String(),
			To:       t.To.String(),
			Severity: t.Severity.String(),
			At:       t.At,
		})
	}
	return events
}
