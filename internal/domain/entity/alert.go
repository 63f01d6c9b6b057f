package entity

import (
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/valueobject"
)

// MaxAlertHistory ограничивает историю alert последними переходами
const MaxAlertHistory = 100

// Alert представляет alert с жизненным циклом resolved -> firing -> ticket_open
// Единственная сущность, сохраняющая идентичность и историю между циклами
type Alert struct {
	ID                 string                  `json:"id"`
	Severity           valueobject.Severity    `json:"severity"`
	Status             valueobject.AlertStatus `json:"status,omitempty"`
	Title              string                  `json:"title,omitempty"`
	Message            string                  `json:"message,omitempty"`
	API                string                  `json:"api,omitempty"`
	FirstSeenAt        valueobject.Timestamp   `json:"firstSeenAt,omitzero"`
	LastStatusChangeAt valueobject.Timestamp   `json:"lastStatusChangeAt,omitzero"`
	History            []AlertHistoryEntry     `json:"history"`
}

// AlertHistoryEntry одна запись истории переходов
type AlertHistoryEntry struct {
	Status valueobject.AlertStatus `json:"status"`
	At     valueobject.Timestamp   `json:"at"`
}

// EnsureInitialized заполняет отсутствующие поля alert, впервые встреченного в данных,
// и приводит метки времени из будущего к now. Повторный вызов с тем же now ничего не меняет.
func (a *Alert) EnsureInitialized(now time.Time) {
	ts := valueobject.NewTimestamp(now)

	if a.Status == "" {
		a.Status = valueobject.AlertResolved
	}
	if a.FirstSeenAt.IsZero() || a.FirstSeenAt.Time().After(ts.Time()) {
		a.FirstSeenAt = ts
	}
	if a.LastStatusChangeAt.IsZero() || a.LastStatusChangeAt.Time().After(ts.Time()) {
		a.LastStatusChangeAt = ts
	}
	if a.History == nil {
		a.History = []AlertHistoryEntry{}
	}
	for i := range a.History {
		if a.History[i].At.Time().After(ts.Time()) {
			a.History[i].At = ts
		}
	}
}

// OpenFor возвращает время, прошедшее с последней смены статуса
func (a *Alert) OpenFor(now time.Time) time.Duration {
	return now.Sub(a.LastStatusChangeAt.Time())
}

// TransitionTo переводит alert в новый статус. Возвращает false, если статус не изменился.
func (a *Alert) TransitionTo(status valueobject.AlertStatus, now time.Time) bool {
	if status == a.Status {
		return false
	}

	// история не убывает по времени
	ts := valueobject.NewTimestamp(now)
	if n := len(a.History); n > 0 && a.History[n-1].At.Time().After(ts.Time()) {
		ts = a.History[n-1].At
	}

	a.Status = status
	if status == valueobject.AlertTicketOpen {
		a.Severity = a.Severity.Escalated()
	}

	a.History = append(a.History, AlertHistoryEntry{Status: status, At: ts})
	if len(a.History) > MaxAlertHistory {
		a.History = append([]AlertHistoryEntry(nil), a.History[len(a.History)-MaxAlertHistory:]...)
	}
	a.LastStatusChangeAt = ts

	return true
}

// IsOpen сообщает, попадает ли alert в open tickets
func (a *Alert) IsOpen() bool {
	return a.Status.IsOpen()
}

// Clone возвращает копию alert с собственной историей
func (a Alert) Clone() Alert {
	clone := a
	clone.History = cloneSlice(a.History)
	return clone
}
