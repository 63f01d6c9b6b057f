package service

import (
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/valueobject"
)

// AutoResolveAfter время, после которого открытый alert принудительно закрывается
const AutoResolveAfter = 5 * time.Second

// AlertMetric извлекает наблюдаемую метрику из записи API
type AlertMetric func(api entity.APIEntry) float64

// AlertRule правило выбора желаемого статуса для одного alert
type AlertRule struct {
	AlertID string
	API     string
	Metric  AlertMetric
	// Low нижняя граница средней полосы
	Low float64
	// Mid верхняя граница средней полосы
	Mid float64
	// MidInclusive включает Mid в среднюю полосу
	MidInclusive bool
}

type weightedStatus struct {
	status valueobject.AlertStatus
	weight float64
}

var (
	lowBand  = []weightedStatus{{valueobject.AlertResolved, 0.8}, {valueobject.AlertFiring, 0.2}}
	midBand  = []weightedStatus{{valueobject.AlertResolved, 0.4}, {valueobject.AlertFiring, 0.6}}
	highBand = []weightedStatus{{valueobject.AlertFiring, 0.5}, {valueobject.AlertTicketOpen, 0.5}}
)

// DefaultAlertRules фиксированные правила симулируемого домена
func DefaultAlertRules() []AlertRule {
	return []AlertRule{
		{
			AlertID: "ALT-1",
			API:     "Billing Service",
			Metric:  func(api entity.APIEntry) float64 { return api.ErrorRatePercent },
			Low:     0.5,
			Mid:     1.0,
		},
		{
			AlertID:      "ALT-2",
			API:          "Auth Service",
			Metric:       func(api entity.APIEntry) float64 { return float64(api.P95LatencyMs) },
			Low:          50,
			Mid:          100,
			MidInclusive: true,
		},
	}
}

// band выбирает распределение статусов по значению метрики
func (r AlertRule) band(value float64) []weightedStatus {
	switch {
	case value < r.Low:
		return lowBand
	case value < r.Mid, r.MidInclusive && value == r.Mid:
		return midBand
	default:
		return highBand
	}
}

// AlertTransition смена статуса alert за один tick
type AlertTransition struct {
	AlertID  string
	From     valueobject.AlertStatus
	To       valueobject.AlertStatus
	Severity valueobject.Severity
	At       time.Time
}

// AlertMachine жизненный цикл alert: вероятностные переходы и авто-закрытие по времени
type AlertMachine struct {
	rnd   Random
	rules map[string]AlertRule
}

// NewAlertMachine создает новый AlertMachine с указанными правилами
func NewAlertMachine(rnd Random, rules []AlertRule) *AlertMachine {
	byID := make(map[string]AlertRule, len(rules))
	for _, rule := range rules {
		byID[rule.AlertID] = rule
	}
	return &AlertMachine{rnd: rnd, rules: byID}
}

// Evaluate возвращает новые alert после одного цикла
func (m *AlertMachine) Evaluate(alerts []entity.Alert, apis []entity.APIEntry, now time.Time) []entity.Alert {
	byName := make(map[string]entity.APIEntry, len(apis))
	for _, api := range apis {
		byName[api.Name] = api
	}

	out := make([]entity.Alert, len(alerts))
	for i, src := range alerts {
		alert := src.Clone()
		alert.EnsureInitialized(now)

		desired := m.desiredStatus(alert, byName)

		// Открытый дольше AutoResolveAfter alert закрывается независимо от правила
		if alert.IsOpen() && alert.OpenFor(now) > AutoResolveAfter {
			desired = valueobject.AlertResolved
		}

		alert.TransitionTo(desired, now)
		out[i] = alert
	}

	return out
}

func (m *AlertMachine) desiredStatus(alert entity.Alert, apis map[string]entity.APIEntry) valueobject.AlertStatus {
	rule, ok := m.rules[alert.ID]
	if !ok {
		return valueobject.AlertResolved
	}

	api, ok := apis[rule.API]
	if !ok {
		return valueobject.AlertResolved
	}

	return m.choose(rule.band(rule.Metric(api)))
}

// choose делает взвешенный случайный выбор по накопленным весам
func (m *AlertMachine) choose(options []weightedStatus) valueobject.AlertStatus {
	var total float64
	for _, o := range options {
		total += o.weight
	}

	r := m.rnd.Float64() * total
	var cumulative float64
	for _, o := range options {
		cumulative += o.weight
		if r < cumulative {
			return o.status
		}
	}
	return options[len(options)-1].status
}

// OpenTickets заново строит список alert в статусе firing или ticket_open
func OpenTickets(alerts []entity.Alert) []entity.Alert {
	open := make([]entity.Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.IsOpen() {
			open = append(open, a.Clone())
		}
	}
	return open
}

// DiffAlerts находит alert, сменившие статус между двумя snapshot.
// Новые alert сравниваются с resolved.
func DiffAlerts(prev, next []entity.Alert) []AlertTransition {
	before := make(map[string]valueobject.AlertStatus, len(prev))
	for _, a := range prev {
		before[a.ID] = a.Status
	}

	var transitions []AlertTransition
	for _, a := range next {
		from, ok := before[a.ID]
		if !ok || from == "" {
			from = valueobject.AlertResolved
		}
		if from == a.Status {
			continue
		}
		transitions = append(transitions, AlertTransition{
			AlertID:  a.ID,
			From:     from,
			To:       a.Status,
			Severity: a.Severity,
			At:       a.LastStatusChangeAt.Time(),
		})
	}
	return transitions
}
