package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

// SnapshotValidator проверяет структурную корректность загруженного snapshot (Domain Service)
// Tick рассчитывает на корректный вход, поэтому проверка выполняется при загрузке
type SnapshotValidator struct{}

// NewSnapshotValidator создает новый SnapshotValidator
func NewSnapshotValidator() *SnapshotValidator {
	return &SnapshotValidator{}
}

// Validate выполняет полную валидацию snapshot
func (v *SnapshotValidator) Validate(s *entity.Snapshot) error {
	if s == nil {
		return errors.New("snapshot cannot be nil")
	}

	if s.Meta.TimeRange != "" {
		if err := s.Meta.TimeRange.Validate(); err != nil {
			return err
		}
	}

	names := make(map[string]struct{}, len(s.APIs))
	for i, api := range s.APIs {
		if api.Name == "" {
			return fmt.Errorf("topApis[%d]: name cannot be empty", i)
		}
		if _, dup := names[api.Name]; dup {
			return fmt.Errorf("topApis[%d]: duplicate name %q", i, api.Name)
		}
		names[api.Name] = struct{}{}

		if api.Requests < 0 || api.P95LatencyMs < 0 || api.ErrorRatePercent < 0 {
			return fmt.Errorf("topApis[%d]: metrics cannot be negative", i)
		}
	}

	for i, c := range s.Consumers {
		if c.Requests < 0 {
			return fmt.Errorf("topConsumers[%d]: requests cannot be negative", i)
		}
	}

	if len(s.TrafficByHour) == 0 {
		return errors.New("trafficByHour cannot be empty")
	}
	for i, h := range s.TrafficByHour {
		if h.Requests < 0 || h.Errors < 0 || h.AvgLatencyMs < 0 {
			return fmt.Errorf("trafficByHour[%d]: metrics cannot be negative", i)
		}
	}

	for i, k := range s.KPIs {
		if err := k.ID.Validate(); err != nil {
			return fmt.Errorf("kpis[%d]: %w", i, err)
		}
	}

	return v.validateAlerts(s.Alerts)
}

func (v *SnapshotValidator) validateAlerts(alerts []entity.Alert) error {
	ids := make(map[string]struct{}, len(alerts))
	for i, a := range alerts {
		if a.ID == "" {
			return fmt.Errorf("alerts[%d]: id cannot be empty", i)
		}
		if _, dup := ids[a.ID]; dup {
			return fmt.Errorf("alerts[%d]: duplicate id %q", i, a.ID)
		}
		ids[a.ID] = struct{}{}

		if a.Severity != "" {
			if err := a.Severity.Validate(); err != nil {
				return fmt.Errorf("alerts[%d]: %w", i, err)
			}
		}
		// отсутствующий статус допустим, он заполняется при первом tick
		if a.Status != "" {
			if err := a.Status.Validate(); err != nil {
				return fmt.Errorf("alerts[%d]: %w", i, err)
			}
		}

		if err := validateHistory(a); err != nil {
			return fmt.Errorf("alerts[%d]: %w", i, err)
		}
	}
	return nil
}

// validateHistory требует неубывающие метки истории и lastStatusChangeAt не раньше последней записи
func validateHistory(a entity.Alert) error {
	var prev time.Time
	for j, h := range a.History {
		if err := h.Status.Validate(); err != nil {
			return fmt.Errorf("history[%d]: %w", j, err)
		}
		at := h.At.Time()
		if at.IsZero() {
			return fmt.Errorf("history[%d]: at cannot be empty", j)
		}
		if at.Before(prev) {
			return fmt.Errorf("history[%d]: at %s is earlier than previous entry", j, h.At)
		}
		prev = at
	}

	if n := len(a.History); n > 0 && !a.LastStatusChangeAt.IsZero() && a.LastStatusChangeAt.Time().Before(prev) {
		return fmt.Errorf("lastStatusChangeAt %s is earlier than last history entry", a.LastStatusChangeAt)
	}
	return nil
}
