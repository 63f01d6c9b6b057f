package valueobject

import (
	"errors"
	"time"
)

// TimeRange метка временного окна dashboard (Value Object)
type TimeRange string

const (
	Last24h TimeRange = "last_24h"
)

// Validate проверяет, что метка известна
func (tr TimeRange) Validate() error {
	if tr != Last24h {
		return errors.New("invalid time range")
	}
	return nil
}

// Duration возвращает длительность окна
func (tr TimeRange) Duration() time.Duration {
	switch tr {
	case Last24h:
		return 24 * time.Hour
	default:
		return 0
	}
}

// HourSlots возвращает количество часовых бакетов в окне
func (tr TimeRange) HourSlots() int {
	return int(tr.Duration() / time.Hour)
}

// String возвращает строковое представление метки
func (tr TimeRange) String() string {
	return string(tr)
}
