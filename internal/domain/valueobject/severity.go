package valueobject

import "errors"

// Severity уровень важности alert (Value Object)
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Validate проверяет валидность уровня
func (s Severity) Validate() error {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return nil
	default:
		return errors.New("invalid severity")
	}
}

// Escalated возвращает уровень после перехода в ticket_open.
// Только medium поднимается до high, обратного перехода нет.
func (s Severity) Escalated() Severity {
	if s == SeverityMedium {
		return SeverityHigh
	}
	return s
}

// String возвращает строковое представление уровня
func (s Severity) String() string {
	return string(s)
}
