package valueobject

import "errors"

// AlertStatus состояние жизненного цикла alert (Value Object)
type AlertStatus string

const (
	AlertResolved   AlertStatus = "resolved"
	AlertFiring     AlertStatus = "firing"
	AlertTicketOpen AlertStatus = "ticket_open"
)

// Validate проверяет, что статус входит в допустимый набор
func (s AlertStatus) Validate() error {
	switch s {
	case AlertResolved, AlertFiring, AlertTicketOpen:
		return nil
	default:
		return errors.New("invalid alert status")
	}
}

// IsOpen возвращает true для статусов, попадающих в open tickets
func (s AlertStatus) IsOpen() bool {
	return s == AlertFiring || s == AlertTicketOpen
}

// String возвращает строковое представление статуса
func (s AlertStatus) String() string {
	return string(s)
}
