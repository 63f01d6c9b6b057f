package valueobject

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// timestampLayout всегда рендерит UTC с суффиксом Z, а не числовым offset
const timestampLayout = "2006-01-02T15:04:05.000000Z"

// Timestamp момент времени на границе системы (Value Object)
// Хранится в UTC, сериализуется в ISO-8601 с суффиксом Z
type Timestamp struct {
	t time.Time
}

// NewTimestamp создает Timestamp, приводя время к UTC
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{t: t.UTC()}
}

// ParseTimestamp разбирает ISO-8601 строку (с Z или числовым offset)
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return NewTimestamp(t), nil
}

// Time возвращает значение как time.Time
func (ts Timestamp) Time() time.Time {
	return ts.t
}

// IsZero сообщает, было ли значение задано
func (ts Timestamp) IsZero() bool {
	return ts.t.IsZero()
}

// Before сравнивает два момента
func (ts Timestamp) Before(other Timestamp) bool {
	return ts.t.Before(other.t)
}

// After сравнивает два момента
func (ts Timestamp) After(other Timestamp) bool {
	return ts.t.After(other.t)
}

// Add возвращает новый Timestamp, сдвинутый на d
func (ts Timestamp) Add(d time.Duration) Timestamp {
	return Timestamp{t: ts.t.Add(d)}
}

// Sub возвращает интервал между моментами
func (ts Timestamp) Sub(other Timestamp) time.Duration {
	return ts.t.Sub(other.t)
}

// String возвращает строковое представление с суффиксом Z
func (ts Timestamp) String() string {
	if ts.t.IsZero() {
		return ""
	}
	return ts.t.UTC().Format(timestampLayout)
}

// MarshalJSON реализует json.Marshaler
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.String())
}

// UnmarshalJSON реализует json.Unmarshaler; null и пустая строка дают нулевое значение
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if raw == "" {
		*ts = Timestamp{}
		return nil
	}

	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
