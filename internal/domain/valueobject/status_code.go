package valueobject

// StatusCode HTTP код ответа, по которому группируется трафик
type StatusCode int

const (
	StatusOK           StatusCode = 200
	StatusBadRequest   StatusCode = 400
	StatusUnauthorized StatusCode = 401
	StatusNotFound     StatusCode = 404
	StatusServerError  StatusCode = 500
)

// IsKnown проверяет, входит ли код в фиксированный набор dashboard
func (c StatusCode) IsKnown() bool {
	switch c {
	case StatusOK, StatusBadRequest, StatusUnauthorized, StatusNotFound, StatusServerError:
		return true
	default:
		return false
	}
}

// Int возвращает числовое значение кода
func (c StatusCode) Int() int {
	return int(c)
}
