package valueobject

import "errors"

// KPIID идентификатор KPI карточки на dashboard (Value Object)
type KPIID string

const (
	KPIRequests   KPIID = "requests"
	KPILatency    KPIID = "latency"
	KPIErrors     KPIID = "errors"
	KPIThroughput KPIID = "throughput"
)

// Validate проверяет валидность идентификатора KPI
func (id KPIID) Validate() error {
	switch id {
	case KPIRequests, KPILatency, KPIErrors, KPIThroughput:
		return nil
	default:
		return errors.New("invalid kpi id")
	}
}

// String возвращает строковое представление идентификатора
func (id KPIID) String() string {
	return string(id)
}

// AllKPIIDs возвращает список всех известных KPI
func AllKPIIDs() []KPIID {
	return []KPIID{KPIRequests, KPILatency, KPIErrors, KPIThroughput}
}
