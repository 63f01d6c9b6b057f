package dto

import "github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"

// APIListQuery параметры выборки каталога API.
// Строковые фильтры ищут подстроку без учета регистра, числовые принимают
// сравнение вида ">100", "<=0.5", "=42" или просто число.
type APIListQuery struct {
	Page  int
	Limit int

	Name      string
	Version   string
	Method    string
	Path      string
	Status    string
	OwnerTeam string

	Requests         string
	ErrorRatePercent string
	P95LatencyMs     string

	SortBy string
	Desc   bool
}

// APIListPage страница каталога API
type APIListPage struct {
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Total      int               `json:"total"`
	TotalPages int               `json:"totalPages"`
	Data       []entity.APIEntry `json:"data"`
}

// APIPatch частичное обновление записи каталога; nil поле не меняется
type APIPatch struct {
	Name             *string  `json:"name"`
	Version          *string  `json:"version"`
	Method           *string  `json:"method"`
	Path             *string  `json:"path"`
	Status           *string  `json:"status"`
	OwnerTeam        *string  `json:"ownerTeam"`
	Requests         *int64   `json:"requests"`
	ErrorRatePercent *float64 `json:"errorRatePercent"`
	P95LatencyMs     *int64   `json:"p95LatencyMs"`
}

// Apply возвращает запись с примененными полями; id не меняется
func (p APIPatch) Apply(api entity.APIEntry) entity.APIEntry {
	setString(&api.Name, p.Name)
	setString(&api.Version, p.Version)
	setString(&api.Method, p.Method)
	setString(&api.Path, p.Path)
	setString(&api.Status, p.Status)
	setString(&api.OwnerTeam, p.OwnerTeam)
	if p.Requests != nil {
		api.Requests = *p.Requests
	}
	if p.ErrorRatePercent != nil {
		api.ErrorRatePercent = *p.ErrorRatePercent
	}
	if p.P95LatencyMs != nil {
		api.P95LatencyMs = *p.P95LatencyMs
	}
	return api
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
