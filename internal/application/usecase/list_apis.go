package usecase

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/dto"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

const (
	DefaultAPIListLimit = 10
	MaxAPIListLimit     = 100
)

// ListAPIsUseCase фильтрует, сортирует и разбивает на страницы каталог API
type ListAPIsUseCase struct {
	catalog *APICatalogStore
}

// NewListAPIsUseCase создает новый use case
func NewListAPIsUseCase(catalog *APICatalogStore) *ListAPIsUseCase {
	return &ListAPIsUseCase{catalog: catalog}
}

// Execute возвращает одну страницу каталога.
// Некорректные page и limit заменяются значениями по умолчанию.
func (uc *ListAPIsUseCase) Execute(ctx context.Context, query dto.APIListQuery) (*dto.APIListPage, error) {
	catalog, err := uc.catalog.Read(ctx)
	if err != nil {
		return nil, err
	}

	page := query.Page
	if page <= 0 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 || limit > MaxAPIListLimit {
		limit = DefaultAPIListLimit
	}

	filtered := make([]entity.APIEntry, 0, len(catalog.APIs))
	for _, api := range catalog.APIs {
		if matchesQuery(api, query) {
			filtered = append(filtered, api)
		}
	}

	if compare := apiComparator(query.SortBy); compare != nil {
		slices.SortStableFunc(filtered, func(a, b entity.APIEntry) int {
			if query.Desc {
				return compare(b, a)
			}
			return compare(a, b)
		})
	}

	total := len(filtered)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	return &dto.APIListPage{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
		Data:       filtered[start:end],
	}, nil
}

func matchesQuery(api entity.APIEntry, q dto.APIListQuery) bool {
	return containsFold(api.Name, q.Name) &&
		containsFold(api.Version, q.Version) &&
		containsFold(api.Method, q.Method) &&
		containsFold(api.Path, q.Path) &&
		containsFold(api.Status, q.Status) &&
		containsFold(api.OwnerTeam, q.OwnerTeam) &&
		matchNumber(float64(api.Requests), q.Requests) &&
		matchNumber(api.ErrorRatePercent, q.ErrorRatePercent) &&
		matchNumber(float64(api.P95LatencyMs), q.P95LatencyMs)
}

func containsFold(value, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(filter))
}

// matchNumber проверяет фильтр вида ">100", ">=0.5", "<10", "<=3", "=42" или "42".
// Нечисловой фильтр ничего не пропускает.
func matchNumber(value float64, filter string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return true
	}

	for _, op := range []string{">=", "<=", ">", "<", "="} {
		rest, ok := strings.CutPrefix(filter, op)
		if !ok {
			continue
		}
		operand, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
		if err != nil {
			return false
		}
		switch op {
		case ">=":
			return value >= operand
		case "<=":
			return value <= operand
		case ">":
			return value > operand
		case "<":
			return value < operand
		default:
			return value == operand
		}
	}

	operand, err := strconv.ParseFloat(filter, 64)
	if err != nil {
		return false
	}
	return value == operand
}

// apiComparator возвращает сравнение по полю; неизвестное поле сортировку не меняет
func apiComparator(field string) func(a, b entity.APIEntry) int {
	switch field {
	case "id":
		return func(a, b entity.APIEntry) int { return cmp.Compare(a.ID, b.ID) }
	case "name":
		return func(a, b entity.APIEntry) int { return cmp.Compare(a.Name, b.Name) }
	case "version":
		return func(a, b entity.APIEntry) int { return cmp.Compare(a.Version, b.Version) }
	case "method":
		return func(a, b entity.APIEntry) int { return cmp.Compare(a.Method, b.Method) }
	case "path":
		return func(a, b entity.APIEntry) int { return cmp.Compare(a.Path, b.Path) }
	case "status":
		return func(a, b entity.APIEntry) int { return cmp.Compare(a.Status, b.Status) }
	case "ownerTeam":
		return func(a, b entity.APIEntry) int { return cmp.Compare(a.OwnerTeam, b.OwnerTeam) }
	case "requests":
		return func(a, b entity.APIEntry) int { return cmp.Compare(a.Requests, b.Requests) }
	case "errorRatePercent":
		return func(a, b entity.APIEntry) int { return cmp.Compare(a.ErrorRatePercent, b.ErrorRatePercent) }
	case "p95LatencyMs":
		return func(a, b entity.APIEntry) int { return cmp.Compare(a.P95LatencyMs, b.P95LatencyMs) }
	default:
		return nil
	}
}

// GetAPIUseCase возвращает одну запись каталога по id
type GetAPIUseCase struct {
	catalog *APICatalogStore
}

// NewGetAPIUseCase создает новый use case
func NewGetAPIUseCase(catalog *APICatalogStore) *GetAPIUseCase {
	return &GetAPIUseCase{catalog: catalog}
}

// Execute ищет запись по id
func (uc *GetAPIUseCase) Execute(ctx context.Context, id string) (*entity.APIEntry, error) {
	catalog, err := uc.catalog.Read(ctx)
	if err != nil {
		return nil, err
	}

	api, _, ok := catalog.Find(id)
	if !ok {
		return nil, ErrAPINotFound
	}
	return &api, nil
}
