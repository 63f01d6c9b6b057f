package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

// APICatalogValidator проверяет записи каталога API (Domain Service)
type APICatalogValidator struct{}

// NewAPICatalogValidator создает новый APICatalogValidator
func NewAPICatalogValidator() *APICatalogValidator {
	return &APICatalogValidator{}
}

// ValidateEntry возвращает все нарушения одной записи сразу
func (v *APICatalogValidator) ValidateEntry(api entity.APIEntry) error {
	var errs []error

	if strings.TrimSpace(api.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if strings.TrimSpace(api.Method) == "" {
		errs = append(errs, errors.New("method is required"))
	}
	if !strings.HasPrefix(api.Path, "/") {
		errs = append(errs, errors.New("path must start with /"))
	}
	if api.Requests < 0 {
		errs = append(errs, errors.New("requests cannot be negative"))
	}
	if api.P95LatencyMs < 0 {
		errs = append(errs, errors.New("p95LatencyMs cannot be negative"))
	}
	if api.ErrorRatePercent < 0 || api.ErrorRatePercent > 100 {
		errs = append(errs, errors.New("errorRatePercent must be within 0..100"))
	}

	return errors.Join(errs...)
}

// Validate проверяет загруженный каталог целиком
func (v *APICatalogValidator) Validate(c *entity.APICatalog) error {
	if c == nil {
		return errors.New("api catalog cannot be nil")
	}

	ids := make(map[string]struct{}, len(c.APIs))
	for i, api := range c.APIs {
		if api.ID == "" {
			return fmt.Errorf("apiList[%d]: id cannot be empty", i)
		}
		if _, dup := ids[api.ID]; dup {
			return fmt.Errorf("apiList[%d]: duplicate id %q", i, api.ID)
		}
		ids[api.ID] = struct{}{}

		if err := v.ValidateEntry(api); err != nil {
			return fmt.Errorf("apiList[%q]: %w", api.ID, err)
		}
	}
	return nil
}
