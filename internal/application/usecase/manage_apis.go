package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/dto"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/service"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

// CreateAPIUseCase добавляет API в каталог под новым id
type CreateAPIUseCase struct {
	catalog   *APICatalogStore
	validator *service.APICatalogValidator
	logger    *logger.Logger
	newID     func() string
}

// NewCreateAPIUseCase создает новый use case
func NewCreateAPIUseCase(catalog *APICatalogStore, validator *service.APICatalogValidator, logger *logger.Logger) *CreateAPIUseCase {
	return &CreateAPIUseCase{
		catalog:   catalog,
		validator: validator,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// Execute сохраняет запись; id из запроса игнорируется.
// Повтор name, method и path дает ErrAPIAlreadyExists.
func (uc *CreateAPIUseCase) Execute(ctx context.Context, api entity.APIEntry) (*entity.APIEntry, error) {
	api.ID = uc.newID()
	if err := uc.validator.ValidateEntry(api); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAPI, err)
	}

	err := uc.catalog.Update(ctx, func(c *entity.APICatalog) error {
		if c.HasRoute(api) {
			return ErrAPIAlreadyExists
		}
		c.APIs = append(c.APIs, api)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("API added to catalog", "id", api.ID, "name", api.Name, "method", api.Method, "path", api.Path)
	return &api, nil
}

// UpdateAPIUseCase частично обновляет запись каталога
type UpdateAPIUseCase struct {
	catalog   *APICatalogStore
	validator *service.APICatalogValidator
	logger    *logger.Logger
}

// NewUpdateAPIUseCase создает новый use case
func NewUpdateAPIUseCase(catalog *APICatalogStore, validator *service.APICatalogValidator, logger *logger.Logger) *UpdateAPIUseCase {
	return &UpdateAPIUseCase{
		catalog:   catalog,
		validator: validator,
		logger:    logger,
	}
}

// Execute накладывает patch на запись и возвращает результат
func (uc *UpdateAPIUseCase) Execute(ctx context.Context, id string, patch dto.APIPatch) (*entity.APIEntry, error) {
	var updated entity.APIEntry

	err := uc.catalog.Update(ctx, func(c *entity.APICatalog) error {
		current, idx, ok := c.Find(id)
		if !ok {
			return ErrAPINotFound
		}

		updated = patch.Apply(current)
		if err := uc.validator.ValidateEntry(updated); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidAPI, err)
		}
		if c.HasRoute(updated) {
			return ErrAPIAlreadyExists
		}

		c.APIs[idx] = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("API updated in catalog", "id", id)
	return &updated, nil
}

// DeleteAPIUseCase удаляет запись из каталога
type DeleteAPIUseCase struct {
	catalog *APICatalogStore
	logger  *logger.Logger
}

// NewDeleteAPIUseCase создает новый use case
func NewDeleteAPIUseCase(catalog *APICatalogStore, logger *logger.Logger) *DeleteAPIUseCase {
	return &DeleteAPIUseCase{catalog: catalog, logger: logger}
}

// Execute удаляет запись и возвращает ее последнее состояние
func (uc *DeleteAPIUseCase) Execute(ctx context.Context, id string) (*entity.APIEntry, error) {
	var deleted entity.APIEntry

	err := uc.catalog.Update(ctx, func(c *entity.APICatalog) error {
		current, idx, ok := c.Find(id)
		if !ok {
			return ErrAPINotFound
		}
		deleted = current
		c.APIs = slices.Delete(c.APIs, idx, idx+1)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("API removed from catalog", "id", id)
	return &deleted, nil
}
