package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/port"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/repository"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/service"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

// APICatalogStore сериализует изменения каталога: чтение, изменение копии, сохранение.
// Каталог в хранилище меняется только после успешного Save.
type APICatalogStore struct {
	repository repository.APICatalogRepository
	mu         sync.RWMutex
}

// NewAPICatalogStore создает новый APICatalogStore
func NewAPICatalogStore(repository repository.APICatalogRepository) *APICatalogStore {
	return &APICatalogStore{repository: repository}
}

// Read возвращает копию текущего каталога; пустое хранилище дает пустой каталог
func (s *APICatalogStore) Read(ctx context.Context) (*entity.APICatalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(ctx)
}

// Update применяет fn к копии каталога и сохраняет результат.
// Ошибка fn или Save оставляет хранилище без изменений.
func (s *APICatalogStore) Update(ctx context.Context, fn func(c *entity.APICatalog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(catalog); err != nil {
		return err
	}
	if err := s.repository.Save(ctx, catalog); err != nil {
		return fmt.Errorf("failed to save api catalog: %w", err)
	}
	return nil
}

func (s *APICatalogStore) load(ctx context.Context) (*entity.APICatalog, error) {
	catalog, err := s.repository.Load(ctx)
	if errors.Is(err, repository.ErrCatalogNotFound) {
		return entity.NewAPICatalog(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load api catalog: %w", err)
	}
	return catalog.Clone(), nil
}

// LoadAPICatalogUseCase готовит каталог при старте.
// Пустое хранилище заполняется из seed документа.
type LoadAPICatalogUseCase struct {
	repository repository.APICatalogRepository
	seed       port.APICatalogSource
	validator  *service.APICatalogValidator
	logger     *logger.Logger
}

// NewLoadAPICatalogUseCase создает новый use case; seed может быть nil
func NewLoadAPICatalogUseCase(
	repository repository.APICatalogRepository,
	seed port.APICatalogSource,
	validator *service.APICatalogValidator,
	logger *logger.Logger,
) *LoadAPICatalogUseCase {
	return &LoadAPICatalogUseCase{
		repository: repository,
		seed:       seed,
		validator:  validator,
		logger:     logger,
	}
}

// Execute проверяет сохраненный каталог или переносит seed в хранилище
func (uc *LoadAPICatalogUseCase) Execute(ctx context.Context) (*entity.APICatalog, error) {
	catalog, err := uc.repository.Load(ctx)
	if err == nil {
		if err := uc.validator.Validate(catalog); err != nil {
			return nil, fmt.Errorf("invalid api catalog: %w", err)
		}
		uc.logger.Info("API catalog loaded", "apis", len(catalog.APIs))
		return catalog, nil
	}
	if !errors.Is(err, repository.ErrCatalogNotFound) {
		return nil, fmt.Errorf("failed to load api catalog: %w", err)
	}

	catalog = entity.NewAPICatalog()
	if uc.seed != nil {
		seeded, seedErr := uc.seed.Load(ctx)
		switch {
		case seedErr == nil:
			catalog = seeded
		case errors.Is(seedErr, repository.ErrCatalogNotFound):
			uc.logger.Warn("API catalog seed not found, starting with an empty catalog")
		default:
			return nil, fmt.Errorf("failed to load api catalog seed: %w", seedErr)
		}
	}

	if err := uc.validator.Validate(catalog); err != nil {
		return nil, fmt.Errorf("invalid api catalog seed: %w", err)
	}
	if err := uc.repository.Save(ctx, catalog); err != nil {
		return nil, fmt.Errorf("failed to persist api catalog seed: %w", err)
	}

	uc.logger.Info("API catalog seeded", "apis", len(catalog.APIs))
	return catalog, nil
}
