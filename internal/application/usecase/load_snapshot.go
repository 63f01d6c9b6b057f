package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/port"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/repository"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/service"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

// LoadSnapshotUseCase загружает начальный snapshot при старте.
// Сначала хранилище, при пустом хранилище seed документ.
type LoadSnapshotUseCase struct {
	holder     *SnapshotHolder
	repository repository.SnapshotRepository
	seed       port.SnapshotSource
	validator  *service.SnapshotValidator
	logger     *logger.Logger
}

// NewLoadSnapshotUseCase создает новый use case; seed может быть nil
func NewLoadSnapshotUseCase(
	holder *SnapshotHolder,
	repository repository.SnapshotRepository,
	seed port.SnapshotSource,
	validator *service.SnapshotValidator,
	logger *logger.Logger,
) *LoadSnapshotUseCase {
	return &LoadSnapshotUseCase{
		holder:     holder,
		repository: repository,
		seed:       seed,
		validator:  validator,
		logger:     logger,
	}
}

// Execute загружает, проверяет и публикует snapshot
func (uc *LoadSnapshotUseCase) Execute(ctx context.Context) (*entity.Snapshot, error) {
	snapshot, err := uc.repository.Load(ctx)
	seeded := false

	if errors.Is(err, repository.ErrSnapshotNotFound) {
		if uc.seed == nil {
			return nil, fmt.Errorf("storage is empty and no seed is configured: %w", err)
		}
		uc.logger.Info("Storage is empty, loading seed snapshot")
		snapshot, err = uc.seed.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load seed snapshot: %w", err)
		}
		seeded = true
	} else if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	if err := uc.validator.Validate(snapshot); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}

	if seeded {
		if err := uc.repository.Save(ctx, snapshot); err != nil {
			return nil, fmt.Errorf("failed to persist seed snapshot: %w", err)
		}
	}

	uc.holder.Store(snapshot)
	uc.logger.Info("Snapshot loaded",
		"seeded", seeded,
		"apis", len(snapshot.APIs),
		"hours", len(snapshot.TrafficByHour),
		"alerts", len(snapshot.Alerts))

	return snapshot, nil
}
