package usecase

import (
	"context"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/port"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

// GetCurrentSnapshotUseCase возвращает опубликованный snapshot
type GetCurrentSnapshotUseCase struct {
	holder *SnapshotHolder
	cache  port.Cache
	logger *logger.Logger
}

// NewGetCurrentSnapshotUseCase создает новый use case; cache может быть nil
func NewGetCurrentSnapshotUseCase(holder *SnapshotHolder, cache port.Cache, logger *logger.Logger) *GetCurrentSnapshotUseCase {
	return &GetCurrentSnapshotUseCase{
		holder: holder,
		cache:  cache,
		logger: logger,
	}
}

// Execute возвращает snapshot из памяти, а до первой загрузки пробует кеш.
// Результат только для чтения.
func (uc *GetCurrentSnapshotUseCase) Execute(ctx context.Context) (*entity.Snapshot, error) {
	if snapshot := uc.holder.Load(); snapshot != nil {
		return snapshot, nil
	}

	if uc.cache == nil {
		return nil, ErrSnapshotNotLoaded
	}

	var cached entity.Snapshot
	if err := uc.cache.Get(ctx, port.CacheKeyCurrentSnapshot, &cached); err != nil {
		uc.logger.Debug("Snapshot cache miss", "error", err.Error())
		return nil, ErrSnapshotNotLoaded
	}

	uc.logger.Debug("Serving snapshot from cache")
	return &cached, nil
}
