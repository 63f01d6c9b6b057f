package repository

import (
	"context"
	"errors"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

// ErrSnapshotNotFound возвращается, когда хранилище еще не содержит snapshot
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository определяет интерфейс хранилища snapshot (Port)
// Хранится ровно одно поколение: Save полностью заменяет предыдущее
type SnapshotRepository interface {
	// Load возвращает последний сохраненный snapshot или ErrSnapshotNotFound
	Load(ctx context.Context) (*entity.Snapshot, error)

	// Save заменяет сохраненный snapshot новым
	Save(ctx context.Context, snapshot *entity.Snapshot) error
}
