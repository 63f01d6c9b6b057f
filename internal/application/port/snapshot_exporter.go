package port

import (
	"context"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

// SnapshotExporter выгружает копию текущего snapshot во внешнее хранилище.
type SnapshotExporter interface {
	// Export перезаписывает выгруженный документ и возвращает URL для чтения.
	Export(ctx context.Context, snapshot *entity.Snapshot) (string, error)
}

// SnapshotSource источник начального snapshot (seed), используется при пустом хранилище.
type SnapshotSource interface {
	Load(ctx context.Context) (*entity.Snapshot, error)
}
