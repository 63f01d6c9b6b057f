package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/repository"
)

// SnapshotRepository хранит snapshot одним JSON документом на диске
type SnapshotRepository struct {
	path string
}

// NewSnapshotRepository создает файловый repository
func NewSnapshotRepository(path string) *SnapshotRepository {
	return &SnapshotRepository{path: path}
}

// Path возвращает путь к документу
func (r *SnapshotRepository) Path() string {
	return r.path
}

// Load читает документ с диска
func (r *SnapshotRepository) Load(ctx context.Context) (*entity.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadSnapshot(r.path)
}

// Save записывает документ атомарно
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *entity.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return writeAtomic(r.path, ".snapshot-*.json", data)
}

// ReadSnapshot читает и декодирует документ snapshot.
// Отсутствующий файл дает repository.ErrSnapshotNotFound.
func ReadSnapshot(path string) (*entity.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, repository.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snapshot entity.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("invalid JSON in snapshot file %s: %w", path, err)
	}

	return &snapshot, nil
}

// SeedSource читает начальный snapshot из read-only документа
type SeedSource struct {
	path string
}

// NewSeedSource создает источник seed документа
func NewSeedSource(path string) *SeedSource {
	return &SeedSource{path: path}
}

// Load реализует port.SnapshotSource
func (s *SeedSource) Load(ctx context.Context) (*entity.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadSnapshot(s.path)
}
