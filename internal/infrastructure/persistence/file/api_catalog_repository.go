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

// APICatalogRepository хранит каталог API отдельным JSON документом
type APICatalogRepository struct {
	path string
}

// NewAPICatalogRepository создает файловый repository каталога
func NewAPICatalogRepository(path string) *APICatalogRepository {
	return &APICatalogRepository{path: path}
}

// Load читает каталог; отсутствующий файл дает repository.ErrCatalogNotFound.
// Также служит read-only источником seed каталога.
func (r *APICatalogRepository) Load(ctx context.Context) (*entity.APICatalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, repository.ErrCatalogNotFound
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var catalog entity.APICatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("invalid JSON in catalog file %s: %w", r.path, err)
	}
	return &catalog, nil
}

// Save записывает каталог атомарно
func (r *APICatalogRepository) Save(ctx context.Context, catalog *entity.APICatalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	return writeAtomic(r.path, ".catalog-*.json", data)
}
