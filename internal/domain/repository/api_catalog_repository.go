package repository

import (
	"context"
	"errors"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

// ErrCatalogNotFound возвращается, когда хранилище еще не содержит каталог API
var ErrCatalogNotFound = errors.New("api catalog not found")

// APICatalogRepository хранилище каталога API (Port).
// Каталог хранится одним документом, Save заменяет его целиком.
type APICatalogRepository interface {
	// Load возвращает сохраненный каталог или ErrCatalogNotFound
	Load(ctx context.Context) (*entity.APICatalog, error)

	// Save заменяет сохраненный каталог
	Save(ctx context.Context, catalog *entity.APICatalog) error
}
