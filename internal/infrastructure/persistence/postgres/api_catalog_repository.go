package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/repository"
)

const currentCatalogID = "current"

// APICatalogRepository реализует repository.APICatalogRepository для PostgreSQL
type APICatalogRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewAPICatalogRepository создает новый PostgreSQL repository каталога
func NewAPICatalogRepository(db *sql.DB) *APICatalogRepository {
	return &APICatalogRepository{
		db:  db,
		now: time.Now,
	}
}

// Load возвращает текущий каталог
func (r *APICatalogRepository) Load(ctx context.Context) (*entity.APICatalog, error) {
	var document []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM api_catalogs WHERE id = $1`, currentCatalogID,
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrCatalogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}

	var catalog entity.APICatalog
	if err := json.Unmarshal(document, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog document: %w", err)
	}
	return &catalog, nil
}

// Save заменяет каталог (upsert единственной строки)
func (r *APICatalogRepository) Save(ctx context.Context, catalog *entity.APICatalog) error {
	document, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	query := `
		INSERT INTO api_catalogs (id, document, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET document = EXCLUDED.document,
		    updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, currentCatalogID, document, r.now().UTC()); err != nil {
		return fmt.Errorf("failed to upsert catalog: %w", err)
	}

	return nil
}
