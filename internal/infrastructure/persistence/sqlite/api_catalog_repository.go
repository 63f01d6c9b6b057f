package sqlite

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

// APICatalogRepository хранит каталог API строкой в api_catalogs
type APICatalogRepository struct {
	db *sql.DB
}

// Load возвращает текущий каталог
func (r *APICatalogRepository) Load(ctx context.Context) (*entity.APICatalog, error) {
	var document string
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM api_catalogs WHERE id = ?`, currentCatalogID,
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrCatalogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}

	var catalog entity.APICatalog
	if err := json.Unmarshal([]byte(document), &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog document: %w", err)
	}
	return &catalog, nil
}

// Save заменяет каталог целиком
func (r *APICatalogRepository) Save(ctx context.Context, catalog *entity.APICatalog) error {
	document, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO api_catalogs (id, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET document = excluded.document,
		    updated_at = excluded.updated_at
	`, currentCatalogID, string(document), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert catalog: %w", err)
	}

	return nil
}
