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
	_ "modernc.org/sqlite"
)

const (
	currentSnapshotID = "current"
	currentCatalogID  = "current"
)

var schema = []string{`
		CREATE TABLE IF NOT EXISTS dashboard_snapshots (
			id           TEXT PRIMARY KEY,
			document     TEXT NOT NULL,
			generated_at TEXT,
			updated_at   INTEGER NOT NULL
		)`, `
		CREATE TABLE IF NOT EXISTS api_catalogs (
			id         TEXT PRIMARY KEY,
			document   TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
}

// SnapshotRepository хранит snapshot в одном файле SQLite.
// Удобен для локального запуска без внешних сервисов.
type SnapshotRepository struct {
	db *sql.DB
}

// Open открывает (или создает) базу и применяет схему
func Open(ctx context.Context, path string) (*SnapshotRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	// один writer, иначе SQLITE_BUSY под нагрузкой
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &SnapshotRepository{db: db}, nil
}

// APICatalog возвращает repository каталога API в той же базе
func (r *SnapshotRepository) APICatalog() *APICatalogRepository {
	return &APICatalogRepository{db: r.db}
}

// Close закрывает базу
func (r *SnapshotRepository) Close() error {
	return r.db.Close()
}

// Load возвращает текущий snapshot
func (r *SnapshotRepository) Load(ctx context.Context) (*entity.Snapshot, error) {
	var document string
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM dashboard_snapshots WHERE id = ?`, currentSnapshotID,
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	var snapshot entity.Snapshot
	if err := json.Unmarshal([]byte(document), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot document: %w", err)
	}
	return &snapshot, nil
}

// Save заменяет текущий snapshot
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *entity.Snapshot) error {
	document, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO dashboard_snapshots (id, document, generated_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET document = excluded.document,
		    generated_at = excluded.generated_at,
		    updated_at = excluded.updated_at
	`, currentSnapshotID, string(document), snapshot.Meta.GeneratedAt.String(), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	return nil
}
