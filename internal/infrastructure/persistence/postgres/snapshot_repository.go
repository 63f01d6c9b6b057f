package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/repository"
	_ "github.com/lib/pq"
)

// currentSnapshotID единственная строка таблицы; хранится одно поколение
const currentSnapshotID = "current"

// SnapshotRepository реализует repository.SnapshotRepository для PostgreSQL
type SnapshotRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSnapshotRepository создает новый PostgreSQL repository
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{
		db:  db,
		now: time.Now,
	}
}

// Open подключается к PostgreSQL и проверяет соединение
func Open(ctx context.Context, dsn string, maxOpenConns int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return db, nil
}

// Load возвращает текущий snapshot
func (r *SnapshotRepository) Load(ctx context.Context) (*entity.Snapshot, error) {
	query := `
		SELECT id, document, generated_at, updated_at
		FROM dashboard_snapshots
		WHERE id = $1
	`

	var model SnapshotDBModel
	err := r.db.QueryRowContext(ctx, query, currentSnapshotID).Scan(
		&model.ID,
		&model.Document,
		&model.GeneratedAt,
		&model.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	return ToEntity(&model)
}

// Save заменяет текущий snapshot (upsert единственной строки)
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *entity.Snapshot) error {
	model, err := ToDBModel(currentSnapshotID, snapshot, r.now())
	if err != nil {
		return fmt.Errorf("failed to convert to DB model: %w", err)
	}

	query := `
		INSERT INTO dashboard_snapshots (id, document, generated_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET document = EXCLUDED.document,
		    generated_at = EXCLUDED.generated_at,
		    updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		model.ID,
		model.Document,
		model.GeneratedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	return nil
}
