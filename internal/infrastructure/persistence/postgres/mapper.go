package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

// SnapshotDBModel представляет строку dashboard_snapshots в БД
type SnapshotDBModel struct {
	ID          string
	Document    []byte // JSONB
	GeneratedAt sql.NullTime
	UpdatedAt   time.Time
}

// ToDBModel конвертирует snapshot в DB Model
func ToDBModel(id string, snapshot *entity.Snapshot, updatedAt time.Time) (*SnapshotDBModel, error) {
	document, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	model := &SnapshotDBModel{
		ID:        id,
		Document:  document,
		UpdatedAt: updatedAt.UTC(),
	}
	if generated := snapshot.Meta.GeneratedAt; !generated.IsZero() {
		model.GeneratedAt = sql.NullTime{Time: generated.Time(), Valid: true}
	}

	return model, nil
}

// ToEntity конвертирует DB Model обратно в snapshot
func ToEntity(model *SnapshotDBModel) (*entity.Snapshot, error) {
	var snapshot entity.Snapshot
	if err := json.Unmarshal(model.Document, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot document: %w", err)
	}
	return &snapshot, nil
}
