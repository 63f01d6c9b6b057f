package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/repository"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/service"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/valueobject"
)

func TestSnapshotRepository_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "dashboard.json")
	repo := NewSnapshotRepository(path)

	if _, err := repo.Load(context.Background()); !errors.Is(err, repository.ErrSnapshotNotFound) {
		t.Fatalf("Load() on empty dir error = %v, want ErrSnapshotNotFound", err)
	}

	generatedAt := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
	snapshot := &entity.Snapshot{
		Meta:    entity.Meta{Environment: "demo", GeneratedAt: valueobject.NewTimestamp(generatedAt), TimeRange: valueobject.Last24h},
		Summary: entity.Summary{TotalRequests: 42},
		APIs:    []entity.APIEntry{{Name: "Auth Service", Requests: 42, P95LatencyMs: 50}},
	}

	if err := repo.Save(context.Background(), snapshot); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Summary.TotalRequests != 42 || got.APIs[0].Name != "Auth Service" {
		t.Fatalf("Load() = %+v", got)
	}
	if !got.Meta.GeneratedAt.Time().Equal(generatedAt) {
		t.Fatalf("generatedAt = %s, want %s", got.Meta.GeneratedAt, generatedAt)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the snapshot file, got %d entries", len(entries))
	}
}

func TestReadSnapshot_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := ReadSnapshot(path)
	if err == nil || errors.Is(err, repository.ErrSnapshotNotFound) {
		t.Fatalf("ReadSnapshot() error = %v, want decode error", err)
	}
}

func TestSeedSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(`{"topApis":[{"name":"Billing Service","requests":10}],"trafficByHour":[{"requests":10}]}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := NewSeedSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.APIs) != 1 || got.APIs[0].Requests != 10 {
		t.Fatalf("Load() = %+v", got.APIs)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewSeedSource(path).Load(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Load() with cancelled context error = %v", err)
	}
}

func TestSeedSource_BundledDocumentIsValid(t *testing.T) {
	snapshot, err := NewSeedSource(filepath.Join("..", "..", "..", "..", "data", "dashboard.json")).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := service.NewSnapshotValidator().Validate(snapshot); err != nil {
		t.Fatalf("bundled seed is invalid: %v", err)
	}
	if len(snapshot.TrafficByHour) != 24 {
		t.Fatalf("expected 24 hour buckets, got %d", len(snapshot.TrafficByHour))
	}
}
