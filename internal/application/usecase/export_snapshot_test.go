package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

func TestExportSnapshotUseCase_Export(t *testing.T) {
	storage := &mockObjectStorage{}
	uc := NewExportSnapshotUseCase(storage, ExportSnapshotConfig{KeyPrefix: "/exports/"}, logger.New("error"))

	url, err := uc.Export(context.Background(), testSnapshot())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if url != "https://example.com/exports/test/snapshot.json" {
		t.Errorf("url = %q", url)
	}
	if len(storage.calls) != 1 {
		t.Fatalf("uploads = %d, want 1", len(storage.calls))
	}

	call := storage.calls[0]
	if call.contentType != "application/json" {
		t.Errorf("contentType = %q", call.contentType)
	}

	var doc map[string]any
	if err := json.Unmarshal(call.body, &doc); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if _, ok := doc["topApis"]; !ok {
		t.Error("exported document has no topApis")
	}
}

func TestExportSnapshotUseCase_Errors(t *testing.T) {
	ctx := context.Background()

	if _, err := NewExportSnapshotUseCase(nil, ExportSnapshotConfig{}, logger.New("error")).Export(ctx, testSnapshot()); err == nil {
		t.Error("expected error without storage")
	}

	storage := &mockObjectStorage{err: errors.New("access denied")}
	if _, err := NewExportSnapshotUseCase(storage, ExportSnapshotConfig{}, logger.New("error")).Export(ctx, testSnapshot()); err == nil {
		t.Error("expected upload error")
	}
}

func TestExportSnapshotUseCase_ObjectKey(t *testing.T) {
	uc := NewExportSnapshotUseCase(nil, ExportSnapshotConfig{}, logger.New("error"))

	tests := map[string]string{
		"production":   "dashboards/production/snapshot.json",
		"":             "dashboards/default/snapshot.json",
		"bad env name": "dashboards/default/snapshot.json",
	}
	for env, want := range tests {
		if got := uc.ObjectKey(env); got != want {
			t.Errorf("ObjectKey(%q) = %q, want %q", env, got, want)
		}
	}
}
