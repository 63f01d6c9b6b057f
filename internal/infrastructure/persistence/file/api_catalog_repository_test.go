package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/repository"
)

func TestAPICatalogRepository_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "catalog.json")
	repo := NewAPICatalogRepository(path)

	if _, err := repo.Load(context.Background()); !errors.Is(err, repository.ErrCatalogNotFound) {
		t.Fatalf("Load() on empty dir error = %v, want ErrCatalogNotFound", err)
	}

	catalog := &entity.APICatalog{APIs: []entity.APIEntry{
		{ID: "b", Name: "Search Service", Method: "GET", Path: "/v3/search"},
		{ID: "a", Name: "Auth Service", Method: "POST", Path: "/v1/auth/token"},
	}}
	if err := repo.Save(context.Background(), catalog); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), `"apiList"`) {
		t.Fatalf("document has no apiList: %s", data)
	}

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.APIs) != 2 || got.APIs[0].ID != "b" || got.APIs[1].ID != "a" {
		t.Fatalf("Load() = %+v, want order b, a", got.APIs)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the catalog file, got %d entries", len(entries))
	}
}

func TestAPICatalogRepository_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := NewAPICatalogRepository(path).Load(context.Background())
	if err == nil || errors.Is(err, repository.ErrCatalogNotFound) {
		t.Fatalf("Load() error = %v, want decode error", err)
	}
}
