package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/repository"
)

func TestAPICatalogRepository_ReplacesDocument(t *testing.T) {
	ctx := context.Background()
	repo, err := Open(ctx, filepath.Join(t.TempDir(), "dashboard.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer repo.Close()

	catalogs := repo.APICatalog()
	if _, err := catalogs.Load(ctx); !errors.Is(err, repository.ErrCatalogNotFound) {
		t.Fatalf("Load() error = %v, want ErrCatalogNotFound", err)
	}

	first := &entity.APICatalog{APIs: []entity.APIEntry{{ID: "a", Name: "Auth Service", Method: "POST", Path: "/v1/auth/token"}}}
	second := &entity.APICatalog{APIs: []entity.APIEntry{
		{ID: "a", Name: "Auth Service", Method: "POST", Path: "/v1/auth/token"},
		{ID: "b", Name: "Orders Service", Method: "GET", Path: "/v1/orders"},
	}}
	for _, c := range []*entity.APICatalog{first, second} {
		if err := catalogs.Save(ctx, c); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := catalogs.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.APIs) != 2 || got.APIs[1].ID != "b" {
		t.Fatalf("Load() = %+v, want latest save", got.APIs)
	}

	// snapshot и каталог живут в разных таблицах
	if _, err := repo.Load(ctx); !errors.Is(err, repository.ErrSnapshotNotFound) {
		t.Fatalf("snapshot Load() error = %v, want ErrSnapshotNotFound", err)
	}
}
