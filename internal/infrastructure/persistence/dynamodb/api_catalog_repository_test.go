package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/repository"
)

func TestAPICatalogRepository_SeparateItem(t *testing.T) {
	client := &fakeItemAPI{items: map[string]map[string]types.AttributeValue{}}
	snapshots := newSnapshotRepository(client, Config{TableName: "dashboard"})
	catalogs := snapshots.APICatalog()
	ctx := context.Background()

	if _, err := catalogs.Load(ctx); !errors.Is(err, repository.ErrCatalogNotFound) {
		t.Fatalf("Load() error = %v, want ErrCatalogNotFound", err)
	}

	if err := snapshots.Save(ctx, &entity.Snapshot{Summary: entity.Summary{TotalRequests: 1}}); err != nil {
		t.Fatalf("snapshot Save() error = %v", err)
	}
	catalog := &entity.APICatalog{APIs: []entity.APIEntry{{ID: "a", Name: "Auth Service", Method: "POST", Path: "/v1/auth/token"}}}
	if err := catalogs.Save(ctx, catalog); err != nil {
		t.Fatalf("catalog Save() error = %v", err)
	}

	if _, ok := client.items["dashboard/"+currentCatalogPK]; !ok || len(client.items) != 2 {
		t.Fatalf("items = %v, want snapshot and catalog items", client.items)
	}

	got, err := catalogs.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.APIs) != 1 || got.APIs[0].ID != "a" {
		t.Fatalf("Load() = %+v", got.APIs)
	}
}
