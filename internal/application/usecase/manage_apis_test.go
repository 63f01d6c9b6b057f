package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/dto"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/service"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

func ptr[T any](v T) *T { return &v }

func TestCreateAPIUseCase_Execute(t *testing.T) {
	tests := []struct {
		name    string
		api     entity.APIEntry
		wantErr error
	}{
		{
			name: "new route gets generated id",
			api:  entity.APIEntry{ID: "client-id", Name: "Payments Service", Method: "POST", Path: "/v1/payments", Requests: 10},
		},
		{
			name:    "same name method and path",
			api:     entity.APIEntry{Name: "Auth Service", Method: "GET", Path: "/auth"},
			wantErr: ErrAPIAlreadyExists,
		},
		{
			name: "same name on another path",
			api:  entity.APIEntry{Name: "Auth Service", Method: "GET", Path: "/auth/v2"},
		},
		{
			name:    "missing name",
			api:     entity.APIEntry{Method: "GET", Path: "/x"},
			wantErr: ErrInvalidAPI,
		},
		{
			name:    "error rate above 100",
			api:     entity.APIEntry{Name: "X", Method: "GET", Path: "/x", ErrorRatePercent: 150},
			wantErr: ErrInvalidAPI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memoryCatalogRepository{stored: &entity.APICatalog{APIs: testSnapshot().APIs}}
			uc := NewCreateAPIUseCase(NewAPICatalogStore(repo), service.NewAPICatalogValidator(), logger.New("error"))
			uc.newID = func() string { return "generated-1" }

			got, err := uc.Execute(context.Background(), tt.api)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Execute() error = %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr != nil {
				if repo.saves != 0 || len(repo.stored.APIs) != 3 {
					t.Errorf("catalog changed on error: saves = %d, apis = %d", repo.saves, len(repo.stored.APIs))
				}
				return
			}

			if got.ID != "generated-1" {
				t.Errorf("ID = %q, want generated id", got.ID)
			}
			stored, _, ok := repo.stored.Find("generated-1")
			if !ok || stored.Name != tt.api.Name {
				t.Errorf("stored = %+v, ok = %v", stored, ok)
			}
			if last := repo.stored.APIs[len(repo.stored.APIs)-1]; last.ID != "generated-1" {
				t.Errorf("new record not appended: last = %q", last.ID)
			}
		})
	}
}

func TestCreateAPIUseCase_DefaultIDsAreUnique(t *testing.T) {
	uc := NewCreateAPIUseCase(NewAPICatalogStore(&memoryCatalogRepository{}), service.NewAPICatalogValidator(), logger.New("error"))

	a, err := uc.Execute(context.Background(), entity.APIEntry{Name: "A", Method: "GET", Path: "/a"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := uc.Execute(context.Background(), entity.APIEntry{Name: "B", Method: "GET", Path: "/b"})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids = %q, %q, want distinct non-empty", a.ID, b.ID)
	}
}

func TestUpdateAPIUseCase_Execute(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		patch   dto.APIPatch
		wantErr error
		check   func(t *testing.T, api entity.APIEntry)
	}{
		{
			name:  "merges only given fields",
			id:    "api-1",
			patch: dto.APIPatch{Status: ptr("degraded"), P95LatencyMs: ptr(int64(300))},
			check: func(t *testing.T, api entity.APIEntry) {
				if api.Status != "degraded" || api.P95LatencyMs != 300 {
					t.Errorf("patched fields = %q/%d", api.Status, api.P95LatencyMs)
				}
				if api.Name != "Billing Service" || api.Path != "/billing" || api.Requests != 2500 || api.ErrorRatePercent != 1.2 {
					t.Errorf("untouched fields changed: %+v", api)
				}
				if api.ID != "api-1" {
					t.Errorf("ID = %q", api.ID)
				}
			},
		},
		{
			name:    "unknown id",
			id:      "missing",
			patch:   dto.APIPatch{Status: ptr("degraded")},
			wantErr: ErrAPINotFound,
		},
		{
			name:    "rename onto another route",
			id:      "api-3",
			patch:   dto.APIPatch{Name: ptr("Auth Service"), Path: ptr("/auth")},
			wantErr: ErrAPIAlreadyExists,
		},
		{
			name:    "invalid result",
			id:      "api-2",
			patch:   dto.APIPatch{Path: ptr("auth")},
			wantErr: ErrInvalidAPI,
		},
		{
			name:  "keeping its own route",
			id:    "api-2",
			patch: dto.APIPatch{Name: ptr("Auth Service"), Version: ptr("v2")},
			check: func(t *testing.T, api entity.APIEntry) {
				if api.Version != "v2" {
					t.Errorf("Version = %q", api.Version)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memoryCatalogRepository{stored: &entity.APICatalog{APIs: testSnapshot().APIs}}
			uc := NewUpdateAPIUseCase(NewAPICatalogStore(repo), service.NewAPICatalogValidator(), logger.New("error"))

			got, err := uc.Execute(context.Background(), tt.id, tt.patch)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Execute() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if repo.saves != 0 {
					t.Errorf("saves = %d on error", repo.saves)
				}
				return
			}

			tt.check(t, *got)
			stored, _, _ := repo.stored.Find(tt.id)
			if stored != *got {
				t.Errorf("stored = %+v, returned = %+v", stored, *got)
			}
		})
	}
}

func TestDeleteAPIUseCase_ThenGetReturnsNotFound(t *testing.T) {
	repo := &memoryCatalogRepository{stored: &entity.APICatalog{APIs: testSnapshot().APIs}}
	catalog := NewAPICatalogStore(repo)
	deleteUC := NewDeleteAPIUseCase(catalog, logger.New("error"))
	getUC := NewGetAPIUseCase(catalog)
	ctx := context.Background()

	deleted, err := deleteUC.Execute(ctx, "api-2")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if deleted.Name != "Auth Service" {
		t.Errorf("deleted = %+v, want the removed record", deleted)
	}

	if _, err := getUC.Execute(ctx, "api-2"); !errors.Is(err, ErrAPINotFound) {
		t.Errorf("Get after delete error = %v, want ErrAPINotFound", err)
	}
	if _, err := deleteUC.Execute(ctx, "api-2"); !errors.Is(err, ErrAPINotFound) {
		t.Errorf("second delete error = %v, want ErrAPINotFound", err)
	}

	c, _ := catalog.Read(ctx)
	if len(c.APIs) != 2 || c.APIs[0].ID != "api-1" || c.APIs[1].ID != "api-3" {
		t.Errorf("remaining = %+v", c.APIs)
	}
}
