package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/repository"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/valueobject"
)

type fakeItemAPI struct {
	items  map[string]map[string]types.AttributeValue
	puts   int
	getErr error
}

func (f *fakeItemAPI) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	pk := in.Key[attrPK].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[*in.TableName+"/"+pk]}, nil
}

func (f *fakeItemAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.puts++
	pk := in.Item[attrPK].(*types.AttributeValueMemberS).Value
	f.items[*in.TableName+"/"+pk] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestSnapshotRepository_SaveAndLoad(t *testing.T) {
	client := &fakeItemAPI{items: map[string]map[string]types.AttributeValue{}}
	repo := newSnapshotRepository(client, Config{TableName: "dashboard"})
	ctx := context.Background()

	if _, err := repo.Load(ctx); !errors.Is(err, repository.ErrSnapshotNotFound) {
		t.Fatalf("Load() error = %v, want ErrSnapshotNotFound", err)
	}

	generatedAt := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	for _, total := range []int64{5, 9} {
		s := &entity.Snapshot{
			Meta:    entity.Meta{GeneratedAt: valueobject.NewTimestamp(generatedAt)},
			Summary: entity.Summary{TotalRequests: total},
		}
		if err := repo.Save(ctx, s); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	if len(client.items) != 1 || client.puts != 2 {
		t.Fatalf("items = %d puts = %d, want a single overwritten item", len(client.items), client.puts)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Summary.TotalRequests != 9 {
		t.Fatalf("TotalRequests = %d, want 9", got.Summary.TotalRequests)
	}

	item := client.items["dashboard/"+currentSnapshotPK]
	if v, _ := attrString(item, attrGeneratedAt); v != "2026-05-02T08:00:00.000000Z" {
		t.Fatalf("generated_at = %q", v)
	}
}

func TestSnapshotRepository_LoadError(t *testing.T) {
	client := &fakeItemAPI{getErr: errors.New("throttled")}
	repo := newSnapshotRepository(client, Config{TableName: "dashboard"})

	_, err := repo.Load(context.Background())
	if err == nil || errors.Is(err, repository.ErrSnapshotNotFound) {
		t.Fatalf("Load() error = %v, want wrapped client error", err)
	}
}
