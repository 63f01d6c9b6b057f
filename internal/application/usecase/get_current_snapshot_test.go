package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/port"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/valueobject"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

func TestGetCurrentSnapshotUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("holder first", func(t *testing.T) {
		holder := NewSnapshotHolder()
		s := testSnapshot()
		holder.Store(s)

		got, err := NewGetCurrentSnapshotUseCase(holder, newMemoryCache(), logger.New("error")).Execute(ctx)
		if err != nil || got != s {
			t.Fatalf("Execute() = %p, %v", got, err)
		}
	})

	t.Run("cache fallback", func(t *testing.T) {
		cache := newMemoryCache()
		if err := cache.Set(ctx, port.CacheKeyCurrentSnapshot, testSnapshot()); err != nil {
			t.Fatal(err)
		}

		got, err := NewGetCurrentSnapshotUseCase(NewSnapshotHolder(), cache, logger.New("error")).Execute(ctx)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(got.APIs) != 3 || got.Meta.TimeRange != valueobject.Last24h {
			t.Errorf("unexpected cached snapshot %+v", got.Meta)
		}
	})

	t.Run("not loaded", func(t *testing.T) {
		for _, cache := range []port.Cache{nil, newMemoryCache()} {
			_, err := NewGetCurrentSnapshotUseCase(NewSnapshotHolder(), cache, logger.New("error")).Execute(ctx)
			if !errors.Is(err, ErrSnapshotNotLoaded) {
				t.Errorf("Execute() error = %v, want ErrSnapshotNotLoaded", err)
			}
		}
	})
}

func TestListOpenTicketsUseCase_Execute(t *testing.T) {
	holder := NewSnapshotHolder()
	holder.Store(testSnapshot())

	uc := NewListOpenTicketsUseCase(NewGetCurrentSnapshotUseCase(holder, nil, logger.New("error")))
	got, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Execute() = %v, want empty non-nil slice", got)
	}
}
