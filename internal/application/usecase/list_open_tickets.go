package usecase

import (
	"context"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

// ListOpenTicketsUseCase возвращает alert в статусе firing или ticket_open
type ListOpenTicketsUseCase struct {
	current *GetCurrentSnapshotUseCase
}

// NewListOpenTicketsUseCase создает новый use case
func NewListOpenTicketsUseCase(current *GetCurrentSnapshotUseCase) *ListOpenTicketsUseCase {
	return &ListOpenTicketsUseCase{current: current}
}

// Execute возвращает open tickets текущего snapshot
func (uc *ListOpenTicketsUseCase) Execute(ctx context.Context) ([]entity.Alert, error) {
	snapshot, err := uc.current.Execute(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot.OpenTickets == nil {
		return []entity.Alert{}, nil
	}
	return snapshot.OpenTickets, nil
}
