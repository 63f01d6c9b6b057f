package port

import (
	"context"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

// APICatalogSource read-only source of the initial API catalog (seed).
type APICatalogSource interface {
	Load(ctx context.Context) (*entity.APICatalog, error)
}
