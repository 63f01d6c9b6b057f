package port

import (
	"context"
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

// MetricsPublisher defines the interface for publishing KPI values to external observability platforms.
type MetricsPublisher interface {
	// PublishKPIs buffers one datum per KPI card, stamped with the snapshot time.
	PublishKPIs(ctx context.Context, at time.Time, kpis []entity.KPI) error

	// Flush forces immediate publication of any buffered metrics.
	// Should be called during graceful shutdown to prevent data loss.
	Flush(ctx context.Context) error
}
