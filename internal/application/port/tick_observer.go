package port

import (
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

// TickObserver получает результат каждого цикла (метрики процесса)
type TickObserver interface {
	// ObserveTick вызывается после цикла; snapshot равен nil, если цикл не сохранен
	ObserveTick(duration time.Duration, snapshot *entity.Snapshot, transitions int, err error)
}
