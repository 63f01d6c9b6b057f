package service

import (
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/valueobject"
)

// SnapshotTicker последовательно применяет все этапы конвейера к snapshot
type SnapshotTicker struct {
	leaves      *LeafUpdater
	aggregator  *MetricAggregator
	distributor *Redistributor
	reconciler  *Reconciler
	partitioner *StatusPartitioner
	projector   *KPIProjector
	alerts      *AlertMachine
}

// NewSnapshotTicker создает новый SnapshotTicker с правилами по умолчанию.
// Все этапы используют один источник случайности.
func NewSnapshotTicker(rnd Random) *SnapshotTicker {
	return &SnapshotTicker{
		leaves:      NewLeafUpdater(rnd),
		aggregator:  NewMetricAggregator(rnd),
		distributor: NewRedistributor(rnd),
		reconciler:  NewReconciler(),
		partitioner: NewStatusPartitioner(),
		projector:   NewKPIProjector(),
		alerts:      NewAlertMachine(rnd, DefaultAlertRules()),
	}
}

// Tick строит следующий snapshot из предыдущего. prev не изменяется.
// now фиксируется вызывающим один раз на весь цикл.
func (t *SnapshotTicker) Tick(prev *entity.Snapshot, now time.Time) *entity.Snapshot {
	next := prev.Clone()
	if next == nil {
		next = &entity.Snapshot{}
	}

	next.APIs = t.leaves.UpdateAPIs(next.APIs)
	next.Consumers = t.leaves.UpdateConsumers(next.Consumers, now)

	totals := t.aggregator.Propagate(next.APIs)
	next.TrafficByHour = t.distributor.Redistribute(next.TrafficByHour, totals)

	next.Summary = t.reconciler.Reconcile(next.TrafficByHour, next.Consumers, totals.TotalAPIs)
	next.StatusCodes = t.partitioner.Partition(next.StatusCodes, next.Summary)
	next.KPIs = t.projector.Project(next.KPIs, next.Summary, next.TrafficByHour)

	next.Alerts = t.alerts.Evaluate(next.Alerts, next.APIs, now)
	next.OpenTickets = OpenTickets(next.Alerts)

	next.Meta.GeneratedAt = valueobject.NewTimestamp(now)
	next.Meta.TimeRange = valueobject.Last24h

	return next
}
