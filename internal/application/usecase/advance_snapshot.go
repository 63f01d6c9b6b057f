package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/dto"
	"github.com/dreschagin/ops-dashboard-simulator/internal/application/port"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/repository"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/service"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

// AdvanceSnapshotSideEffects необязательные получатели нового snapshot; nil поля пропускаются
type AdvanceSnapshotSideEffects struct {
	Notifier port.NotificationService
	Events   port.EventPublisher
	Cache    port.Cache
	Metrics  port.MetricsPublisher
	Exporter port.SnapshotExporter
	Observer port.TickObserver

	// ExportEvery выгружать snapshot каждые N циклов; 0 отключает выгрузку
	ExportEvery int
}

// AdvanceSnapshotUseCase выполняет один цикл симуляции:
// tick, сохранение, публикация нового поколения и рассылка
type AdvanceSnapshotUseCase struct {
	holder     *SnapshotHolder
	ticker     *service.SnapshotTicker
	repository repository.SnapshotRepository
	effects    AdvanceSnapshotSideEffects
	clock      func() time.Time
	logger     *logger.Logger

	mu    sync.Mutex
	ticks int
}

// NewAdvanceSnapshotUseCase создает новый use case
func NewAdvanceSnapshotUseCase(
	holder *SnapshotHolder,
	ticker *service.SnapshotTicker,
	repository repository.SnapshotRepository,
	effects AdvanceSnapshotSideEffects,
	logger *logger.Logger,
) *AdvanceSnapshotUseCase {
	return &AdvanceSnapshotUseCase{
		holder:     holder,
		ticker:     ticker,
		repository: repository,
		effects:    effects,
		clock:      time.Now,
		logger:     logger,
	}
}

// Execute выполняет один цикл.
// Если сохранение не удалось, опубликованным остается предыдущий snapshot.
func (uc *AdvanceSnapshotUseCase) Execute(ctx context.Context) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	prev := uc.holder.Load()
	if prev == nil {
		return ErrSnapshotNotLoaded
	}

	// 1. Один момент времени на весь цикл
	now := uc.clock().UTC()
	started := time.Now()
	next := uc.ticker.Tick(prev, now)

	// 2. Сохраняем; при ошибке новое поколение не публикуется
	if err := uc.repository.Save(ctx, next); err != nil {
		uc.observe(time.Since(started), nil, 0, err)
		uc.logger.Error("Failed to save snapshot, keeping previous generation", err)
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	// 3. Публикуем новое поколение
	uc.holder.Store(next)
	uc.ticks++

	transitions := service.DiffAlerts(prev.Alerts, next.Alerts)
	uc.observe(time.Since(started), next, len(transitions), nil)

	uc.logger.Debug("Tick complete",
		"total_requests", next.Summary.TotalRequests,
		"error_rate_percent", next.Summary.ErrorRatePercent,
		"open_tickets", len(next.OpenTickets),
		"transitions", len(transitions))

	// 4. Побочные эффекты: ошибки только логируются
	uc.fanOut(ctx, next, transitions)

	return nil
}

func (uc *AdvanceSnapshotUseCase) observe(d time.Duration, snapshot *entity.Snapshot, transitions int, err error) {
	if uc.effects.Observer != nil {
		uc.effects.Observer.ObserveTick(d, snapshot, transitions, err)
	}
}

func (uc *AdvanceSnapshotUseCase) fanOut(ctx context.Context, next *entity.Snapshot, transitions []service.AlertTransition) {
	events := dto.NewAlertTransitionEvents(transitions, next.Alerts)
	for _, event := range events {
		uc.logger.Info("Alert status changed",
			"alert_id", event.AlertID,
			"from", event.From,
			"to", event.To,
			"severity", event.Severity)
	}

	if n := uc.effects.Notifier; n != nil {
		n.Broadcast(next)
		for _, event := range events {
			n.BroadcastAlert(event)
		}
	}

	if p := uc.effects.Events; p != nil {
		if err := p.PublishEvent(ctx, port.SubjectTick, dto.NewTickEvent(next)); err != nil {
			uc.logger.Warn("Failed to publish tick event", "error", err.Error())
		}
		for _, event := range events {
			if err := p.PublishEvent(ctx, port.SubjectAlertTransition, event); err != nil {
				uc.logger.Warn("Failed to publish alert event", "alert_id", event.AlertID, "error", err.Error())
			}
		}
	}

	if c := uc.effects.Cache; c != nil {
		if err := c.Set(ctx, port.CacheKeyCurrentSnapshot, next); err != nil {
			uc.logger.Warn("Failed to cache snapshot", "error", err.Error())
		}
	}

	if m := uc.effects.Metrics; m != nil {
		if err := m.PublishKPIs(ctx, next.Meta.GeneratedAt.Time(), next.KPIs); err != nil {
			uc.logger.Warn("Failed to publish KPI metrics", "error", err.Error())
		}
	}

	if e := uc.effects.Exporter; e != nil && uc.effects.ExportEvery > 0 && uc.ticks%uc.effects.ExportEvery == 0 {
		url, err := e.Export(ctx, next)
		if err != nil {
			uc.logger.Warn("Failed to export snapshot", "error", err.Error())
		} else {
			uc.logger.Debug("Snapshot exported", "url", url)
		}
	}
}
