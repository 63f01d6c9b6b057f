package service

import (
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/valueobject"
)

const (
	minP95LatencyMs     = 20
	maxAPIErrorRate     = 10.0
	maxLastSeenAdvanceS = 2
)

// LeafUpdater возмущает независимые листовые записи: API и потребителей
type LeafUpdater struct {
	jitter *Jitterer
	rnd    Random
}

// NewLeafUpdater создает новый LeafUpdater
func NewLeafUpdater(rnd Random) *LeafUpdater {
	return &LeafUpdater{jitter: NewJitterer(rnd), rnd: rnd}
}

// UpdateAPIs возвращает новые записи API с возмущенными метриками
func (u *LeafUpdater) UpdateAPIs(apis []entity.APIEntry) []entity.APIEntry {
	out := make([]entity.APIEntry, len(apis))
	for i, api := range apis {
		api.P95LatencyMs = u.jitter.JitterInt(api.P95LatencyMs, 0.05, minP95LatencyMs)
		api.ErrorRatePercent = RoundTo(Clamp(u.jitter.Jitter(api.ErrorRatePercent, 0.10), 0, maxAPIErrorRate), 2)
		api.Requests = u.jitter.JitterInt(api.Requests, 0.02, 0)
		out[i] = api
	}
	return out
}

// UpdateConsumers возвращает новых потребителей; lastSeen сдвигается на 0..2 секунды, но не позже now
func (u *LeafUpdater) UpdateConsumers(consumers []entity.ConsumerEntry, now time.Time) []entity.ConsumerEntry {
	out := make([]entity.ConsumerEntry, len(consumers))
	for i, c := range consumers {
		c.Requests = u.jitter.JitterInt(c.Requests, 0.01, 0)

		advance := time.Duration(u.rnd.IntN(maxLastSeenAdvanceS+1)) * time.Second
		lastSeen := c.LastSeen.Time()
		if c.LastSeen.IsZero() {
			lastSeen = now
		}
		lastSeen = lastSeen.Add(advance)
		if lastSeen.After(now) {
			lastSeen = now
		}
		c.LastSeen = valueobject.NewTimestamp(lastSeen)

		out[i] = c
	}
	return out
}
