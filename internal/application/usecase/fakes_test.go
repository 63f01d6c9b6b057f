package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/dto"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/repository"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/valueobject"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type fixedRandom struct {
	f float64
	n int
}

func (r fixedRandom) Float64() float64 { return r.f }

func (r fixedRandom) IntN(n int) int { return min(r.n, n-1) }

type memoryRepository struct {
	mu      sync.Mutex
	stored  *entity.Snapshot
	saves   int
	saveErr error
	loadErr error
}

func (r *memoryRepository) Load(_ context.Context) (*entity.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.stored == nil {
		return nil, repository.ErrSnapshotNotFound
	}
	return r.stored.Clone(), nil
}

func (r *memoryRepository) Save(_ context.Context, s *entity.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.stored = s.Clone()
	r.saves++
	return nil
}

type memoryCatalogRepository struct {
	mu      sync.Mutex
	stored  *entity.APICatalog
	saves   int
	saveErr error
}

func (r *memoryCatalogRepository) Load(_ context.Context) (*entity.APICatalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stored == nil {
		return nil, repository.ErrCatalogNotFound
	}
	return r.stored.Clone(), nil
}

func (r *memoryCatalogRepository) Save(_ context.Context, c *entity.APICatalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.stored = c.Clone()
	r.saves++
	return nil
}

type staticCatalogSource struct {
	catalog *entity.APICatalog
	err     error
}

func (s staticCatalogSource) Load(_ context.Context) (*entity.APICatalog, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.catalog.Clone(), nil
}

type staticSource struct {
	snapshot *entity.Snapshot
	err      error
}

func (s staticSource) Load(_ context.Context) (*entity.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshot.Clone(), nil
}

type recordingNotifier struct {
	snapshots []*entity.Snapshot
	alerts    []*dto.AlertTransitionEvent
}

func (n *recordingNotifier) Broadcast(s *entity.Snapshot) { n.snapshots = append(n.snapshots, s) }

func (n *recordingNotifier) BroadcastAlert(e *dto.AlertTransitionEvent) {
	n.alerts = append(n.alerts, e)
}

func (n *recordingNotifier) ClientCount() int { return 0 }

type recordingPublisher struct {
	subjects []string
	err      error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, subject string, _ any) error {
	p.subjects = append(p.subjects, subject)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

// memoryCache хранит значения в JSON, как redis адаптер
type memoryCache struct {
	items map[string][]byte
	err   error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) error {
	data, ok := c.items[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value any) error {
	if c.err != nil {
		return c.err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = data
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	delete(c.items, key)
	return nil
}

func (c *memoryCache) Close() error { return nil }

type recordingMetrics struct {
	batches [][]entity.KPI
}

func (m *recordingMetrics) PublishKPIs(_ context.Context, _ time.Time, kpis []entity.KPI) error {
	m.batches = append(m.batches, kpis)
	return nil
}

func (m *recordingMetrics) Flush(_ context.Context) error { return nil }

type recordingObserver struct {
	errs      []error
	snapshots []*entity.Snapshot
}

func (o *recordingObserver) ObserveTick(_ time.Duration, s *entity.Snapshot, _ int, err error) {
	o.errs = append(o.errs, err)
	o.snapshots = append(o.snapshots, s)
}

type recordingExporter struct {
	calls int
}

func (e *recordingExporter) Export(_ context.Context, _ *entity.Snapshot) (string, error) {
	e.calls++
	return "https://example.com/snapshot.json", nil
}

type putCall struct {
	key         string
	contentType string
	body        []byte
}

type mockObjectStorage struct {
	calls []putCall
	err   error
}

func (m *mockObjectStorage) PutObject(_ context.Context, key, contentType string, body []byte) (string, error) {
	m.calls = append(m.calls, putCall{key: key, contentType: contentType, body: body})
	if m.err != nil {
		return "", m.err
	}
	return "https://example.com/" + key, nil
}

func testSnapshot() *entity.Snapshot {
	hours := make([]entity.HourBucket, 4)
	for i := range hours {
		hours[i] = entity.HourBucket{Requests: 1000, Errors: 10, AvgLatencyMs: 100}
	}

	return &entity.Snapshot{
		Meta: entity.Meta{Environment: "test", TimeRange: valueobject.Last24h},
		APIs: []entity.APIEntry{
			{ID: "api-1", Name: "Billing Service", Version: "v2", Method: "POST", Path: "/billing", Status: "active", OwnerTeam: "payments", Requests: 2500, P95LatencyMs: 140, ErrorRatePercent: 1.2},
			{ID: "api-2", Name: "Auth Service", Version: "v1", Method: "GET", Path: "/auth", Status: "active", OwnerTeam: "identity", Requests: 1000, P95LatencyMs: 60, ErrorRatePercent: 0.1},
			{ID: "api-3", Name: "Search API", Version: "v1", Method: "GET", Path: "/search", Status: "deprecated", OwnerTeam: "discovery", Requests: 500, P95LatencyMs: 210, ErrorRatePercent: 2.4},
		},
		Consumers: []entity.ConsumerEntry{
			{ID: "c-1", Name: "web", Requests: 3000, LastSeen: valueobject.NewTimestamp(testNow.Add(-time.Minute))},
		},
		TrafficByHour: hours,
		StatusCodes: []entity.StatusBucket{
			{Code: valueobject.StatusOK}, {Code: valueobject.StatusBadRequest}, {Code: valueobject.StatusUnauthorized},
			{Code: valueobject.StatusNotFound}, {Code: valueobject.StatusServerError},
		},
		KPIs: []entity.KPI{
			{ID: valueobject.KPIRequests, Label: "Requests"},
			{ID: valueobject.KPIErrors, Label: "Errors"},
		},
		Alerts: []entity.Alert{
			{ID: "ALT-1", Severity: valueobject.SeverityMedium, API: "Billing Service"},
			{ID: "ALT-2", Severity: valueobject.SeverityLow, API: "Auth Service"},
		},
	}
}
