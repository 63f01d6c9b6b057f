package service

import (
	"math/rand/v2"
	"reflect"
	"testing"
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/valueobject"
)

var tickNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func allStatusBuckets() []entity.StatusBucket {
	return []entity.StatusBucket{{Code: 200}, {Code: 400}, {Code: 401}, {Code: 404}, {Code: 500}}
}

func allKPIs() []entity.KPI {
	return []entity.KPI{
		{ID: valueobject.KPIRequests},
		{ID: valueobject.KPILatency},
		{ID: valueobject.KPIErrors},
		{ID: valueobject.KPIThroughput},
	}
}

func sampleSnapshot() *entity.Snapshot {
	hours := make([]entity.HourBucket, 24)
	for i := range hours {
		hours[i] = entity.HourBucket{Requests: int64(1000 + i*250), Errors: int64(5 + i), AvgLatencyMs: int64(80 + i)}
	}

	return &entity.Snapshot{
		Meta: entity.Meta{Environment: "test"},
		APIs: []entity.APIEntry{
			{Name: "Billing Service", Requests: 40000, P95LatencyMs: 140, ErrorRatePercent: 0.8},
			{Name: "Auth Service", Requests: 90000, P95LatencyMs: 60, ErrorRatePercent: 0.1},
			{Name: "Search API", Requests: 25000, P95LatencyMs: 210, ErrorRatePercent: 2.4},
		},
		Consumers: []entity.ConsumerEntry{
			{Name: "web", Requests: 60000, LastSeen: valueobject.NewTimestamp(tickNow.Add(-time.Minute))},
			{Name: "mobile", Requests: 30000, LastSeen: valueobject.NewTimestamp(tickNow.Add(-time.Second))},
		},
		TrafficByHour: hours,
		StatusCodes:   allStatusBuckets(),
		KPIs:          allKPIs(),
		Alerts: []entity.Alert{
			{ID: "ALT-1", Severity: valueobject.SeverityMedium},
			{ID: "ALT-2", Severity: valueobject.SeverityLow},
		},
	}
}

func checkInvariants(t *testing.T, s *entity.Snapshot) {
	t.Helper()

	var hourSum int64
	for _, h := range s.TrafficByHour {
		if h.Requests < 0 || h.Errors < 0 || h.AvgLatencyMs < 1 {
			t.Fatalf("invalid hour bucket %+v", h)
		}
		hourSum += h.Requests
	}
	if hourSum != s.Summary.TotalRequests {
		t.Fatalf("sum(trafficByHour) = %d, totalRequests = %d", hourSum, s.Summary.TotalRequests)
	}

	var statusSum int64
	for _, b := range s.StatusCodes {
		if b.Count < 0 {
			t.Fatalf("negative status bucket %+v", b)
		}
		statusSum += b.Count
	}
	if s.Summary.TotalRequests > 0 && statusSum != s.Summary.TotalRequests {
		t.Fatalf("sum(statusCodes) = %d, totalRequests = %d", statusSum, s.Summary.TotalRequests)
	}

	if s.Summary.ErrorRatePercent < 0 || s.Summary.ErrorRatePercent > 100 {
		t.Fatalf("summary errorRatePercent = %v", s.Summary.ErrorRatePercent)
	}
	for _, api := range s.APIs {
		if api.ErrorRatePercent < 0 || api.ErrorRatePercent > 10 || api.P95LatencyMs < 20 || api.Requests < 0 {
			t.Fatalf("invalid api %+v", api)
		}
	}

	open := 0
	for _, a := range s.Alerts {
		if err := a.Status.Validate(); err != nil {
			t.Fatalf("alert %s: %v", a.ID, err)
		}
		for i := 1; i < len(a.History); i++ {
			if a.History[i].At.Before(a.History[i-1].At) {
				t.Fatalf("alert %s history not ordered", a.ID)
			}
		}
		if a.IsOpen() {
			open++
		}
	}
	if open != len(s.OpenTickets) {
		t.Fatalf("openTickets = %d, want %d", len(s.OpenTickets), open)
	}
}

func TestSnapshotTicker_SingleAPIScenario(t *testing.T) {
	prev := &entity.Snapshot{
		APIs:          []entity.APIEntry{{Name: "Orders API", Requests: 1000, P95LatencyMs: 80, ErrorRatePercent: 0.2}},
		TrafficByHour: []entity.HourBucket{{Hour: "00:00", Requests: 640, AvgLatencyMs: 90}},
		StatusCodes:   allStatusBuckets(),
		KPIs:          allKPIs(),
	}

	next := NewSnapshotTicker(noJitter).Tick(prev, tickNow)

	if next.Summary.TotalRequests != 1000 {
		t.Fatalf("totalRequests = %d, want 1000", next.Summary.TotalRequests)
	}
	if next.TrafficByHour[0].Errors != 2 {
		t.Fatalf("errors = %d, want 2", next.TrafficByHour[0].Errors)
	}
	if next.Summary.ErrorRatePercent != 0.2 {
		t.Fatalf("errorRatePercent = %v, want 0.2", next.Summary.ErrorRatePercent)
	}

	// floor(2 * share) = 0 для 400/401/404, остаток уходит в 500
	want := map[valueobject.StatusCode]int64{200: 998, 400: 0, 401: 0, 404: 0, 500: 2}
	for code, count := range countsByCode(next.StatusCodes) {
		if count != want[code] {
			t.Errorf("status %d = %d, want %d", code, count, want[code])
		}
	}

	if next.Summary.AvgLatencyMs != 90 || next.Summary.TotalAPIs != 1 {
		t.Fatalf("summary = %+v", next.Summary)
	}
	if next.Meta.TimeRange != valueobject.Last24h || !next.Meta.GeneratedAt.Time().Equal(tickNow) {
		t.Fatalf("meta = %+v", next.Meta)
	}
}

func TestSnapshotTicker_ZeroPriorBuckets(t *testing.T) {
	prev := &entity.Snapshot{
		APIs:          []entity.APIEntry{{Name: "Orders API", Requests: 7, P95LatencyMs: 80}},
		TrafficByHour: []entity.HourBucket{{AvgLatencyMs: 10}, {AvgLatencyMs: 10}},
		StatusCodes:   allStatusBuckets(),
	}

	next := NewSnapshotTicker(noJitter).Tick(prev, tickNow)

	if next.TrafficByHour[0].Requests != 4 || next.TrafficByHour[1].Requests != 3 {
		t.Fatalf("trafficByHour = %+v, want [4 3]", next.TrafficByHour)
	}
	checkInvariants(t, next)
}

func TestSnapshotTicker_DoesNotMutateInput(t *testing.T) {
	prev := sampleSnapshot()
	before := prev.Clone()

	_ = NewSnapshotTicker(rand.New(rand.NewPCG(1, 1))).Tick(prev, tickNow)

	if !reflect.DeepEqual(prev, before) {
		t.Fatal("Tick() mutated previous snapshot")
	}
}

func TestSnapshotTicker_InvariantsHoldAcrossTicks(t *testing.T) {
	ticker := NewSnapshotTicker(rand.New(rand.NewPCG(42, 7)))
	s := sampleSnapshot()
	now := tickNow

	for i := 0; i < 500; i++ {
		now = now.Add(time.Second)
		s = ticker.Tick(s, now)
		checkInvariants(t, s)

		for _, c := range s.Consumers {
			if c.LastSeen.Time().After(now) {
				t.Fatalf("tick %d: consumer %s lastSeen in the future", i, c.Name)
			}
		}
	}

	if s.Meta.Environment != "test" {
		t.Fatalf("environment not preserved: %+v", s.Meta)
	}
}

func TestSnapshotTicker_EmptySnapshot(t *testing.T) {
	next := NewSnapshotTicker(noJitter).Tick(&entity.Snapshot{}, tickNow)

	if next.Summary != (entity.Summary{}) {
		t.Fatalf("summary = %+v, want zero", next.Summary)
	}
	if len(next.OpenTickets) != 0 {
		t.Fatalf("openTickets = %+v", next.OpenTickets)
	}
}
