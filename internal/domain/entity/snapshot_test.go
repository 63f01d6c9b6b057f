package entity

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/valueobject"
)

func TestSnapshot_CloneDoesNotAlias(t *testing.T) {
	s := &Snapshot{
		APIs:          []APIEntry{{Name: "Auth Service", Requests: 10}},
		TrafficByHour: []HourBucket{{Requests: 10}},
		Alerts: []Alert{{
			ID:      "ALT-1",
			Status:  valueobject.AlertFiring,
			History: []AlertHistoryEntry{{Status: valueobject.AlertFiring}},
		}},
	}

	c := s.Clone()
	c.APIs[0].Requests = 99
	c.TrafficByHour[0].Requests = 99
	c.Alerts[0].History[0].Status = valueobject.AlertResolved

	if s.APIs[0].Requests != 10 || s.TrafficByHour[0].Requests != 10 {
		t.Fatal("Clone() shares metric slices")
	}
	if s.Alerts[0].History[0].Status != valueobject.AlertFiring {
		t.Fatal("Clone() shares alert history")
	}

	var nilSnapshot *Snapshot
	if nilSnapshot.Clone() != nil {
		t.Fatal("Clone() of nil should be nil")
	}
}

func TestSnapshot_JSONDocument(t *testing.T) {
	doc := `{
		"meta": {"environment": "demo", "generatedAt": "2026-01-10T08:00:00Z", "timeRange": "last_24h"},
		"summary": {"totalApis": 1, "totalRequests": 10, "errorRatePercent": 0, "avgLatencyMs": 5, "activeConsumers": 0},
		"topApis": [{"id": "api-1", "name": "Auth Service", "requests": 10, "p95LatencyMs": 40, "errorRatePercent": 0.1}],
		"topConsumers": [],
		"trafficByHour": [{"hour": "00:00", "requests": 10, "errors": 0, "avgLatencyMs": 5}],
		"statusCodes": [{"code": 200, "count": 10}],
		"kpis": [{"id": "requests", "label": "Requests", "value": 10}],
		"alerts": [{"id": "ALT-2", "severity": "medium", "title": "Auth latency"}],
		"openTickets": []
	}`

	var s Snapshot
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if s.Alerts[0].Status != "" || !s.Alerts[0].FirstSeenAt.IsZero() || s.Alerts[0].History != nil {
		t.Fatalf("missing alert fields should stay unset: %+v", s.Alerts[0])
	}
	if !s.Meta.GeneratedAt.Time().Equal(time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("generatedAt = %s", s.Meta.GeneratedAt)
	}

	out, err := json.Marshal(&s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, key := range []string{`"topApis"`, `"trafficByHour"`, `"openTickets"`, `"generatedAt":"2026-01-10T08:00:00.000000Z"`} {
		if !strings.Contains(string(out), key) {
			t.Errorf("encoded snapshot missing %s: %s", key, out)
		}
	}
	if strings.Contains(string(out), `"firstSeenAt"`) {
		t.Errorf("zero firstSeenAt should be omitted: %s", out)
	}
}
