package service

import (
	"testing"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/valueobject"
)

func TestKPIProjector_Project(t *testing.T) {
	kpis := []entity.KPI{
		{ID: valueobject.KPIRequests, Label: "Requests"},
		{ID: valueobject.KPILatency},
		{ID: valueobject.KPIErrors},
		{ID: valueobject.KPIThroughput},
	}
	summary := entity.Summary{TotalRequests: 9000, AvgLatencyMs: 120, ErrorRatePercent: 0.75}
	hours := []entity.HourBucket{{Requests: 1800}, {Requests: 7200}}

	got := NewKPIProjector().Project(kpis, summary, hours)

	want := map[valueobject.KPIID]float64{
		valueobject.KPIRequests:   9000,
		valueobject.KPILatency:    120,
		valueobject.KPIErrors:     0.75,
		valueobject.KPIThroughput: 2,
	}
	for _, k := range got {
		if k.Value != want[k.ID] {
			t.Errorf("kpi %s = %v, want %v", k.ID, k.Value, want[k.ID])
		}
	}
	if got[0].Label != "Requests" {
		t.Fatalf("label not preserved: %+v", got[0])
	}
}

func TestPeakThroughput_ZeroTraffic(t *testing.T) {
	if got := PeakThroughput(0, []entity.HourBucket{{Requests: 7200}}); got != 0 {
		t.Fatalf("PeakThroughput() = %d, want 0", got)
	}
}
