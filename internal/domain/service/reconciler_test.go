package service

import (
	"testing"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

func TestReconciler_Reconcile(t *testing.T) {
	hours := []entity.HourBucket{
		{Requests: 300, Errors: 3, AvgLatencyMs: 100},
		{Requests: 100, Errors: 1, AvgLatencyMs: 51},
	}
	consumers := []entity.ConsumerEntry{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	got := NewReconciler().Reconcile(hours, consumers, 5)

	want := entity.Summary{
		TotalAPIs:        5,
		TotalRequests:    400,
		ErrorRatePercent: 1,
		// floor((300*100 + 100*51) / 400) = floor(87.75)
		AvgLatencyMs:    87,
		ActiveConsumers: 3,
	}
	if got != want {
		t.Fatalf("Reconcile() = %+v, want %+v", got, want)
	}
}

func TestReconciler_ZeroTraffic(t *testing.T) {
	got := NewReconciler().Reconcile([]entity.HourBucket{{AvgLatencyMs: 80}}, nil, 1)

	if got.TotalRequests != 0 || got.AvgLatencyMs != 0 || got.ErrorRatePercent != 0 {
		t.Fatalf("Reconcile() = %+v, want zero totals", got)
	}
}
