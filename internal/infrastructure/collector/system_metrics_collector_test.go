package collector

import (
	"context"
	"testing"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/port"
)

func TestSystemStatsCollector_Collect(t *testing.T) {
	stats, err := NewSystemStatsCollector(t.TempDir()).Collect(context.Background())
	if err != nil {
		t.Logf("partial stats: %v", err)
	}

	if stats.Goroutines < 1 {
		t.Errorf("Goroutines = %d", stats.Goroutines)
	}
	if stats.MemoryPercent < 0 || stats.MemoryPercent > 100 {
		t.Errorf("MemoryPercent = %v", stats.MemoryPercent)
	}
	if stats.DiskUsagePercent < 0 || stats.DiskUsagePercent > 100 {
		t.Errorf("DiskUsagePercent = %v", stats.DiskUsagePercent)
	}
}

func TestMerge(t *testing.T) {
	dst := port.SystemStats{CPUPercent: 12}
	merge(&dst, port.SystemStats{MemoryPercent: 40})
	merge(&dst, port.SystemStats{ProcessRSSBytes: 1024})

	want := port.SystemStats{CPUPercent: 12, MemoryPercent: 40, ProcessRSSBytes: 1024}
	if dst != want {
		t.Errorf("merge() = %+v, want %+v", dst, want)
	}
}
