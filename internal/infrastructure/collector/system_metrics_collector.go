package collector

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/port"
)

// SystemStatsCollector собирает состояние хоста и процесса симулятора
// Реализует интерфейс port.SystemStatsCollector
type SystemStatsCollector struct {
	cpuCollector     *CPUCollector
	memoryCollector  *MemoryCollector
	diskCollector    *DiskCollector
	processCollector *ProcessCollector
}

// NewSystemStatsCollector создает collector; diskPath раздел, на котором лежит хранилище snapshot
func NewSystemStatsCollector(diskPath string) *SystemStatsCollector {
	return &SystemStatsCollector{
		cpuCollector:     NewCPUCollector(),
		memoryCollector:  NewMemoryCollector(),
		diskCollector:    NewDiskCollector(diskPath),
		processCollector: NewProcessCollector(),
	}
}

// Collect собирает все показатели параллельно.
// Недоступные показатели остаются нулевыми, ошибки объединяются.
func (c *SystemStatsCollector) Collect(ctx context.Context) (port.SystemStats, error) {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		stats port.SystemStats
		errs  []error
	)

	collect := func(fn func(context.Context, *port.SystemStats) error) {
		defer wg.Done()

		var partial port.SystemStats
		err := fn(ctx, &partial)

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, err)
			return
		}
		merge(&stats, partial)
	}

	wg.Add(4)
	go collect(c.cpuCollector.Collect)
	go collect(c.memoryCollector.Collect)
	go collect(c.diskCollector.Collect)
	go collect(c.processCollector.Collect)
	wg.Wait()

	stats.Goroutines = runtime.NumGoroutine()

	return stats, errors.Join(errs...)
}

func merge(dst *port.SystemStats, src port.SystemStats) {
	if src.CPUPercent != 0 {
		dst.CPUPercent = src.CPUPercent
	}
	if src.MemoryPercent != 0 {
		dst.MemoryPercent = src.MemoryPercent
	}
	if src.DiskUsagePercent != 0 {
		dst.DiskUsagePercent = src.DiskUsagePercent
	}
	if src.ProcessRSSBytes != 0 {
		dst.ProcessRSSBytes = src.ProcessRSSBytes
	}
}
