package collector

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/port"
)

// MemoryCollector собирает использование памяти хоста
type MemoryCollector struct{}

// NewMemoryCollector создает новый Memory collector
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Collect собирает процент использования памяти
func (c *MemoryCollector) Collect(ctx context.Context, stats *port.SystemStats) error {
	vmStat, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return fmt.Errorf("memory: %w", err)
	}
	stats.MemoryPercent = vmStat.UsedPercent
	return nil
}
