package collector

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/port"
)

// CPUCollector собирает загрузку CPU
type CPUCollector struct{}

// NewCPUCollector создает новый CPU collector
func NewCPUCollector() *CPUCollector {
	return &CPUCollector{}
}

// Collect возвращает загрузку CPU с момента предыдущего вызова.
// Нулевой интервал не блокирует readiness запрос.
func (c *CPUCollector) Collect(ctx context.Context, stats *port.SystemStats) error {
	percentages, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return fmt.Errorf("cpu: %w", err)
	}
	if len(percentages) > 0 {
		stats.CPUPercent = percentages[0]
	}
	return nil
}
