package collector

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/port"
)

// DiskCollector собирает заполненность раздела
type DiskCollector struct {
	path string
}

// NewDiskCollector создает новый Disk collector; пустой путь означает корневой раздел
func NewDiskCollector(path string) *DiskCollector {
	if path == "" {
		path = "/"
	}
	return &DiskCollector{path: path}
}

// Collect собирает процент использования раздела
func (c *DiskCollector) Collect(ctx context.Context, stats *port.SystemStats) error {
	usage, err := disk.UsageWithContext(ctx, c.path)
	if err != nil {
		return fmt.Errorf("disk %s: %w", c.path, err)
	}
	stats.DiskUsagePercent = usage.UsedPercent
	return nil
}
