package collector

import (
	"context"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/port"
)

// ProcessCollector собирает resident memory текущего процесса
type ProcessCollector struct {
	pid int32
}

// NewProcessCollector создает collector для текущего процесса
func NewProcessCollector() *ProcessCollector {
	return &ProcessCollector{pid: int32(os.Getpid())}
}

// Collect собирает RSS процесса
func (c *ProcessCollector) Collect(ctx context.Context, stats *port.SystemStats) error {
	proc, err := process.NewProcessWithContext(ctx, c.pid)
	if err != nil {
		return fmt.Errorf("process %d: %w", c.pid, err)
	}
	info, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return fmt.Errorf("process %d memory: %w", c.pid, err)
	}
	stats.ProcessRSSBytes = info.RSS
	return nil
}
