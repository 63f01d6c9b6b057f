package port

import "context"

// SystemStats снимок состояния процесса и хоста для readiness
type SystemStats struct {
	CPUPercent       float64 `json:"cpu_percent"`
	MemoryPercent    float64 `json:"memory_percent"`
	ProcessRSSBytes  uint64  `json:"process_rss_bytes"`
	DiskUsagePercent float64 `json:"disk_usage_percent"`
	Goroutines       int     `json:"goroutines"`
}

// SystemStatsCollector определяет интерфейс сбора статистики хоста (Port)
type SystemStatsCollector interface {
	Collect(ctx context.Context) (SystemStats, error)
}
