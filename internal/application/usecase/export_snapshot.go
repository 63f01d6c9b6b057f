package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/port"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

var environmentKeyRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

type ExportSnapshotConfig struct {
	KeyPrefix string
}

// ExportSnapshotUseCase выгружает snapshot в объектное хранилище по фиксированному ключу.
// Каждая выгрузка перезаписывает предыдущую.
type ExportSnapshotUseCase struct {
	storage port.ObjectStorage
	config  ExportSnapshotConfig
	logger  *logger.Logger
}

func NewExportSnapshotUseCase(
	storage port.ObjectStorage,
	config ExportSnapshotConfig,
	log *logger.Logger,
) *ExportSnapshotUseCase {
	return &ExportSnapshotUseCase{
		storage: storage,
		config:  config,
		logger:  log,
	}
}

// Export реализует port.SnapshotExporter
func (uc *ExportSnapshotUseCase) Export(ctx context.Context, snapshot *entity.Snapshot) (string, error) {
	if uc.storage == nil {
		return "", fmt.Errorf("object storage is not configured")
	}
	if snapshot == nil {
		return "", fmt.Errorf("snapshot is required")
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := uc.ObjectKey(snapshot.Meta.Environment)
	url, err := uc.storage.PutObject(ctx, key, "application/json", body)
	if err != nil {
		uc.logger.Error("Failed to upload snapshot", err, "key", key)
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}

	return url, nil
}

// ObjectKey возвращает ключ выгрузки для окружения
func (uc *ExportSnapshotUseCase) ObjectKey(environment string) string {
	prefix := strings.Trim(uc.config.KeyPrefix, "/")
	if prefix == "" {
		prefix = "dashboards"
	}

	environment = strings.TrimSpace(environment)
	if !environmentKeyRegex.MatchString(environment) {
		environment = "default"
	}

	return fmt.Sprintf("%s/%s/snapshot.json", prefix, environment)
}
