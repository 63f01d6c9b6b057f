package port

import (
	"github.com/dreschagin/ops-dashboard-simulator/internal/application/dto"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
)

// NotificationService определяет интерфейс для отправки уведомлений (Port)
// Реализация будет в Infrastructure слое (WebSocket Hub)
type NotificationService interface {
	// Broadcast отправляет новый snapshot всем подключенным клиентам
	Broadcast(snapshot *entity.Snapshot)

	// BroadcastAlert отправляет смену статуса alert всем подключенным клиентам
	BroadcastAlert(event *dto.AlertTransitionEvent)

	// ClientCount возвращает количество подключенных клиентов
	ClientCount() int
}
