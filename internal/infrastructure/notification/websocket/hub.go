package websocket

import (
	"context"
	"sync"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/dto"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

// Типы сообщений для клиента
const (
	MessageTypeSnapshot = "snapshot"
	MessageTypeAlert    = "alert"
)

// Hub управляет WebSocket клиентами и рассылает сообщения
// Реализует интерфейс port.NotificationService
type Hub struct {
	// Зарегистрированные клиенты
	clients map[*Client]bool

	// Канал для broadcast snapshot
	broadcast chan *entity.Snapshot

	// Канал для broadcast смены статуса alert
	broadcastAlert chan *dto.AlertTransitionEvent

	// Канал для регистрации клиентов
	register chan *Client

	// Канал для удаления клиентов
	unregister chan *Client

	// Закрывается после остановки Run
	done chan struct{}

	// Последний разосланный snapshot, отправляется новым клиентам сразу
	latest *entity.Snapshot

	// Mutex для защиты clients map
	mu sync.RWMutex

	// Logger
	logger *logger.Logger
}

// NewHub создает новый WebSocket hub
func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		clients:        make(map[*Client]bool),
		broadcast:      make(chan *entity.Snapshot, 16),
		broadcastAlert: make(chan *dto.AlertTransitionEvent, 256),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		done:           make(chan struct{}),
		logger:         logger,
	}
}

// Run запускает hub до отмены контекста (должен быть запущен в отдельной goroutine)
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("WebSocket hub started")

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.logger.Info("WebSocket hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if h.latest != nil {
				h.deliver(client, Message{Type: MessageTypeSnapshot, Data: h.latest})
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("Client registered", "total_clients", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("Client unregistered", "total_clients", total)

		case snapshot := <-h.broadcast:
			h.mu.Lock()
			h.latest = snapshot
			h.fanOut(Message{Type: MessageTypeSnapshot, Data: snapshot})
			h.mu.Unlock()

		case event := <-h.broadcastAlert:
			h.mu.Lock()
			h.fanOut(Message{Type: MessageTypeAlert, Data: event})
			h.mu.Unlock()
			h.logger.Debug("Alert transition broadcasted to clients", "alert_id", event.AlertID, "to", event.To)
		}
	}
}

// fanOut вызывается под h.mu
func (h *Hub) fanOut(msg Message) {
	for client := range h.clients {
		h.deliver(client, msg)
	}
}

// deliver вызывается под h.mu; медленный клиент отключается
func (h *Hub) deliver(client *Client, msg Message) {
	select {
	case client.send <- msg:
	default:
		close(client.send)
		delete(h.clients, client)
		h.logger.Warn("Client channel full, disconnected")
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	close(h.done)
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

// Register регистрирует нового клиента
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister удаляет клиента
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast отправляет snapshot всем клиентам (реализация port.NotificationService)
func (h *Hub) Broadcast(snapshot *entity.Snapshot) {
	select {
	case h.broadcast <- snapshot:
	default:
		h.logger.Warn("Broadcast channel full, dropping snapshot")
	}
}

// BroadcastAlert отправляет смену статуса alert всем клиентам (реализация port.NotificationService)
func (h *Hub) BroadcastAlert(event *dto.AlertTransitionEvent) {
	select {
	case h.broadcastAlert <- event:
	default:
		h.logger.Warn("Broadcast alert channel full, dropping alert", "alert_id", event.AlertID)
	}
}

// ClientCount возвращает количество подключенных клиентов (реализация port.NotificationService)
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Message представляет сообщение для отправки клиенту
type Message struct {
	Type string `json:"type"` // "snapshot" или "alert"
	Data any    `json:"data"`
}
