package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

// StreamName JetStream stream для событий симулятора
const StreamName = "DASHBOARD"

// StreamSubjects покрывает dashboard.tick и dashboard.alert.transition
var StreamSubjects = []string{"dashboard.>"}

// NATSPublisher implements EventPublisher for NATS JetStream
type NATSPublisher struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	logger *logger.Logger
}

// NewNATSPublisher creates a new NATS publisher
func NewNATSPublisher(natsURL string, log *logger.Logger) (*NATSPublisher, error) {
	// Connect to NATS with retry
	nc, err := nats.Connect(natsURL,
		nats.Name("ops-dashboard-simulator"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "error", err.Error())
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream(nats.PublishAsyncMaxPending(256))
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	if err := ensureStream(js); err != nil {
		nc.Close()
		return nil, err
	}

	log.Info("Connected to NATS", "url", natsURL, "stream", StreamName)

	return &NATSPublisher{
		nc:     nc,
		js:     js,
		logger: log,
	}, nil
}

// ensureStream создает stream, если его еще нет; хранится только последнее событие каждого subject
func ensureStream(js nats.JetStreamContext) error {
	_, err := js.StreamInfo(StreamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to get stream info: %w", err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:              StreamName,
		Subjects:          StreamSubjects,
		Storage:           nats.MemoryStorage,
		MaxMsgsPerSubject: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", StreamName, err)
	}
	return nil
}

// PublishEvent publishes an event to NATS (async)
func (p *NATSPublisher) PublishEvent(ctx context.Context, subject string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = p.js.PublishAsync(subject, data)
	if err != nil {
		p.logger.Error("Failed to publish event", err,
			"subject", subject,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Event published",
		"subject", subject,
		"size", len(data),
	)

	return nil
}

// Close дожидается подтверждения отправленных событий и закрывает соединение
func (p *NATSPublisher) Close() error {
	if p.nc == nil {
		return nil
	}

	select {
	case <-p.js.PublishAsyncComplete():
	case <-time.After(5 * time.Second):
		p.logger.Warn("Timed out waiting for pending NATS acks", "pending", p.js.PublishAsyncPending())
	}

	p.logger.Info("Closing NATS connection")
	p.nc.Close()
	return nil
}
