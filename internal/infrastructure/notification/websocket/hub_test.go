package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/dto"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatal("client channel closed")
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for h.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount() = %d, want %d", h.ClientCount(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHub_BroadcastsSnapshotsAndAlerts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(logger.New("error"))
	go hub.Run(ctx)

	client := &Client{hub: hub, send: make(chan Message, 4)}
	hub.Register(client)
	waitForClients(t, hub, 1)

	snapshot := &entity.Snapshot{Meta: entity.Meta{Environment: "test"}}
	hub.Broadcast(snapshot)
	msg := receive(t, client)
	if msg.Type != MessageTypeSnapshot || msg.Data != snapshot {
		t.Fatalf("unexpected message %+v", msg)
	}

	hub.BroadcastAlert(&dto.AlertTransitionEvent{AlertID: "ALT-1", From: "resolved", To: "firing"})
	msg = receive(t, client)
	if msg.Type != MessageTypeAlert {
		t.Fatalf("Type = %q, want alert", msg.Type)
	}
	if event, ok := msg.Data.(*dto.AlertTransitionEvent); !ok || event.AlertID != "ALT-1" {
		t.Fatalf("unexpected alert payload %+v", msg.Data)
	}
}

func TestHub_NewClientReceivesLatestSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(logger.New("error"))
	go hub.Run(ctx)

	first := &Client{hub: hub, send: make(chan Message, 4)}
	hub.Register(first)
	waitForClients(t, hub, 1)

	snapshot := &entity.Snapshot{}
	hub.Broadcast(snapshot)
	receive(t, first)

	late := &Client{hub: hub, send: make(chan Message, 4)}
	hub.Register(late)
	if msg := receive(t, late); msg.Data != snapshot {
		t.Fatalf("late client got %+v", msg)
	}
}

func TestHub_DisconnectsSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(logger.New("error"))
	go hub.Run(ctx)

	slow := &Client{hub: hub, send: make(chan Message)}
	hub.Register(slow)
	waitForClients(t, hub, 1)

	hub.Broadcast(&entity.Snapshot{})
	waitForClients(t, hub, 0)
}

func TestHub_StopClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub(logger.New("error"))
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	client := &Client{hub: hub, send: make(chan Message, 1)}
	hub.Register(client)
	waitForClients(t, hub, 1)

	cancel()
	<-done

	if _, ok := <-client.send; ok {
		t.Fatal("client channel still open after stop")
	}
}
