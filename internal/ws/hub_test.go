package ws

import (
	"encoding/json"
	"testing"
	"time"

	"go-fleet-ws/internal/notify"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHubNotifyQueuesEncodedEvent(t *testing.T) {
	hub := NewHub()
	ev := notify.Event{Type: "transfer_dispatched", TransferID: uuid.New(), Status: "dispatched", Actor: "U2"}

	hub.Notify(ev)

	select {
	case msg := <-hub.Broadcast:
		var got notify.Event
		require.NoError(t, json.Unmarshal(msg, &got))
		require.Equal(t, ev.TransferID, got.TransferID)
		require.Equal(t, "transfer_dispatched", got.Type)
	case <-time.After(time.Second):
		t.Fatal("event was not queued for broadcast")
	}
}

func TestHubNotifyDropsWhenQueueIsFull(t *testing.T) {
	hub := NewHub()
	for i := 0; i < cap(hub.Broadcast); i++ {
		hub.Notify(notify.Event{Type: "transfer_created", TransferID: uuid.New()})
	}
	require.Len(t, hub.Broadcast, cap(hub.Broadcast))

	done := make(chan struct{})
	go func() {
		hub.Notify(notify.Event{Type: "transfer_approved", TransferID: uuid.New()})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked without a running hub")
	}
	require.Len(t, hub.Broadcast, cap(hub.Broadcast))
}
