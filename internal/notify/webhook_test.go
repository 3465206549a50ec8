package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifier_Send(t *testing.T) {
	received := make(chan Event, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var ev Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ev))
		received <- ev
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ev := Event{Type: "transfer_approved", TransferID: uuid.New(), Status: "approved", Actor: "U1"}
	require.NoError(t, NewWebhookNotifier(srv.URL, time.Second).Send(context.Background(), ev))

	got := <-received
	require.Equal(t, ev.TransferID, got.TransferID)
	require.Equal(t, "transfer_approved", got.Type)
}

func TestWebhookNotifier_SendReportsHTTPError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewWebhookNotifier(srv.URL, time.Second).Send(context.Background(), Event{Type: "transfer_rejected"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP 400")
}

func TestMultiDeliversToEveryNotifier(t *testing.T) {
	var got []string
	m := Multi{
		NotifierFunc(func(ev Event) { got = append(got, "a:"+ev.Type) }),
		nil,
		NotifierFunc(func(ev Event) { got = append(got, "b:"+ev.Type) }),
	}
	m.Notify(Event{Type: "transfer_created"})
	require.Equal(t, []string{"a:transfer_created", "b:transfer_created"}, got)
}
