// Package notify fans transfer lifecycle events out to websocket clients and webhooks.
// Delivery is fire-and-forget: callers never wait on or see delivery errors.
package notify

import (
	"time"

	"github.com/google/uuid"
)

// Event is one committed lifecycle transition.
type Event struct {
	Type        string    `json:"type"`
	TransferID  uuid.UUID `json:"transfer_id"`
	RequestType string    `json:"request_type"`
	Status      string    `json:"status"`
	Version     int       `json:"version"`
	MachineCode string    `json:"machine_code,omitempty"`
	Actor       string    `json:"actor"`
	Message     string    `json:"message"`
	At          time.Time `json:"at"`
}

type Notifier interface {
	Notify(ev Event)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(ev Event)

func (f NotifierFunc) Notify(ev Event) { f(ev) }

// Multi delivers each event to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(ev Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ev)
		}
	}
}

// Nop discards events.
type Nop struct{}

func (Nop) Notify(Event) {}
