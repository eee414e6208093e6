// Package progress streams node status transitions to an external monitor
// over socket.io while a run is in flight.
package progress

import (
	"context"

	"github.com/specialistvlad/pargrid/internal/ctxlog"
	"github.com/specialistvlad/pargrid/internal/executor"
)

// EventName is the socket.io event emitted for every transition.
const EventName = "node_status"

// Emitter sends named events. *Client satisfies it.
type Emitter interface {
	Emit(event string, args ...any) error
}

// Message is the payload of a node_status event.
type Message struct {
	RunID      string  `json:"run_id"`
	Node       string  `json:"node"`
	Status     string  `json:"status"`
	Error      string  `json:"error,omitempty"`
	DurationMS float64 `json:"duration_ms"`
	At         string  `json:"at"`
}

// Reporter forwards executor events to an Emitter.
type Reporter struct {
	emitter Emitter
}

var _ executor.Observer = (*Reporter)(nil)

// NewReporter returns a Reporter that emits through e.
func NewReporter(e Emitter) *Reporter {
	return &Reporter{emitter: e}
}

// NewMessage builds the node_status payload for ev.
func NewMessage(ev executor.Event) Message {
	msg := Message{
		RunID:      ev.RunID,
		Node:       ev.Node,
		Status:     ev.Status.String(),
		DurationMS: float64(ev.Duration.Microseconds()) / 1000,
		At:         ev.At.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
	if ev.Err != nil {
		msg.Error = ev.Err.Error()
	}
	return msg
}

// NodeStatusChanged implements executor.Observer. Emit failures are logged
// and otherwise ignored.
func (r *Reporter) NodeStatusChanged(ctx context.Context, ev executor.Event) {
	msg := NewMessage(ev)
	if err := r.emitter.Emit(EventName, msg); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to emit progress event.", "nodeID", ev.Node, "status", msg.Status, "error", err)
	}
}
