// Package events defines the events the SDK emits and the publishers that
// deliver them.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/arcturial/clickatell/pkg/callback"
	"github.com/arcturial/clickatell/pkg/dispatcher"
)

// CallCompletedEvent is emitted after a dispatched operation returns.
type CallCompletedEvent struct {
	ID         string      `json:"id"`
	Operation  string      `json:"operation"`
	Transport  string      `json:"transport"`
	Status     string      `json:"status"`
	DurationMs int64       `json:"durationMs"`
	Response   interface{} `json:"response,omitempty"`
	Timestamp  string      `json:"timestamp"`
}

// CallbackEvent is emitted for every accepted vendor callback.
type CallbackEvent struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Callback  callback.Record `json:"callback"`
	Timestamp string          `json:"timestamp"`
}

// NewCallCompletedEvent builds an event from a dispatcher response.
func NewCallCompletedEvent(ev dispatcher.ResponseEvent) *CallCompletedEvent {
	return &CallCompletedEvent{
		ID:         uuid.NewString(),
		Operation:  ev.Call.Operation,
		Transport:  ev.Call.Transport,
		Status:     string(ev.Envelope.Result.Status),
		DurationMs: ev.Duration.Milliseconds(),
		Response:   ev.Envelope.Result.Response,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

// NewCallbackEvent wraps a parsed callback.
func NewCallbackEvent(rec callback.Record) *CallbackEvent {
	return &CallbackEvent{
		ID:        uuid.NewString(),
		Kind:      rec.Kind,
		Callback:  rec,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
