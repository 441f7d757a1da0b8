package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arcturial/clickatell/pkg/dispatcher"
)

const logPrefix = "events:publisher"

// EventPublisher is the interface for publishing SDK events.
type EventPublisher interface {
	PublishCall(ctx context.Context, event *CallCompletedEvent) error
	PublishCallback(ctx context.Context, event *CallbackEvent) error
}

// NoOpPublisher is an EventPublisher that does nothing (for in-process usage without events).
type NoOpPublisher struct{}

// PublishCall is a no-op.
func (p *NoOpPublisher) PublishCall(_ context.Context, _ *CallCompletedEvent) error {
	return nil
}

// PublishCallback is a no-op.
func (p *NoOpPublisher) PublishCallback(_ context.Context, _ *CallbackEvent) error {
	return nil
}

// CallbackPublisher is an EventPublisher that calls functions (for testing).
// A nil function drops the event.
type CallbackPublisher struct {
	OnCall     func(ctx context.Context, event *CallCompletedEvent) error
	OnCallback func(ctx context.Context, event *CallbackEvent) error
}

// PublishCall calls OnCall.
func (p *CallbackPublisher) PublishCall(ctx context.Context, event *CallCompletedEvent) error {
	if p.OnCall == nil {
		return nil
	}
	return p.OnCall(ctx, event)
}

// PublishCallback calls OnCallback.
func (p *CallbackPublisher) PublishCallback(ctx context.Context, event *CallbackEvent) error {
	if p.OnCallback == nil {
		return nil
	}
	return p.OnCallback(ctx, event)
}

// Listener returns a response listener that publishes every completed call.
// Publish failures are logged; they never fail the call.
func Listener(p EventPublisher) dispatcher.ResponseListener {
	return func(ctx context.Context, ev dispatcher.ResponseEvent) {
		if err := p.PublishCall(ctx, NewCallCompletedEvent(ev)); err != nil {
			slog.Warn(fmt.Sprintf("%s - failed to publish %s: %v", logPrefix, ev.Call.Operation, err))
		}
	}
}
