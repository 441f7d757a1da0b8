package events

import (
	"context"
	"fmt"
	"log/slog"

	comms "github.com/nats-io/nats.go"

	"github.com/arcturial/clickatell/pkg/commsutil"
)

const commsPublisherLogPrefix = "events:comms_publisher"

// CommsPublisherOpts overrides the global subjects.
type CommsPublisherOpts struct {
	CallSubject     string
	CallbackSubject string
}

// CommsPublisher publishes events to NATS, once on a granular subject and
// once on the global one.
type CommsPublisher struct {
	nc              *comms.Conn
	callSubject     string
	callbackSubject string
}

// NewCommsPublisher creates a CommsPublisher on nc.
func NewCommsPublisher(nc *comms.Conn, opts *CommsPublisherOpts) *CommsPublisher {
	p := &CommsPublisher{
		nc:              nc,
		callSubject:     commsutil.SubjectCall,
		callbackSubject: commsutil.SubjectCallback,
	}
	if opts != nil && opts.CallSubject != "" {
		p.callSubject = opts.CallSubject
	}
	if opts != nil && opts.CallbackSubject != "" {
		p.callbackSubject = opts.CallbackSubject
	}
	return p
}

// PublishCall publishes to clickatell.call.<operation> and the global call subject.
func (p *CommsPublisher) PublishCall(_ context.Context, event *CallCompletedEvent) error {
	if err := p.publish(event, commsutil.BuildCallSubject(event.Operation), p.callSubject); err != nil {
		return err
	}
	slog.Debug(fmt.Sprintf("%s - Published call event for %s.%s", commsPublisherLogPrefix, event.Transport, event.Operation))
	return nil
}

// PublishCallback publishes to clickatell.callback.<kind> and the global callback subject.
func (p *CommsPublisher) PublishCallback(_ context.Context, event *CallbackEvent) error {
	if err := p.publish(event, commsutil.BuildCallbackSubject(event.Kind), p.callbackSubject); err != nil {
		return err
	}
	slog.Debug(fmt.Sprintf("%s - Published %s callback for %s", commsPublisherLogPrefix, event.Kind, event.Callback.APIMsgID))
	return nil
}

func (p *CommsPublisher) publish(event interface{}, subjects ...string) error {
	data, err := commsutil.EncodePayload(event)
	if err != nil {
		return fmt.Errorf("%s - failed to encode event: %w", commsPublisherLogPrefix, err)
	}
	for _, subject := range subjects {
		if err := p.nc.Publish(subject, data); err != nil {
			slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, subject, err))
			return err
		}
	}
	return nil
}
