package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	comms "github.com/nats-io/nats.go"

	"github.com/arcturial/clickatell/pkg/commsutil"
	"github.com/arcturial/clickatell/pkg/dispatcher"
	"github.com/arcturial/clickatell/pkg/metrics"
)

const gatewayLogPrefix = "server:gateway"

// CodeInvalidRequest is returned for requests that are not valid JSON.
const CodeInvalidRequest = "INVALID_REQUEST"

// DispatcherFactory builds a fresh dispatcher for one gateway request.
type DispatcherFactory func() (*dispatcher.Dispatcher, error)

// Gateway serves SDK operations to remote callers over NATS request/reply.
type Gateway struct {
	factory DispatcherFactory
	metrics *metrics.Metrics
	timeout time.Duration
}

// NewGateway creates a Gateway. timeout caps every request; callers may ask
// for less through ctx.timeoutMs.
func NewGateway(factory DispatcherFactory, m *metrics.Metrics, timeout time.Duration) *Gateway {
	return &Gateway{factory: factory, metrics: m, timeout: timeout}
}

// Handle decodes one request and returns its response. It never returns nil.
func (g *Gateway) Handle(ctx context.Context, data []byte) *dispatcher.CallResponse {
	var req dispatcher.CallRequest
	if err := json.Unmarshal(data, &req); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to decode request: %v", gatewayLogPrefix, err))
		return &dispatcher.CallResponse{
			Ok: false,
			Error: &dispatcher.ErrorDetail{
				Code:    CodeInvalidRequest,
				Message: "Failed to decode request",
			},
		}
	}

	d, err := g.factory()
	if err != nil {
		slog.Error(fmt.Sprintf("%s - failed to build dispatcher: %v", gatewayLogPrefix, err))
		return &dispatcher.CallResponse{
			ID: req.ID,
			Ok: false,
			Error: &dispatcher.ErrorDetail{
				Code:      dispatcher.CodeInternal,
				Message:   "Gateway unavailable",
				Retryable: true,
			},
		}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp := d.Serve(ctx, &req)
	if g.metrics != nil {
		g.metrics.ObserveResponse(req.Method, resp)
	}
	return resp
}

// Subscribe answers requests on subject until the subscription is drained.
func (g *Gateway) Subscribe(ctx context.Context, nc *comms.Conn, subject string) (*comms.Subscription, error) {
	sub, err := nc.Subscribe(subject, func(msg *comms.Msg) {
		resp := g.Handle(ctx, msg.Data)
		if err := commsutil.Respond(msg, resp); err != nil {
			slog.Error(fmt.Sprintf("%s - failed to respond: %v", gatewayLogPrefix, err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%s - failed to subscribe to %s: %w", gatewayLogPrefix, subject, err)
	}
	slog.Info(fmt.Sprintf("%s - Subscribed to %s", gatewayLogPrefix, subject))
	return sub, nil
}
