// Package clickatell is the caller-facing SMS client.
//
//	c, err := clickatell.New(clickatell.Options{
//		Transport: "rest",
//		Token:     os.Getenv("CLICKATELL_TOKEN"),
//	})
//	out, err := c.SendMessage(ctx, []string{"27820000000"}, "Hello")
package clickatell

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arcturial/clickatell/pkg/dispatcher"
	"github.com/arcturial/clickatell/pkg/packet"
	"github.com/arcturial/clickatell/pkg/transfer"
	"github.com/arcturial/clickatell/pkg/translate"
	"github.com/arcturial/clickatell/pkg/transport"
	"github.com/arcturial/clickatell/pkg/validate"
)

const logPrefix = "clickatell:client"

// DefaultTransport is used when Options.Transport is empty.
const DefaultTransport = "http"

// Listener events accepted by On.
const (
	EventRequest  = "request"
	EventResponse = "response"
)

// Options configures a Client.
type Options struct {
	// Transport is a transport ref such as "http", "rest@^1" or "xml@2.1.0".
	Transport string
	Registry  *transport.Registry

	Identity packet.Identity
	Token    string
	Secure   bool
	BaseURL  string

	// Transfer defaults to an HTTP transfer built from Timeout, RateLimit and UserAgent.
	Transfer  transfer.Transfer
	Timeout   time.Duration
	RateLimit float64
	UserAgent string

	Mailer   transfer.Mailer
	MailFrom string

	// Translator defaults to JSON.
	Translator translate.Translator
	Validator  *validate.Validator
}

// Client sends messages through one active transport. Like the dispatcher it
// wraps, a Client is single-owner.
type Client struct {
	opts       Options
	registry   *transport.Registry
	dispatcher *dispatcher.Dispatcher
}

// New creates a Client. The transport is resolved from the registry, the
// translator defaults to JSON and the validation listener is registered.
func New(opts Options) (*Client, error) {
	if opts.Transport == "" {
		opts.Transport = DefaultTransport
	}
	if opts.Registry == nil {
		opts.Registry = transport.DefaultRegistry()
	}
	if opts.Transfer == nil {
		opts.Transfer = transfer.NewHTTP(transfer.HTTPOptions{
			Timeout:   opts.Timeout,
			RateLimit: opts.RateLimit,
			UserAgent: opts.UserAgent,
		})
	}
	if opts.Translator == nil {
		opts.Translator = translate.JSON{}
	}
	if opts.Validator == nil {
		opts.Validator = validate.Default()
	}

	t, err := opts.Registry.New(opts.Transport, opts.transportOptions())
	if err != nil {
		return nil, fmt.Errorf("%s - failed to create transport: %w", logPrefix, err)
	}
	slog.Debug(fmt.Sprintf("%s - client ready transport=%s translator=%s", logPrefix, t.Name(), opts.Translator.Name()))

	return &Client{
		opts:     opts,
		registry: opts.Registry,
		dispatcher: dispatcher.New(t,
			dispatcher.WithTranslator(opts.Translator),
			dispatcher.WithValidator(opts.Validator),
		),
	}, nil
}

func (o Options) transportOptions() transport.Options {
	return transport.Options{
		Transfer: o.Transfer,
		BaseURL:  o.BaseURL,
		Identity: o.Identity,
		Token:    o.Token,
		Secure:   o.Secure,
		Mailer:   o.Mailer,
		MailFrom: o.MailFrom,
	}
}

// Dispatcher returns the underlying dispatcher.
func (c *Client) Dispatcher() *dispatcher.Dispatcher {
	return c.dispatcher
}

// Call runs any operation of the active transport, including the Connect
// account operations.
func (c *Client) Call(ctx context.Context, op string, args ...interface{}) (dispatcher.Output, error) {
	return c.dispatcher.Call(ctx, op, args...)
}

// SendMessage sends message to every recipient.
func (c *Client) SendMessage(ctx context.Context, to []string, message string, opts ...SendOption) (dispatcher.Output, error) {
	return c.Call(ctx, transport.OpSendMessage, sendArgs(to, message, opts)...)
}

// GetBalance returns the account balance.
func (c *Client) GetBalance(ctx context.Context) (dispatcher.Output, error) {
	return c.Call(ctx, transport.OpGetBalance)
}

// QueryMessage returns the delivery status of a message.
func (c *Client) QueryMessage(ctx context.Context, apiMsgID string) (dispatcher.Output, error) {
	return c.Call(ctx, transport.OpQueryMessage, apiMsgID)
}

// RouteCoverage checks whether msisdn can be reached.
func (c *Client) RouteCoverage(ctx context.Context, msisdn string) (dispatcher.Output, error) {
	return c.Call(ctx, transport.OpRouteCoverage, msisdn)
}

// GetMessageCharge returns the charge of a sent message.
func (c *Client) GetMessageCharge(ctx context.Context, apiMsgID string) (dispatcher.Output, error) {
	return c.Call(ctx, transport.OpGetMessageCharge, apiMsgID)
}

// StopMessage stops a scheduled message.
func (c *Client) StopMessage(ctx context.Context, apiMsgID string) (dispatcher.Output, error) {
	return c.Call(ctx, transport.OpStopMessage, apiMsgID)
}

// On registers a listener for EventRequest or EventResponse.
func (c *Client) On(event string, listener interface{}) error {
	switch event {
	case EventRequest:
		switch l := listener.(type) {
		case dispatcher.RequestListener:
			c.dispatcher.OnRequest(l)
			return nil
		case func(context.Context, dispatcher.RequestEvent) error:
			c.dispatcher.OnRequest(l)
			return nil
		}
	case EventResponse:
		switch l := listener.(type) {
		case dispatcher.ResponseListener:
			c.dispatcher.OnResponse(l)
			return nil
		case func(context.Context, dispatcher.ResponseEvent):
			c.dispatcher.OnResponse(l)
			return nil
		}
	default:
		return fmt.Errorf("%s - unknown event %q", logPrefix, event)
	}
	return fmt.Errorf("%s - listener %T does not match event %q", logPrefix, listener, event)
}

// SetTransport swaps the active transport.
func (c *Client) SetTransport(t transport.Transport) {
	c.dispatcher.SetTransport(t)
}

// UseTransport resolves ref with the client's credentials and makes it active.
func (c *Client) UseTransport(ref string) error {
	t, err := c.registry.New(ref, c.opts.transportOptions())
	if err != nil {
		return err
	}
	c.dispatcher.SetTransport(t)
	return nil
}

// Transport returns the active transport.
func (c *Client) Transport() transport.Transport {
	return c.dispatcher.Transport()
}

// SetTranslator swaps the output translator.
func (c *Client) SetTranslator(tr translate.Translator) {
	c.dispatcher.SetTranslator(tr)
}
