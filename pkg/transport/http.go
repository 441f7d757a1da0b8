package transport

import (
	"context"
	"net/http"

	"github.com/arcturial/clickatell/pkg/envelope"
	"github.com/arcturial/clickatell/pkg/legacy"
	"github.com/arcturial/clickatell/pkg/packet"
	"github.com/arcturial/clickatell/pkg/transfer"
)

// Legacy HTTP API paths.
const (
	PathSendMsg       = "http/sendmsg"
	PathGetBalance    = "http/getbalance"
	PathQueryMsg      = "http/querymsg"
	PathRouteCoverage = "utils/routeCoverage"
	PathGetMsgCharge  = "http/getmsgcharge"
	PathDelMsg        = "http/delmsg"
)

// DefaultHost is the vendor's legacy API host.
const DefaultHost = "api.clickatell.com"

// HTTP speaks the form-encoded legacy API and parses KEY: value replies.
type HTTP struct {
	*base
	root string
	bulk bool
}

// NewHTTP creates the HTTP transport, or HTTPS when opts.Secure is set.
// sendMessage returns one row per recipient.
func NewHTTP(opts Options) *HTTP {
	return newHTTP(opts, true)
}

// NewHTTPSingle creates the pre-bulk HTTP transport whose sendMessage
// returns a single {apiMsgId}.
func NewHTTPSingle(opts Options) *HTTP {
	return newHTTP(opts, false)
}

func newHTTP(opts Options, bulk bool) *HTTP {
	name := "http"
	if opts.Secure {
		name = "https"
	}
	t := &HTTP{
		base: newBase(name, opts.Transfer, packet.New(opts.Identity), packet.LegacyExtras),
		root: rootURL(opts),
		bulk: bulk,
	}
	t.handle(SpecSendMessage, t.sendMessage)
	t.handle(SpecGetBalance, t.getBalance)
	t.handle(SpecQueryMessage, t.queryMessage)
	t.handle(SpecRouteCoverage, t.routeCoverage)
	t.handle(SpecGetMessageCharge, t.getMessageCharge)
	t.handle(SpecStopMessage, t.stopMessage)
	return t
}

func rootURL(opts Options) string {
	if opts.BaseURL != "" {
		return opts.BaseURL
	}
	if opts.Secure {
		return "https://" + DefaultHost
	}
	return "http://" + DefaultHost
}

func (t *HTTP) post(ctx context.Context, path string, p *packet.Packet) (string, error) {
	resp, err := t.execute(ctx, transfer.Request{
		URL:    joinURL(t.root, path),
		Method: http.MethodPost,
		Body:   p.Encode(),
	})
	if err != nil {
		return "", err
	}
	return resp.Body, nil
}

func (t *HTTP) call(ctx context.Context, path string, args packet.Args) (*legacy.Record, error) {
	p, err := t.assembler.Assemble(args, nil, t.extras)
	if err != nil {
		return nil, err
	}
	body, err := t.post(ctx, path, p)
	if err != nil {
		return nil, err
	}
	return legacy.Parse(body, false).First(), nil
}

func (t *HTTP) sendMessage(ctx context.Context, args Args) (envelope.Envelope, error) {
	to := args.Strings(0)
	p, err := t.assembler.Assemble(packet.Args{
		{Key: "to", Value: to},
		{Key: "text", Value: args.String(1)},
		{Key: "from", Value: args.String(2)},
		{Key: "callback", Value: args.Bool(3, true)},
	}, args.Map(4), t.extras)
	if err != nil {
		return envelope.Envelope{}, err
	}

	body, err := t.post(ctx, PathSendMsg, p)
	if err != nil {
		return envelope.Envelope{}, err
	}
	if !t.bulk {
		return sendSingle(legacy.Parse(body, false).First()), nil
	}
	return sendRows(legacy.Parse(body, true), p.String("to")), nil
}

func (t *HTTP) getBalance(ctx context.Context, _ Args) (envelope.Envelope, error) {
	rec, err := t.call(ctx, PathGetBalance, nil)
	if err != nil {
		return envelope.Envelope{}, err
	}
	return balance(rec), nil
}

func (t *HTTP) queryMessage(ctx context.Context, args Args) (envelope.Envelope, error) {
	rec, err := t.call(ctx, PathQueryMsg, packet.Args{{Key: "apimsgid", Value: args.String(0)}})
	if err != nil {
		return envelope.Envelope{}, err
	}
	return messageStatus(rec), nil
}

func (t *HTTP) routeCoverage(ctx context.Context, args Args) (envelope.Envelope, error) {
	rec, err := t.call(ctx, PathRouteCoverage, packet.Args{{Key: "msisdn", Value: args.String(0)}})
	if err != nil {
		return envelope.Envelope{}, err
	}
	return coverage(rec), nil
}

func (t *HTTP) getMessageCharge(ctx context.Context, args Args) (envelope.Envelope, error) {
	rec, err := t.call(ctx, PathGetMsgCharge, packet.Args{{Key: "apimsgid", Value: args.String(0)}})
	if err != nil {
		return envelope.Envelope{}, err
	}
	return messageCharge(rec), nil
}

func (t *HTTP) stopMessage(ctx context.Context, args Args) (envelope.Envelope, error) {
	rec, err := t.call(ctx, PathDelMsg, packet.Args{{Key: "apimsgid", Value: args.String(0)}})
	if err != nil {
		return envelope.Envelope{}, err
	}
	return messageStatus(rec), nil
}
