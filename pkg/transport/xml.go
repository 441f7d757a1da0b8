package transport

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/arcturial/clickatell/pkg/diagnostic"
	"github.com/arcturial/clickatell/pkg/envelope"
	"github.com/arcturial/clickatell/pkg/packet"
	"github.com/arcturial/clickatell/pkg/transfer"
	"github.com/arcturial/clickatell/pkg/unwrap"
)

const xmlLogPrefix = "transport:xml"

// PathXML is the XML API endpoint.
const PathXML = "xml/xml"

// XML API action names.
const (
	ActionSendMsg       = "sendMsg"
	ActionGetBalance    = "getBalance"
	ActionQueryMsg      = "queryMsg"
	ActionRouteCoverage = "routeCoverage"
	ActionGetMsgCharge  = "getMsgCharge"
	ActionDelMsg        = "delMsg"
)

// XML posts <clickAPI> documents and reads the single response element.
type XML struct {
	*base
	root string
}

// NewXML creates the XML transport.
func NewXML(opts Options) *XML {
	t := &XML{
		base: newBase("xml", opts.Transfer, packet.New(opts.Identity), packet.LegacyExtras),
		root: rootURL(opts),
	}
	t.handle(SpecSendMessage, t.sendMessage)
	t.handle(SpecGetBalance, t.getBalance)
	t.handle(SpecQueryMessage, t.queryMessage)
	t.handle(SpecRouteCoverage, t.routeCoverage)
	t.handle(SpecGetMessageCharge, t.getMessageCharge)
	t.handle(SpecStopMessage, t.stopMessage)
	return t
}

// BuildXMLPacket renders p as <clickAPI><action>...</action></clickAPI>.
// Fields with an empty value are left out.
func BuildXMLPacket(action string, p *packet.Packet) string {
	var b strings.Builder
	b.WriteString("<clickAPI><")
	b.WriteString(action)
	b.WriteByte('>')
	for _, param := range p.Params(true) {
		v := packet.Format(param.Value)
		if v == "" {
			continue
		}
		fmt.Fprintf(&b, "<%s>", param.Key)
		// EscapeText only fails when the writer does.
		_ = xml.EscapeText(&b, []byte(v))
		fmt.Fprintf(&b, "</%s>", param.Key)
	}
	b.WriteString("</")
	b.WriteString(action)
	b.WriteString("></clickAPI>")
	return b.String()
}

// call posts the packet under action and returns the response fields. A
// fault comes back as a non-nil failure envelope.
func (t *XML) call(ctx context.Context, action string, p *packet.Packet) (map[string]string, *envelope.Envelope, error) {
	resp, err := t.execute(ctx, transfer.Request{
		URL:    joinURL(t.root, PathXML),
		Method: http.MethodPost,
		Body:   "data=" + url.QueryEscape(BuildXMLPacket(action, p)),
	})
	if err != nil {
		return nil, nil, err
	}

	node, err := unwrap.ParseXML([]byte(resp.Body))
	if err != nil {
		return nil, nil, fmt.Errorf("%s - failed to read %s response: %w", xmlLogPrefix, action, err)
	}
	fields := unwrap.Flat(node)
	if fault, ok := fields["fault"]; ok {
		env := envelope.Failure(fault)
		return nil, &env, nil
	}
	return fields, nil, nil
}

func (t *XML) run(ctx context.Context, action string, args packet.Args, extra map[string]interface{}, build func(map[string]string) envelope.Envelope) (envelope.Envelope, error) {
	p, err := t.assembler.Assemble(args, extra, t.extras)
	if err != nil {
		return envelope.Envelope{}, err
	}
	fields, failure, err := t.call(ctx, action, p)
	if err != nil {
		return envelope.Envelope{}, err
	}
	if failure != nil {
		return *failure, nil
	}
	return build(fields), nil
}

func (t *XML) sendMessage(ctx context.Context, args Args) (envelope.Envelope, error) {
	return t.run(ctx, ActionSendMsg, packet.Args{
		{Key: "to", Value: args.Strings(0)},
		{Key: "text", Value: args.String(1)},
		{Key: "from", Value: args.String(2)},
		{Key: "callback", Value: args.Bool(3, true)},
	}, args.Map(4), func(f map[string]string) envelope.Envelope {
		return envelope.Success(map[string]interface{}{"apiMsgId": f["apiMsgId"]})
	})
}

func (t *XML) getBalance(ctx context.Context, _ Args) (envelope.Envelope, error) {
	return t.run(ctx, ActionGetBalance, nil, nil, func(f map[string]string) envelope.Envelope {
		return envelope.Success(map[string]interface{}{"balance": toFloat(f["ok"])})
	})
}

func (t *XML) queryMessage(ctx context.Context, args Args) (envelope.Envelope, error) {
	return t.run(ctx, ActionQueryMsg, packet.Args{{Key: "apiMsgId", Value: args.String(0)}}, nil, xmlStatus)
}

func (t *XML) routeCoverage(ctx context.Context, args Args) (envelope.Envelope, error) {
	return t.run(ctx, ActionRouteCoverage, packet.Args{{Key: "msisdn", Value: args.String(0)}}, nil, func(f map[string]string) envelope.Envelope {
		return envelope.Success(map[string]interface{}{
			"description": f["ok"],
			"charge":      toFloat(f["charge"]),
		})
	})
}

func (t *XML) getMessageCharge(ctx context.Context, args Args) (envelope.Envelope, error) {
	return t.run(ctx, ActionGetMsgCharge, packet.Args{{Key: "apiMsgId", Value: args.String(0)}}, nil, func(f map[string]string) envelope.Envelope {
		status := strings.TrimSpace(f["status"])
		return envelope.Success(map[string]interface{}{
			"apiMsgId":    f["apiMsgId"],
			"status":      status,
			"description": diagnostic.Description(status),
			"charge":      toFloat(f["charge"]),
		})
	})
}

func (t *XML) stopMessage(ctx context.Context, args Args) (envelope.Envelope, error) {
	return t.run(ctx, ActionDelMsg, packet.Args{{Key: "apiMsgId", Value: args.String(0)}}, nil, xmlStatus)
}

func xmlStatus(f map[string]string) envelope.Envelope {
	status := strings.TrimSpace(f["status"])
	return envelope.Success(map[string]interface{}{
		"apiMsgId":    f["apiMsgId"],
		"status":      status,
		"description": diagnostic.Description(status),
	})
}
