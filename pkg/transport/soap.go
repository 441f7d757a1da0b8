package transport

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/arcturial/clickatell/pkg/envelope"
	"github.com/arcturial/clickatell/pkg/legacy"
	"github.com/arcturial/clickatell/pkg/packet"
	"github.com/arcturial/clickatell/pkg/transfer"
	"github.com/arcturial/clickatell/pkg/unwrap"
)

const soapLogPrefix = "transport:soap"

// PathSOAP is the SOAP web service endpoint.
const PathSOAP = "soap/webservice.php"

const soapEnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"

// SOAP wraps the legacy parameters in a SOAP 1.1 call. The service returns
// the same KEY: value lines as the HTTP API, one per <item>.
type SOAP struct {
	*base
	root string
}

// NewSOAP creates the SOAP transport.
func NewSOAP(opts Options) *SOAP {
	t := &SOAP{
		base: newBase("soap", opts.Transfer, packet.New(opts.Identity), packet.LegacyExtras),
		root: rootURL(opts),
	}
	t.handle(SpecSendMessage, t.sendMessage)
	t.handle(SpecGetBalance, t.getBalance)
	t.handle(SpecQueryMessage, t.queryMessage)
	t.handle(SpecRouteCoverage, t.routeCoverage)
	t.handle(SpecGetMessageCharge, t.getMessageCharge)
	return t
}

// BuildSOAPEnvelope renders p as the body of a SOAP call to action. Every
// field is sent, empty or not, since the service binds parameters by name.
func BuildSOAPEnvelope(action string, p *packet.Packet) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)

	env := xml.StartElement{
		Name: xml.Name{Local: "soap:Envelope"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns:soap"}, Value: soapEnvelopeNS}},
	}
	body := xml.StartElement{Name: xml.Name{Local: "soap:Body"}}
	call := xml.StartElement{Name: xml.Name{Local: action}}

	tokens := []xml.Token{env, body, call}
	for _, param := range p.Params(true) {
		el := xml.StartElement{Name: xml.Name{Local: param.Key}}
		tokens = append(tokens, el, xml.CharData(packet.Format(param.Value)), el.End())
	}
	tokens = append(tokens, call.End(), body.End(), env.End())

	for _, tok := range tokens {
		if err := enc.EncodeToken(tok); err != nil {
			return "", fmt.Errorf("%s - failed to encode %s envelope: %w", soapLogPrefix, action, err)
		}
	}
	if err := enc.Flush(); err != nil {
		return "", fmt.Errorf("%s - failed to flush %s envelope: %w", soapLogPrefix, action, err)
	}
	return buf.String(), nil
}

// ExtractSOAPReturn finds the <return> element of a SOAP response and joins
// its item texts with newlines. A scalar return yields its own text.
func ExtractSOAPReturn(data []byte) (string, error) {
	root, err := unwrap.ParseXML(data)
	if err != nil {
		return "", fmt.Errorf("%s - failed to read response: %w", soapLogPrefix, err)
	}
	ret := findNode(root, "return")
	if ret == nil {
		return "", fmt.Errorf("%s - response has no return element", soapLogPrefix)
	}
	if len(ret.Children) == 0 {
		return ret.Text, nil
	}
	lines := make([]string, 0, len(ret.Children))
	for _, item := range ret.Children {
		lines = append(lines, item.Text)
	}
	return strings.Join(lines, "\n"), nil
}

func findNode(n *unwrap.Node, name string) *unwrap.Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := findNode(c, name); found != nil {
			return found
		}
	}
	return nil
}

func (t *SOAP) call(ctx context.Context, action string, args packet.Args, extra map[string]interface{}) (string, *packet.Packet, error) {
	p, err := t.assembler.Assemble(args, extra, t.extras)
	if err != nil {
		return "", nil, err
	}
	body, err := BuildSOAPEnvelope(action, p)
	if err != nil {
		return "", nil, err
	}
	resp, err := t.execute(ctx, transfer.Request{
		URL:    joinURL(t.root, PathSOAP),
		Method: http.MethodPost,
		Body:   body,
		Headers: map[string]string{
			"Content-Type": "text/xml; charset=utf-8",
			"SOAPAction":   fmt.Sprintf("%q", action),
		},
	})
	if err != nil {
		return "", nil, err
	}
	text, err := ExtractSOAPReturn([]byte(resp.Body))
	if err != nil {
		return "", nil, err
	}
	return text, p, nil
}

func (t *SOAP) first(ctx context.Context, action string, args packet.Args) (*legacy.Record, error) {
	text, _, err := t.call(ctx, action, args, nil)
	if err != nil {
		return nil, err
	}
	return legacy.Parse(text, false).First(), nil
}

func (t *SOAP) sendMessage(ctx context.Context, args Args) (envelope.Envelope, error) {
	text, p, err := t.call(ctx, "sendmsg", packet.Args{
		{Key: "to", Value: args.Strings(0)},
		{Key: "text", Value: args.String(1)},
		{Key: "from", Value: args.String(2)},
		{Key: "callback", Value: args.Bool(3, true)},
	}, args.Map(4))
	if err != nil {
		return envelope.Envelope{}, err
	}
	return sendRows(legacy.Parse(text, true), p.String("to")), nil
}

func (t *SOAP) getBalance(ctx context.Context, _ Args) (envelope.Envelope, error) {
	rec, err := t.first(ctx, "getbalance", nil)
	if err != nil {
		return envelope.Envelope{}, err
	}
	return balance(rec), nil
}

func (t *SOAP) queryMessage(ctx context.Context, args Args) (envelope.Envelope, error) {
	rec, err := t.first(ctx, "querymsg", packet.Args{{Key: "apimsgid", Value: args.String(0)}})
	if err != nil {
		return envelope.Envelope{}, err
	}
	return messageStatus(rec), nil
}

func (t *SOAP) routeCoverage(ctx context.Context, args Args) (envelope.Envelope, error) {
	rec, err := t.first(ctx, "routeCoverage", packet.Args{{Key: "msisdn", Value: args.String(0)}})
	if err != nil {
		return envelope.Envelope{}, err
	}
	return coverage(rec), nil
}

func (t *SOAP) getMessageCharge(ctx context.Context, args Args) (envelope.Envelope, error) {
	rec, err := t.first(ctx, "getmsgcharge", packet.Args{{Key: "apimsgid", Value: args.String(0)}})
	if err != nil {
		return envelope.Envelope{}, err
	}
	return messageCharge(rec), nil
}
