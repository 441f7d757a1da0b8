// Package transport implements the vendor wire protocols behind one interface.
package transport

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/arcturial/clickatell/pkg/apierror"
	"github.com/arcturial/clickatell/pkg/envelope"
	"github.com/arcturial/clickatell/pkg/packet"
	"github.com/arcturial/clickatell/pkg/transfer"
)

const logPrefix = "transport:transport"

// Messaging operations.
const (
	OpSendMessage      = "sendMessage"
	OpGetBalance       = "getBalance"
	OpQueryMessage     = "queryMessage"
	OpRouteCoverage    = "routeCoverage"
	OpGetMessageCharge = "getMessageCharge"
	OpStopMessage      = "stopMessage"
)

// OperationSpec names an operation and its ordered parameters.
type OperationSpec struct {
	Name   string
	Params []string
}

// Messaging operation specs shared by the transports.
var (
	SpecSendMessage      = OperationSpec{Name: OpSendMessage, Params: []string{"to", "message", "from", "callback", "extra"}}
	SpecGetBalance       = OperationSpec{Name: OpGetBalance}
	SpecQueryMessage     = OperationSpec{Name: OpQueryMessage, Params: []string{"apiMsgId"}}
	SpecRouteCoverage    = OperationSpec{Name: OpRouteCoverage, Params: []string{"msisdn"}}
	SpecGetMessageCharge = OperationSpec{Name: OpGetMessageCharge, Params: []string{"apiMsgId"}}
	SpecStopMessage      = OperationSpec{Name: OpStopMessage, Params: []string{"apiMsgId"}}
)

// Transport is one wire protocol. Invoke returns the wrapped vendor response;
// remote failures are failure envelopes except where a variant documents
// that it raises them.
type Transport interface {
	Name() string
	Operations() []OperationSpec
	Invoke(ctx context.Context, op string, args []interface{}) (envelope.Envelope, error)
}

// Options configures a transport variant. Each variant reads the fields it needs.
type Options struct {
	Transfer transfer.Transfer
	// BaseURL overrides the vendor endpoint root (scheme and host).
	BaseURL  string
	Identity packet.Identity
	Token    string
	Secure   bool

	Mailer   transfer.Mailer
	MailFrom string
}

// Lookup returns the OperationSpec of op in t's operation table.
func Lookup(t Transport, op string) (OperationSpec, bool) {
	for _, s := range t.Operations() {
		if s.Name == op {
			return s, true
		}
	}
	return OperationSpec{}, false
}

// handler runs one operation.
type handler func(ctx context.Context, args Args) (envelope.Envelope, error)

// base owns the pieces every variant shares: the operation table, the
// transfer and the packet assembler.
type base struct {
	name      string
	transfer  transfer.Transfer
	assembler *packet.Assembler
	extras    packet.ExtraMap
	specs     []OperationSpec
	handlers  map[string]handler
}

func newBase(name string, tr transfer.Transfer, p *packet.Packet, extras packet.ExtraMap) *base {
	return &base{
		name:      name,
		transfer:  tr,
		assembler: packet.NewAssembler(p),
		extras:    extras,
		handlers:  make(map[string]handler),
	}
}

func (b *base) handle(spec OperationSpec, h handler) {
	b.specs = append(b.specs, spec)
	b.handlers[spec.Name] = h
}

// Name returns the transport name.
func (b *base) Name() string {
	return b.name
}

// Operations returns the operation table.
func (b *base) Operations() []OperationSpec {
	out := make([]OperationSpec, len(b.specs))
	copy(out, b.specs)
	return out
}

// Invoke runs op with positional args.
func (b *base) Invoke(ctx context.Context, op string, args []interface{}) (envelope.Envelope, error) {
	h, ok := b.handlers[op]
	if !ok {
		return envelope.Envelope{}, apierror.MethodNotFound(op, b.name)
	}
	slog.Debug(fmt.Sprintf("%s - %s.%s", logPrefix, b.name, op))
	return h(ctx, Args(args))
}

func (b *base) execute(ctx context.Context, req transfer.Request) (transfer.Response, error) {
	if b.transfer == nil {
		return transfer.Response{}, apierror.TransferFailed(fmt.Errorf("%s - no transfer configured for %s", logPrefix, b.name))
	}
	return b.transfer.Execute(ctx, req)
}

// Args are positional call arguments with lenient accessors.
type Args []interface{}

// At returns argument i, or nil.
func (a Args) At(i int) interface{} {
	if i < 0 || i >= len(a) {
		return nil
	}
	return a[i]
}

// String returns argument i rendered as a string.
func (a Args) String(i int) string {
	return packet.Format(a.At(i))
}

// Strings returns argument i as a list. A string is split on commas.
func (a Args) Strings(i int) []string {
	switch t := a.At(i).(type) {
	case nil:
		return nil
	case []string:
		return t
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, v := range t {
			out = append(out, packet.Format(v))
		}
		return out
	case string:
		if t == "" {
			return nil
		}
		return strings.Split(t, ",")
	default:
		return []string{packet.Format(t)}
	}
}

// Bool returns argument i as a bool, or def when it is absent.
func (a Args) Bool(i int, def bool) bool {
	switch t := a.At(i).(type) {
	case nil:
		return def
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(t)
		if err != nil {
			return def
		}
		return b
	case int:
		return t != 0
	default:
		return def
	}
}

// Map returns argument i as a map, or nil.
func (a Args) Map(i int) map[string]interface{} {
	switch t := a.At(i).(type) {
	case map[string]interface{}:
		return t
	case map[string]string:
		out := make(map[string]interface{}, len(t))
		for k, v := range t {
			out[k] = v
		}
		return out
	default:
		return nil
	}
}

// toFloat converts like a loose numeric cast: unparsable input is 0.
func toFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// orFalse returns s when ok is set, and false otherwise.
func orFalse(s string, ok bool) interface{} {
	if !ok {
		return false
	}
	return s
}

func joinURL(root, path string) string {
	return strings.TrimRight(root, "/") + "/" + strings.TrimLeft(path, "/")
}
