package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arcturial/clickatell/pkg/apierror"
	"github.com/arcturial/clickatell/pkg/envelope"
	"github.com/arcturial/clickatell/pkg/translate"
	"github.com/arcturial/clickatell/pkg/transport"
	"github.com/arcturial/clickatell/pkg/validate"
)

const logPrefix = "dispatcher:dispatch"

// Output is a translated transport result: a string for the JSON and XML
// translators, the envelope itself for translate.Raw.
type Output = interface{}

// Call describes one dispatched operation.
type Call struct {
	Operation string
	Transport string
	Args      []interface{}
}

// RequestEvent is passed to request listeners before the transport runs.
// Request holds the call arguments keyed by the operation's parameter names.
type RequestEvent struct {
	Call    Call
	Request map[string]interface{}
}

// ResponseEvent is passed to response listeners after translation.
type ResponseEvent struct {
	Call     Call
	Output   Output
	Envelope envelope.Envelope
	Duration time.Duration
}

// RequestListener runs before the transport. A returned error aborts the call.
type RequestListener func(ctx context.Context, ev RequestEvent) error

// ResponseListener runs after translation. It cannot change the result.
type ResponseListener func(ctx context.Context, ev ResponseEvent)

// Dispatcher routes operations to the active transport.
//
// A Dispatcher is single-owner: listeners and the active transport are plain
// fields and must not be mutated concurrently with Call.
type Dispatcher struct {
	transport  transport.Transport
	translator translate.Translator

	requestListeners  []RequestListener
	responseListeners []ResponseListener
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTranslator replaces the JSON translator.
func WithTranslator(tr translate.Translator) Option {
	return func(d *Dispatcher) {
		d.translator = tr
	}
}

// WithValidator replaces the default validation listener with one over v.
func WithValidator(v *validate.Validator) Option {
	return func(d *Dispatcher) {
		d.requestListeners = []RequestListener{ValidationListener(v)}
	}
}

// New creates a Dispatcher over t. A fresh dispatcher translates to JSON and
// has exactly one request listener, the validation listener.
func New(t transport.Transport, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		transport:         t,
		translator:        translate.JSON{},
		requestListeners:  []RequestListener{ValidationListener(validate.Default())},
		responseListeners: nil,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// ValidationListener checks the named request against v's rules.
func ValidationListener(v *validate.Validator) RequestListener {
	return func(_ context.Context, ev RequestEvent) error {
		return v.Validate(ev.Call.Operation, ev.Request)
	}
}

// OnRequest appends a request listener.
func (d *Dispatcher) OnRequest(l RequestListener) {
	d.requestListeners = append(d.requestListeners, l)
}

// OnResponse appends a response listener.
func (d *Dispatcher) OnResponse(l ResponseListener) {
	d.responseListeners = append(d.responseListeners, l)
}

// SetTransport swaps the active transport.
func (d *Dispatcher) SetTransport(t transport.Transport) {
	d.transport = t
}

// Transport returns the active transport.
func (d *Dispatcher) Transport() transport.Transport {
	return d.transport
}

// SetTranslator swaps the output translator.
func (d *Dispatcher) SetTranslator(tr translate.Translator) {
	d.translator = tr
}

// Translator returns the output translator.
func (d *Dispatcher) Translator() translate.Translator {
	return d.translator
}

// Operations returns the active transport's operation table.
func (d *Dispatcher) Operations() []transport.OperationSpec {
	if d.transport == nil {
		return nil
	}
	return d.transport.Operations()
}

// Call runs op on the active transport with positional args.
func (d *Dispatcher) Call(ctx context.Context, op string, args ...interface{}) (Output, error) {
	if d.transport == nil {
		return nil, apierror.MethodNotFound(op, "")
	}
	spec, ok := transport.Lookup(d.transport, op)
	if !ok {
		return nil, apierror.MethodNotFound(op, d.transport.Name())
	}

	call := Call{Operation: op, Transport: d.transport.Name(), Args: args}
	ev := RequestEvent{Call: call, Request: Named(spec, args)}
	for _, l := range d.requestListeners {
		if err := l(ctx, ev); err != nil {
			slog.Debug(fmt.Sprintf("%s - %s.%s rejected: %v", logPrefix, call.Transport, op, err))
			return nil, err
		}
	}

	start := time.Now()
	env, err := d.transport.Invoke(ctx, op, args)
	if err != nil {
		return nil, err
	}

	out, err := d.translator.Translate(env)
	if err != nil {
		return nil, err
	}

	res := ResponseEvent{Call: call, Output: out, Envelope: env, Duration: time.Since(start)}
	for _, l := range d.responseListeners {
		l(ctx, res)
	}
	return out, nil
}

// Named keys args by the operation's ordered parameter names. Missing trailing
// arguments are left out; surplus ones are ignored.
func Named(spec transport.OperationSpec, args []interface{}) map[string]interface{} {
	named := make(map[string]interface{}, len(spec.Params))
	for i, name := range spec.Params {
		if i >= len(args) {
			break
		}
		named[name] = args[i]
	}
	return named
}
