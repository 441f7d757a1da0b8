package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arcturial/clickatell/pkg/apierror"
	"github.com/arcturial/clickatell/pkg/transport"
)

// Gateway-only error codes.
const (
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeInternal        = "INTERNAL_ERROR"
)

// Gateway methods answered without touching the transport.
const (
	MethodHealth     = "health"
	MethodOperations = "operations"
)

// Serve runs a gateway request and returns its response envelope. It never
// returns nil.
func (d *Dispatcher) Serve(ctx context.Context, req *CallRequest) *CallResponse {
	slog.Debug(fmt.Sprintf("%s - method=%s id=%s", logPrefix, req.Method, req.ID))

	switch req.Method {
	case "":
		return errorResponse(req.ID, CodeInvalidArgument, "Missing method", false)
	case MethodHealth:
		return d.handleHealth(req)
	case MethodOperations:
		return &CallResponse{ID: req.ID, Ok: true, Result: d.Operations()}
	}

	var spec transport.OperationSpec
	if d.transport != nil {
		spec, _ = transport.Lookup(d.transport, req.Method)
	}
	args, err := decodeParams(spec, req.Params)
	if err != nil {
		return errorResponse(req.ID, CodeInvalidArgument, fmt.Sprintf("Failed to parse %s params", req.Method), false)
	}

	if req.Ctx != nil && req.Ctx.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.Ctx.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	out, err := d.Call(ctx, req.Method, args...)
	if err != nil {
		return callErrorToResponse(req.ID, err)
	}
	return &CallResponse{ID: req.ID, Ok: true, Result: out}
}

func (d *Dispatcher) handleHealth(req *CallRequest) *CallResponse {
	name := ""
	if d.transport != nil {
		name = d.transport.Name()
	}
	return &CallResponse{
		ID: req.ID,
		Ok: true,
		Result: map[string]interface{}{
			"status":     "ok",
			"transport":  name,
			"translator": d.translator.Name(),
		},
	}
}

// decodeParams accepts a positional array or an object keyed by the
// operation's parameter names. Absent params mean no arguments.
func decodeParams(spec transport.OperationSpec, raw json.RawMessage) ([]interface{}, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var args []interface{}
		if err := json.Unmarshal(trimmed, &args); err != nil {
			return nil, fmt.Errorf("%s - failed to decode positional params: %w", logPrefix, err)
		}
		return args, nil
	}

	var named map[string]interface{}
	if err := json.Unmarshal(trimmed, &named); err != nil {
		return nil, fmt.Errorf("%s - failed to decode named params: %w", logPrefix, err)
	}

	last := -1
	for i, name := range spec.Params {
		if _, ok := named[name]; ok {
			last = i
		}
	}
	args := make([]interface{}, last+1)
	for i := 0; i <= last; i++ {
		args[i] = named[spec.Params[i]]
	}
	return args, nil
}

// errorResponse creates an error CallResponse.
func errorResponse(id, code, message string, retryable bool) *CallResponse {
	return &CallResponse{
		ID: id,
		Ok: false,
		Error: &ErrorDetail{
			Code:      code,
			Message:   message,
			Retryable: retryable,
		},
	}
}

// callErrorToResponse converts an SDK error to a CallResponse. Transfer
// failures and unknown errors are retryable.
func callErrorToResponse(id string, err error) *CallResponse {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		details := apiErr.Details
		if apiErr.Field != "" || apiErr.RemoteCode != 0 {
			details = map[string]interface{}{
				"kind":       apiErr.Details,
				"field":      apiErr.Field,
				"offset":     apiErr.Offset,
				"remoteCode": apiErr.RemoteCode,
			}
		}
		return &CallResponse{
			ID: id,
			Ok: false,
			Error: &ErrorDetail{
				Code:      apiErr.Code,
				Message:   apiErr.Message,
				Details:   details,
				Retryable: Retryable(apiErr.Code),
			},
		}
	}
	slog.Error(fmt.Sprintf("%s - internal error: %v", logPrefix, err))
	return errorResponse(id, CodeInternal, err.Error(), true)
}

// Retryable reports whether a caller may retry a request that failed with code.
func Retryable(code string) bool {
	switch code {
	case apierror.CodeTransferFailed, CodeInternal:
		return true
	default:
		return false
	}
}
