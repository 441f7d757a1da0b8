// Package dispatcher routes SDK operations to the active transport and serves
// them to remote callers.
package dispatcher

import "encoding/json"

// CallRequest is the JSON envelope for incoming gateway requests.
//
// Params is either a JSON array of positional arguments or an object keyed by
// the operation's parameter names.
type CallRequest struct {
	ID     string             `json:"id"`
	Type   string             `json:"type,omitempty"`
	Method string             `json:"method"`
	Params json.RawMessage    `json:"params,omitempty"`
	Ctx    *InvocationContext `json:"ctx,omitempty"`
}

// CallResponse is the JSON envelope for gateway responses.
type CallResponse struct {
	ID     string       `json:"id"`
	Ok     bool         `json:"ok"`
	Result interface{}  `json:"result,omitempty"`
	Error  *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail holds structured error information.
type ErrorDetail struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Retryable bool        `json:"retryable"`
}

// InvocationContext holds context from the caller.
type InvocationContext struct {
	TenantID      string `json:"tenantId,omitempty"`
	UserID        string `json:"userId,omitempty"`
	RequestID     string `json:"requestId,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
	TimeoutMs     int    `json:"timeoutMs,omitempty"`
}
