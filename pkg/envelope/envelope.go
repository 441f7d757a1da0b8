// Package envelope holds the {status, response} wrapper every transport returns.
package envelope

// Status of a wrapped response.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Result is the inner {status, response} pair.
type Result struct {
	Status   Status      `json:"status" xml:"status"`
	Response interface{} `json:"response" xml:"response"`
}

// Envelope is the uniform transport output.
type Envelope struct {
	Result Result `json:"result" xml:"result"`
}

// Wrap builds an envelope. It never fails.
func Wrap(status Status, payload interface{}) Envelope {
	return Envelope{Result: Result{Status: status, Response: payload}}
}

// Success wraps payload with StatusSuccess.
func Success(payload interface{}) Envelope {
	return Wrap(StatusSuccess, payload)
}

// Failure wraps payload with StatusFailure.
func Failure(payload interface{}) Envelope {
	return Wrap(StatusFailure, payload)
}

// Ok reports whether the envelope carries a success status.
func (e Envelope) Ok() bool {
	return e.Result.Status == StatusSuccess
}

// Map returns the envelope as nested maps, the shape the translators encode.
func (e Envelope) Map() map[string]interface{} {
	return map[string]interface{}{
		"result": map[string]interface{}{
			"status":   string(e.Result.Status),
			"response": e.Result.Response,
		},
	}
}
