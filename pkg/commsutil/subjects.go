package commsutil

import (
	"fmt"
	"strings"
)

// Default NATS subjects.
const (
	SubjectGateway  = "clickatell.gateway.v1"
	SubjectCall     = "clickatell.call"
	SubjectCallback = "clickatell.callback"
)

// BuildCallSubject builds the per-operation subject for completed calls.
func BuildCallSubject(op string) string {
	return fmt.Sprintf("%s.%s", SubjectCall, token(op))
}

// BuildCallbackSubject builds the per-kind subject for received callbacks.
func BuildCallbackSubject(kind string) string {
	return fmt.Sprintf("%s.%s", SubjectCallback, token(kind))
}

// BuildGatewaySubject builds a versioned gateway subject for a service name.
func BuildGatewaySubject(service string, major int) string {
	return fmt.Sprintf("clickatell.%s.v%d", token(service), major)
}

// token makes s safe as a single subject token.
func token(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return strings.NewReplacer(".", "_", " ", "_", "*", "_", ">", "_").Replace(s)
}
