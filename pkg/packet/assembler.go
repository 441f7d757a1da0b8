package packet

import (
	"sort"

	"github.com/arcturial/clickatell/pkg/apierror"
)

// ExtraMap maps a public extra-parameter name to its wire field name.
type ExtraMap map[string]string

// Supported returns the public names in sorted order.
func (m ExtraMap) Supported() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// LegacyExtras is the allow-list of the HTTP, XML and SOAP transports.
var LegacyExtras = ExtraMap{
	"unicode":             "unicode",
	"binary":              "binary",
	"gateway_escalation":  "escalate",
	"user_priority_queue": "queue",
	"client_message_id":   "cliMsgId",
	"max_credits":         "max_credits",
	"required_features":   "req_feat",
	"concatenation":       "concat",
	"delivery_time":       "deliv_time",
	"udh":                 "udh",
	"validity_period":     "validity",
	"type":                "msg_type",
	"two-way_messaging":   "mo",
}

// RestExtras is the allow-list of the REST transport.
var RestExtras = ExtraMap{
	"unicode":             "unicode",
	"binary":              "binary",
	"gateway_escalation":  "escalate",
	"user_priority_queue": "userPriorityQueue",
	"client_message_id":   "clientMessageId",
	"max_credits":         "maxCredits",
	"required_features":   "requiredFeatures",
	"concatenation":       "maxMessageParts",
	"delivery_time":       "scheduledDeliveryTime",
	"udh":                 "udh",
	"validity_period":     "validityPeriod",
	"type":                "type",
	"two-way_messaging":   "mo",
}

// Args are the per-call arguments in operation order.
type Args []Param

// Assembler resets and fills a packet for each call.
type Assembler struct {
	packet *Packet
}

// NewAssembler creates an Assembler owning p.
func NewAssembler(p *Packet) *Assembler {
	return &Assembler{packet: p}
}

// Packet returns the owned packet.
func (a *Assembler) Packet() *Packet {
	return a.packet
}

// Assemble resets the packet to its identity fields, merges args in order and
// applies extra through allow. Recipient lists stay lists: the form encoding
// comma-joins them without escaping entries, so a recipient containing a comma
// is not supported. Every extra key is checked, in sorted order,
// before any is written: an unknown key fails with UNSUPPORTED_PARAMETER and
// leaves no extra in the packet.
func (a *Assembler) Assemble(args Args, extra map[string]interface{}, allow ExtraMap) (*Packet, error) {
	a.packet.Reset()

	for _, arg := range args {
		a.packet.Set(arg.Key, arg.Value)
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, ok := allow[k]; !ok {
			a.packet.Reset()
			return nil, apierror.UnsupportedParameter(k, allow.Supported())
		}
	}
	for _, k := range keys {
		a.packet.Set(allow[k], extra[k])
	}
	return a.packet, nil
}
