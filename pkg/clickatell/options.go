package clickatell

import (
	"github.com/google/uuid"
)

// Extra parameter names accepted by every transport that supports extras.
const (
	ExtraClientMessageID = "client_message_id"
	ExtraUnicode         = "unicode"
	ExtraConcatenation   = "concatenation"
	ExtraDeliveryTime    = "delivery_time"
	ExtraValidityPeriod  = "validity_period"
	ExtraMaxCredits      = "max_credits"
	ExtraTwoWay          = "two-way_messaging"
)

type sendOptions struct {
	from     string
	callback bool
	extra    map[string]interface{}
}

// SendOption customises a SendMessage call.
type SendOption func(*sendOptions)

// WithFrom sets the sender id.
func WithFrom(from string) SendOption {
	return func(o *sendOptions) {
		o.from = from
	}
}

// WithCallback toggles delivery callbacks. They are on by default.
func WithCallback(enabled bool) SendOption {
	return func(o *sendOptions) {
		o.callback = enabled
	}
}

// WithExtra sets an extra parameter by its public name. The active transport
// rejects names outside its allow-list.
func WithExtra(name string, value interface{}) SendOption {
	return func(o *sendOptions) {
		if o.extra == nil {
			o.extra = make(map[string]interface{})
		}
		o.extra[name] = value
	}
}

// WithClientMessageID tags the message with id, or a fresh UUID when id is empty.
func WithClientMessageID(id string) SendOption {
	if id == "" {
		id = uuid.NewString()
	}
	return WithExtra(ExtraClientMessageID, id)
}

// WithUnicode marks the text as unicode.
func WithUnicode() SendOption {
	return WithExtra(ExtraUnicode, 1)
}

func sendArgs(to []string, message string, opts []SendOption) []interface{} {
	o := sendOptions{callback: true}
	for _, fn := range opts {
		fn(&o)
	}
	args := []interface{}{to, message, o.from, o.callback}
	if len(o.extra) > 0 {
		args = append(args, o.extra)
	}
	return args
}
