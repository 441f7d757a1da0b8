package clickatell

import (
	"context"
	"fmt"

	"github.com/arcturial/clickatell/pkg/apierror"
	"github.com/arcturial/clickatell/pkg/envelope"
	"github.com/arcturial/clickatell/pkg/legacy"
	"github.com/arcturial/clickatell/pkg/packet"
	"github.com/arcturial/clickatell/pkg/translate"
	"github.com/arcturial/clickatell/pkg/transport"
)

// SendResult is the outcome for one recipient. Error is empty on success.
type SendResult struct {
	APIMsgID string `json:"apiMsgId"`
	To       string `json:"to"`
	Error    string `json:"error,omitempty"`
}

// MessageStatus is a decoded queryMessage, stopMessage or getMessageCharge result.
type MessageStatus struct {
	APIMsgID    string  `json:"apiMsgId"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
	Charge      float64 `json:"charge"`
}

// Coverage is a decoded routeCoverage result.
type Coverage struct {
	Description string  `json:"description,omitempty"`
	Routable    bool    `json:"routable"`
	Charge      float64 `json:"charge"`
}

// Envelope runs op and returns the untranslated envelope. Listeners see the
// envelope as their output.
func (c *Client) Envelope(ctx context.Context, op string, args ...interface{}) (envelope.Envelope, error) {
	prev := c.dispatcher.Translator()
	c.dispatcher.SetTranslator(translate.Raw{})
	defer c.dispatcher.SetTranslator(prev)

	out, err := c.dispatcher.Call(ctx, op, args...)
	if err != nil {
		return envelope.Envelope{}, err
	}
	env, ok := out.(envelope.Envelope)
	if !ok {
		return envelope.Envelope{}, fmt.Errorf("%s - unexpected output %T", logPrefix, out)
	}
	return env, nil
}

// Send sends message and decodes the per-recipient results. Per-recipient
// errors are reported in the results; only a failure of the whole call is
// returned as an error.
func (c *Client) Send(ctx context.Context, to []string, message string, opts ...SendOption) ([]SendResult, error) {
	env, err := c.Envelope(ctx, transport.OpSendMessage, sendArgs(to, message, opts)...)
	if err != nil {
		return nil, err
	}

	switch resp := env.Result.Response.(type) {
	case []map[string]interface{}:
		out := make([]SendResult, 0, len(resp))
		for _, row := range resp {
			out = append(out, SendResult{
				APIMsgID: str(row["apiMsgId"]),
				To:       str(row["to"]),
				Error:    str(row["error"]),
			})
		}
		return out, nil
	case map[string]interface{}:
		if !env.Ok() {
			return nil, failure(resp)
		}
		return []SendResult{{APIMsgID: str(resp["apiMsgId"]), To: packet.Format(to)}}, nil
	default:
		if !env.Ok() {
			return nil, failure(resp)
		}
		return nil, fmt.Errorf("%s - unexpected send response %T", logPrefix, resp)
	}
}

// Balance returns the account balance.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	m, err := c.result(ctx, transport.OpGetBalance)
	if err != nil {
		return 0, err
	}
	return num(m["balance"]), nil
}

// Status returns the delivery status of a message.
func (c *Client) Status(ctx context.Context, apiMsgID string) (*MessageStatus, error) {
	return c.status(ctx, transport.OpQueryMessage, apiMsgID)
}

// Charge returns the charge and status of a message.
func (c *Client) Charge(ctx context.Context, apiMsgID string) (*MessageStatus, error) {
	return c.status(ctx, transport.OpGetMessageCharge, apiMsgID)
}

// Stop stops a message and returns its final status.
func (c *Client) Stop(ctx context.Context, apiMsgID string) (*MessageStatus, error) {
	return c.status(ctx, transport.OpStopMessage, apiMsgID)
}

// Coverage reports whether msisdn can be reached and at what minimum charge.
func (c *Client) Coverage(ctx context.Context, msisdn string) (*Coverage, error) {
	m, err := c.result(ctx, transport.OpRouteCoverage, msisdn)
	if err != nil {
		return nil, err
	}
	cov := &Coverage{Description: str(m["description"]), Charge: num(m["charge"]), Routable: true}
	if r, ok := m["routable"].(bool); ok {
		cov.Routable = r
	}
	return cov, nil
}

func (c *Client) status(ctx context.Context, op, apiMsgID string) (*MessageStatus, error) {
	m, err := c.result(ctx, op, apiMsgID)
	if err != nil {
		return nil, err
	}
	id := str(m["apiMsgId"])
	if id == "" {
		id = apiMsgID
	}
	return &MessageStatus{
		APIMsgID:    id,
		Status:      str(m["status"]),
		Description: str(m["description"]),
		Charge:      num(m["charge"]),
	}, nil
}

// result runs op and returns its map payload, turning a failure envelope
// into an error.
func (c *Client) result(ctx context.Context, op string, args ...interface{}) (map[string]interface{}, error) {
	env, err := c.Envelope(ctx, op, args...)
	if err != nil {
		return nil, err
	}
	if !env.Ok() {
		return nil, failure(env.Result.Response)
	}
	m, ok := env.Result.Response.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%s - unexpected %s response %T", logPrefix, op, env.Result.Response)
	}
	return m, nil
}

// failure converts a failure payload such as "001, Authentication failed"
// into a REMOTE_ERROR.
func failure(payload interface{}) error {
	code, msg := legacy.SplitError(str(payload))
	return apierror.Remote(msg, code)
}

func str(v interface{}) string {
	switch t := v.(type) {
	case nil, bool:
		return ""
	case string:
		return t
	default:
		return packet.Format(t)
	}
}

func num(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	default:
		return 0
	}
}
