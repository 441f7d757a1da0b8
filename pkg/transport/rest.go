package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/arcturial/clickatell/pkg/apierror"
	"github.com/arcturial/clickatell/pkg/diagnostic"
	"github.com/arcturial/clickatell/pkg/envelope"
	"github.com/arcturial/clickatell/pkg/packet"
	"github.com/arcturial/clickatell/pkg/transfer"
	"github.com/arcturial/clickatell/pkg/unwrap"
)

const restLogPrefix = "transport:rest"

// REST API paths.
const (
	PathRestMessage  = "rest/message"
	PathRestBalance  = "rest/account/balance"
	PathRestCoverage = "rest/coverage"
)

// RestAPIVersion is sent as X-Version.
const RestAPIVersion = "1"

// REST talks JSON with a bearer token. Vendor errors in the body are raised
// as REMOTE_ERROR rather than returned as failure envelopes.
type REST struct {
	*base
	root  string
	token string
}

// NewREST creates the REST transport. It always uses https unless BaseURL
// says otherwise.
func NewREST(opts Options) *REST {
	root := opts.BaseURL
	if root == "" {
		root = "https://" + DefaultHost
	}
	t := &REST{
		base:  newBase("rest", opts.Transfer, packet.NewToken(opts.Token), packet.RestExtras),
		root:  root,
		token: opts.Token,
	}
	t.handle(SpecSendMessage, t.sendMessage)
	t.handle(SpecGetBalance, t.getBalance)
	t.handle(SpecQueryMessage, t.queryMessage)
	t.handle(SpecRouteCoverage, t.routeCoverage)
	t.handle(SpecStopMessage, t.stopMessage)
	return t
}

func (t *REST) headers() map[string]string {
	return map[string]string{
		"X-Version":     RestAPIVersion,
		"Authorization": "Bearer " + t.token,
		"Content-Type":  "application/json",
		"Accept":        "application/json",
	}
}

// do runs one request. The decoded data value is returned, or a failure
// envelope holding the raw body when the status is an error without a
// vendor error object.
func (t *REST) do(ctx context.Context, method, path, body string) (interface{}, *envelope.Envelope, error) {
	resp, err := t.execute(ctx, transfer.Request{
		URL:     joinURL(t.root, path),
		Method:  method,
		Body:    body,
		Headers: t.headers(),
	})
	if err != nil {
		return nil, nil, err
	}

	data, err := unwrap.JSON([]byte(resp.Body))
	if errors.Is(err, apierror.ErrRemote) {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		env := envelope.Failure(resp.Body)
		return nil, &env, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s - failed to decode %s response: %w", restLogPrefix, path, err)
	}
	return data, nil, nil
}

func (t *REST) sendMessage(ctx context.Context, args Args) (envelope.Envelope, error) {
	to := args.Strings(0)
	call := packet.Args{
		{Key: "to", Value: to},
		{Key: "text", Value: args.String(1)},
	}
	if from := args.String(2); from != "" {
		call = append(call, packet.Param{Key: "from", Value: from})
	}
	call = append(call, packet.Param{Key: "callback", Value: args.Bool(3, true)})

	p, err := t.assembler.Assemble(call, args.Map(4), t.extras)
	if err != nil {
		return envelope.Envelope{}, err
	}
	body, err := p.JSON()
	if err != nil {
		return envelope.Envelope{}, fmt.Errorf("%s - failed to encode message: %w", restLogPrefix, err)
	}

	data, failure, err := t.do(ctx, http.MethodPost, PathRestMessage, string(body))
	if err != nil {
		return envelope.Envelope{}, err
	}
	if failure != nil {
		return *failure, nil
	}
	return messageRows(data, packet.Format(to)), nil
}

// messageRows maps data.message[] entries to {apiMsgId, to, error} rows.
func messageRows(data interface{}, to string) envelope.Envelope {
	doc, _ := data.(map[string]interface{})
	entries, _ := doc["message"].([]interface{})

	failed := false
	rows := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		entry, _ := e.(map[string]interface{})
		row := map[string]interface{}{
			"apiMsgId": false,
			"to":       to,
			"error":    false,
		}
		if id, ok := entry["apiMessageId"]; ok && id != nil {
			row["apiMsgId"] = fmt.Sprint(id)
		}
		if dest, ok := entry["to"]; ok && dest != nil {
			row["to"] = fmt.Sprint(dest)
		}
		if errObj, ok := entry["error"].(map[string]interface{}); ok {
			row["error"] = fmt.Sprint(errObj["description"])
			failed = true
		}
		rows = append(rows, row)
	}
	if failed {
		return envelope.Failure(rows)
	}
	return envelope.Success(rows)
}

func (t *REST) get(ctx context.Context, method, path string, build func(map[string]interface{}) envelope.Envelope) (envelope.Envelope, error) {
	data, failure, err := t.do(ctx, method, path, "")
	if err != nil {
		return envelope.Envelope{}, err
	}
	if failure != nil {
		return *failure, nil
	}
	doc, _ := data.(map[string]interface{})
	return build(doc), nil
}

func (t *REST) getBalance(ctx context.Context, _ Args) (envelope.Envelope, error) {
	return t.get(ctx, http.MethodGet, PathRestBalance, func(d map[string]interface{}) envelope.Envelope {
		return envelope.Success(map[string]interface{}{"balance": field(d, "balance", 0.0)})
	})
}

func (t *REST) queryMessage(ctx context.Context, args Args) (envelope.Envelope, error) {
	path := PathRestMessage + "/" + url.PathEscape(args.String(0))
	return t.get(ctx, http.MethodGet, path, func(d map[string]interface{}) envelope.Envelope {
		status := text(d, "messageStatus")
		return envelope.Success(map[string]interface{}{
			"apiMsgId":    text(d, "apiMessageId"),
			"status":      status,
			"description": diagnostic.Status(status),
			"charge":      field(d, "charge", 0.0),
		})
	})
}

func (t *REST) stopMessage(ctx context.Context, args Args) (envelope.Envelope, error) {
	path := PathRestMessage + "/" + url.PathEscape(args.String(0))
	return t.get(ctx, http.MethodDelete, path, func(d map[string]interface{}) envelope.Envelope {
		status := text(d, "messageStatus")
		return envelope.Success(map[string]interface{}{
			"apiMsgId":    text(d, "apiMessageId"),
			"status":      status,
			"description": diagnostic.Status(status),
		})
	})
}

func (t *REST) routeCoverage(ctx context.Context, args Args) (envelope.Envelope, error) {
	path := PathRestCoverage + "/" + url.PathEscape(args.String(0))
	return t.get(ctx, http.MethodGet, path, func(d map[string]interface{}) envelope.Envelope {
		routable, _ := d["routable"].(bool)
		return envelope.Success(map[string]interface{}{
			"routable":    routable,
			"destination": text(d, "destination"),
			"charge":      field(d, "minimumCharge", 0.0),
		})
	})
}

// text returns d[key] as a string, or "" when absent.
func text(d map[string]interface{}, key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	return packet.Format(v)
}

// field returns d[key] as a float, or def when it is absent or not numeric.
func field(d map[string]interface{}, key string, def float64) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case string:
		return toFloat(v)
	default:
		return def
	}
}
