// Package callback parses delivery and reply callbacks pushed by the vendor.
//
// Every parser only fires on a complete key set. A partial set is not an
// error: the request simply was not a callback of that kind.
package callback

import (
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
)

// Kinds of callback.
const (
	KindMT         = "mt"
	KindMO         = "mo"
	KindRESTStatus = "status"
	KindRESTReply  = "reply"
)

// Required key sets.
var (
	MTKeys         = []string{"apiMsgId", "cliMsgId", "to", "timestamp", "from", "status", "charge"}
	MOKeys         = []string{"api_id", "moMsgId", "from", "to", "timestamp", "text", "network"}
	MOOptionalKeys = []string{"charset", "udh"}
	RESTStatusKeys = []string{
		"apiKey", "messageId", "requestId", "clientMessageId", "to", "from",
		"status", "statusDescription", "timestamp",
	}
	RESTReplyKeys = []string{
		"integrationId", "messageId", "replyMessageId", "apiKey", "fromNumber", "toNumber",
		"timestamp", "text", "charset", "udh", "network", "keyword",
	}
)

// Record is the transport-neutral form of any callback, the shape the
// callback store and the event publishers work with.
type Record struct {
	Kind        string            `json:"kind"`
	APIMsgID    string            `json:"apiMsgId"`
	ClientMsgID string            `json:"clientMsgId,omitempty"`
	From        string            `json:"from"`
	To          string            `json:"to"`
	Status      string            `json:"status,omitempty"`
	Charge      string            `json:"charge,omitempty"`
	Text        string            `json:"text,omitempty"`
	Timestamp   string            `json:"timestamp"`
	Fields      map[string]string `json:"fields"`
}

// Status is a legacy MT delivery status callback.
type Status struct {
	APIMsgID  string
	CliMsgID  string
	To        string
	Timestamp string
	From      string
	Status    string
	Charge    string
	Fields    map[string]string
}

// Record returns the neutral form of s.
func (s *Status) Record() Record {
	return Record{
		Kind:        KindMT,
		APIMsgID:    s.APIMsgID,
		ClientMsgID: s.CliMsgID,
		From:        s.From,
		To:          s.To,
		Status:      s.Status,
		Charge:      s.Charge,
		Timestamp:   s.Timestamp,
		Fields:      s.Fields,
	}
}

// Reply is a legacy MO (mobile originated) reply callback.
type Reply struct {
	APIID     string
	MoMsgID   string
	From      string
	To        string
	Timestamp string
	Text      string
	Network   string
	Charset   string
	UDH       string
	Fields    map[string]string
}

// Record returns the neutral form of r.
func (r *Reply) Record() Record {
	return Record{
		Kind:      KindMO,
		APIMsgID:  r.MoMsgID,
		From:      r.From,
		To:        r.To,
		Text:      r.Text,
		Timestamp: r.Timestamp,
		Fields:    r.Fields,
	}
}

// RESTStatus is a REST API status callback.
type RESTStatus struct {
	APIKey            string
	MessageID         string
	RequestID         string
	ClientMessageID   string
	To                string
	From              string
	Status            string
	StatusDescription string
	Timestamp         string
	Fields            map[string]string
}

// Record returns the neutral form of s.
func (s *RESTStatus) Record() Record {
	return Record{
		Kind:        KindRESTStatus,
		APIMsgID:    s.MessageID,
		ClientMsgID: s.ClientMessageID,
		From:        s.From,
		To:          s.To,
		Status:      s.Status,
		Timestamp:   s.Timestamp,
		Fields:      s.Fields,
	}
}

// RESTReply is a REST API reply callback.
type RESTReply struct {
	IntegrationID  string
	MessageID      string
	ReplyMessageID string
	APIKey         string
	FromNumber     string
	ToNumber       string
	Timestamp      string
	Text           string
	Charset        string
	UDH            string
	Network        string
	Keyword        string
	Fields         map[string]string
}

// Record returns the neutral form of r.
func (r *RESTReply) Record() Record {
	return Record{
		Kind:      KindRESTReply,
		APIMsgID:  r.MessageID,
		From:      r.FromNumber,
		To:        r.ToNumber,
		Text:      r.Text,
		Timestamp: r.Timestamp,
		Fields:    r.Fields,
	}
}

// ParseMT parses a legacy delivery status callback from query values.
func ParseMT(values url.Values) (*Status, bool) {
	f, ok := pick(flatten(values), MTKeys, nil)
	if !ok {
		return nil, false
	}
	return &Status{
		APIMsgID:  f["apiMsgId"],
		CliMsgID:  f["cliMsgId"],
		To:        f["to"],
		Timestamp: f["timestamp"],
		From:      f["from"],
		Status:    f["status"],
		Charge:    f["charge"],
		Fields:    f,
	}, true
}

// ParseMO parses a legacy reply callback from query values. charset and udh
// are passed through when present.
func ParseMO(values url.Values) (*Reply, bool) {
	f, ok := pick(flatten(values), MOKeys, MOOptionalKeys)
	if !ok {
		return nil, false
	}
	return &Reply{
		APIID:     f["api_id"],
		MoMsgID:   f["moMsgId"],
		From:      f["from"],
		To:        f["to"],
		Timestamp: f["timestamp"],
		Text:      f["text"],
		Network:   f["network"],
		Charset:   f["charset"],
		UDH:       f["udh"],
		Fields:    f,
	}, true
}

// ParseRESTStatus parses a REST status callback body. A body that is not a
// JSON object is not a callback.
func ParseRESTStatus(body []byte) (*RESTStatus, bool) {
	doc, ok := decode(body)
	if !ok {
		return nil, false
	}
	f, ok := pick(doc, RESTStatusKeys, nil)
	if !ok {
		return nil, false
	}
	return &RESTStatus{
		APIKey:            f["apiKey"],
		MessageID:         f["messageId"],
		RequestID:         f["requestId"],
		ClientMessageID:   f["clientMessageId"],
		To:                f["to"],
		From:              f["from"],
		Status:            f["status"],
		StatusDescription: f["statusDescription"],
		Timestamp:         f["timestamp"],
		Fields:            f,
	}, true
}

// ParseRESTReply parses a REST reply callback body.
func ParseRESTReply(body []byte) (*RESTReply, bool) {
	doc, ok := decode(body)
	if !ok {
		return nil, false
	}
	f, ok := pick(doc, RESTReplyKeys, nil)
	if !ok {
		return nil, false
	}
	return &RESTReply{
		IntegrationID:  f["integrationId"],
		MessageID:      f["messageId"],
		ReplyMessageID: f["replyMessageId"],
		APIKey:         f["apiKey"],
		FromNumber:     f["fromNumber"],
		ToNumber:       f["toNumber"],
		Timestamp:      f["timestamp"],
		Text:           f["text"],
		Charset:        f["charset"],
		UDH:            f["udh"],
		Network:        f["network"],
		Keyword:        f["keyword"],
		Fields:         f,
	}, true
}

// Keys returns the sorted keys of a field map.
func Keys(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// pick returns the required and optional keys of src, or false when any
// required key is missing.
func pick(src map[string]string, required, optional []string) (map[string]string, bool) {
	out := make(map[string]string, len(required)+len(optional))
	for _, k := range required {
		v, ok := src[k]
		if !ok {
			return nil, false
		}
		out[k] = v
	}
	for _, k := range optional {
		if v, ok := src[k]; ok {
			out[k] = v
		}
	}
	return out, true
}

func flatten(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func decode(body []byte) (map[string]string, bool) {
	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil || doc == nil {
		return nil, false
	}
	out := make(map[string]string, len(doc))
	for k, v := range doc {
		out[k] = scalar(v)
	}
	return out, true
}

func scalar(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		data, _ := json.Marshal(t)
		return string(data)
	}
}
