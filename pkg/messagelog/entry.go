// Package messagelog keeps an audit row for every completed SDK call.
package messagelog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arcturial/clickatell/pkg/dispatcher"
	"github.com/arcturial/clickatell/pkg/transport"
)

// Entry is one logged call.
type Entry struct {
	ID          uuid.UUID
	Operation   string
	Transport   string
	Status      string
	Recipients  []string
	ClientMsgID string
	APIMsgIDs   []string
	Output      string
	Duration    time.Duration
	CreatedAt   time.Time
}

// FromEvent builds an entry from a dispatcher response. Recipients and the
// client message id are only known for sendMessage.
func FromEvent(ev dispatcher.ResponseEvent) *Entry {
	e := &Entry{
		Operation: ev.Call.Operation,
		Transport: ev.Call.Transport,
		Status:    string(ev.Envelope.Result.Status),
		APIMsgIDs: apiMsgIDs(ev.Envelope.Result.Response),
		Output:    outputText(ev.Output),
		Duration:  ev.Duration,
	}
	if ev.Call.Operation == transport.OpSendMessage {
		if len(ev.Call.Args) > 0 {
			e.Recipients = recipients(ev.Call.Args[0])
		}
		if len(ev.Call.Args) > 4 {
			if extra, ok := ev.Call.Args[4].(map[string]interface{}); ok {
				if id, ok := extra["client_message_id"]; ok {
					e.ClientMsgID = fmt.Sprint(id)
				}
			}
		}
	}
	return e
}

func recipients(v interface{}) []string {
	switch to := v.(type) {
	case []string:
		return to
	case []interface{}:
		out := make([]string, 0, len(to))
		for _, r := range to {
			out = append(out, fmt.Sprint(r))
		}
		return out
	case string:
		return strings.Split(to, ",")
	default:
		return nil
	}
}

func apiMsgIDs(resp interface{}) []string {
	var rows []map[string]interface{}
	switch r := resp.(type) {
	case map[string]interface{}:
		rows = []map[string]interface{}{r}
	case []map[string]interface{}:
		rows = r
	case []interface{}:
		for _, item := range r {
			if m, ok := item.(map[string]interface{}); ok {
				rows = append(rows, m)
			}
		}
	}

	var ids []string
	for _, row := range rows {
		if id, ok := row["apiMsgId"].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// outputText keeps translated string output as is and encodes anything else
// (translate.Raw output) as JSON.
func outputText(out dispatcher.Output) string {
	if s, ok := out.(string); ok {
		return s
	}
	b, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprint(out)
	}
	return string(b)
}

func toModel(e *Entry) *MessageModel {
	return &MessageModel{
		ID:          e.ID,
		Operation:   e.Operation,
		Transport:   e.Transport,
		Status:      e.Status,
		Recipients:  strings.Join(e.Recipients, ","),
		ClientMsgID: e.ClientMsgID,
		APIMsgIDs:   strings.Join(e.APIMsgIDs, ","),
		Output:      e.Output,
		DurationMs:  e.Duration.Milliseconds(),
		CreatedAt:   e.CreatedAt,
	}
}

func toEntry(m *MessageModel) *Entry {
	return &Entry{
		ID:          m.ID,
		Operation:   m.Operation,
		Transport:   m.Transport,
		Status:      m.Status,
		Recipients:  splitList(m.Recipients),
		ClientMsgID: m.ClientMsgID,
		APIMsgIDs:   splitList(m.APIMsgIDs),
		Output:      m.Output,
		Duration:    time.Duration(m.DurationMs) * time.Millisecond,
		CreatedAt:   m.CreatedAt,
	}
}

func toEntries(models []MessageModel) []*Entry {
	out := make([]*Entry, len(models))
	for i := range models {
		out[i] = toEntry(&models[i])
	}
	return out
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
