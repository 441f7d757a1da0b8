package db

import "time"

// Callback represents a row in the callbacks table.
type Callback struct {
	ID              string            `json:"id"`
	Kind            string            `json:"kind"`
	APIMsgID        string            `json:"apiMsgId"`
	ClientMsgID     string            `json:"clientMsgId,omitempty"`
	Sender          string            `json:"from"`
	Recipient       string            `json:"to"`
	Status          string            `json:"status,omitempty"`
	Charge          string            `json:"charge,omitempty"`
	Body            string            `json:"text,omitempty"`
	VendorTimestamp string            `json:"timestamp"`
	Fields          map[string]string `json:"fields"`
	Received        time.Time         `json:"received"`
}
