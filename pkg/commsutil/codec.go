package commsutil

import (
	"encoding/json"
	"fmt"

	comms "github.com/nats-io/nats.go"
)

// EncodePayload serializes a value to JSON bytes.
func EncodePayload(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// DecodePayload deserializes JSON bytes into the given target.
func DecodePayload(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// Respond encodes v and replies to msg.
func Respond(msg *comms.Msg, v interface{}) error {
	data, err := EncodePayload(v)
	if err != nil {
		return fmt.Errorf("%s - failed to encode reply: %w", logPrefix, err)
	}
	if err := msg.Respond(data); err != nil {
		return fmt.Errorf("%s - failed to respond on %s: %w", logPrefix, msg.Reply, err)
	}
	return nil
}
