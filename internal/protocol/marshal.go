package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnexpectedType is returned by Decode when the envelope carries a
// different message type than requested.
var ErrUnexpectedType = errors.New("unexpected message type")

// Message is the envelope for every frame.
type Message struct {
	Type Type            `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewMessage wraps payload in an envelope of the given type.
func NewMessage(t Type, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", t, err)
	}
	return &Message{Type: t, Data: data}, nil
}

// Marshal encodes payload as a complete frame.
func Marshal(t Type, payload any) ([]byte, error) {
	msg, err := NewMessage(t, payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(msg)
}

// Unmarshal decodes the envelope of a frame. The payload is left raw until
// Decode is called.
func Unmarshal(frame []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(frame, &msg); err != nil {
		return nil, fmt.Errorf("decoding message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("decoding message: missing type")
	}
	return &msg, nil
}

// Decode unpacks the payload into v after checking the message type.
func (m *Message) Decode(t Type, v any) error {
	if m.Type != t {
		return fmt.Errorf("%w: got %q, want %q", ErrUnexpectedType, m.Type, t)
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decoding %s payload: %w", t, err)
	}
	return nil
}
