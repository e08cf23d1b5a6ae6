// Package packet defines the JSON messages exchanged with a viewer over the
// session websocket. Every message travels inside an Envelope whose Type
// selects the payload.
package packet

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Type names a message kind.
type Type string

// Clientbound message types.
const (
	TypeHello  Type = "hello"
	TypeMesh   Type = "mesh"
	TypeRemove Type = "remove"
	TypeFrame  Type = "frame"
)

// Serverbound message types.
const (
	TypeInput Type = "input"
)

// ErrUnknownType is returned when decoding a message of an unexpected type.
var ErrUnknownType = errors.New("unknown message type")

// Envelope wraps a payload with its type.
type Envelope struct {
	Type Type            `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Message is implemented by every payload.
type Message interface {
	MessageType() Type
}

// Encode wraps m in an envelope and marshals it.
func Encode(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", m.MessageType(), err)
	}
	out, err := json.Marshal(Envelope{Type: m.MessageType(), Data: data})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return out, nil
}

// Decode unmarshals an envelope and its payload. Only serverbound types are
// accepted.
func Decode(raw []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("parse envelope: %w", err)
	}
	switch env.Type {
	case TypeInput:
		var in Input
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &in); err != nil {
				return nil, fmt.Errorf("parse input: %w", err)
			}
		}
		return &in, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}
