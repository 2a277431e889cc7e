// Package protocol defines the wire vocabulary between clients and the
// collaboration relay: JSON messages over a persistent websocket, one
// connection per client, fire-and-forget in both directions.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"drawboard-backend/internal/shape"
)

var ErrMalformed = errors.New("malformed message")

// Type discriminates the wire messages.
type Type string

const (
	// TypeJoinRoom adds the connection to a room's membership. No
	// persistence, no broadcast.
	TypeJoinRoom Type = "join_room"
	// TypeLeaveRoom removes the connection from a room's membership.
	TypeLeaveRoom Type = "leave_room"
	// TypeChat creates a shape: the client sends a tempId plus the shape,
	// the relay persists it and broadcasts the same event augmented with
	// the durable id.
	TypeChat Type = "chat"
	// TypeUpdate replaces a shape wholesale, keyed by durable id.
	TypeUpdate Type = "update"
	// TypeDelete removes a shape by durable id.
	TypeDelete Type = "delete"
	// TypeReorder broadcasts a full z-order id list. Never persisted: a
	// newly joining client only sees the persisted creation order.
	TypeReorder Type = "reorder"
)

// Message is the single wire envelope; unused fields are omitted per type.
type Message struct {
	Type   Type         `json:"type"`
	RoomID string       `json:"roomId,omitempty"`
	ID     string       `json:"id,omitempty"`
	TempID string       `json:"tempId,omitempty"`
	Shape  *shape.Union `json:"shape,omitempty"`
	Order  []string     `json:"order,omitempty"`
}

// Validate checks the structural requirements for the message's type.
// The relay drops anything that fails here without closing the connection.
func (m *Message) Validate() error {
	if m.RoomID == "" {
		return fmt.Errorf("%w: missing roomId", ErrMalformed)
	}
	switch m.Type {
	case TypeJoinRoom, TypeLeaveRoom:
		return nil
	case TypeChat:
		if m.TempID == "" {
			return fmt.Errorf("%w: chat without tempId", ErrMalformed)
		}
		if m.Shape == nil || m.Shape.Shape == nil {
			return fmt.Errorf("%w: chat without shape", ErrMalformed)
		}
		return nil
	case TypeUpdate:
		if m.ID == "" {
			return fmt.Errorf("%w: update without id", ErrMalformed)
		}
		if m.Shape == nil || m.Shape.Shape == nil {
			return fmt.Errorf("%w: update without shape", ErrMalformed)
		}
		return nil
	case TypeDelete:
		if m.ID == "" {
			return fmt.Errorf("%w: delete without id", ErrMalformed)
		}
		return nil
	case TypeReorder:
		if len(m.Order) == 0 {
			return fmt.Errorf("%w: reorder without order", ErrMalformed)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown type %q", ErrMalformed, m.Type)
	}
}

// Decode parses and validates a raw inbound frame.
func Decode(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Encode serializes a message for the wire.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// LooksDurable reports whether id has the form of a relay-minted identity
// (a positive decimal). The relay refuses to issue persistence deletes for
// ids it never minted.
func LooksDurable(id string) bool {
	n, err := strconv.ParseInt(id, 10, 64)
	return err == nil && n > 0
}
