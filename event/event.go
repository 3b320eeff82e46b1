package event

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "github.com/kbukum/sessionkit/errors"
	"github.com/kbukum/sessionkit/validation"
)

// Event is an immutable, typed message exchanged over a channel.
type Event struct {
	payload Payload
}

// New wraps p.
func New(p Payload) Event {
	return Event{payload: p}
}

// Type returns the payload's type, or "" for the zero Event.
func (e Event) Type() Type {
	if e.payload == nil {
		return ""
	}
	return e.payload.EventType()
}

// Payload returns the wrapped variant. Use a type switch to inspect it.
func (e Event) Payload() Payload {
	return e.payload
}

type envelope struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Encode renders e as a {"type","payload"} JSON envelope.
func Encode(e Event) ([]byte, error) {
	if e.payload == nil {
		return nil, fmt.Errorf("event: encode empty event")
	}
	body, err := json.Marshal(e.payload)
	if err != nil {
		return nil, fmt.Errorf("event: encode %s: %w", e.Type(), err)
	}
	return json.Marshal(envelope{Type: e.Type(), Payload: body})
}

// Decode parses and validates an envelope. Any failure is a
// PROTOCOL_VIOLATION AppError.
func Decode(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Event{}, apperrors.ProtocolViolation("malformed event envelope").WithCause(err)
	}
	if env.Type == "" {
		return Event{}, apperrors.ProtocolViolation("event type is missing")
	}
	if len(bytes.TrimSpace(env.Payload)) == 0 || bytes.Equal(bytes.TrimSpace(env.Payload), []byte("null")) {
		return Event{}, apperrors.ProtocolViolation(fmt.Sprintf("%s event has no payload", env.Type)).
			WithDetail("type", string(env.Type))
	}

	var (
		p   Payload
		err error
	)
	switch env.Type {
	case TypeJoin:
		p, err = decodeAs[Join](env.Payload)
	case TypeRosterChanged:
		p, err = decodeAs[RosterChanged](env.Payload)
	case TypeRosterSnapshot:
		p, err = decodeAs[RosterSnapshot](env.Payload)
	case TypeChatMessage:
		p, err = decodeAs[ChatMessage](env.Payload)
	case TypeProgressUpdate:
		p, err = decodeAs[ProgressUpdate](env.Payload)
	case TypeError:
		p, err = decodeAs[Error](env.Payload)
	default:
		return Event{}, apperrors.ProtocolViolation(fmt.Sprintf("unknown event type %q", env.Type)).
			WithDetail("type", string(env.Type))
	}
	if err != nil {
		return Event{}, apperrors.ProtocolViolation(fmt.Sprintf("invalid %s payload", env.Type)).
			WithDetail("type", string(env.Type)).WithCause(err)
	}
	return New(p), nil
}

func decodeAs[T Payload](raw json.RawMessage) (Payload, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if err := validation.Validate(v); err != nil {
		return nil, err
	}
	return v, nil
}
