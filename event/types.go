package event

import "time"

// Type discriminates the event payload on the wire.
type Type string

const (
	TypeJoin           Type = "join"
	TypeRosterChanged  Type = "roster-changed"
	TypeRosterSnapshot Type = "roster-snapshot"
	TypeChatMessage    Type = "chat-message"
	TypeProgressUpdate Type = "progress-update"
	TypeError          Type = "error"
)

// ClientOriginated reports whether clients may send events of type t.
// Roster and error events are produced by the server only.
func (t Type) ClientOriginated() bool {
	switch t {
	case TypeJoin, TypeChatMessage, TypeProgressUpdate:
		return true
	}
	return false
}

// Change says what caused a roster-changed event.
type Change string

const (
	ChangeJoined Change = "joined"
	ChangeLeft   Change = "left"
)

// MaxChatLength bounds chat text, in bytes.
const MaxChatLength = 2000

// Payload is implemented by every event variant.
type Payload interface {
	EventType() Type
}

// Member is the public view of a participant.
type Member struct {
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName"`
}

// Join asks the gateway to bind the sending channel to a session.
type Join struct {
	SessionID     string `json:"sessionId" validate:"required,notblank,max=32"`
	ParticipantID string `json:"participantId" validate:"required,notblank,printascii,max=64"`
	DisplayName   string `json:"displayName" validate:"max=64"`
}

// RosterChanged carries the full roster after a join or a departure.
type RosterChanged struct {
	Participants []Member `json:"participants"`
	TotalCount   int      `json:"totalCount"`
	DisplayName  string   `json:"displayName,omitempty"`
	Change       Change   `json:"change,omitempty"`
}

// RosterSnapshot is sent only to a channel that just joined.
type RosterSnapshot struct {
	Participants []Member `json:"participants"`
}

// ChatMessage is relayed to every other participant of the session. The
// gateway overwrites the sender fields with the channel's binding.
type ChatMessage struct {
	SessionID     string    `json:"sessionId" validate:"max=32"`
	ParticipantID string    `json:"participantId" validate:"max=64"`
	DisplayName   string    `json:"displayName" validate:"max=64"`
	Text          string    `json:"text" validate:"required,notblank,max=2000"`
	Timestamp     time.Time `json:"timestamp,omitzero"`
}

// ProgressUpdate reports how far a participant has got through a shared
// activity. Value is a percentage.
type ProgressUpdate struct {
	SessionID   string  `json:"sessionId" validate:"max=32"`
	DisplayName string  `json:"displayName" validate:"max=64"`
	Stage       string  `json:"stage" validate:"required,notblank,max=64"`
	Value       float64 `json:"value" validate:"gte=0,lte=100"`
	Status      string  `json:"status" validate:"max=256"`
}

// Error is sent to a single channel, e.g. after a join to an unknown session.
type Error struct {
	Message string `json:"message"`
}

// MessageSessionNotFound is the Error text for a join to an unknown session.
const MessageSessionNotFound = "Session not found"

func (Join) EventType() Type           { return TypeJoin }
func (RosterChanged) EventType() Type  { return TypeRosterChanged }
func (RosterSnapshot) EventType() Type { return TypeRosterSnapshot }
func (ChatMessage) EventType() Type    { return TypeChatMessage }
func (ProgressUpdate) EventType() Type { return TypeProgressUpdate }
func (Error) EventType() Type          { return TypeError }
