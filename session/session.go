package session

import (
	"sync"
	"time"

	"github.com/samber/lo"
)

// Participant is a member of a session. ChannelID is the gateway's handle for
// the live channel the participant joined over; empty once released.
type Participant struct {
	ID          string    `json:"participantId"`
	DisplayName string    `json:"displayName"`
	ChannelID   string    `json:"-"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// Session is a short-code room. Its roster is guarded by its own mutex so
// work on one session never blocks another.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	order   []string
	members map[string]*Participant
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, CreatedAt: now, members: make(map[string]*Participant)}
}

// roster returns an ordered copy. Callers hold s.mu.
func (s *Session) roster() []Participant {
	return lo.Map(s.order, func(id string, _ int) Participant {
		return *s.members[id]
	})
}

// upsert adds p at the end, or replaces an existing entry in place.
func (s *Session) upsert(p Participant, now time.Time) {
	if existing, ok := s.members[p.ID]; ok {
		if p.JoinedAt.IsZero() {
			p.JoinedAt = existing.JoinedAt
		}
		*existing = p
		return
	}
	if p.JoinedAt.IsZero() {
		p.JoinedAt = now
	}
	cp := p
	s.members[p.ID] = &cp
	s.order = append(s.order, p.ID)
}

func (s *Session) remove(participantID string) bool {
	if _, ok := s.members[participantID]; !ok {
		return false
	}
	delete(s.members, participantID)
	s.order = lo.Without(s.order, participantID)
	return true
}

type sessionState struct {
	id        string
	createdAt time.Time
	roster    []Participant
}

func (s *Session) state() sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sessionState{id: s.ID, createdAt: s.CreatedAt, roster: s.roster()}
}

func fromState(st sessionState) *Session {
	s := newSession(st.id, st.createdAt)
	for _, p := range st.roster {
		s.upsert(p, p.JoinedAt)
	}
	return s
}
