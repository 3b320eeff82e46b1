package session

import (
	"maps"
	"sync"
	"time"

	apperrors "github.com/kbukum/sessionkit/errors"
	"github.com/kbukum/sessionkit/logger"
)

// Registry owns every live session. The id map has its own lock, which is
// never held while a session's roster is being changed.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	codeLength int
	generate   CodeGenerator
	now        func() time.Time
	log        *logger.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithCodeLength sets the generated code length.
func WithCodeLength(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.codeLength = n
		}
	}
}

// WithCodeGenerator replaces RandomCode, mainly for deterministic tests.
func WithCodeGenerator(g CodeGenerator) Option {
	return func(r *Registry) { r.generate = g }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithLogger sets the registry logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		sessions:   make(map[string]*Session),
		codeLength: DefaultCodeLength,
		generate:   RandomCode,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.WithComponent("registry")
	}
	return r
}

// Create registers a new empty session under a fresh code and returns it.
// A colliding candidate is discarded and a new one drawn.
func (r *Registry) Create() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		id := NormalizeID(r.generate(r.codeLength))
		if id == "" {
			continue
		}
		if _, taken := r.sessions[id]; taken {
			continue
		}
		r.sessions[id] = newSession(id, r.now())
		r.log.Info("session created", logger.Fields(logger.FieldSessionID, id))
		return id
	}
}

// Exists reports whether id names a registered session.
func (r *Registry) Exists(id string) bool {
	return r.lookup(id) != nil
}

// Snapshot returns the ordered roster of a session.
func (r *Registry) Snapshot(id string) ([]Participant, error) {
	s := r.lookup(id)
	if s == nil {
		return nil, apperrors.SessionNotFound(NormalizeID(id))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster(), nil
}

// AddParticipant inserts p, or replaces the entry with the same participant
// id in place, and returns the resulting roster. A zero JoinedAt is set to
// now on insert and kept from the existing entry on rejoin.
func (r *Registry) AddParticipant(id string, p Participant) ([]Participant, error) {
	s := r.lookup(id)
	if s == nil {
		return nil, apperrors.SessionNotFound(NormalizeID(id))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsert(p, r.now())
	return s.roster(), nil
}

// RemoveParticipant deletes a participant if present and returns the
// resulting roster. Removing an absent participant is not an error.
func (r *Registry) RemoveParticipant(id, participantID string) ([]Participant, error) {
	s := r.lookup(id)
	if s == nil {
		return nil, apperrors.SessionNotFound(NormalizeID(id))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(participantID)
	return s.roster(), nil
}

// ReleaseChannel removes the participant only while it is still bound to
// channelID. The bool reports whether anything was removed; a participant
// that rejoined over a newer channel is left alone.
func (r *Registry) ReleaseChannel(id, participantID, channelID string) ([]Participant, bool, error) {
	s := r.lookup(id)
	if s == nil {
		return nil, false, apperrors.SessionNotFound(NormalizeID(id))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.members[participantID]
	if !ok || p.ChannelID != channelID {
		return s.roster(), false, nil
	}
	s.remove(participantID)
	return s.roster(), true, nil
}

// Count returns the number of sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Participants returns the total participant count across sessions.
func (r *Registry) Participants() int {
	r.mu.RLock()
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.mu.RUnlock()

	n := 0
	for _, s := range all {
		s.mu.Lock()
		n += len(s.order)
		s.mu.Unlock()
	}
	return n
}

// Reset drops every session.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()
}

// registryState is a deep copy of every roster, used by Component.Restore.
type registryState map[string]sessionState

func (r *Registry) captureState() registryState {
	r.mu.RLock()
	sessions := maps.Clone(r.sessions)
	r.mu.RUnlock()

	st := make(registryState, len(sessions))
	for id, s := range sessions {
		st[id] = s.state()
	}
	return st
}

func (r *Registry) restoreState(st registryState) {
	sessions := make(map[string]*Session, len(st))
	for id, ss := range st {
		sessions[id] = fromState(ss)
	}
	r.mu.Lock()
	r.sessions = sessions
	r.mu.Unlock()
}

func (r *Registry) lookup(id string) *Session {
	id = NormalizeID(id)
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}
