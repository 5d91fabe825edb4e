// Package store holds in-flight verification sessions. Sessions are transient
// and never touch durable storage: they are retained until consumed or until
// the overall polling timeout elapses.
package store

import (
	"context"
	"sync"
	"time"

	"persona/internal/session/models"
	id "persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
)

// Session is an alias kept close to the models type for readability below.
type Session = models.VerificationSession

// InMemoryStore is a TTL-bounded in-memory session store.
// Terminal statuses are monotonic: once a session is verified or failed,
// later writes cannot move it back to in_progress or to another terminal state.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]*entry
	ttl      time.Duration
}

type entry struct {
	session  Session
	storedAt time.Time
}

// New creates a session store with the given retention TTL.
func New(ttl time.Duration) *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[id.SessionID]*entry),
		ttl:      ttl,
	}
}

// Save stores a new session. Overwriting an existing session is a conflict;
// session IDs are single-use.
func (s *InMemoryStore) Save(_ context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; ok {
		return dErrors.New(dErrors.CodeConflict, "session already exists")
	}
	s.sessions[session.ID] = &entry{session: session, storedAt: time.Now()}
	return nil
}

// Get returns the session, or a not_found error if absent or past retention.
func (s *InMemoryStore) Get(_ context.Context, sessionID id.SessionID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[sessionID]
	if !ok || time.Since(e.storedAt) > s.ttl {
		return nil, dErrors.New(dErrors.CodeNotFound, "session not found")
	}
	session := e.session
	return &session, nil
}

// ApplyOutcome applies one observed poll response to a session, enforcing
// monotonicity. It reports whether the outcome changed the stored state: a
// duplicate terminal notification or a regression attempt returns false so
// callers can guard side effects idempotently by session identity.
func (s *InMemoryStore) ApplyOutcome(_ context.Context, sessionID id.SessionID, outcome models.PollOutcome) (applied bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		return false, dErrors.New(dErrors.CodeNotFound, "session not found")
	}
	if e.session.Status.Terminal() {
		return false, nil
	}
	if !outcome.Status.Terminal() {
		return false, nil
	}
	e.session.Status = outcome.Status
	e.session.Result = outcome.Result
	return true, nil
}

// DeleteExpired drops sessions past the retention TTL and returns the count.
func (s *InMemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for sid, e := range s.sessions {
		if now.Sub(e.storedAt) > s.ttl {
			delete(s.sessions, sid)
			deleted++
		}
	}
	return deleted, nil
}
