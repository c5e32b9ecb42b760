package form

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultIdleTimeout is how long an untouched session is kept.
const DefaultIdleTimeout = 30 * time.Minute

// Factory builds a fresh session.
type Factory func() *Session

// Store keeps sessions keyed by an opaque id, evicting those that sit idle
// longer than the configured timeout.
type Store struct {
	mu       sync.Mutex
	factory  Factory
	idle     time.Duration
	now      func() time.Time
	sessions map[string]*entry
}

type entry struct {
	session  *Session
	lastUsed time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIdleTimeout overrides DefaultIdleTimeout. Non-positive values disable
// eviction.
func WithIdleTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		s.idle = d
	}
}

// WithClock swaps the time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore returns an empty store.
func NewStore(factory Factory, options ...StoreOption) *Store {
	s := &Store{
		factory:  factory,
		idle:     DefaultIdleTimeout,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.factory == nil {
		s.factory = func() *Session { return NewSession(nil) }
	}
	return s
}

// Get returns the session for id, refreshing its last-use time.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()

	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastUsed = s.now()
	return e.session, true
}

// Create registers a new session and returns its id.
func (s *Store) Create() (string, *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()

	id := uuid.NewString()
	session := s.factory()
	s.sessions[id] = &entry{session: session, lastUsed: s.now()}
	return id, session
}

// GetOrCreate returns the session for id or a new one under a fresh id.
func (s *Store) GetOrCreate(id string) (string, *Session) {
	if id != "" {
		if session, ok := s.Get(id); ok {
			return id, session
		}
	}
	return s.Create()
}

// Reset drops the session for id and starts a fresh one under a new id.
func (s *Store) Reset(id string) (string, *Session) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return s.Create()
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()
	return len(s.sessions)
}

func (s *Store) evictLocked() {
	if s.idle <= 0 {
		return
	}
	cutoff := s.now().Add(-s.idle)
	for id, e := range s.sessions {
		if e.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
