package main

import (
	"log"
	"sync"
	"time"
)

const (
	// SessionTTL is how long an abandoned session is kept in memory.
	SessionTTL = 24 * time.Hour
	// SessionSweepInterval is how often expired sessions are swept.
	SessionSweepInterval = 10 * time.Minute
)

// SessionStore keeps active exam sessions in memory, keyed by session id.
// Sessions past the TTL are treated as gone and swept periodically.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewSessionStore creates a new session store.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Put stores a session.
func (s *SessionStore) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

// Get returns a session by id. Sessions older than the TTL are not returned.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && time.Since(sess.StartTime) > s.ttl {
		return nil, false
	}
	return sess, true
}

// Len returns the number of stored sessions, including ones pending sweep.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CleanupExpired removes sessions older than the TTL and returns how many
// were removed.
func (s *SessionStore) CleanupExpired() int {
	if s.ttl == 0 {
		return 0
	}
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.StartTime) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Sweep runs CleanupExpired on a ticker. Meant to run in its own goroutine.
func (s *SessionStore) Sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if n := s.CleanupExpired(); n > 0 {
			log.Printf("Swept %d expired sessions", n)
		}
	}
}
