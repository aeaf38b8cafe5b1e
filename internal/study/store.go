package study

import (
	"context"
	"sync"
	"time"
)

// Store keeps one Session per user with idle-time eviction, so an abandoned
// session does not pin its card snapshot forever.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
}

type entry struct {
	session  *Session
	lastUsed time.Time
}

func NewStore(ctx context.Context, ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
	}
	go s.cleanupJob(ctx)
	return s
}

// Get returns the user's session if one is live.
func (s *Store) Get(userID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[userID]
	if !ok {
		return nil, false
	}
	e.lastUsed = time.Now()
	return e.session, true
}

func (s *Store) Put(userID string, session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = &entry{session: session, lastUsed: time.Now()}
}

// Invalidate drops the user's session, forcing a reload of the card
// snapshot on the next study request.
func (s *Store) Invalidate(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

func (s *Store) cleanupJob(ctx context.Context) {
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *Store) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, e := range s.sessions {
		if time.Since(e.lastUsed) > s.ttl {
			delete(s.sessions, userID)
		}
	}
}
