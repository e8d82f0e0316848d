package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"image-quiz/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Sessions themselves stay in a local map; Redis only carries a progress
// marker per live session ("answered/total") that expires after ttl, so
// other tools can see which web sessions are in flight.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Save(session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
	// best-effort liveness marker, refreshed on every answer
	_ = s.client.Set(context.Background(), Key(session.ID()), session.Progress(), s.ttl).Err()
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return
	}
	delete(s.sessions, sessionID)
	_ = s.client.Del(context.Background(), Key(sessionID)).Err()
}

// Key is the Redis key holding the progress marker of a session.
func Key(sessionID string) string {
	return "quiz:session:" + sessionID
}
