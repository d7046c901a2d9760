package practice

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore keeps open exercises in memory until they are answered or
// expire.
type SessionStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]Exercise
	ttl   time.Duration
	now   func() time.Time
}

// NewSessionStore creates a store whose exercises expire after ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		items: make(map[uuid.UUID]Exercise),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Put stores ex and drops expired exercises.
func (s *SessionStore) Put(ex Exercise) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, it := range s.items {
		if s.expired(it, now) {
			delete(s.items, id)
		}
	}
	s.items[ex.ID] = ex
}

// Get returns the open exercise with id.
func (s *SessionStore) Get(id uuid.UUID) (Exercise, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ex, ok := s.items[id]
	if !ok {
		return Exercise{}, false
	}
	if s.expired(ex, s.now()) {
		delete(s.items, id)
		return Exercise{}, false
	}
	return ex, true
}

// Take returns the exercise with id and removes it.
func (s *SessionStore) Take(id uuid.UUID) (Exercise, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ex, ok := s.items[id]
	if !ok {
		return Exercise{}, false
	}
	delete(s.items, id)
	if s.expired(ex, s.now()) {
		return Exercise{}, false
	}
	return ex, true
}

// Len returns the number of stored exercises, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *SessionStore) expired(ex Exercise, now time.Time) bool {
	return s.ttl > 0 && now.Sub(ex.CreatedAt) > s.ttl
}
