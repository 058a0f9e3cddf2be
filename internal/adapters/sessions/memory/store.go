package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Cayson-Choi/tarot-card-reading/internal/domain"
)

type entry struct {
	session *domain.Session
	touched time.Time
}

// Store keeps live sessions in process memory. A single mutex
// serializes all session access, which keeps the lock-free domain
// sessions safe under concurrent handlers and the settling goroutine.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

// NewStore builds an empty registry. Sessions untouched for ttl are
// dropped by Sweep; a non-positive ttl disables eviction.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *Store) Put(id string, sess *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &entry{session: sess, touched: s.now()}
}

func (s *Store) Update(id string, fn func(*domain.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	e.touched = s.now()
	return fn(e.session)
}

func (s *Store) View(id string, fn func(*domain.Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	e.touched = s.now()
	fn(e.session)
	return nil
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle longer than the configured TTL and returns
// how many were evicted.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	evicted := 0
	for id, e := range s.sessions {
		if e.touched.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Run sweeps at the given interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}
