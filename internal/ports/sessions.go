package ports

import "github.com/Cayson-Choi/tarot-card-reading/internal/domain"

// SessionStore keeps live reading sessions keyed by ID. Sessions are
// lock-free by design, so the store serializes every access: Update
// runs fn with exclusive ownership of the session, View with the same
// guarantee for reads. Both fail with domain.ErrSessionNotFound for an
// unknown ID.
type SessionStore interface {
	Put(id string, s *domain.Session)
	Update(id string, fn func(*domain.Session) error) error
	View(id string, fn func(*domain.Session)) error
	Delete(id string)
}
