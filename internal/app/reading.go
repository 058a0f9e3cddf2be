package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Cayson-Choi/tarot-card-reading/internal/domain"
	"github.com/Cayson-Choi/tarot-card-reading/internal/ports"
)

// User-facing failure messages. The relay error itself is logged, not
// shown.
const (
	msgInterpretTimeout = "The reading took too long. Please try again."
	msgInterpretFailed  = "The reading could not be completed. Please try again."
)

// ReadingService drives reading sessions end to end: creation, spread
// selection, reveals, and the asynchronous interpretation request. It
// is safe for concurrent use; per-session serialization is delegated
// to the session store.
type ReadingService struct {
	decks    ports.DeckSource
	spreads  ports.SpreadSource
	sessions ports.SessionStore
	relay    ports.Interpreter
	rng      domain.RNG
	timeout  time.Duration
	logger   *slog.Logger
}

func NewReadingService(
	decks ports.DeckSource,
	spreads ports.SpreadSource,
	sessions ports.SessionStore,
	relay ports.Interpreter,
	rng domain.RNG,
	timeout time.Duration,
	logger *slog.Logger,
) *ReadingService {
	return &ReadingService{
		decks:    decks,
		spreads:  spreads,
		sessions: sessions,
		relay:    relay,
		rng:      rng,
		timeout:  timeout,
		logger:   logger,
	}
}

// CreateSession registers a fresh session and returns its snapshot.
func (s *ReadingService) CreateSession(ctx context.Context) (Snapshot, error) {
	cards, err := s.decks.Cards(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load deck: %w", err)
	}

	id := uuid.NewString()
	sess := domain.NewSession(func() *domain.Deck {
		return domain.NewDeck(cards, s.rng)
	})
	s.sessions.Put(id, sess)

	return snapshotOf(id, sess), nil
}

// Snapshot returns the observable state of a session.
func (s *ReadingService) Snapshot(id string) (Snapshot, error) {
	var snap Snapshot
	err := s.sessions.View(id, func(sess *domain.Session) {
		snap = snapshotOf(id, sess)
	})
	return snap, err
}

// ListSpreads returns the configured spread layouts.
func (s *ReadingService) ListSpreads(ctx context.Context) ([]domain.Spread, error) {
	return s.spreads.Spreads(ctx)
}

// SetQuestion stores the free-text question on a not-yet-started
// session.
func (s *ReadingService) SetQuestion(id, question string) (Snapshot, error) {
	return s.update(id, func(sess *domain.Session) error {
		return sess.SetQuestion(question)
	})
}

// ChooseSpread resolves the spread configuration (including the
// caller-supplied count for custom spreads), deals the cards, and
// returns the post-deal snapshot.
func (s *ReadingService) ChooseSpread(ctx context.Context, id, spreadID string, customCount int) (Snapshot, error) {
	spread, err := s.spreads.Spread(ctx, spreadID)
	if err != nil {
		return Snapshot{}, err
	}
	if spread.ID == domain.SpreadCustom {
		spread, err = spread.WithCount(customCount)
		if err != nil {
			return Snapshot{}, err
		}
	}

	return s.update(id, func(sess *domain.Session) error {
		return sess.ChooseSpread(spread)
	})
}

// RevealCard flips one slot face up.
func (s *ReadingService) RevealCard(id string, index int) (Snapshot, error) {
	return s.update(id, func(sess *domain.Session) error {
		return sess.RevealCard(index)
	})
}

// RequestInterpretation marks the session's single outstanding relay
// request and settles it from a goroutine bounded by the configured
// timeout. The call itself never blocks on the relay.
func (s *ReadingService) RequestInterpretation(id, lang string) (Snapshot, error) {
	var (
		gen uint64
		in  ports.InterpretInput
	)
	snap, err := s.update(id, func(sess *domain.Session) error {
		g, err := sess.BeginInterpretation()
		if err != nil {
			return err
		}
		gen = g
		in = interpretInput(sess, lang)
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	go s.settle(id, gen, in)
	return snap, nil
}

// settle runs the relay call and records its outcome. The session may
// have been reset, deleted, or re-requested in the meantime; the
// request token then no longer matches and the outcome is dropped.
func (s *ReadingService) settle(id string, gen uint64, in ports.InterpretInput) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.relay.Interpret(ctx, in)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		s.logger.Warn("interpretation failed",
			"session_id", id, "latency_ms", latency, "error", err)
		s.fail(id, gen, err)
		return
	}

	s.logger.Info("interpretation ready", "session_id", id, "latency_ms", latency)
	uerr := s.sessions.Update(id, func(sess *domain.Session) error {
		return sess.CompleteInterpretation(gen, text)
	})
	if uerr != nil {
		s.logger.Debug("dropping stale interpretation", "session_id", id, "error", uerr)
	}
}

func (s *ReadingService) fail(id string, gen uint64, cause error) {
	msg := msgInterpretFailed
	if errors.Is(cause, context.DeadlineExceeded) {
		msg = msgInterpretTimeout
	}
	uerr := s.sessions.Update(id, func(sess *domain.Session) error {
		return sess.FailInterpretation(gen, msg)
	})
	if uerr != nil {
		s.logger.Debug("dropping stale interpretation failure", "session_id", id, "error", uerr)
	}
}

// ResetSession returns the session to its initial phase with a fresh
// deck.
func (s *ReadingService) ResetSession(id string) (Snapshot, error) {
	return s.update(id, func(sess *domain.Session) error {
		sess.Reset()
		return nil
	})
}

// DeleteSession drops the session from the registry.
func (s *ReadingService) DeleteSession(id string) {
	s.sessions.Delete(id)
}

func (s *ReadingService) update(id string, fn func(*domain.Session) error) (Snapshot, error) {
	var snap Snapshot
	err := s.sessions.Update(id, func(sess *domain.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		snap = snapshotOf(id, sess)
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func interpretInput(sess *domain.Session, lang string) ports.InterpretInput {
	spread := sess.Spread()
	positions := spread.Positions(lang)
	slots := sess.Slots()

	cards := make([]ports.CardInput, len(slots))
	for i, slot := range slots {
		cards[i] = ports.CardInput{
			Position: positions[i],
			NameEn:   slot.Card.NameEn,
			NameKo:   slot.Card.NameKo,
		}
	}

	return ports.InterpretInput{
		Spread:   spread.Name(lang),
		Question: sess.Question(),
		Lang:     lang,
		Cards:    cards,
	}
}
