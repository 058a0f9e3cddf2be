package domain

import "fmt"

// Phase of a reading session.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	// PhaseSpreadChosen is transited inside ChooseSpread: the deal
	// happens in the same call, so callers only ever observe Drawing.
	PhaseSpreadChosen    Phase = "spread_chosen"
	PhaseDrawing         Phase = "drawing"
	PhaseAllRevealed     Phase = "all_revealed"
	PhaseInterpRequested Phase = "interpretation_requested"
	PhaseInterpReady     Phase = "interpretation_ready"
	PhaseInterpFailed    Phase = "interpretation_failed"
)

// Slot is one dealt card plus its face-up flag. The flag only ever
// transitions false to true; Reset discards slots entirely.
type Slot struct {
	Card     Card
	Revealed bool
}

// Session is the mutable aggregate for one reading: the chosen spread,
// the dealt cards, the question, and the interpretation outcome. All
// mutation goes through the named transition methods. A session is not
// safe for concurrent use; the caller owns serialization.
type Session struct {
	phase    Phase
	question string
	spread   Spread
	slots    []Slot
	deck     *Deck

	reading     string
	failureText string

	// interpGen identifies the current interpretation request cycle.
	// BeginInterpretation and Reset bump it, so an outcome carrying an
	// older value can never settle a later cycle.
	interpGen uint64

	newDeck func() *Deck
}

// NewSession returns a session in PhaseNotStarted with a full deck.
func NewSession(newDeck func() *Deck) *Session {
	return &Session{
		phase:   PhaseNotStarted,
		deck:    newDeck(),
		newDeck: newDeck,
	}
}

func (s *Session) Phase() Phase     { return s.phase }
func (s *Session) Question() string { return s.question }
func (s *Session) Spread() Spread   { return s.spread }

// Slots returns a copy of the dealt slots in position order.
func (s *Session) Slots() []Slot {
	out := make([]Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

// Reading returns the interpretation text once PhaseInterpReady.
func (s *Session) Reading() string { return s.reading }

// FailureText returns the user-facing message of the last failed
// interpretation attempt, empty otherwise.
func (s *Session) FailureText() string { return s.failureText }

// DeckRemaining reports how many cards are still undrawn.
func (s *Session) DeckRemaining() int { return s.deck.Remaining() }

// SetQuestion stores the question verbatim. An absent question means a
// general reading. Legal only before a spread is chosen.
func (s *Session) SetQuestion(text string) error {
	if s.phase != PhaseNotStarted {
		return fmt.Errorf("%w: set question in %s", ErrWrongPhase, s.phase)
	}
	s.question = text
	return nil
}

// ChooseSpread deals spread.Count cards face down and enters Drawing.
// The spread must already carry a concrete count; resolve custom
// spreads with WithCount first. On a failed deal the session stays in
// PhaseNotStarted.
func (s *Session) ChooseSpread(spread Spread) error {
	if s.phase != PhaseNotStarted {
		return fmt.Errorf("%w: choose spread in %s", ErrWrongPhase, s.phase)
	}
	if spread.Count < MinCustomCount || spread.Count > MaxCustomCount {
		return fmt.Errorf("%w: got %d", ErrInvalidSpreadCount, spread.Count)
	}

	s.phase = PhaseSpreadChosen
	cards, err := s.deck.Draw(spread.Count)
	if err != nil {
		s.phase = PhaseNotStarted
		return err
	}

	s.spread = spread
	s.slots = make([]Slot, len(cards))
	for i, c := range cards {
		s.slots[i] = Slot{Card: c}
	}
	s.phase = PhaseDrawing
	return nil
}

// RevealCard turns the slot at index face up. Revealing an already
// face-up slot is a no-op, not an error. The session enters AllRevealed
// when the last face-down slot flips.
func (s *Session) RevealCard(index int) error {
	if s.phase != PhaseDrawing && s.phase != PhaseAllRevealed {
		return fmt.Errorf("%w: reveal card in %s", ErrWrongPhase, s.phase)
	}
	if index < 0 || index >= len(s.slots) {
		return fmt.Errorf("%w: index %d with %d slots", ErrIndexOutOfRange, index, len(s.slots))
	}
	if s.slots[index].Revealed {
		return nil
	}

	s.slots[index].Revealed = true
	if s.phase == PhaseDrawing && s.allRevealed() {
		s.phase = PhaseAllRevealed
	}
	return nil
}

func (s *Session) allRevealed() bool {
	for _, slot := range s.slots {
		if !slot.Revealed {
			return false
		}
	}
	return len(s.slots) > 0
}

// BeginInterpretation marks an interpretation request in flight and
// returns the token identifying this request cycle; the eventual
// CompleteInterpretation or FailInterpretation call must present it.
// Legal from AllRevealed, or from InterpretationFailed as a retry. A
// session allows at most one outstanding request.
func (s *Session) BeginInterpretation() (uint64, error) {
	switch s.phase {
	case PhaseAllRevealed, PhaseInterpFailed:
		s.phase = PhaseInterpRequested
		s.failureText = ""
		s.interpGen++
		return s.interpGen, nil
	case PhaseInterpRequested:
		return 0, ErrInterpretInFlight
	default:
		return 0, fmt.Errorf("%w: request interpretation in %s", ErrWrongPhase, s.phase)
	}
}

// CompleteInterpretation stores the relay's reading text and settles
// the session in PhaseInterpReady. gen must be the token issued by the
// matching BeginInterpretation; an outcome from a superseded cycle is
// rejected with ErrStaleInterpretation.
func (s *Session) CompleteInterpretation(gen uint64, text string) error {
	if gen != s.interpGen {
		return fmt.Errorf("%w: request %d superseded by %d", ErrStaleInterpretation, gen, s.interpGen)
	}
	if s.phase != PhaseInterpRequested {
		return fmt.Errorf("%w: complete interpretation in %s", ErrWrongPhase, s.phase)
	}
	s.reading = text
	s.phase = PhaseInterpReady
	return nil
}

// FailInterpretation records a user-facing failure message and settles
// the session in PhaseInterpFailed, from which BeginInterpretation may
// retry. gen follows the same staleness rule as CompleteInterpretation.
func (s *Session) FailInterpretation(gen uint64, msg string) error {
	if gen != s.interpGen {
		return fmt.Errorf("%w: request %d superseded by %d", ErrStaleInterpretation, gen, s.interpGen)
	}
	if s.phase != PhaseInterpRequested {
		return fmt.Errorf("%w: fail interpretation in %s", ErrWrongPhase, s.phase)
	}
	s.failureText = msg
	s.phase = PhaseInterpFailed
	return nil
}

// Reset discards all state and returns to PhaseNotStarted with a fresh
// full deck. Legal in any phase.
func (s *Session) Reset() {
	s.phase = PhaseNotStarted
	s.question = ""
	s.spread = Spread{}
	s.slots = nil
	s.reading = ""
	s.failureText = ""
	s.interpGen++
	s.deck = s.newDeck()
}
