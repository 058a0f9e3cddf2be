package domain

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Deck holds the cards not yet drawn in one session. It is owned by a
// single session and is not safe for concurrent use.
type Deck struct {
	remaining []Card
	rng       RNG
}

// NewDeck builds a deck with every card still undrawn.
func NewDeck(cards []Card, rng RNG) *Deck {
	remaining := make([]Card, len(cards))
	copy(remaining, cards)
	return &Deck{remaining: remaining, rng: rng}
}

// Remaining reports how many cards have not been drawn yet.
func (d *Deck) Remaining() int {
	return len(d.remaining)
}

// Draw shuffles the remaining cards with a full Fisher-Yates pass and
// removes the last n, so repeated draws within one session never
// repeat a card. It fails with ErrInsufficientCards, mutating nothing,
// when fewer than n cards remain.
func (d *Deck) Draw(n int) ([]Card, error) {
	if n < 1 || n > len(d.remaining) {
		return nil, ErrInsufficientCards
	}

	for i := len(d.remaining) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.remaining[i], d.remaining[j] = d.remaining[j], d.remaining[i]
	}

	cut := len(d.remaining) - n
	drawn := make([]Card, n)
	copy(drawn, d.remaining[cut:])
	d.remaining = d.remaining[:cut]

	return drawn, nil
}
