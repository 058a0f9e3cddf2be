package decks

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Cayson-Choi/tarot-card-reading/internal/domain"
)

//go:embed data/cards.json
var deckFS embed.FS

// EmbeddedSource loads the 78-card table from the embedded JSON file
// and validates its invariants once.
type EmbeddedSource struct {
	once  sync.Once
	cards []domain.Card
	err   error
}

func NewEmbeddedSource() *EmbeddedSource {
	return &EmbeddedSource{}
}

func (s *EmbeddedSource) init() {
	raw, err := deckFS.ReadFile("data/cards.json")
	if err != nil {
		s.err = fmt.Errorf("read embedded card table: %w", err)
		return
	}
	var cards []domain.Card
	if err := json.Unmarshal(raw, &cards); err != nil {
		s.err = fmt.Errorf("parse embedded card table: %w", err)
		return
	}
	if err := validate(cards); err != nil {
		s.err = fmt.Errorf("embedded card table: %w", err)
		return
	}
	s.cards = cards
}

func (s *EmbeddedSource) Cards(_ context.Context) ([]domain.Card, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return nil, s.err
	}
	return s.cards, nil
}

var minorSuits = map[domain.Suit]bool{
	domain.SuitWands:     true,
	domain.SuitCups:      true,
	domain.SuitSwords:    true,
	domain.SuitPentacles: true,
}

func validate(cards []domain.Card) error {
	if len(cards) != domain.DeckSize {
		return fmt.Errorf("expected %d cards, got %d", domain.DeckSize, len(cards))
	}
	seen := make(map[int]bool, len(cards))
	for _, c := range cards {
		if seen[c.ID] {
			return fmt.Errorf("duplicate card id %d", c.ID)
		}
		seen[c.ID] = true

		switch c.Arcana {
		case domain.ArcanaMajor:
			if c.Suit != "" {
				return fmt.Errorf("major arcana card %d has suit %q", c.ID, c.Suit)
			}
		case domain.ArcanaMinor:
			if !minorSuits[c.Suit] {
				return fmt.Errorf("minor arcana card %d has invalid suit %q", c.ID, c.Suit)
			}
		default:
			return fmt.Errorf("card %d has invalid arcana %q", c.ID, c.Arcana)
		}
	}
	return nil
}
