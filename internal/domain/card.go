package domain

// DeckSize is the number of cards in a full tarot deck.
const DeckSize = 78

// Arcana classifies a card as major or minor.
type Arcana string

const (
	ArcanaMajor Arcana = "major"
	ArcanaMinor Arcana = "minor"
)

// Suit of a minor-arcana card. Major-arcana cards carry no suit.
type Suit string

const (
	SuitWands     Suit = "wands"
	SuitCups      Suit = "cups"
	SuitSwords    Suit = "swords"
	SuitPentacles Suit = "pentacles"
)

// Card is one entry of the 78-card table, immutable after load.
type Card struct {
	ID     int    `json:"id"`
	NameKo string `json:"name_ko"`
	NameEn string `json:"name_en"`
	Image  string `json:"image"`
	Arcana Arcana `json:"arcana"`
	Suit   Suit   `json:"suit,omitempty"`
}

// Name returns the display name for lang ("ko" or "en").
func (c Card) Name(lang string) string {
	if lang == "ko" {
		return c.NameKo
	}
	return c.NameEn
}
