package domain

import (
	"fmt"
	"strconv"
)

// SpreadCustom is the spread kind whose card count the caller supplies.
const SpreadCustom = "custom"

// Bounds for the caller-supplied count of a custom spread.
const (
	MinCustomCount = 1
	MaxCustomCount = 10
)

// Spread is a named layout: how many cards are drawn and what each
// position means, in both supported languages.
type Spread struct {
	ID          string   `json:"id"`
	NameKo      string   `json:"name_ko"`
	NameEn      string   `json:"name_en"`
	Count       int      `json:"count"`
	PositionsKo []string `json:"positions_ko"`
	PositionsEn []string `json:"positions_en"`
}

// Name returns the display name for lang ("ko" or "en").
func (s Spread) Name(lang string) string {
	if lang == "ko" {
		return s.NameKo
	}
	return s.NameEn
}

// Positions returns the ordered position labels for lang. Slots without
// a configured label (custom spreads) fall back to their 1-based number.
func (s Spread) Positions(lang string) []string {
	src := s.PositionsEn
	if lang == "ko" {
		src = s.PositionsKo
	}

	labels := make([]string, s.Count)
	for i := range labels {
		if i < len(src) && src[i] != "" {
			labels[i] = src[i]
		} else {
			labels[i] = strconv.Itoa(i + 1)
		}
	}
	return labels
}

// WithCount resolves a custom spread to a concrete card count. It fails
// with ErrInvalidSpreadCount outside [MinCustomCount, MaxCustomCount].
func (s Spread) WithCount(count int) (Spread, error) {
	if count < MinCustomCount || count > MaxCustomCount {
		return Spread{}, fmt.Errorf("%w: got %d", ErrInvalidSpreadCount, count)
	}
	s.Count = count
	return s, nil
}

// Validate checks the structural invariants of a configured spread.
// Custom spreads carry no fixed count; every other spread must have one
// label per slot in each language.
func (s Spread) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("spread missing id")
	}
	if s.ID == SpreadCustom {
		return nil
	}
	if s.Count < MinCustomCount || s.Count > MaxCustomCount {
		return fmt.Errorf("spread %s: %w: got %d", s.ID, ErrInvalidSpreadCount, s.Count)
	}
	if len(s.PositionsKo) != s.Count || len(s.PositionsEn) != s.Count {
		return fmt.Errorf("spread %s: position labels do not match count %d", s.ID, s.Count)
	}
	return nil
}
