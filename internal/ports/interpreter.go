package ports

import "context"

// InterpretInput carries everything the relay needs for one reading:
// the spread display name, the optional question, the response
// language, and the ordered (position, card) pairs.
type InterpretInput struct {
	Spread   string
	Question string
	Lang     string
	Cards    []CardInput
}

// CardInput pairs a position label with the card that landed on it.
type CardInput struct {
	Position string
	NameEn   string
	NameKo   string
}

// Interpreter turns a finished spread into a natural-language reading.
// The returned text is markdown, treated as opaque display content.
type Interpreter interface {
	Interpret(ctx context.Context, in InterpretInput) (string, error)
}
