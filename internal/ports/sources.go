package ports

import (
	"context"

	"github.com/Cayson-Choi/tarot-card-reading/internal/domain"
)

// DeckSource provides the canonical 78-card table.
type DeckSource interface {
	Cards(ctx context.Context) ([]domain.Card, error)
}

// SpreadSource provides the configured spread layouts.
type SpreadSource interface {
	Spreads(ctx context.Context) ([]domain.Spread, error)
	Spread(ctx context.Context, id string) (domain.Spread, error)
}
