package app

import "github.com/Cayson-Choi/tarot-card-reading/internal/domain"

// Snapshot is the observable state of one session, safe to hand out
// after the store lock is released. Face-down slots do not disclose
// card identity.
type Snapshot struct {
	ID            string
	Phase         domain.Phase
	Question      string
	Spread        *domain.Spread
	Slots         []SlotView
	Reading       string
	FailureText   string
	DeckRemaining int
}

// SlotView is one dealt slot as seen by a caller. Card is nil while the
// slot is face down.
type SlotView struct {
	Index      int
	PositionKo string
	PositionEn string
	Revealed   bool
	Card       *domain.Card
}

func snapshotOf(id string, sess *domain.Session) Snapshot {
	snap := Snapshot{
		ID:            id,
		Phase:         sess.Phase(),
		Question:      sess.Question(),
		Reading:       sess.Reading(),
		FailureText:   sess.FailureText(),
		DeckRemaining: sess.DeckRemaining(),
	}

	slots := sess.Slots()
	if len(slots) == 0 {
		return snap
	}

	spread := sess.Spread()
	snap.Spread = &spread
	positionsKo := spread.Positions("ko")
	positionsEn := spread.Positions("en")

	snap.Slots = make([]SlotView, len(slots))
	for i, slot := range slots {
		view := SlotView{
			Index:      i,
			PositionKo: positionsKo[i],
			PositionEn: positionsEn[i],
			Revealed:   slot.Revealed,
		}
		if slot.Revealed {
			card := slot.Card
			view.Card = &card
		}
		snap.Slots[i] = view
	}
	return snap
}
