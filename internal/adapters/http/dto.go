package http

import (
	"github.com/Cayson-Choi/tarot-card-reading/internal/app"
	"github.com/Cayson-Choi/tarot-card-reading/internal/domain"
)

// SessionResponse is the JSON shape of a session snapshot.
type SessionResponse struct {
	ID            string          `json:"id"`
	Phase         domain.Phase    `json:"phase"`
	Question      string          `json:"question,omitempty"`
	Spread        *SpreadResponse `json:"spread,omitempty"`
	Slots         []SlotResponse  `json:"slots,omitempty"`
	Reading       string          `json:"reading,omitempty"`
	Failure       string          `json:"failure,omitempty"`
	DeckRemaining int             `json:"deck_remaining"`
}

type SpreadResponse struct {
	ID     string `json:"id"`
	NameKo string `json:"name_ko"`
	NameEn string `json:"name_en"`
	Count  int    `json:"count"`
}

// SlotResponse is one dealt position. Card is omitted while the slot is
// face down.
type SlotResponse struct {
	Index      int           `json:"index"`
	PositionKo string        `json:"position_ko"`
	PositionEn string        `json:"position_en"`
	Revealed   bool          `json:"revealed"`
	Card       *CardResponse `json:"card,omitempty"`
}

type CardResponse struct {
	ID     int           `json:"id"`
	NameKo string        `json:"name_ko"`
	NameEn string        `json:"name_en"`
	Image  string        `json:"image"`
	Arcana domain.Arcana `json:"arcana"`
	Suit   domain.Suit   `json:"suit,omitempty"`
}

// SpreadListResponse is the JSON shape of GET /v1/spreads.
type SpreadListResponse struct {
	Spreads []SpreadInfoResponse `json:"spreads"`
}

type SpreadInfoResponse struct {
	ID          string   `json:"id"`
	NameKo      string   `json:"name_ko"`
	NameEn      string   `json:"name_en"`
	Count       int      `json:"count"`
	PositionsKo []string `json:"positions_ko"`
	PositionsEn []string `json:"positions_en"`
}

type QuestionRequest struct {
	Question string `json:"question"`
}

type SpreadRequest struct {
	SpreadID string `json:"spread_id"`
	Count    int    `json:"count,omitempty"`
}

type InterpretationRequest struct {
	Lang string `json:"lang"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toSessionResponse(snap app.Snapshot) SessionResponse {
	resp := SessionResponse{
		ID:            snap.ID,
		Phase:         snap.Phase,
		Question:      snap.Question,
		Reading:       snap.Reading,
		Failure:       snap.FailureText,
		DeckRemaining: snap.DeckRemaining,
	}

	if snap.Spread != nil {
		resp.Spread = &SpreadResponse{
			ID:     snap.Spread.ID,
			NameKo: snap.Spread.NameKo,
			NameEn: snap.Spread.NameEn,
			Count:  snap.Spread.Count,
		}
	}

	for _, slot := range snap.Slots {
		sr := SlotResponse{
			Index:      slot.Index,
			PositionKo: slot.PositionKo,
			PositionEn: slot.PositionEn,
			Revealed:   slot.Revealed,
		}
		if slot.Card != nil {
			sr.Card = &CardResponse{
				ID:     slot.Card.ID,
				NameKo: slot.Card.NameKo,
				NameEn: slot.Card.NameEn,
				Image:  slot.Card.Image,
				Arcana: slot.Card.Arcana,
				Suit:   slot.Card.Suit,
			}
		}
		resp.Slots = append(resp.Slots, sr)
	}
	return resp
}
