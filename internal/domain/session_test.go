package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cayson-Choi/tarot-card-reading/internal/domain"
)

func newTestSession() *domain.Session {
	return domain.NewSession(func() *domain.Deck {
		return domain.NewDeck(testCards(domain.DeckSize), stdRNG{})
	})
}

func threeCardSpread() domain.Spread {
	return domain.Spread{
		ID:          "three_card",
		NameKo:      "3장 리딩",
		NameEn:      "Three Card",
		Count:       3,
		PositionsKo: []string{"과거", "현재", "미래"},
		PositionsEn: []string{"Past", "Present", "Future"},
	}
}

func TestSession_InitialState(t *testing.T) {
	sess := newTestSession()

	assert.Equal(t, domain.PhaseNotStarted, sess.Phase())
	assert.Empty(t, sess.Slots())
	assert.Equal(t, domain.DeckSize, sess.DeckRemaining())
}

func TestSession_ThreeCardScenario(t *testing.T) {
	sess := newTestSession()

	require.NoError(t, sess.SetQuestion("Will I get the job?"))
	require.NoError(t, sess.ChooseSpread(threeCardSpread()))

	assert.Equal(t, domain.PhaseDrawing, sess.Phase())
	slots := sess.Slots()
	require.Len(t, slots, 3)
	for i, slot := range slots {
		assert.False(t, slot.Revealed, "slot %d should start face down", i)
	}
	assert.Equal(t, domain.DeckSize-3, sess.DeckRemaining())

	// Reveal the middle card only.
	require.NoError(t, sess.RevealCard(1))
	slots = sess.Slots()
	assert.False(t, slots[0].Revealed)
	assert.True(t, slots[1].Revealed)
	assert.False(t, slots[2].Revealed)
	assert.Equal(t, domain.PhaseDrawing, sess.Phase())

	// Revealing the rest, in any order, lands in AllRevealed.
	require.NoError(t, sess.RevealCard(2))
	require.NoError(t, sess.RevealCard(0))
	assert.Equal(t, domain.PhaseAllRevealed, sess.Phase())
}

func TestSession_SetQuestion_OnlyBeforeSpread(t *testing.T) {
	sess := newTestSession()
	require.NoError(t, sess.ChooseSpread(threeCardSpread()))

	err := sess.SetQuestion("too late")
	assert.ErrorIs(t, err, domain.ErrWrongPhase)
}

func TestSession_ChooseSpread_CustomCount(t *testing.T) {
	custom := domain.Spread{ID: domain.SpreadCustom, NameKo: "커스텀", NameEn: "Custom"}

	_, err := custom.WithCount(0)
	assert.ErrorIs(t, err, domain.ErrInvalidSpreadCount)

	_, err = custom.WithCount(11)
	assert.ErrorIs(t, err, domain.ErrInvalidSpreadCount)

	resolved, err := custom.WithCount(5)
	require.NoError(t, err)

	sess := newTestSession()
	require.NoError(t, sess.ChooseSpread(resolved))
	assert.Len(t, sess.Slots(), 5)
}

func TestSession_ChooseSpread_RejectsUnresolvedCount(t *testing.T) {
	sess := newTestSession()

	err := sess.ChooseSpread(domain.Spread{ID: domain.SpreadCustom})
	assert.ErrorIs(t, err, domain.ErrInvalidSpreadCount)
	assert.Equal(t, domain.PhaseNotStarted, sess.Phase())
}

func TestSession_ChooseSpread_Twice(t *testing.T) {
	sess := newTestSession()
	require.NoError(t, sess.ChooseSpread(threeCardSpread()))

	err := sess.ChooseSpread(threeCardSpread())
	assert.ErrorIs(t, err, domain.ErrWrongPhase)
}

func TestSession_RevealCard_Idempotent(t *testing.T) {
	sess := newTestSession()
	require.NoError(t, sess.ChooseSpread(threeCardSpread()))

	require.NoError(t, sess.RevealCard(0))
	before := sess.Slots()
	phase := sess.Phase()

	require.NoError(t, sess.RevealCard(0))
	assert.Equal(t, before, sess.Slots())
	assert.Equal(t, phase, sess.Phase())
}

func TestSession_RevealCard_IndexOutOfRange(t *testing.T) {
	sess := newTestSession()
	require.NoError(t, sess.ChooseSpread(threeCardSpread()))

	assert.ErrorIs(t, sess.RevealCard(-1), domain.ErrIndexOutOfRange)
	assert.ErrorIs(t, sess.RevealCard(3), domain.ErrIndexOutOfRange)
}

func TestSession_RevealCard_BeforeSpread(t *testing.T) {
	sess := newTestSession()
	assert.ErrorIs(t, sess.RevealCard(0), domain.ErrWrongPhase)
}

func TestSession_AllRevealed_AnyOrder(t *testing.T) {
	orders := [][]int{
		{0, 1, 2},
		{2, 1, 0},
		{1, 2, 0},
	}
	for _, order := range orders {
		sess := newTestSession()
		require.NoError(t, sess.ChooseSpread(threeCardSpread()))

		for i, idx := range order {
			require.NoError(t, sess.RevealCard(idx))
			if i < len(order)-1 {
				assert.Equal(t, domain.PhaseDrawing, sess.Phase())
			}
		}
		assert.Equal(t, domain.PhaseAllRevealed, sess.Phase())
	}
}

func TestSession_InterpretationLifecycle(t *testing.T) {
	sess := newTestSession()
	require.NoError(t, sess.ChooseSpread(threeCardSpread()))
	for i := 0; i < 3; i++ {
		require.NoError(t, sess.RevealCard(i))
	}

	gen, err := sess.BeginInterpretation()
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseInterpRequested, sess.Phase())

	// Only one request may be outstanding.
	_, err = sess.BeginInterpretation()
	assert.ErrorIs(t, err, domain.ErrInterpretInFlight)

	require.NoError(t, sess.CompleteInterpretation(gen, "## The Fool\nA new beginning."))
	assert.Equal(t, domain.PhaseInterpReady, sess.Phase())
	assert.Equal(t, "## The Fool\nA new beginning.", sess.Reading())
}

func TestSession_InterpretationFailureAndRetry(t *testing.T) {
	sess := newTestSession()
	require.NoError(t, sess.ChooseSpread(threeCardSpread()))
	for i := 0; i < 3; i++ {
		require.NoError(t, sess.RevealCard(i))
	}

	gen, err := sess.BeginInterpretation()
	require.NoError(t, err)
	require.NoError(t, sess.FailInterpretation(gen, "The reading could not be completed."))
	assert.Equal(t, domain.PhaseInterpFailed, sess.Phase())
	assert.Equal(t, "The reading could not be completed.", sess.FailureText())

	// Retry re-enters the requested phase and clears the failure.
	gen, err = sess.BeginInterpretation()
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseInterpRequested, sess.Phase())
	assert.Empty(t, sess.FailureText())

	require.NoError(t, sess.CompleteInterpretation(gen, "A reading."))
	assert.Equal(t, domain.PhaseInterpReady, sess.Phase())
}

func TestSession_BeginInterpretation_BeforeAllRevealed(t *testing.T) {
	sess := newTestSession()
	require.NoError(t, sess.ChooseSpread(threeCardSpread()))
	require.NoError(t, sess.RevealCard(0))

	_, err := sess.BeginInterpretation()
	assert.ErrorIs(t, err, domain.ErrWrongPhase)
}

func TestSession_Reset_FromEveryPhase(t *testing.T) {
	advance := map[string]func(*domain.Session){
		"not_started": func(*domain.Session) {},
		"drawing": func(s *domain.Session) {
			_ = s.ChooseSpread(threeCardSpread())
		},
		"all_revealed": func(s *domain.Session) {
			_ = s.ChooseSpread(threeCardSpread())
			for i := 0; i < 3; i++ {
				_ = s.RevealCard(i)
			}
		},
		"requested": func(s *domain.Session) {
			_ = s.ChooseSpread(threeCardSpread())
			for i := 0; i < 3; i++ {
				_ = s.RevealCard(i)
			}
			_, _ = s.BeginInterpretation()
		},
		"ready": func(s *domain.Session) {
			_ = s.ChooseSpread(threeCardSpread())
			for i := 0; i < 3; i++ {
				_ = s.RevealCard(i)
			}
			gen, _ := s.BeginInterpretation()
			_ = s.CompleteInterpretation(gen, "text")
		},
	}

	for name, fn := range advance {
		sess := newTestSession()
		_ = sess.SetQuestion("q")
		fn(sess)

		sess.Reset()

		assert.Equal(t, domain.PhaseNotStarted, sess.Phase(), name)
		assert.Empty(t, sess.Slots(), name)
		assert.Empty(t, sess.Question(), name)
		assert.Empty(t, sess.Reading(), name)
		assert.Equal(t, domain.DeckSize, sess.DeckRemaining(), name)
	}
}

func TestSession_StaleSettleAfterReset(t *testing.T) {
	sess := newTestSession()
	require.NoError(t, sess.ChooseSpread(threeCardSpread()))
	for i := 0; i < 3; i++ {
		require.NoError(t, sess.RevealCard(i))
	}
	gen, err := sess.BeginInterpretation()
	require.NoError(t, err)

	sess.Reset()

	// A settle arriving after reset must not resurrect the reading.
	assert.ErrorIs(t, sess.CompleteInterpretation(gen, "stale"), domain.ErrStaleInterpretation)
	assert.Equal(t, domain.PhaseNotStarted, sess.Phase())
	assert.Empty(t, sess.Reading())
}

func TestSession_StaleSettleAfterResetAndNewRequest(t *testing.T) {
	advance := func(sess *domain.Session) uint64 {
		t.Helper()
		require.NoError(t, sess.ChooseSpread(threeCardSpread()))
		for i := 0; i < 3; i++ {
			require.NoError(t, sess.RevealCard(i))
		}
		gen, err := sess.BeginInterpretation()
		require.NoError(t, err)
		return gen
	}

	sess := newTestSession()
	oldGen := advance(sess)

	// A full new reading starts while the old request is still in
	// flight; the session is in-request again when the old outcome
	// finally arrives.
	sess.Reset()
	newGen := advance(sess)
	require.NotEqual(t, oldGen, newGen)

	assert.ErrorIs(t, sess.CompleteInterpretation(oldGen, "old cycle"), domain.ErrStaleInterpretation)
	assert.ErrorIs(t, sess.FailInterpretation(oldGen, "old failure"), domain.ErrStaleInterpretation)
	assert.Equal(t, domain.PhaseInterpRequested, sess.Phase())
	assert.Empty(t, sess.Reading())
	assert.Empty(t, sess.FailureText())

	require.NoError(t, sess.CompleteInterpretation(newGen, "new cycle"))
	assert.Equal(t, "new cycle", sess.Reading())
}
