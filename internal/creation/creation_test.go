package creation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/ironsworn-play/internal/character"
)

func setStats(t *testing.T, c *Controller, s character.Stats) Validation {
	t.Helper()
	var v Validation
	for _, st := range character.AllStats {
		val, _ := s.Get(st)
		var err error
		v, err = c.EditStat(st, val)
		require.NoError(t, err)
	}
	return v
}

func TestPresentStatsFreshRecord(t *testing.T) {
	c := New()
	assert.Equal(t, StepAwaitingInspiration, c.Step())
	assert.False(t, c.InputEnabled())

	v := c.PresentStats(nil)
	assert.Equal(t, StepStatsPending, c.Step())
	assert.Equal(t, character.DefaultStats(), c.Stats())
	assert.False(t, v.Valid)
	assert.Equal(t, "Total: 5/9 — must sum to 9", v.Message())
	assert.True(t, c.InputEnabled())
}

func TestPresentStatsConfirmedSeedLocks(t *testing.T) {
	seed := character.New("Kira", character.Stats{Edge: 3, Heart: 2, Iron: 2, Shadow: 1, Wits: 1})

	c := New()
	v := c.PresentStats(&seed)
	assert.True(t, c.Locked())
	assert.True(t, v.Valid)
	assert.Equal(t, StepGuideChat, c.Step())

	_, err := c.EditStat(character.StatEdge, 1)
	assert.ErrorIs(t, err, ErrStatsLocked)
	_, err = c.ConfirmStats()
	assert.ErrorIs(t, err, ErrStatsLocked)
}

func TestEditStatValidation(t *testing.T) {
	cases := []struct {
		name    string
		stats   character.Stats
		valid   bool
		message string
	}{
		{"valid", character.Stats{Edge: 1, Heart: 1, Iron: 2, Shadow: 2, Wits: 3}, true, "Total: 9/9"},
		{"out of range", character.Stats{Edge: 1, Heart: 1, Iron: 1, Shadow: 1, Wits: 5}, false, "Each stat must be 1, 2, or 3"},
		{"short", character.Stats{Edge: 2, Heart: 1, Iron: 1, Shadow: 1, Wits: 1}, false, "Total: 6/9 — must sum to 9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New()
			c.PresentStats(nil)
			v := setStats(t, c, tc.stats)
			assert.Equal(t, tc.valid, v.Valid)
			assert.Equal(t, tc.message, v.Message())
		})
	}
}

func TestEditStatUnknown(t *testing.T) {
	c := New()
	c.PresentStats(nil)
	_, err := c.EditStat("luck", 2)
	assert.ErrorIs(t, err, character.ErrUnknownStat)
}

func TestConfirmStatsSnapshot(t *testing.T) {
	c := New()
	c.PresentStats(nil)
	setStats(t, c, character.Stats{Edge: 2, Heart: 2, Iron: 2, Shadow: 2, Wits: 1})

	snap, err := c.ConfirmStats()
	require.NoError(t, err)
	assert.Equal(t, character.StartingMeters(), snap.Meters)
	assert.Equal(t, 2, snap.Iron)
	assert.Equal(t, 1, snap.Wits)
	assert.NotNil(t, snap.Vows)
	assert.Empty(t, snap.Vows)
	assert.True(t, c.Locked())
	assert.Equal(t, StepGuideChat, c.Step())
}

func TestConfirmStatsRejectsInvalid(t *testing.T) {
	c := New()
	c.PresentStats(nil)

	_, err := c.ConfirmStats()
	assert.ErrorIs(t, err, character.ErrStatSum)
	assert.False(t, c.Locked())
	assert.Equal(t, StepStatsPending, c.Step())
}

func TestChatAndVowProposal(t *testing.T) {
	c := New()
	c.PresentStats(nil)
	setStats(t, c, character.Stats{Edge: 2, Heart: 2, Iron: 2, Shadow: 2, Wits: 1})
	_, err := c.ConfirmStats()
	require.NoError(t, err)

	_, err = c.SubmitChat("   ")
	assert.ErrorIs(t, err, ErrEmptyText)

	text, err := c.SubmitChat("  I hunt the beast  ")
	require.NoError(t, err)
	assert.Equal(t, "I hunt the beast", text)
	assert.True(t, c.AwaitingGuide())
	assert.False(t, c.InputEnabled())

	_, err = c.SubmitChat("again")
	assert.ErrorIs(t, err, ErrWrongStep)

	c.ReceiveReply("", false)
	assert.Equal(t, StepGuideChat, c.Step())
	assert.True(t, c.InputEnabled())

	_, err = c.SubmitChat("tell me more")
	require.NoError(t, err)
	c.ReceiveReply("Avenge my brother", true)
	assert.Equal(t, StepVowProposed, c.Step())
	assert.Equal(t, VowDraft{Description: "Avenge my brother", Rank: character.RankDangerous}, c.Vow())
	assert.False(t, c.InputEnabled())
}

func TestFinalize(t *testing.T) {
	ready := func(t *testing.T) *Controller {
		c := New()
		c.PresentStats(nil)
		setStats(t, c, character.Stats{Edge: 3, Heart: 2, Iron: 2, Shadow: 1, Wits: 1})
		_, err := c.ConfirmStats()
		require.NoError(t, err)
		c.ReceiveReply("Find the lost shrine", true)
		return c
	}

	t.Run("edited vow", func(t *testing.T) {
		c := ready(t)
		require.NoError(t, c.EditVow("  Slay the wyrm  ", character.RankExtreme))

		out, err := c.Finalize()
		require.NoError(t, err)
		require.Len(t, out.Vows, 1)
		assert.Equal(t, character.Vow{Description: "Slay the wyrm", Rank: character.RankExtreme}, out.Vows[0])
		assert.Equal(t, 3, out.Edge)
		assert.Equal(t, StepFinalized, c.Step())
	})

	t.Run("blank vow", func(t *testing.T) {
		c := ready(t)
		require.NoError(t, c.EditVow("   ", character.RankDangerous))

		out, err := c.Finalize()
		require.NoError(t, err)
		assert.NotNil(t, out.Vows)
		assert.Empty(t, out.Vows)
	})

	t.Run("bad rank", func(t *testing.T) {
		c := ready(t)
		assert.ErrorIs(t, c.EditVow("x", "MYTHIC"), character.ErrUnknownRank)
	})

	t.Run("stats never confirmed", func(t *testing.T) {
		c := New()
		c.PresentStats(nil)
		_, err := c.SubmitChat("I was a smith")
		require.NoError(t, err)
		c.ReceiveReply("Find the lost shrine", true)

		_, err = c.Finalize()
		assert.ErrorIs(t, err, ErrStatsUnconfirmed)
		assert.Equal(t, StepVowProposed, c.Step())
	})

	t.Run("before vow", func(t *testing.T) {
		c := New()
		_, err := c.Finalize()
		assert.ErrorIs(t, err, ErrWrongStep)
	})
}

func TestStatsStayOpenBesideProposedVow(t *testing.T) {
	c := New()
	c.PresentStats(nil)
	_, err := c.SubmitChat("I was a smith")
	require.NoError(t, err)
	c.ReceiveReply("Find the lost shrine", true)
	require.Equal(t, StepVowProposed, c.Step())

	v := setStats(t, c, character.Stats{Edge: 3, Heart: 2, Iron: 2, Shadow: 1, Wits: 1})
	assert.True(t, v.Valid)

	snap, err := c.ConfirmStats()
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Edge)
	assert.True(t, c.Locked())
	assert.Equal(t, StepVowProposed, c.Step(), "confirming keeps the vow on the table")

	_, err = c.EditStat(character.StatEdge, 1)
	assert.ErrorIs(t, err, ErrStatsLocked)

	out, err := c.Finalize()
	require.NoError(t, err)
	assert.Equal(t, c.Stats(), out.Stats)
	assert.Equal(t, []character.Vow{{Description: "Find the lost shrine", Rank: character.RankDangerous}}, out.Vows)
}

func TestResetClearsEverything(t *testing.T) {
	c := New()
	c.PresentStats(nil)
	setStats(t, c, character.Stats{Edge: 3, Heart: 2, Iron: 2, Shadow: 1, Wits: 1})
	_, err := c.ConfirmStats()
	require.NoError(t, err)

	c.Reset()
	assert.Equal(t, StepAwaitingInspiration, c.Step())
	assert.False(t, c.Locked())
	assert.Equal(t, character.DefaultStats(), c.Stats())
}
