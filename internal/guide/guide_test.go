package guide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/ironsworn-play/internal/engine"
	"github.com/DoyleJ11/ironsworn-play/internal/protocol"
)

func userBlocks(n int) []protocol.Block {
	var out []protocol.Block
	for range n {
		out = append(out,
			protocol.Block{Type: protocol.BlockUser, HTML: "answer"},
			protocol.Block{Type: protocol.BlockAssistant, HTML: "<p>question</p>"},
		)
	}
	return out
}

func TestReply_SuggestsVowAfterThreeAnswers(t *testing.T) {
	g := New(1)

	for n := 1; n < VowAfter; n++ {
		r := g.Reply(userBlocks(n), "I was a smith")
		_, ok := r.Vow()
		assert.False(t, ok, "after %d answers", n)
		assert.Contains(t, r.Message, `"I was a smith"`)
	}

	r := g.Reply(userBlocks(VowAfter), "My brother was taken")
	vow, ok := r.Vow()
	require.True(t, ok)
	assert.Contains(t, vows, vow)
}

func TestResume(t *testing.T) {
	g := New(2)
	_, ok := g.Resume(nil).Vow()
	assert.False(t, ok)
	_, ok = g.Resume(userBlocks(4)).Vow()
	assert.True(t, ok)
}

func TestExchangesCountsOnlyPlayer(t *testing.T) {
	assert.Equal(t, 0, Exchanges(nil))
	assert.Equal(t, 2, Exchanges(userBlocks(2)))
}

func TestNarrate(t *testing.T) {
	g := New(3)
	n := g.Narrate("Search the <ruins>.")
	assert.Contains(t, n.Narrative, "You search the <ruins>.")
	assert.Contains(t, n.NarrativeHTML, "&lt;ruins&gt;")
	assert.NotEmpty(t, n.Location)
	assert.Len(t, n.NPCs, 1)

	miss := g.NarrateMove("Face Danger", engine.OutcomeMiss)
	assert.Contains(t, miss.Narrative, "falters")
}

func TestRulesText(t *testing.T) {
	assert.Equal(t,
		"You succeed, but face a troublesome cost: suffer -1 momentum, harm, stress or lost supply.",
		RulesText("adventure", "face_danger", engine.OutcomeWeakHit))
	assert.Equal(t, "Make camp: Strong Hit.", RulesText("suffer", "make_camp", engine.OutcomeStrongHit))
}

func TestManualOracle(t *testing.T) {
	cases := []struct {
		roll int
		want string
	}{
		{1, "Scheme"},
		{10, "Scheme"},
		{11, "Clash"},
		{42, "Initiate"},
		{100, "Control"},
	}
	for _, tc := range cases {
		r, err := ManualOracle("core", "action", tc.roll)
		require.NoError(t, err)
		assert.Equal(t, tc.want, r.ResultText, "roll %d", tc.roll)
		assert.Equal(t, "Core Oracles", r.CollectionName)
		assert.Equal(t, "Action", r.TableName)
	}

	_, err := ManualOracle("core", "weather", 5)
	assert.ErrorIs(t, err, ErrUnknownTable)
	_, err = ManualOracle("core", "action", 0)
	assert.ErrorIs(t, err, ErrRollOutOfRange)
}

func TestOracleRollsInRange(t *testing.T) {
	g := New(4)
	for range 200 {
		r, err := g.Oracle("turning_point", "yes_no")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r.Roll, 1)
		assert.LessOrEqual(t, r.Roll, 100)
		assert.Contains(t, []string{"Yes", "No"}, r.ResultText)
	}
}

func TestJournalLine(t *testing.T) {
	line := JournalLine(protocol.OracleRoll{CollectionName: "Core Oracles", TableName: "Action", Roll: 42, ResultText: "Initiate"})
	assert.Equal(t, "**Oracle** (Core Oracles / Action): 42 → Initiate", line)
}
