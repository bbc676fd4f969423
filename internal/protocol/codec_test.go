package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/ironsworn-play/internal/character"
)

func TestDecodeInbound_EveryVariant(t *testing.T) {
	cases := []struct {
		frame string
		want  Inbound
	}{
		{`{"type":"creation_phase","phase":"creation"}`, CreationPhase{Phase: PhaseCreation}},
		{`{"type":"inspire","text":"A storm gathers"}`, Inspire{Text: "A storm gathers"}},
		{`{"type":"creation_response","message":"Tell me more","suggestedVow":null}`, CreationResponse{Message: "Tell me more"}},
		{`{"type":"creation_resume","blocks":[{"type":"user","html":"hi"}]}`, CreationResume{Blocks: []Block{{Type: BlockUser, HTML: "hi"}}}},
		{`{"type":"play_resume","blocks":[]}`, PlayResume{Blocks: []Block{}}},
		{`{"type":"narrative","narrative":"Rain.","location":"Ironlands","npcs":["Ash"]}`, Narrative{Narrative: "Rain.", Location: "Ironlands", NPCs: []string{"Ash"}}},
		{`{"type":"move_outcome","moveName":"Face Danger","moveOutcomeText":"You succeed"}`, MoveOutcome{MoveName: "Face Danger", MoveOutcomeText: "You succeed"}},
		{`{"type":"oracle_result","result":{"tableName":"Action","resultText":"Scheme","roll":42}}`, OracleResult{Result: OracleRoll{TableName: "Action", ResultText: "Scheme", Roll: 42}}},
		{`{"type":"loading"}`, Loading{}},
		{`{"type":"ready"}`, Ready{}},
		{`{"type":"error","message":"boom"}`, ServerError{Message: "boom"}},
	}

	for _, tc := range cases {
		t.Run(tc.want.MessageType(), func(t *testing.T) {
			got, err := DecodeInbound([]byte(tc.frame))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeInbound_Character(t *testing.T) {
	frame := `{"type":"character_update","character":{"name":"Kira","edge":3,"heart":2,"iron":2,"shadow":1,"wits":1,
		"health":4,"spirit":5,"supply":3,"momentum":6,"vows":[{"description":"Avenge","rank":"EPIC","progress":2}]}}`

	got, err := DecodeInbound([]byte(frame))
	require.NoError(t, err)

	upd, ok := got.(CharacterUpdate)
	require.True(t, ok, "got %T", got)
	assert.Equal(t, "Kira", upd.Character.Name)
	assert.Equal(t, 3, upd.Character.Edge)
	assert.Equal(t, 6, upd.Character.Momentum)
	require.Len(t, upd.Character.Vows, 1)
	assert.EqualValues(t, "EPIC", upd.Character.Vows[0].Rank)

	ready, err := DecodeInbound([]byte(`{"type":"creation_ready","character":{"edge":1,"heart":1,"iron":1,"shadow":1,"wits":1}}`))
	require.NoError(t, err)
	require.NotNil(t, ready.(CreationReady).Character)
}

func TestDecodeInbound_Errors(t *testing.T) {
	_, err := DecodeInbound([]byte(`{"type":"teleport"}`))
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = DecodeInbound([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeInbound([]byte(`{"phase":"creation"}`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeInbound([]byte(`{"type":"move_outcome","moveName":7}`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCreationResponseVow(t *testing.T) {
	blank := ""
	vow := "Find my sister"

	_, ok := CreationResponse{}.Vow()
	assert.False(t, ok)
	_, ok = CreationResponse{SuggestedVow: &blank}.Vow()
	assert.False(t, ok)
	got, ok := CreationResponse{SuggestedVow: &vow}.Vow()
	assert.True(t, ok)
	assert.Equal(t, vow, got)
}

func TestEncode_CarriesType(t *testing.T) {
	cases := []struct {
		msg  Outbound
		want map[string]any
	}{
		{CreationChat{Text: "I was a smith"}, map[string]any{"type": "creation_chat", "text": "I was a smith"}},
		{NarrativeRequest{Text: "I search the ruins"}, map[string]any{"type": "narrative", "text": "I search the ruins"}},
		{InspireRequest{}, map[string]any{"type": "inspire"}},
		{ProgressMark{VowIndex: 1}, map[string]any{"type": "progress_mark", "vowIndex": float64(1)}},
		{OracleRequest{CollectionKey: "core", TableKey: "action"}, map[string]any{"type": "oracle", "collectionKey": "core", "tableKey": "action"}},
	}

	for _, tc := range cases {
		t.Run(tc.msg.MessageType(), func(t *testing.T) {
			raw, err := Encode(tc.msg)
			require.NoError(t, err)

			var got map[string]any
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, tc.want, got)

			back, err := DecodeOutbound(raw)
			require.NoError(t, err)
			assert.Equal(t, tc.msg, back)
		})
	}
}

func TestEncode_MoveResultFields(t *testing.T) {
	raw, err := Encode(MoveResult{
		CategoryKey: "adventure", MoveKey: "face_the_danger", Stat: "iron", StatValue: 2,
		ActionDie: 4, Challenge1: 3, Challenge2: 9, ActionScore: 6, Outcome: "WEAK_HIT",
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	for _, key := range []string{"type", "categoryKey", "moveKey", "stat", "statValue", "adds", "actionDie",
		"challenge1", "challenge2", "actionScore", "outcome", "playerAction"} {
		assert.Contains(t, got, key)
	}
	assert.Equal(t, "move_result", got["type"])
}

func TestFinalizeCreation_CarriesNoMeters(t *testing.T) {
	raw, err := Encode(FinalizeCreation{Character: NewCharacter{
		Name:  "Kira",
		Stats: character.Stats{Edge: 3, Heart: 2, Iron: 2, Shadow: 1, Wits: 1},
		Vows:  []character.Vow{{Description: "Find my brother", Rank: character.RankDangerous}},
	}})
	require.NoError(t, err)

	var got struct {
		Character map[string]any `json:"character"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	for _, key := range []string{"name", "edge", "heart", "iron", "shadow", "wits", "vows"} {
		assert.Contains(t, got.Character, key)
	}
	for _, key := range []string{"health", "spirit", "supply", "momentum"} {
		assert.NotContains(t, got.Character, key)
	}

	back, err := DecodeOutbound(raw)
	require.NoError(t, err)
	start := back.(FinalizeCreation).Character.Start()
	assert.Equal(t, character.StartingMeters(), start.Meters)
	assert.Len(t, start.Vows, 1)
}
