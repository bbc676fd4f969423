package guide

import (
	"errors"
	"fmt"

	"github.com/DoyleJ11/ironsworn-play/internal/protocol"
)

var ErrUnknownTable = errors.New("unknown oracle table")
var ErrRollOutOfRange = errors.New("oracle roll must be 1-100")

type row struct {
	max  int
	text string
}

type table struct {
	collection string
	name       string
	rows       []row
}

// tables is keyed by collection then table key. Rows are d100 ranges by
// their upper bound.
var tables = map[string]map[string]table{
	"core": {
		"action": {collection: "Core Oracles", name: "Action", rows: []row{
			{10, "Scheme"}, {20, "Clash"}, {30, "Weaken"}, {40, "Initiate"}, {50, "Create"},
			{60, "Swear"}, {70, "Avenge"}, {80, "Guard"}, {90, "Defeat"}, {100, "Control"},
		}},
		"theme": {collection: "Core Oracles", name: "Theme", rows: []row{
			{10, "Risk"}, {20, "Ability"}, {30, "Price"}, {40, "Ally"}, {50, "Battle"},
			{60, "Safety"}, {70, "Survival"}, {80, "Weapon"}, {90, "Wound"}, {100, "Shelter"},
		}},
	},
	"turning_point": {
		"yes_no": {collection: "Turning Point", name: "Ask the Oracle", rows: []row{
			{50, "No"}, {100, "Yes"},
		}},
	},
}

// Oracle rolls d100 on a table.
func (g *Guide) Oracle(collectionKey, tableKey string) (protocol.OracleRoll, error) {
	return ManualOracle(collectionKey, tableKey, g.intn(100)+1)
}

// ManualOracle resolves a roll made with physical dice.
func ManualOracle(collectionKey, tableKey string, roll int) (protocol.OracleRoll, error) {
	t, ok := tables[collectionKey][tableKey]
	if !ok {
		return protocol.OracleRoll{}, fmt.Errorf("%w: %s/%s", ErrUnknownTable, collectionKey, tableKey)
	}
	if roll < 1 || roll > 100 {
		return protocol.OracleRoll{}, fmt.Errorf("%w: %d", ErrRollOutOfRange, roll)
	}
	res := protocol.OracleRoll{CollectionName: t.collection, TableName: t.name, Roll: roll}
	for _, r := range t.rows {
		if roll <= r.max {
			res.ResultText = r.text
			break
		}
	}
	return res, nil
}

// JournalLine is how an oracle roll is recorded.
func JournalLine(r protocol.OracleRoll) string {
	return fmt.Sprintf("**Oracle** (%s / %s): %d → %s", r.CollectionName, r.TableName, r.Roll, r.ResultText)
}
