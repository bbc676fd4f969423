// Package moves is the catalog of rolled moves the client offers and the
// rules text the dev server reports for each outcome.
package moves

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DoyleJ11/ironsworn-play/internal/character"
	"github.com/DoyleJ11/ironsworn-play/internal/engine"
)

var ErrUnknownMove = errors.New("unknown move")

type Move struct {
	Category string
	Key      string
	Name     string
	// Stats lists the stats the move is usually rolled with.
	Stats []character.Stat
	Rules map[engine.Outcome]string
}

// Pending is the selection handed to the engine.
func (m Move) Pending() engine.PendingMove {
	return engine.PendingMove{Category: m.Category, Key: m.Key, Name: m.Name}
}

func (m Move) OutcomeText(o engine.Outcome) string {
	return m.Rules[o]
}

var catalog = []Move{
	{
		Category: "adventure", Key: "face_danger", Name: "Face Danger",
		Stats: character.AllStats,
		Rules: map[engine.Outcome]string{
			engine.OutcomeStrongHit: "You are successful. Take +1 momentum.",
			engine.OutcomeWeakHit:   "You succeed, but face a troublesome cost: suffer -1 momentum, harm, stress or lost supply.",
			engine.OutcomeMiss:      "You fail, or your progress is undermined by a dramatic and costly turn of events. Pay the Price.",
		},
	},
	{
		Category: "adventure", Key: "secure_an_advantage", Name: "Secure an Advantage",
		Stats: character.AllStats,
		Rules: map[engine.Outcome]string{
			engine.OutcomeStrongHit: "You gain advantage. Take +2 momentum, or take +1 momentum and +1 on your next move.",
			engine.OutcomeWeakHit:   "Your advantage is short-lived. Take +1 momentum.",
			engine.OutcomeMiss:      "You fail or your assumptions betray you. Pay the Price.",
		},
	},
	{
		Category: "adventure", Key: "gather_information", Name: "Gather Information",
		Stats: []character.Stat{character.StatWits},
		Rules: map[engine.Outcome]string{
			engine.OutcomeStrongHit: "You discover something helpful and specific. Take +2 momentum.",
			engine.OutcomeWeakHit:   "The information complicates your quest or introduces a new danger. Take +1 momentum.",
			engine.OutcomeMiss:      "Your investigation unearths a dire threat or reveals an unwelcome truth. Pay the Price.",
		},
	},
	{
		Category: "adventure", Key: "undertake_a_journey", Name: "Undertake a Journey",
		Stats: []character.Stat{character.StatWits},
		Rules: map[engine.Outcome]string{
			engine.OutcomeStrongHit: "You reach a waypoint. You may suffer -1 supply to take +2 momentum, or mark progress.",
			engine.OutcomeWeakHit:   "You reach a waypoint and mark progress, but suffer -1 supply.",
			engine.OutcomeMiss:      "You are waylaid by a perilous event. Pay the Price.",
		},
	},
	{
		Category: "combat", Key: "enter_the_fray", Name: "Enter the Fray",
		Stats: []character.Stat{character.StatHeart, character.StatShadow, character.StatWits},
		Rules: map[engine.Outcome]string{
			engine.OutcomeStrongHit: "Take +2 momentum. You have initiative.",
			engine.OutcomeWeakHit:   "Choose one: take +2 momentum, or you have initiative.",
			engine.OutcomeMiss:      "The fight begins with you at a disadvantage. Pay the Price.",
		},
	},
	{
		Category: "combat", Key: "strike", Name: "Strike",
		Stats: []character.Stat{character.StatIron, character.StatEdge},
		Rules: map[engine.Outcome]string{
			engine.OutcomeStrongHit: "Inflict +1 harm. You retain initiative.",
			engine.OutcomeWeakHit:   "Inflict your harm and lose initiative.",
			engine.OutcomeMiss:      "Your attack fails and you must Pay the Price.",
		},
	},
	{
		Category: "relationship", Key: "compel", Name: "Compel",
		Stats: []character.Stat{character.StatHeart, character.StatIron, character.StatShadow},
		Rules: map[engine.Outcome]string{
			engine.OutcomeStrongHit: "They'll do what you want or share what they know. Take +1 momentum.",
			engine.OutcomeWeakHit:   "They'll do it, but ask something of you in return.",
			engine.OutcomeMiss:      "They refuse or make a demand which costs you greatly.",
		},
	},
	{
		Category: "quest", Key: "swear_an_iron_vow", Name: "Swear an Iron Vow",
		Stats: []character.Stat{character.StatHeart},
		Rules: map[engine.Outcome]string{
			engine.OutcomeStrongHit: "You are emboldened and it is clear what you must do next. Take +2 momentum.",
			engine.OutcomeWeakHit:   "You are determined but begin your quest with more questions than answers. Take +1 momentum.",
			engine.OutcomeMiss:      "You face a significant obstacle before you can begin your quest.",
		},
	},
}

// All returns the catalog in display order.
func All() []Move {
	return append([]Move(nil), catalog...)
}

// Lookup finds a move by key, or by display name ignoring case.
func Lookup(key string) (Move, error) {
	want := strings.TrimSpace(key)
	norm := strings.ReplaceAll(strings.ToLower(want), " ", "_")
	for _, m := range catalog {
		if m.Key == norm || strings.EqualFold(m.Name, want) {
			return m, nil
		}
	}
	return Move{}, fmt.Errorf("%w: %q", ErrUnknownMove, key)
}

// Find looks up a move by category and key.
func Find(category, key string) (Move, bool) {
	for _, m := range catalog {
		if m.Category == category && m.Key == key {
			return m, true
		}
	}
	return Move{}, false
}

// DisplayName turns a move key into a readable name for moves outside the
// catalog, e.g. "face_danger" -> "Face danger".
func DisplayName(key string) string {
	if m, ok := catalogByKey(key); ok {
		return m.Name
	}
	name := strings.ReplaceAll(key, "_", " ")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func catalogByKey(key string) (Move, bool) {
	for _, m := range catalog {
		if m.Key == key {
			return m, true
		}
	}
	return Move{}, false
}
