package engine

import (
	"strings"

	"github.com/DoyleJ11/ironsworn-play/internal/character"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxActionScore caps the action score regardless of die, stat and adds.
const MaxActionScore = 10

type Outcome string

const (
	OutcomeMiss      Outcome = "MISS"
	OutcomeWeakHit   Outcome = "WEAK_HIT"
	OutcomeStrongHit Outcome = "STRONG_HIT"
)

// Rank orders outcomes: MISS < WEAK_HIT < STRONG_HIT. Unknown outcomes rank
// below MISS.
func (o Outcome) Rank() int {
	switch o {
	case OutcomeStrongHit:
		return 2
	case OutcomeWeakHit:
		return 1
	case OutcomeMiss:
		return 0
	default:
		return -1
	}
}

func (o Outcome) Outranks(other Outcome) bool {
	return o.Rank() > other.Rank()
}

// Display renders the outcome the way the transcript shows it, e.g. "Weak Hit".
func (o Outcome) Display() string {
	return cases.Title(language.English).String(strings.ReplaceAll(strings.ToLower(string(o)), "_", " "))
}

func ActionScore(actionDie, statValue, adds int) int {
	return min(MaxActionScore, actionDie+statValue+adds)
}

// Classify compares an action score against both challenge dice. The weak-hit
// test only runs once the strong-hit test has failed, so it means "beats
// exactly one".
func Classify(actionScore, challenge1, challenge2 int) Outcome {
	if actionScore > challenge1 && actionScore > challenge2 {
		return OutcomeStrongHit
	}
	if actionScore > challenge1 || actionScore > challenge2 {
		return OutcomeWeakHit
	}
	return OutcomeMiss
}

// BurnOffer reports the outcome momentum would produce against the same
// challenge dice, and whether that strictly improves on the rolled outcome.
// Non-positive momentum is never offered.
func BurnOffer(roll RollContext) (Outcome, bool) {
	if roll.Momentum <= 0 {
		return "", false
	}
	burn := Classify(roll.Momentum, roll.Challenge1, roll.Challenge2)
	return burn, burn.Outranks(roll.Outcome)
}

// BurnMomentum applies an accepted burn: momentum returns to the reset value
// whatever it was before.
func BurnMomentum(c character.Character) character.Character {
	out := c.Clone()
	out.Momentum = character.MomentumReset
	return out
}
