// Package guide is the dev server's scripted stand-in for the narrative
// engine. Its text is canned; what matters is that it speaks the protocol the
// way the real server does.
package guide

import (
	"fmt"
	"html"
	"math/rand"
	"strings"
	"sync"

	"github.com/DoyleJ11/ironsworn-play/internal/engine"
	"github.com/DoyleJ11/ironsworn-play/internal/moves"
	"github.com/DoyleJ11/ironsworn-play/internal/protocol"
)

// VowAfter is how many player answers the guide waits for before it
// proposes a background vow.
const VowAfter = 3

type Guide struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func New(seed int64) *Guide {
	return &Guide{rng: rand.New(rand.NewSource(seed))}
}

func (g *Guide) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(n)
}

func (g *Guide) pick(options []string) string {
	return options[g.intn(len(options))]
}

var inspirations = []string{
	"Smoke rises over the Ragged Coast. A bell tolls in a village that should be empty, and someone has carved your name into the door of the longhouse.",
	"The winter was long and the Tempest Hills gave up their dead. Your kin sent you north with a sealed letter and orders not to open it.",
	"An iron shard, still warm, was pressed into your hand by a dying stranger. The ironlanders who saw it fell silent and would not meet your eyes.",
}

var questions = []string{
	"Who did you leave behind when you came to the Ironlands?",
	"What do you carry that you would die to protect?",
	"Which scar do you never speak of, and who gave it to you?",
	"What does your community whisper about you when you are gone?",
}

var vows = []string{
	"Find the stranger who carved my name",
	"Return the iron shard to its maker",
	"Avenge the fallen of my village",
}

// Inspiration is the opening text of a new character.
func (g *Guide) Inspiration() string {
	return g.pick(inspirations)
}

// Exchanges counts the player's turns in a journal.
func Exchanges(journal []protocol.Block) int {
	n := 0
	for _, b := range journal {
		if b.Type == protocol.BlockUser {
			n++
		}
	}
	return n
}

// Reply answers a creation chat message. journal already holds the message
// being answered; once the player has spoken VowAfter times the guide also
// suggests a vow.
func (g *Guide) Reply(journal []protocol.Block, text string) protocol.CreationResponse {
	if vow, ok := g.suggest(journal); ok {
		return vow
	}
	return protocol.CreationResponse{
		Message: fmt.Sprintf("%q. I will remember that. %s", strings.TrimSpace(text), g.pick(questions)),
	}
}

// Resume picks the conversation back up after a reconnect.
func (g *Guide) Resume(journal []protocol.Block) protocol.CreationResponse {
	if vow, ok := g.suggest(journal); ok {
		return vow
	}
	return protocol.CreationResponse{Message: "Welcome back to the fire. " + g.pick(questions)}
}

func (g *Guide) suggest(journal []protocol.Block) (protocol.CreationResponse, bool) {
	if Exchanges(journal) < VowAfter {
		return protocol.CreationResponse{}, false
	}
	vow := g.pick(vows)
	return protocol.CreationResponse{
		Message:      "Your tale is clear now. Every ironlander is bound by a vow. Will you swear this one?",
		SuggestedVow: &vow,
	}, true
}

var locations = []string{"The Deep Wilds", "Havens", "Shattered Wastes", "Hinterlands", "Veiled Mountains"}
var npcs = []string{"Ash the Wanderer", "Old Ketil", "Sigrun Iron-Eyes", "The Ravenkeeper"}

// Narrate answers free text in play.
func (g *Guide) Narrate(text string) protocol.Narrative {
	action := strings.TrimSuffix(strings.TrimSpace(text), ".")
	if strings.HasPrefix(strings.ToLower(action), "i ") {
		action = action[2:]
	}
	prose := fmt.Sprintf("You %s. The land answers in its own way: wind in the pines, and somewhere far off, a horn.",
		lowerFirst(action))
	return g.narrative(prose)
}

// NarrateMove answers a resolved move.
func (g *Guide) NarrateMove(moveName string, outcome engine.Outcome) protocol.Narrative {
	var prose string
	switch outcome {
	case engine.OutcomeStrongHit:
		prose = fmt.Sprintf("Your %s succeeds cleanly. For a moment the path ahead is clear.", moveName)
	case engine.OutcomeWeakHit:
		prose = fmt.Sprintf("Your %s works, but not without cost. Something was lost along the way.", moveName)
	default:
		prose = fmt.Sprintf("Your %s falters. The situation turns against you.", moveName)
	}
	return g.narrative(prose)
}

// Continue narrates after a reconnect when the last turn was never answered.
func (g *Guide) Continue() protocol.Narrative {
	return g.narrative("The story picks up where it left off. The fire has burned low.")
}

func (g *Guide) narrative(prose string) protocol.Narrative {
	return protocol.Narrative{
		Narrative:     prose,
		NarrativeHTML: "<p>" + html.EscapeString(prose) + "</p>",
		Location:      g.pick(locations),
		NPCs:          []string{g.pick(npcs)},
	}
}

// RulesText is the outcome text for a move, falling back to a generic line
// for moves outside the catalog.
func RulesText(categoryKey, moveKey string, outcome engine.Outcome) string {
	if m, ok := moves.Find(categoryKey, moveKey); ok {
		return m.OutcomeText(outcome)
	}
	return fmt.Sprintf("%s: %s.", moves.DisplayName(moveKey), outcome.Display())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
