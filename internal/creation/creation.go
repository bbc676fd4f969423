// Package creation drives character creation: stat assignment, the guided
// backstory chat and the vow that starts the journey.
package creation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DoyleJ11/ironsworn-play/internal/character"
	"github.com/DoyleJ11/ironsworn-play/internal/protocol"
)

var ErrWrongStep = errors.New("not valid at this creation step")
var ErrStatsLocked = errors.New("stats already confirmed")
var ErrEmptyText = errors.New("empty message")
var ErrStatsUnconfirmed = errors.New("confirm your stats first")

type Step string

const (
	StepAwaitingInspiration Step = "awaiting_inspiration"
	StepStatsPending        Step = "stats_pending"
	StepStatsConfirmed      Step = "stats_confirmed"
	StepGuideChat           Step = "guide_chat"
	StepVowProposed         Step = "vow_proposed"
	StepFinalized           Step = "finalized"
)

// Validation is the stats widget's running verdict.
type Validation struct {
	Sum   int
	Valid bool
	Err   error
}

// Message renders the verdict the way the stats widget shows it.
func (v Validation) Message() string {
	switch {
	case v.Valid:
		return fmt.Sprintf("Total: %d/%d", v.Sum, character.StatTotal)
	case errors.Is(v.Err, character.ErrStatOutOfRange):
		return "Each stat must be 1, 2, or 3"
	default:
		return fmt.Sprintf("Total: %d/%d — must sum to %d", v.Sum, character.StatTotal, character.StatTotal)
	}
}

// VowDraft is the editable vow proposal.
type VowDraft struct {
	Description string
	Rank        character.Rank
}

type Controller struct {
	step       Step
	name       string
	stats      character.Stats
	locked     bool
	awaiting   bool
	vow        VowDraft
	validation Validation
}

func New() *Controller {
	c := &Controller{}
	c.Reset()
	return c
}

// Reset returns to the start of creation.
func (c *Controller) Reset() {
	*c = Controller{step: StepAwaitingInspiration, stats: character.DefaultStats()}
	c.validate()
}

func (c *Controller) Step() Step             { return c.step }
func (c *Controller) Stats() character.Stats { return c.stats }
func (c *Controller) Locked() bool           { return c.locked }
func (c *Controller) Validation() Validation { return c.validation }
func (c *Controller) Vow() VowDraft          { return c.vow }
func (c *Controller) AwaitingGuide() bool    { return c.awaiting }

// InputEnabled reports whether free text currently goes to the guide.
func (c *Controller) InputEnabled() bool {
	switch c.step {
	case StepStatsPending, StepGuideChat:
		return !c.awaiting
	}
	return false
}

func (c *Controller) validate() Validation {
	err := c.stats.Validate()
	c.validation = Validation{Sum: c.stats.Sum(), Valid: err == nil, Err: err}
	return c.validation
}

// PresentStats shows the stats step seeded from seed, or all ones without a
// record. A record that already holds a finished assignment locks the inputs
// and moves straight on to the guide chat.
func (c *Controller) PresentStats(seed *character.Character) Validation {
	if seed != nil {
		c.name = seed.Name
		c.stats = seed.Stats
	} else if !c.locked {
		c.stats = character.DefaultStats()
	}

	if c.locked || c.stats.Confirmed() {
		c.locked = true
		if c.step != StepVowProposed {
			c.step = StepGuideChat
		}
		return c.validate()
	}

	if c.step != StepVowProposed {
		c.step = StepStatsPending
	}
	return c.validate()
}

// EditStat changes one stat input and revalidates.
func (c *Controller) EditStat(stat character.Stat, value int) (Validation, error) {
	if c.locked {
		return c.validation, ErrStatsLocked
	}
	if !c.statsOpen() {
		return c.validation, fmt.Errorf("%w: edit stat in %s", ErrWrongStep, c.step)
	}
	if err := c.stats.Set(stat, value); err != nil {
		return c.validation, err
	}
	return c.validate(), nil
}

// statsOpen reports whether the stats widget still takes input. It stays
// usable beside a proposed vow until the stats are confirmed.
func (c *Controller) statsOpen() bool {
	return c.step == StepStatsPending || c.step == StepVowProposed
}

// ConfirmStats locks a valid assignment and returns the snapshot to send:
// the confirmed stats with starting meters and no vows. A vow already on the
// table stays proposed.
func (c *Controller) ConfirmStats() (character.Character, error) {
	if c.locked {
		return character.Character{}, ErrStatsLocked
	}
	if !c.statsOpen() {
		return character.Character{}, fmt.Errorf("%w: confirm in %s", ErrWrongStep, c.step)
	}
	if v := c.validate(); !v.Valid {
		return character.Character{}, v.Err
	}

	c.locked = true
	snapshot := character.New(c.name, c.stats)
	if c.step == StepStatsPending {
		c.step = StepGuideChat
	}
	return snapshot, nil
}

// SubmitChat accepts one guide-chat message and waits for the reply.
func (c *Controller) SubmitChat(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	if !c.InputEnabled() {
		return "", fmt.Errorf("%w: chat in %s", ErrWrongStep, c.step)
	}
	c.awaiting = true
	return text, nil
}

// ReceiveReply applies a guide reply. A suggested vow opens the vow editor
// with rank DANGEROUS; otherwise chat continues.
func (c *Controller) ReceiveReply(suggestedVow string, hasVow bool) {
	c.awaiting = false
	if c.step == StepFinalized {
		return
	}
	if hasVow {
		c.vow = VowDraft{Description: suggestedVow, Rank: character.RankDangerous}
		c.step = StepVowProposed
		return
	}
	if c.step == StepVowProposed {
		return
	}
	if c.locked {
		c.step = StepGuideChat
	} else if c.step != StepAwaitingInspiration {
		c.step = StepStatsPending
	}
}

// Abort clears an outstanding guide request after a server error.
func (c *Controller) Abort() {
	c.awaiting = false
}

func (c *Controller) EditVow(description string, rank character.Rank) error {
	if c.step != StepVowProposed {
		return fmt.Errorf("%w: edit vow in %s", ErrWrongStep, c.step)
	}
	if _, err := character.ParseRank(string(rank)); err != nil {
		return err
	}
	c.vow = VowDraft{Description: description, Rank: rank}
	return nil
}

// Finalize assembles the finished character: the confirmed stats plus, when
// the vow text is not blank, a single vow at progress 0. Meters are the
// server's to set.
func (c *Controller) Finalize() (protocol.NewCharacter, error) {
	if c.step != StepVowProposed {
		return protocol.NewCharacter{}, fmt.Errorf("%w: finalize in %s", ErrWrongStep, c.step)
	}
	if !c.locked {
		return protocol.NewCharacter{}, ErrStatsUnconfirmed
	}

	out := protocol.NewCharacter{Name: c.name, Stats: c.stats, Vows: []character.Vow{}}
	if desc := strings.TrimSpace(c.vow.Description); desc != "" {
		out.Vows = []character.Vow{{Description: desc, Rank: c.vow.Rank, Progress: 0}}
	}
	c.step = StepFinalized
	return out, nil
}
