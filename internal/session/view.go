package session

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/DoyleJ11/ironsworn-play/internal/character"
	"github.com/DoyleJ11/ironsworn-play/internal/creation"
	"github.com/DoyleJ11/ironsworn-play/internal/engine"
	"github.com/DoyleJ11/ironsworn-play/internal/transcript"
)

type InputMode string

const (
	ModeNone      InputMode = ""
	ModeGuide     InputMode = "guide"
	ModeNarrative InputMode = "narrative"
	ModeMove      InputMode = "move"
	// ModeVow hides free text; the vow editor has its own controls.
	ModeVow InputMode = "vow"
)

type Input struct {
	Mode        InputMode
	Enabled     bool
	Placeholder string
}

// BurnChoice is shown while the engine waits for burn or keep.
type BurnChoice struct {
	Momentum int
	Current  engine.Outcome
	Burned   engine.Outcome
}

type Scene struct {
	Location string
	NPCs     []string
}

// View is a copy of the session state for rendering and tests.
type View struct {
	Phase            Phase
	GameplayControls bool
	Input            Input
	Working          string
	Notice           string
	Scene            Scene

	Creation    creation.Step
	Stats       character.Stats
	StatsCheck  creation.Validation
	StatsLocked bool
	Vow         creation.VowDraft

	Move engine.State
	Burn *BurnChoice

	Character   *character.Character
	SyncPending bool

	Transcript []transcript.Entry
}

func (s *Session) view() View {
	v := View{
		Phase:            s.phase,
		GameplayControls: s.controls,
		Input:            s.input(),
		Working:          s.transcript.Placeholder(),
		Notice:           s.notice,
		Scene:            Scene{Location: s.scene.Location, NPCs: append([]string(nil), s.scene.NPCs...)},
		Creation:         s.creation.Step(),
		Stats:            s.creation.Stats(),
		StatsCheck:       s.creation.Validation(),
		StatsLocked:      s.creation.Locked(),
		Vow:              s.creation.Vow(),
		Move:             copyState(s.move),
		SyncPending:      s.cache.SyncPending(),
		Transcript:       s.transcript.Entries(),
	}
	if s.burn != nil {
		b := *s.burn
		v.Burn = &b
	}
	if c, ok := s.cache.Character(); ok {
		v.Character = &c
	}
	return v
}

func copyState(st engine.State) engine.State {
	out := st
	if st.Move != nil {
		m := *st.Move
		out.Move = &m
	}
	if st.Roll != nil {
		r := *st.Roll
		out.Roll = &r
	}
	return out
}

// input derives what the free-text box currently means. A pending move
// always wins, so narrative text and a roll in progress never coexist.
func (s *Session) input() Input {
	switch {
	case s.move.Phase != engine.PhaseIdle && s.move.Move != nil:
		return Input{Mode: ModeMove, Enabled: true, Placeholder: "How do you " + s.move.Move.Name + "?"}
	case s.phase == PhaseCreation:
		switch s.creation.Step() {
		case creation.StepVowProposed, creation.StepFinalized:
			return Input{Mode: ModeVow}
		}
		return Input{
			Mode:        ModeGuide,
			Enabled:     s.inputEnabled && s.creation.InputEnabled(),
			Placeholder: "Tell the guide about your character...",
		}
	case s.phase == PhaseActive:
		return Input{Mode: ModeNarrative, Enabled: s.inputEnabled, Placeholder: "What do you do?"}
	}
	return Input{}
}

func (s *Session) statsWidgetText() string {
	st := s.creation.Stats()
	title := cases.Title(language.English)
	parts := make([]string, 0, len(character.AllStats))
	for _, stat := range character.AllStats {
		v, _ := st.Get(stat)
		parts = append(parts, fmt.Sprintf("%s %d", title.String(string(stat)), v))
	}
	line := strings.Join(parts, "  ")
	if s.creation.Locked() {
		return line + "\nStats confirmed"
	}
	return line + "\n" + s.creation.Validation().Message()
}

func (s *Session) vowWidgetText() string {
	v := s.creation.Vow()
	return fmt.Sprintf("Your vow: %s (%s)", v.Description, v.Rank.Display())
}

// rollText is the mechanical transcript line for a roll, e.g.
//
//	Face Danger (+iron 2)
//	Action die: 4 → Score: 6
//	Challenge: 3 / 9
//	Weak Hit
func rollText(move string, stat character.Stat, r engine.RollContext) string {
	adds := ""
	if r.Adds > 0 {
		adds = fmt.Sprintf(" +%d adds", r.Adds)
	}
	return fmt.Sprintf("%s (+%s %d%s)\nAction die: %d → Score: %d\nChallenge: %d / %d\n%s",
		move, stat, r.StatValue, adds,
		r.Action, r.ActionScore,
		r.Challenge1, r.Challenge2,
		r.Outcome.Display())
}

func outcomeClass(o engine.Outcome) string {
	return strings.ReplaceAll(strings.ToLower(string(o)), "_", "-")
}

func noticeText(err error) string {
	if errors.Is(err, engine.ErrInvalidDice) {
		return "Please enter all dice values"
	}
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
