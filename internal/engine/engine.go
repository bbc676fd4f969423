package engine

import (
	"errors"
	"fmt"

	"github.com/DoyleJ11/ironsworn-play/internal/character"
)

var ErrWrongState = errors.New("command not valid in current state")
var ErrNoCharacter = errors.New("no character loaded")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseMoveSelected Phase = "move_selected"
	PhaseStatSelected Phase = "stat_selected"
	PhaseAwaitingBurn Phase = "awaiting_burn"
)

// PendingMove exists only between selecting a move and finalizing or
// cancelling its roll.
type PendingMove struct {
	Category string
	Key      string
	Name     string
}

// RollContext is created at roll time and consumed by the burn decision.
type RollContext struct {
	Dice
	Adds         int
	StatValue    int
	ActionScore  int
	Outcome      Outcome
	Momentum     int
	PlayerAction string
}

type State struct {
	Phase Phase
	Move  *PendingMove
	Stat  character.Stat
	Roll  *RollContext
}

type CommandType string

const (
	CmdSelectMove CommandType = "SelectMove"
	CmdSelectStat CommandType = "SelectStat"
	CmdRoll       CommandType = "Roll"
	CmdBurn       CommandType = "BurnMomentum"
	CmdKeep       CommandType = "KeepRoll"
	CmdCancel     CommandType = "Cancel"
)

/*
	CmdSelectMove -> EvtMoveSelected
	CmdSelectStat -> EvtStatSelected
	CmdRoll       -> EvtRolled -> EvtMoveResolved
	              -> EvtRolled -> EvtBurnOffered (waits for CmdBurn / CmdKeep)
	CmdBurn       -> EvtMomentumBurned -> EvtMoveResolved
	CmdKeep       -> EvtMoveResolved
	CmdCancel     -> EvtCancelled
*/

type Command struct {
	Type         CommandType
	Move         PendingMove
	Stat         character.Stat
	Dice         Dice
	Adds         int
	PlayerAction string
	Character    *character.Character
}

type EventType string

const (
	EvtMoveSelected   EventType = "MoveSelected"
	EvtStatSelected   EventType = "StatSelected"
	EvtRolled         EventType = "Rolled"
	EvtBurnOffered    EventType = "BurnOffered"
	EvtMomentumBurned EventType = "MomentumBurned"
	EvtMoveResolved   EventType = "MoveResolved"
	EvtCancelled      EventType = "Cancelled"
)

type Event struct {
	Type EventType
	Move PendingMove
	Stat character.Stat
	Roll RollContext
	// BurnOutcome is set on EvtBurnOffered and EvtMomentumBurned.
	BurnOutcome Outcome
	Result      *MoveResult
}

// MoveResult is the finalized roll reported to the server.
type MoveResult struct {
	CategoryKey  string
	MoveKey      string
	MoveName     string
	Stat         character.Stat
	StatValue    int
	Adds         int
	ActionDie    int
	Challenge1   int
	Challenge2   int
	ActionScore  int
	Outcome      Outcome
	PlayerAction string
}

func Apply(s State, cmd Command) ([]Event, State, error) {
	if !known(cmd.Type) {
		return nil, s, ErrUnsupportedCommand
	}
	if !allowed(s.Phase, cmd.Type) {
		return nil, s, fmt.Errorf("%w: %s in %s", ErrWrongState, cmd.Type, s.Phase)
	}

	switch cmd.Type {
	case CmdSelectMove:
		move := cmd.Move
		next := State{Phase: PhaseMoveSelected, Move: &move}
		return []Event{{Type: EvtMoveSelected, Move: move}}, next, nil

	case CmdSelectStat:
		stat, err := character.ParseStat(string(cmd.Stat))
		if err != nil {
			return nil, s, err
		}
		next := s
		next.Phase = PhaseStatSelected
		next.Stat = stat
		return []Event{{Type: EvtStatSelected, Move: *s.Move, Stat: stat}}, next, nil

	case CmdRoll:
		if cmd.Character == nil {
			return nil, s, ErrNoCharacter
		}
		statValue, err := cmd.Character.Stats.Get(s.Stat)
		if err != nil {
			return nil, s, err
		}

		score := ActionScore(cmd.Dice.Action, statValue, cmd.Adds)
		roll := RollContext{
			Dice:         cmd.Dice,
			Adds:         cmd.Adds,
			StatValue:    statValue,
			ActionScore:  score,
			Outcome:      Classify(score, cmd.Dice.Challenge1, cmd.Dice.Challenge2),
			Momentum:     cmd.Character.Momentum,
			PlayerAction: cmd.PlayerAction,
		}
		events := []Event{{Type: EvtRolled, Move: *s.Move, Stat: s.Stat, Roll: roll}}

		if burn, ok := BurnOffer(roll); ok {
			next := s
			next.Phase = PhaseAwaitingBurn
			next.Roll = &roll
			events = append(events, Event{Type: EvtBurnOffered, Move: *s.Move, Stat: s.Stat, Roll: roll, BurnOutcome: burn})
			return events, next, nil
		}

		events = append(events, resolved(s, roll, roll.ActionScore, roll.Outcome))
		return events, idle(), nil

	case CmdBurn:
		roll := *s.Roll
		burn := Classify(roll.Momentum, roll.Challenge1, roll.Challenge2)
		events := []Event{
			{Type: EvtMomentumBurned, Move: *s.Move, Stat: s.Stat, Roll: roll, BurnOutcome: burn},
			resolved(s, roll, roll.Momentum, burn),
		}
		return events, idle(), nil

	case CmdKeep:
		roll := *s.Roll
		return []Event{resolved(s, roll, roll.ActionScore, roll.Outcome)}, idle(), nil

	case CmdCancel:
		return []Event{{Type: EvtCancelled}}, idle(), nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func resolved(s State, roll RollContext, score int, outcome Outcome) Event {
	return Event{
		Type: EvtMoveResolved,
		Move: *s.Move,
		Stat: s.Stat,
		Roll: roll,
		Result: &MoveResult{
			CategoryKey:  s.Move.Category,
			MoveKey:      s.Move.Key,
			MoveName:     s.Move.Name,
			Stat:         s.Stat,
			StatValue:    roll.StatValue,
			Adds:         roll.Adds,
			ActionDie:    roll.Action,
			Challenge1:   roll.Challenge1,
			Challenge2:   roll.Challenge2,
			ActionScore:  score,
			Outcome:      outcome,
			PlayerAction: roll.PlayerAction,
		},
	}
}
