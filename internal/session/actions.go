package session

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/DoyleJ11/ironsworn-play/internal/character"
	"github.com/DoyleJ11/ironsworn-play/internal/creation"
	"github.com/DoyleJ11/ironsworn-play/internal/engine"
	"github.com/DoyleJ11/ironsworn-play/internal/protocol"
	"github.com/DoyleJ11/ironsworn-play/internal/transcript"
)

func (s *Session) handleAction(m Msg) {
	switch msg := m.(type) {
	case SubmitText:
		s.submitText(msg.Text)

	case SelectMove:
		if s.phase != PhaseActive {
			s.fail(ErrNotInPlay)
			return
		}
		s.apply(engine.Command{Type: engine.CmdSelectMove, Move: msg.Move})

	case SelectStat:
		s.apply(engine.Command{Type: engine.CmdSelectStat, Stat: msg.Stat})

	case Roll:
		s.roll(msg)

	case BurnMomentum:
		s.apply(engine.Command{Type: engine.CmdBurn})

	case KeepRoll:
		s.apply(engine.Command{Type: engine.CmdKeep})

	case CancelMove:
		s.apply(engine.Command{Type: engine.CmdCancel})

	case EditStat:
		if s.phase != PhaseCreation {
			s.fail(ErrNotInCreation)
			return
		}
		if _, err := s.creation.EditStat(msg.Stat, msg.Value); err != nil {
			s.fail(err)
			return
		}
		s.transcript.UpdateLast(transcript.KindStats, s.statsWidgetText())

	case ConfirmStats:
		s.confirmStats()

	case EditVow:
		if err := s.creation.EditVow(msg.Description, msg.Rank); err != nil {
			s.fail(err)
			return
		}
		s.transcript.UpdateLast(transcript.KindVow, s.vowWidgetText())

	case Finalize:
		s.finalize()

	case EditMeter:
		if _, err := s.cache.EditMeter(msg.Meter, msg.Value); err != nil {
			s.fail(err)
		}

	case MarkProgress:
		if err := s.cache.MarkProgress(msg.VowIndex); err != nil {
			s.fail(err)
		}

	case RequestOracle:
		s.transport.Send(protocol.OracleRequest{CollectionKey: msg.Collection, TableKey: msg.Table})

	case RequestManualOracle:
		s.transport.Send(protocol.OracleManual{CollectionKey: msg.Collection, TableKey: msg.Table, Roll: msg.Roll})

	case RequestInspire:
		if s.phase != PhaseActive {
			s.fail(ErrNotInPlay)
			return
		}
		s.await()
		s.transport.Send(protocol.InspireRequest{})

	default:
		s.log.Error("unhandled action", zap.String("msg", fmt.Sprintf("%T", m)))
	}
}

func (s *Session) submitText(text string) {
	if s.move.Phase != engine.PhaseIdle {
		// the send button rolls once a stat is chosen and is inert before that
		if s.move.Phase == engine.PhaseStatSelected {
			s.roll(Roll{PlayerAction: text})
		}
		return
	}
	if !s.inputEnabled {
		s.log.Debug("input disabled, text dropped")
		return
	}

	switch s.phase {
	case PhaseCreation:
		msg, err := s.creation.SubmitChat(text)
		if errors.Is(err, creation.ErrEmptyText) {
			return
		}
		if err != nil {
			s.fail(err)
			return
		}
		s.transcript.Append(transcript.Entry{Kind: transcript.KindUser, Text: msg, Creation: true})
		s.await()
		s.transport.Send(protocol.CreationChat{Text: msg})

	case PhaseActive:
		msg := strings.TrimSpace(text)
		if msg == "" {
			return
		}
		s.transcript.Append(transcript.Entry{Kind: transcript.KindUser, Text: msg})
		s.await()
		s.transport.Send(protocol.NarrativeRequest{Text: msg})

	default:
		s.log.Debug("text before phase is known, dropped")
	}
}

func (s *Session) roll(r Roll) {
	if s.move.Phase != engine.PhaseStatSelected {
		s.fail(fmt.Errorf("%w: roll in %s", engine.ErrWrongState, s.move.Phase))
		return
	}
	char, ok := s.cache.Character()
	if !ok {
		s.fail(engine.ErrNoCharacter)
		return
	}

	var dice engine.Dice
	if r.Manual != nil {
		d, err := engine.ParseManualDice(r.Manual.Action, r.Manual.Challenge1, r.Manual.Challenge2)
		if err != nil {
			s.fail(err)
			return
		}
		dice = d
	} else {
		dice = s.roller.Roll()
	}

	s.apply(engine.Command{
		Type:         engine.CmdRoll,
		Dice:         dice,
		Adds:         engine.ParseAdds(r.Adds),
		PlayerAction: strings.TrimSpace(r.PlayerAction),
		Character:    &char,
	})
}

func (s *Session) apply(cmd engine.Command) {
	events, next, err := engine.Apply(s.move, cmd)
	if err != nil {
		s.fail(err)
		return
	}
	s.move = next
	for _, ev := range events {
		s.react(ev)
	}
}

func (s *Session) react(ev engine.Event) {
	switch ev.Type {
	case engine.EvtRolled:
		if ev.Roll.PlayerAction != "" {
			s.transcript.Append(transcript.Entry{Kind: transcript.KindUser, Text: ev.Roll.PlayerAction})
		}
		s.transcript.Append(transcript.Entry{
			Kind:  transcript.KindMechanical,
			Text:  rollText(ev.Move.Name, ev.Stat, ev.Roll),
			Class: outcomeClass(ev.Roll.Outcome),
		})

	case engine.EvtBurnOffered:
		s.burn = &BurnChoice{Momentum: ev.Roll.Momentum, Current: ev.Roll.Outcome, Burned: ev.BurnOutcome}

	case engine.EvtMomentumBurned:
		if char, ok := s.cache.Character(); ok {
			s.cache.Push(engine.BurnMomentum(char))
		}
		s.transcript.Append(transcript.Entry{
			Kind: transcript.KindSystem,
			Text: fmt.Sprintf("Momentum burned! (%d → %d)", ev.Roll.Momentum, character.MomentumReset),
		})

	case engine.EvtMoveResolved:
		s.burn = nil
		s.sendResult(*ev.Result)

	case engine.EvtCancelled:
		s.burn = nil
	}
}

func (s *Session) sendResult(res engine.MoveResult) {
	s.await()
	s.transport.Send(protocol.MoveResult{
		CategoryKey:  res.CategoryKey,
		MoveKey:      res.MoveKey,
		Stat:         string(res.Stat),
		StatValue:    res.StatValue,
		Adds:         res.Adds,
		ActionDie:    res.ActionDie,
		Challenge1:   res.Challenge1,
		Challenge2:   res.Challenge2,
		ActionScore:  res.ActionScore,
		Outcome:      string(res.Outcome),
		PlayerAction: res.PlayerAction,
	})
}

func (s *Session) confirmStats() {
	if s.phase != PhaseCreation {
		s.fail(ErrNotInCreation)
		return
	}
	snapshot, err := s.creation.ConfirmStats()
	if err != nil {
		s.fail(err)
		return
	}
	s.cache.Push(snapshot)
	s.transcript.UpdateLast(transcript.KindStats, s.statsWidgetText())
	s.inputEnabled = true
}

func (s *Session) finalize() {
	if s.phase != PhaseCreation {
		s.fail(ErrNotInCreation)
		return
	}
	out, err := s.creation.Finalize()
	if err != nil {
		s.fail(err)
		return
	}
	s.transcript.UpdateLast(transcript.KindVow, "Creating...")
	s.transport.Send(protocol.FinalizeCreation{Character: out})
}
