package session

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/ironsworn-play/internal/character"
	"github.com/DoyleJ11/ironsworn-play/internal/engine"
	"github.com/DoyleJ11/ironsworn-play/internal/protocol"
	"github.com/DoyleJ11/ironsworn-play/internal/reveal"
	"github.com/DoyleJ11/ironsworn-play/internal/transcript"
)

func (s *Session) handleInbound(env protocol.Inbound) {
	switch msg := env.(type) {
	case protocol.CreationPhase:
		switch msg.Phase {
		case protocol.PhaseCreation:
			s.enterCreation()
		case protocol.PhaseActive:
			s.enterActive()
		default:
			s.log.Warn("unknown phase", zap.String("phase", msg.Phase))
		}

	case protocol.Inspire:
		s.startReveal(msg.Text)

	case protocol.CreationResponse:
		s.onCreationResponse(msg)

	case protocol.CreationResume:
		if s.phase == PhaseUnknown {
			s.enterCreation()
		}
		s.transcript.AppendBlocks(msg.Blocks, true)

	case protocol.CreationReady:
		if s.phase != PhaseCreation {
			s.log.Warn("creation_ready outside creation", zap.String("phase", string(s.phase)))
			return
		}
		if msg.Character != nil {
			s.cache.Replace(*msg.Character)
		}
		s.presentStats(msg.Character)
		// the server re-engages the guide after a resume
		s.transcript.ShowPlaceholder(s.workingText())

	case protocol.PlayResume:
		if s.phase == PhaseUnknown {
			s.enterActive()
		}
		s.transcript.AppendBlocks(msg.Blocks, false)

	case protocol.Narrative:
		s.onNarrative(msg)

	case protocol.MoveOutcome:
		s.transcript.ClearPlaceholder()
		if !s.transcript.AttachToLastMechanical(transcript.Detail{
			Title: msg.MoveName + ": Rules",
			Body:  msg.MoveOutcomeText,
		}) {
			s.log.Debug("move outcome without a roll on screen", zap.String("move", msg.MoveName))
		}
		// narration is still on its way
		s.transcript.ShowPlaceholder(s.workingText())

	case protocol.OracleResult:
		r := msg.Result
		s.transcript.Append(transcript.Entry{
			Kind:  transcript.KindMechanical,
			Text:  fmt.Sprintf("Oracle (%s): %s [%d]", r.TableName, r.ResultText, r.Roll),
			Class: "oracle",
		})

	case protocol.CharacterUpdate:
		s.cache.Replace(msg.Character)

	case protocol.Loading:
		s.transcript.ShowPlaceholder(s.workingText())

	case protocol.Ready:
		s.inputEnabled = true

	case protocol.ServerError:
		s.transcript.ClearPlaceholder()
		s.transcript.Append(transcript.Entry{Kind: transcript.KindSystem, Text: "Error: " + msg.Message})
		s.creation.Abort()
		s.inputEnabled = true

	default:
		s.log.Error("unhandled envelope", zap.String("type", env.MessageType()))
	}
}

// enterCreation hides gameplay controls and turns free text into guide chat.
// A repeated announcement, as sent after a reconnect, keeps creation progress.
func (s *Session) enterCreation() {
	if s.phase == PhaseCreation {
		return
	}
	s.log.Info("phase", zap.String("from", string(s.phase)), zap.String("to", string(PhaseCreation)))
	s.phase = PhaseCreation
	s.creation.Reset()
	s.move = engine.NewIdleState()
	s.burn = nil
	s.controls = false
}

// enterActive shows gameplay controls, drops the interactive creation widgets
// and keeps every line of text already shown.
func (s *Session) enterActive() {
	if s.phase != PhaseActive {
		s.log.Info("phase", zap.String("from", string(s.phase)), zap.String("to", string(PhaseActive)))
	}
	s.phase = PhaseActive
	s.controls = true
	s.transcript.StripCreationWidgets()
	s.inputEnabled = true
}

func (s *Session) startReveal(text string) {
	s.revealGen++
	s.reveal = reveal.New(text)
	s.transcript.Append(transcript.Entry{
		Kind:     transcript.KindInspiration,
		Creation: s.phase == PhaseCreation,
	})

	if s.revealInterval <= 0 {
		s.transcript.UpdateLast(transcript.KindInspiration, s.reveal.Text())
		s.finishReveal()
		return
	}
	s.scheduleReveal()
}

func (s *Session) scheduleReveal() {
	if s.reveal.Done() {
		s.finishReveal()
		return
	}
	gen := s.revealGen
	time.AfterFunc(s.revealInterval, func() { s.post(revealTick{gen: gen}) })
}

// tickReveal shows one more character. Ticks from a superseded reveal are
// dropped.
func (s *Session) tickReveal(gen int) {
	if gen != s.revealGen || s.reveal == nil {
		return
	}
	shown, _ := s.reveal.Next()
	s.transcript.UpdateLast(transcript.KindInspiration, shown)
	s.scheduleReveal()
}

func (s *Session) finishReveal() {
	s.reveal = nil
	if s.phase == PhaseCreation {
		s.presentStats(nil)
		return
	}
	s.transcript.ClearPlaceholder()
	s.inputEnabled = true
}

func (s *Session) presentStats(seed *character.Character) {
	s.creation.PresentStats(seed)
	s.transcript.SetWidget(transcript.KindStats, s.statsWidgetText())
	s.inputEnabled = true
}

func (s *Session) onCreationResponse(msg protocol.CreationResponse) {
	if s.phase != PhaseCreation {
		s.log.Warn("creation_response outside creation", zap.String("phase", string(s.phase)))
		return
	}
	s.transcript.ClearPlaceholder()
	if msg.Message != "" {
		s.transcript.Append(transcript.Entry{Kind: transcript.KindGuide, Text: msg.Message, Creation: true})
	}

	vow, ok := msg.Vow()
	s.creation.ReceiveReply(vow, ok)
	if ok {
		s.transcript.SetWidget(transcript.KindVow, s.vowWidgetText())
		return
	}
	s.inputEnabled = true
}

func (s *Session) onNarrative(msg protocol.Narrative) {
	s.transcript.ClearPlaceholder()
	if len(msg.Blocks) > 0 {
		s.transcript.AppendBlocks(msg.Blocks, s.phase == PhaseCreation)
	} else if msg.NarrativeHTML != "" {
		s.transcript.Append(transcript.Entry{Kind: transcript.KindGuide, Text: msg.NarrativeHTML, HTML: true})
	} else if msg.Narrative != "" {
		s.transcript.Append(transcript.Entry{Kind: transcript.KindGuide, Text: msg.Narrative})
	}

	if msg.Location != "" {
		s.scene.Location = msg.Location
	}
	if len(msg.NPCs) > 0 {
		s.scene.NPCs = append([]string(nil), msg.NPCs...)
	}
	s.inputEnabled = true
}
