// Package table runs one play session on the dev server. A single goroutine
// owns the session record; connections join, send frames and receive every
// envelope the guide produces.
package table

import (
	"context"
	"fmt"
	"html"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/ironsworn-play/internal/character"
	"github.com/DoyleJ11/ironsworn-play/internal/engine"
	"github.com/DoyleJ11/ironsworn-play/internal/guide"
	"github.com/DoyleJ11/ironsworn-play/internal/moves"
	"github.com/DoyleJ11/ironsworn-play/internal/protocol"
	"github.com/DoyleJ11/ironsworn-play/internal/store"
)

const BlockMechanical = "mechanical"

type Table struct {
	log   *zap.Logger
	store store.Store
	guide *guide.Guide
	think time.Duration

	inbox      chan Msg
	sess       store.Session
	clients    map[string]chan protocol.Inbound
	generating bool
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
}

type Option func(*Table)

// WithThinkTime delays every guide turn, holding the generation lock for at
// least d.
func WithThinkTime(d time.Duration) Option {
	return func(t *Table) { t.think = d }
}

func New(parent context.Context, sess store.Session, st store.Store, g *guide.Guide, log *zap.Logger, opts ...Option) *Table {
	ctx, cancel := context.WithCancel(parent)
	t := &Table{
		log:     log.Named("table").With(zap.String("session", sess.ID)),
		store:   st,
		guide:   g,
		inbox:   make(chan Msg, 64),
		sess:    sess,
		clients: make(map[string]chan protocol.Inbound),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	go t.loop()
	return t
}

func (t *Table) Inbox() chan<- Msg { return t.inbox }

// Done is closed once the loop has exited.
func (t *Table) Done() <-chan struct{} { return t.done }

// Send queues m unless the table has stopped.
func (t *Table) Send(m Msg) bool {
	select {
	case t.inbox <- m:
		return true
	case <-t.done:
		return false
	}
}

func (t *Table) loop() {
	defer close(t.done)
	for {
		select {
		case <-t.ctx.Done():
			t.shutdown()
			return

		case m := <-t.inbox:
			switch msg := m.(type) {
			case Join:
				t.clients[msg.ClientID] = msg.Outbox
				t.log.Debug("join", zap.String("client", msg.ClientID), zap.Int("clients", len(t.clients)))
				t.greet(msg.ClientID)

			case Leave:
				delete(t.clients, msg.ClientID)

			case FromClient:
				t.handle(msg.ClientID, msg.Msg)

			case Reject:
				t.fail(msg.ClientID, msg.Message)

			case generated:
				if len(msg.journal) > 0 {
					t.sess.Journal = append(t.sess.Journal, msg.journal...)
					t.save()
				}
				if !msg.locked {
					// greetings go to the connection that joined
					t.sendTo(msg.clientID, msg.out)
					break
				}
				t.generating = false
				t.broadcast(msg.out)

			case GetState:
				// test hook: reflect internal state without data races
				msg.Reply <- View{
					NumClients: len(t.clients),
					Phase:      t.sess.Phase,
					Character:  t.sess.Character.Clone(),
					Journal:    slices.Clone(t.sess.Journal),
					Generating: t.generating,
				}

			case Shutdown:
				t.shutdown()
				return
			}
		}
	}
}

func (t *Table) shutdown() {
	for id, ch := range t.clients {
		close(ch)
		delete(t.clients, id)
	}
	t.cancel()
}

// greet replays the session to a new connection.
func (t *Table) greet(clientID string) {
	journal := slices.Clone(t.sess.Journal)

	if t.sess.Phase == protocol.PhaseCreation {
		t.sendTo(clientID, protocol.CreationPhase{Phase: protocol.PhaseCreation})
		if len(journal) == 0 {
			t.generate(clientID, false, func() (protocol.Inbound, []protocol.Block) {
				text := t.guide.Inspiration()
				return protocol.Inspire{Text: text}, []protocol.Block{assistant(text)}
			})
			return
		}
		t.sendTo(clientID, protocol.CreationResume{Blocks: journal})
		c := t.sess.Character.Clone()
		t.sendTo(clientID, protocol.CreationReady{Character: &c})
		t.generate(clientID, false, func() (protocol.Inbound, []protocol.Block) {
			r := t.guide.Resume(journal)
			return r, []protocol.Block{assistant(r.Message)}
		})
		return
	}

	if len(journal) > 0 {
		t.sendTo(clientID, protocol.PlayResume{Blocks: journal})
	}
	t.sendTo(clientID, protocol.CharacterUpdate{Character: t.sess.Character.Clone()})
	if len(journal) > 0 && journal[len(journal)-1].Type == protocol.BlockUser && !t.generating {
		t.sendTo(clientID, protocol.Loading{})
		t.generate(clientID, false, func() (protocol.Inbound, []protocol.Block) {
			n := t.guide.Continue()
			return n, []protocol.Block{{Type: protocol.BlockAssistant, HTML: n.NarrativeHTML}}
		})
		return
	}
	t.sendTo(clientID, protocol.Ready{})
}

func (t *Table) handle(clientID string, m protocol.Outbound) {
	switch msg := m.(type) {
	case protocol.CreationChat:
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			t.fail(clientID, "Empty text")
			return
		}
		if !t.lock(clientID) {
			return
		}
		t.sess.Journal = append(t.sess.Journal, user(text))
		t.save()
		journal := slices.Clone(t.sess.Journal)
		t.generate(clientID, true, func() (protocol.Inbound, []protocol.Block) {
			r := t.guide.Reply(journal, text)
			return r, []protocol.Block{assistant(r.Message)}
		})

	case protocol.FinalizeCreation:
		t.finalize(msg.Character)

	case protocol.NarrativeRequest:
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			t.fail(clientID, "Empty narrative text")
			return
		}
		if !t.lock(clientID) {
			return
		}
		t.sess.Journal = append(t.sess.Journal, user(text))
		t.save()
		t.generate(clientID, true, func() (protocol.Inbound, []protocol.Block) {
			n := t.guide.Narrate(text)
			return n, []protocol.Block{{Type: protocol.BlockAssistant, HTML: n.NarrativeHTML}}
		})

	case protocol.InspireRequest:
		if !t.lock(clientID) {
			return
		}
		t.generate(clientID, true, func() (protocol.Inbound, []protocol.Block) {
			text := t.guide.Inspiration()
			return protocol.Inspire{Text: text}, []protocol.Block{assistant(text)}
		})

	case protocol.MoveResult:
		t.moveResult(clientID, msg)

	case protocol.OracleRequest:
		r, err := t.guide.Oracle(msg.CollectionKey, msg.TableKey)
		t.oracle(clientID, r, err)

	case protocol.OracleManual:
		r, err := guide.ManualOracle(msg.CollectionKey, msg.TableKey, msg.Roll)
		t.oracle(clientID, r, err)

	case protocol.ProgressMark:
		vows := t.sess.Character.Vows
		if msg.VowIndex < 0 || msg.VowIndex >= len(vows) {
			t.fail(clientID, fmt.Sprintf("Invalid vow index: %d", msg.VowIndex))
			return
		}
		t.sess.Character = t.sess.Character.Clone()
		t.sess.Character.Vows[msg.VowIndex] = vows[msg.VowIndex].MarkProgress()
		t.save()
		t.broadcast(protocol.CharacterUpdate{Character: t.sess.Character.Clone()})

	case protocol.CharacterUpdate:
		t.sess.Character = msg.Character.Clone()
		if t.sess.Character.Vows == nil {
			t.sess.Character.Vows = []character.Vow{}
		}
		t.save()
		t.broadcast(protocol.CharacterUpdate{Character: t.sess.Character.Clone()})

	default:
		t.fail(clientID, "Unknown message type: "+m.MessageType())
	}
}

// finalize starts play with the sent stats and vows and fresh meters.
func (t *Table) finalize(sent protocol.NewCharacter) {
	if sent.Name == "" {
		sent.Name = t.sess.Name
	}
	c := sent.Start()
	t.sess.Character = c
	t.sess.Phase = protocol.PhaseActive
	t.save()
	t.log.Info("creation finalized", zap.String("name", c.Name), zap.Int("vows", len(c.Vows)))

	t.broadcast(protocol.CharacterUpdate{Character: c.Clone()})
	t.broadcast(protocol.CreationPhase{Phase: protocol.PhaseActive})
}

func (t *Table) moveResult(clientID string, msg protocol.MoveResult) {
	if !t.lock(clientID) {
		return
	}
	name := moves.DisplayName(msg.MoveKey)
	outcome := engine.Outcome(msg.Outcome)

	if msg.PlayerAction != "" {
		t.sess.Journal = append(t.sess.Journal, user(msg.PlayerAction))
	}
	t.sess.Journal = append(t.sess.Journal, protocol.Block{
		Type: BlockMechanical,
		HTML: html.EscapeString(fmt.Sprintf("**%s** (+%s %d): %d vs %d / %d → %s",
			name, msg.Stat, msg.StatValue, msg.ActionScore, msg.Challenge1, msg.Challenge2, outcome.Display())),
	})
	t.save()

	t.broadcast(protocol.MoveOutcome{
		MoveName:        name,
		MoveOutcomeText: guide.RulesText(msg.CategoryKey, msg.MoveKey, outcome),
	})
	t.generate(clientID, true, func() (protocol.Inbound, []protocol.Block) {
		n := t.guide.NarrateMove(name, outcome)
		return n, []protocol.Block{{Type: protocol.BlockAssistant, HTML: n.NarrativeHTML}}
	})
}

func (t *Table) oracle(clientID string, r protocol.OracleRoll, err error) {
	if err != nil {
		t.fail(clientID, err.Error())
		return
	}
	t.sess.Journal = append(t.sess.Journal, protocol.Block{Type: BlockMechanical, HTML: html.EscapeString(guide.JournalLine(r))})
	t.save()
	t.broadcast(protocol.OracleResult{Result: r})
}

// lock takes the generation lock, answering the client with an error when a
// guide turn is already running.
func (t *Table) lock(clientID string) bool {
	if t.generating {
		t.fail(clientID, "Generation already in progress")
		return false
	}
	return true
}

// generate runs one guide turn off the loop. The result is posted back as
// a generated message; locked turns hold the generation lock until then.
func (t *Table) generate(clientID string, locked bool, fn func() (protocol.Inbound, []protocol.Block)) {
	if locked {
		t.generating = true
	}
	go func() {
		if t.think > 0 {
			select {
			case <-time.After(t.think):
			case <-t.ctx.Done():
				return
			}
		}
		out, journal := fn()
		select {
		case t.inbox <- generated{clientID: clientID, locked: locked, out: out, journal: journal}:
		case <-t.ctx.Done():
		}
	}()
}

func (t *Table) save() {
	if err := t.store.Save(t.ctx, t.sess); err != nil {
		t.log.Warn("save session", zap.Error(err))
	}
}

func (t *Table) fail(clientID, message string) {
	t.log.Debug("client error", zap.String("client", clientID), zap.String("message", message))
	t.sendTo(clientID, protocol.ServerError{Message: message})
}

func (t *Table) sendTo(clientID string, m protocol.Inbound) {
	ch, ok := t.clients[clientID]
	if !ok {
		return
	}
	select {
	case ch <- m:
	default:
		t.drop(clientID, ch)
	}
}

func (t *Table) broadcast(m protocol.Inbound) {
	for id, ch := range t.clients {
		select {
		case ch <- m:
		default:
			t.drop(id, ch)
		}
	}
}

// drop disconnects a client whose outbox is full.
func (t *Table) drop(id string, ch chan protocol.Inbound) {
	t.log.Warn("slow client dropped", zap.String("client", id))
	close(ch)
	delete(t.clients, id)
}

func user(text string) protocol.Block {
	return protocol.Block{Type: protocol.BlockUser, HTML: html.EscapeString(text)}
}

func assistant(text string) protocol.Block {
	return protocol.Block{Type: protocol.BlockAssistant, HTML: "<p>" + html.EscapeString(text) + "</p>"}
}
