// Package session owns all client-side state for one play session and drives
// it from a single loop: server envelopes, player actions and timer callbacks
// are all serialized through the same inbox.
package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/ironsworn-play/internal/cache"
	"github.com/DoyleJ11/ironsworn-play/internal/creation"
	"github.com/DoyleJ11/ironsworn-play/internal/engine"
	"github.com/DoyleJ11/ironsworn-play/internal/protocol"
	"github.com/DoyleJ11/ironsworn-play/internal/reveal"
	"github.com/DoyleJ11/ironsworn-play/internal/transcript"
)

var ErrNotInPlay = errors.New("only available during play")
var ErrNotInCreation = errors.New("only available during character creation")
var ErrStopped = errors.New("session stopped")

const DefaultRevealInterval = 30 * time.Millisecond

type Phase string

const (
	// PhaseUnknown holds until the server's first phase-bearing message.
	PhaseUnknown  Phase = ""
	PhaseCreation Phase = "creation"
	PhaseActive   Phase = "active"
)

// Transport is the session's view of the channel.
type Transport interface {
	cache.Sender
	Inbound() <-chan protocol.Inbound
}

type Session struct {
	log       *zap.Logger
	transport Transport
	inbox     chan Msg
	done      chan struct{}

	roller         engine.Roller
	revealInterval time.Duration
	onNotice       func(string)

	phase      Phase
	creation   *creation.Controller
	cache      *cache.Cache
	move       engine.State
	burn       *BurnChoice
	transcript *transcript.Transcript

	inputEnabled bool
	controls     bool
	scene        Scene
	notice       string

	reveal    *reveal.Reveal
	revealGen int
}

type options struct {
	roller         engine.Roller
	syncDelay      time.Duration
	revealInterval time.Duration
	onChange       func(transcript.Change)
	onNotice       func(string)
}

type Option func(*options)

func WithRoller(r engine.Roller) Option {
	return func(o *options) { o.roller = r }
}

func WithSyncDelay(d time.Duration) Option {
	return func(o *options) { o.syncDelay = d }
}

// WithRevealInterval sets the typewriter step. Zero or less shows text at once.
func WithRevealInterval(d time.Duration) Option {
	return func(o *options) { o.revealInterval = d }
}

// WithTranscriptListener is called on the session goroutine for every
// transcript change.
func WithTranscriptListener(fn func(transcript.Change)) Option {
	return func(o *options) { o.onChange = fn }
}

// WithNoticeListener receives blocking notices such as invalid dice.
func WithNoticeListener(fn func(string)) Option {
	return func(o *options) { o.onNotice = fn }
}

func New(tr Transport, log *zap.Logger, opts ...Option) *Session {
	o := options{
		syncDelay:      cache.DefaultSyncDelay,
		revealInterval: DefaultRevealInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.roller == nil {
		o.roller = engine.NewRandomRoller(time.Now().UnixNano())
	}

	s := &Session{
		log:            log.Named("session"),
		transport:      tr,
		inbox:          make(chan Msg, 64),
		done:           make(chan struct{}),
		roller:         o.roller,
		revealInterval: o.revealInterval,
		onNotice:       o.onNotice,
		creation:       creation.New(),
		move:           engine.NewIdleState(),
		transcript:     transcript.New(o.onChange),
	}
	s.cache = cache.New(tr, log,
		cache.WithSyncDelay(o.syncDelay),
		cache.WithDispatch(func(f func()) { s.post(runFn{fn: f}) }),
	)
	return s
}

// Inbox accepts player actions.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// View asks the loop for a snapshot.
func (s *Session) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	select {
	case s.inbox <- GetView{Reply: reply}:
	case <-s.done:
		return View{}, ErrStopped
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
	select {
	case v := <-reply:
		return v, nil
	case <-s.done:
		return View{}, ErrStopped
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

// Do queues an action, giving up when the session has stopped or ctx ends.
func (s *Session) Do(ctx context.Context, m Msg) error {
	select {
	case s.inbox <- m:
		return nil
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post is used by timer callbacks; it never blocks past the loop's exit.
func (s *Session) post(m Msg) {
	select {
	case s.inbox <- m:
	case <-s.done:
	}
}

// Run is the driver loop. It returns when ctx is done or on Shutdown.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	defer s.cache.Stop()

	src := s.transport.Inbound()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case env, ok := <-src:
			if !ok {
				src = nil
				continue
			}
			s.handleInbound(env)

		case m := <-s.inbox:
			if _, ok := m.(Shutdown); ok {
				return nil
			}
			s.handle(m)
		}
	}
}

func (s *Session) handle(m Msg) {
	switch msg := m.(type) {
	case inbound:
		s.handleInbound(msg.env)
	case revealTick:
		s.tickReveal(msg.gen)
	case runFn:
		msg.fn()
	case GetView:
		// test and UI hook: reflect internal state without data races
		msg.Reply <- s.view()
	default:
		s.notice = ""
		s.handleAction(m)
	}
}

func (s *Session) fail(err error) {
	s.notice = noticeText(err)
	s.log.Debug("action rejected", zap.Error(err))
	if s.onNotice != nil {
		s.onNotice(s.notice)
	}
}

func (s *Session) workingText() string {
	if s.phase == PhaseCreation {
		return "The guide considers..."
	}
	return "The oracle speaks..."
}

// await disables input and shows the working placeholder until the server
// answers.
func (s *Session) await() {
	s.inputEnabled = false
	s.transcript.ShowPlaceholder(s.workingText())
}
