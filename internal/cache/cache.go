// Package cache mirrors the server-authoritative character record and pushes
// local meter edits back on a trailing debounce.
package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/DoyleJ11/ironsworn-play/internal/character"
	"github.com/DoyleJ11/ironsworn-play/internal/debounce"
	"github.com/DoyleJ11/ironsworn-play/internal/protocol"
	"go.uber.org/zap"
)

var ErrNoCharacter = errors.New("no character loaded")
var ErrVowIndex = errors.New("vow index out of range")

const DefaultSyncDelay = 500 * time.Millisecond

type Sender interface {
	Send(msg protocol.Outbound)
}

type Cache struct {
	log    *zap.Logger
	send   Sender
	bounds map[character.Meter]character.Bounds
	char   *character.Character
	sync   *debounce.Task
}

type options struct {
	delay    time.Duration
	bounds   map[character.Meter]character.Bounds
	dispatch func(func())
}

type Option func(*options)

func WithSyncDelay(d time.Duration) Option {
	return func(o *options) { o.delay = d }
}

func WithBounds(b map[character.Meter]character.Bounds) Option {
	return func(o *options) { o.bounds = b }
}

// WithDispatch routes the debounced flush through dispatch, which lets the
// owner run it on its own goroutine.
func WithDispatch(dispatch func(func())) Option {
	return func(o *options) { o.dispatch = dispatch }
}

func New(send Sender, log *zap.Logger, opts ...Option) *Cache {
	o := options{
		delay:    DefaultSyncDelay,
		bounds:   character.DefaultBounds(),
		dispatch: func(f func()) { f() },
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache{
		log:    log.Named("cache"),
		send:   send,
		bounds: o.bounds,
	}
	c.sync = debounce.New(o.delay, func() { o.dispatch(c.Flush) })
	return c
}

// Replace installs an authoritative record wholesale. Last write wins: a
// pending sync sends this record, not an earlier local edit.
func (c *Cache) Replace(ch character.Character) {
	ch = ch.Clone()
	c.char = &ch
}

func (c *Cache) Character() (character.Character, bool) {
	if c.char == nil {
		return character.Character{}, false
	}
	return c.char.Clone(), true
}

// EditMeter clamps v to the meter's bounds, applies it locally and schedules
// a sync. The clamped value is returned even when there is no record yet.
func (c *Cache) EditMeter(m character.Meter, v int) (int, error) {
	b, ok := c.bounds[m]
	if !ok {
		return 0, fmt.Errorf("%w: %q", character.ErrUnknownMeter, m)
	}
	v = b.Clamp(v)
	if c.char == nil {
		return v, ErrNoCharacter
	}
	if err := c.char.SetMeter(m, v); err != nil {
		return 0, err
	}
	c.sync.Trigger()
	return v, nil
}

// Flush sends the current record now.
func (c *Cache) Flush() {
	if c.char == nil {
		return
	}
	c.log.Debug("sending character update", zap.Int("momentum", c.char.Momentum))
	c.send.Send(protocol.CharacterUpdate{Character: c.char.Clone()})
}

// Push replaces the local record and sends it without waiting.
func (c *Cache) Push(ch character.Character) {
	c.Replace(ch)
	c.Flush()
}

// MarkProgress asks the server to mark progress on the vow at index. Nothing
// is sent without a record.
func (c *Cache) MarkProgress(index int) error {
	if c.char == nil {
		return ErrNoCharacter
	}
	if index < 0 || index >= len(c.char.Vows) {
		return fmt.Errorf("%w: %d", ErrVowIndex, index)
	}
	c.send.Send(protocol.ProgressMark{VowIndex: index})
	return nil
}

func (c *Cache) SyncPending() bool {
	return c.sync.Pending()
}

func (c *Cache) Stop() {
	c.sync.Stop()
}
