// Package channel owns the websocket connection to the guide server.
//
// The channel stays connected forever: whenever the connection closes, or a
// dial fails, it waits a fixed delay and dials again, with no backoff and no
// retry limit. Sends while disconnected are dropped, not queued.
package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DoyleJ11/ironsworn-play/internal/protocol"
	"github.com/coder/websocket"
	"go.uber.org/zap"
)

const (
	DefaultReconnectDelay = 3 * time.Second
	DefaultWriteTimeout   = 3 * time.Second
	readLimit             = 1 << 20
)

type Channel struct {
	url            string
	log            *zap.Logger
	reconnectDelay time.Duration
	writeTimeout   time.Duration
	dialOpts       *websocket.DialOptions

	inbound chan protocol.Inbound

	mu   sync.Mutex
	conn *websocket.Conn
	ctx  context.Context
}

type Option func(*Channel)

func WithReconnectDelay(d time.Duration) Option {
	return func(c *Channel) { c.reconnectDelay = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Channel) { c.writeTimeout = d }
}

func WithDialOptions(opts *websocket.DialOptions) Option {
	return func(c *Channel) { c.dialOpts = opts }
}

func New(url string, log *zap.Logger, opts ...Option) *Channel {
	c := &Channel{
		url:            url,
		log:            log.Named("channel").With(zap.String("url", url)),
		reconnectDelay: DefaultReconnectDelay,
		writeTimeout:   DefaultWriteTimeout,
		inbound:        make(chan protocol.Inbound, 64),
		ctx:            context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Inbound delivers decoded server envelopes in arrival order.
func (c *Channel) Inbound() <-chan protocol.Inbound { return c.inbound }

// Connect dials the server once.
func (c *Channel) Connect(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, c.url, c.dialOpts)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	conn.SetReadLimit(readLimit)

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	return nil
}

// Run connects and keeps reconnecting until ctx is done.
func (c *Channel) Run(ctx context.Context) error {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()

	for {
		if err := c.Connect(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Warn("connect failed", zap.Error(err))
		} else {
			c.log.Info("connected")
			c.readLoop(ctx)
			c.disconnect(ctx)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.reconnectDelay):
			c.log.Debug("reconnecting")
		}
	}
}

func (c *Channel) readLoop(ctx context.Context) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			switch {
			case ctx.Err() != nil:
			case websocket.CloseStatus(err) == websocket.StatusNormalClosure,
				websocket.CloseStatus(err) == websocket.StatusGoingAway:
				c.log.Info("connection closed by server")
			default:
				c.log.Warn("read failed", zap.Error(err))
			}
			return
		}

		env, err := protocol.DecodeInbound(data)
		if err != nil {
			if errors.Is(err, protocol.ErrUnknownType) {
				c.log.Error("unhandled envelope", zap.Error(err))
			} else {
				c.log.Warn("dropping malformed envelope", zap.Error(err))
			}
			continue
		}

		select {
		case c.inbound <- env:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Channel) disconnect(ctx context.Context) {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return
	}
	if ctx.Err() != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "bye")
		return
	}
	_ = conn.CloseNow()
}

func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Send transmits msg if the connection is open and silently drops it
// otherwise. Write failures are logged, never returned.
func (c *Channel) Send(msg protocol.Outbound) {
	c.mu.Lock()
	conn, base := c.conn, c.ctx
	c.mu.Unlock()

	if conn == nil {
		c.log.Debug("not connected, dropping message", zap.String("type", msg.MessageType()))
		return
	}

	payload, err := protocol.Encode(msg)
	if err != nil {
		c.log.Error("encode failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(base, c.writeTimeout)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		c.log.Warn("write failed", zap.String("type", msg.MessageType()), zap.Error(err))
	}
}
