// Package hub keeps one running table per open session.
package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/ironsworn-play/internal/guide"
	"github.com/DoyleJ11/ironsworn-play/internal/store"
	"github.com/DoyleJ11/ironsworn-play/internal/table"
)

type HubMsg interface{ isHubMsg() }

type Result struct {
	Table *table.Table
	Err   error
}

// EnsureTable returns the session's table, loading the record from the
// store and starting a table on first use.
type EnsureTable struct {
	ID    string
	Reply chan Result
}

type GetTable struct {
	ID    string
	Reply chan *table.Table
}

// RemoveTable stops a session's table, e.g. once the session is deleted.
type RemoveTable struct {
	ID string
}

type CountTables struct {
	Reply chan int
}

type ShutdownHub struct{}

func (EnsureTable) isHubMsg() {}
func (GetTable) isHubMsg()    {}
func (RemoveTable) isHubMsg() {}
func (CountTables) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	log    *zap.Logger
	store  store.Store
	guide  *guide.Guide
	opts   []table.Option
	inbox  chan HubMsg
	tables map[string]*table.Table
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, st store.Store, g *guide.Guide, log *zap.Logger, opts ...table.Option) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		log:    log,
		store:  st,
		guide:  g,
		opts:   opts,
		inbox:  make(chan HubMsg, 64),
		tables: make(map[string]*table.Table),
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Ensure is the blocking form of EnsureTable.
func (h *Hub) Ensure(ctx context.Context, id string) (*table.Table, error) {
	reply := make(chan Result, 1)
	select {
	case h.inbox <- EnsureTable{ID: id, Reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-reply:
		return r.Table, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureTable:
				if tb := h.live(msg.ID); tb != nil {
					msg.Reply <- Result{Table: tb}
					break
				}
				sess, err := h.store.Get(h.ctx, msg.ID)
				if err != nil {
					msg.Reply <- Result{Err: err}
					break
				}
				tb := table.New(h.ctx, sess, h.store, h.guide, h.log, h.opts...)
				h.tables[msg.ID] = tb
				msg.Reply <- Result{Table: tb}

			case GetTable:
				msg.Reply <- h.live(msg.ID) // may be nil

			case RemoveTable:
				if tb := h.tables[msg.ID]; tb != nil {
					tb.Send(table.Shutdown{})
					delete(h.tables, msg.ID)
				}

			case CountTables:
				msg.Reply <- len(h.tables)

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

// live returns the running table for id, forgetting one that has stopped.
func (h *Hub) live(id string) *table.Table {
	tb := h.tables[id]
	if tb == nil {
		return nil
	}
	select {
	case <-tb.Done():
		delete(h.tables, id)
		return nil
	default:
		return tb
	}
}

func (h *Hub) shutdown() {
	for id, tb := range h.tables {
		tb.Send(table.Shutdown{})
		delete(h.tables, id)
	}
	h.cancel()
}
