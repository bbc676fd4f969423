// Package ws serves the play protocol to websocket clients of the dev server.
package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/ironsworn-play/internal/hub"
	"github.com/DoyleJ11/ironsworn-play/internal/protocol"
	"github.com/DoyleJ11/ironsworn-play/internal/store"
	"github.com/DoyleJ11/ironsworn-play/internal/table"
)

const writeTimeout = 3 * time.Second

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	log = log.Named("ws")
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("session")
		if id == "" {
			http.Error(w, "missing session", http.StatusBadRequest)
			return
		}

		tb, err := h.Ensure(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Warn("open session", zap.String("session", id), zap.Error(err))
			http.Error(w, "failed to open session", http.StatusInternalServerError)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// the dev server is reached from local tools only
			InsecureSkipVerify: true,
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan protocol.Inbound, 32)
		clientID := uuid.NewString()
		clog := log.With(zap.String("session", id), zap.String("client", clientID))

		if !tb.Send(table.Join{ClientID: clientID, Outbox: out}) {
			conn.Close(websocket.StatusGoingAway, "session closed")
			return
		}
		defer tb.Send(table.Leave{ClientID: clientID})

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					return
				case m, ok := <-out:
					if !ok {
						// the table dropped us or shut down
						conn.Close(websocket.StatusGoingAway, "session closed")
						return
					}
					payload, err := protocol.Encode(m)
					if err != nil {
						clog.Error("encode", zap.Error(err))
						continue
					}
					ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
					err = conn.Write(ctx, websocket.MessageText, payload)
					cancel()
					if err != nil {
						clog.Debug("write", zap.Error(err))
						return
					}
				}
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					clog.Debug("read", zap.Error(err))
				}
				return
			}

			msg, err := protocol.DecodeOutbound(data)
			if err != nil {
				tb.Send(table.Reject{ClientID: clientID, Message: rejection(data, err)})
				continue
			}
			if !tb.Send(table.FromClient{ClientID: clientID, Msg: msg}) {
				return
			}
		}
	}
}

func rejection(data []byte, err error) string {
	if errors.Is(err, protocol.ErrUnknownType) {
		t, _ := protocol.PeekType(data)
		return "Unknown message type: " + t
	}
	return "Invalid message"
}
