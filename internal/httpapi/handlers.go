package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/ironsworn-play/internal/hub"
	"github.com/DoyleJ11/ironsworn-play/internal/store"
)

type createRequest struct {
	Name string `json:"name"`
}

type createResponse struct {
	ID string `json:"id"`
}

type sessionSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phase     string    `json:"phase"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func CreateSession(st store.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			http.Error(w, "missing name", http.StatusBadRequest)
			return
		}

		sess, err := st.Create(r.Context(), name)
		if err != nil {
			log.Warn("create session", zap.Error(err))
			http.Error(w, "failed to create session", http.StatusInternalServerError)
			return
		}
		log.Info("session created", zap.String("session", sess.ID), zap.String("name", name))
		writeJSON(w, http.StatusCreated, createResponse{ID: sess.ID})
	}
}

func ListSessions(st store.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := st.List(r.Context())
		if err != nil {
			log.Warn("list sessions", zap.Error(err))
			http.Error(w, "failed to list sessions", http.StatusInternalServerError)
			return
		}
		out := make([]sessionSummary, 0, len(all))
		for _, s := range all {
			out = append(out, sessionSummary{ID: s.ID, Name: s.Name, Phase: s.Phase, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// DeleteSession removes the record and stops its table if one is running.
func DeleteSession(h *hub.Hub, st store.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		err := st.Delete(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Warn("delete session", zap.String("session", id), zap.Error(err))
			http.Error(w, "failed to delete session", http.StatusInternalServerError)
			return
		}
		h.Inbox() <- hub.RemoveTable{ID: id}
		log.Info("session deleted", zap.String("session", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
