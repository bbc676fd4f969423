// Package store keeps the dev server's sessions: the character record, the
// phase and the journal replayed on reconnect.
package store

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DoyleJ11/ironsworn-play/internal/character"
	"github.com/DoyleJ11/ironsworn-play/internal/protocol"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string
	Name      string
	Phase     string
	Character character.Character
	Journal   []protocol.Block
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a copy that shares no slices with s.
func (s Session) Clone() Session {
	out := s
	out.Character = s.Character.Clone()
	out.Journal = slices.Clone(s.Journal)
	return out
}

// NewSession is a fresh record in the creation phase with neutral stats.
func NewSession(name string, now time.Time) Session {
	c := character.New(name, character.DefaultStats())
	return Session{
		ID:        uuid.NewString(),
		Name:      name,
		Phase:     protocol.PhaseCreation,
		Character: c,
		Journal:   []protocol.Block{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type Store interface {
	Create(ctx context.Context, name string) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Session, error)
}

// Memory is an in-process Store.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]Session), now: time.Now}
}

func (m *Memory) Create(_ context.Context, name string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := NewSession(name, m.now())
	m.sessions[s.ID] = s
	return s.Clone(), nil
}

func (m *Memory) Get(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *Memory) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return ErrNotFound
	}
	s.UpdatedAt = m.now()
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

// List returns sessions oldest first.
func (m *Memory) List(_ context.Context) ([]Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.Clone())
	}
	slices.SortFunc(out, func(a, b Session) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}
