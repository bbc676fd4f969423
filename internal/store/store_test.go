package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/ironsworn-play/internal/character"
	"github.com/DoyleJ11/ironsworn-play/internal/protocol"
)

// exercise runs the same contract against any Store.
func exercise(t *testing.T, st Store) {
	ctx := context.Background()

	a, err := st.Create(ctx, "Kira")
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, protocol.PhaseCreation, a.Phase)
	assert.Equal(t, "Kira", a.Character.Name)
	assert.Equal(t, character.DefaultStats(), a.Character.Stats)
	assert.Equal(t, character.StartingMeters(), a.Character.Meters)

	b, err := st.Create(ctx, "Tor")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	a.Phase = protocol.PhaseActive
	a.Character.Vows = []character.Vow{{Description: "Find the shrine", Rank: character.RankDangerous}}
	a.Journal = append(a.Journal, protocol.Block{Type: "assistant", HTML: "<p>hi</p>"})
	require.NoError(t, st.Save(ctx, a))

	got, err := st.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, protocol.PhaseActive, got.Phase)
	assert.Equal(t, a.Character.Vows, got.Character.Vows)
	assert.Equal(t, a.Journal, got.Journal)

	list, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, st.Delete(ctx, b.ID))
	_, err = st.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.Delete(ctx, b.ID), ErrNotFound)
	assert.ErrorIs(t, st.Save(ctx, b), ErrNotFound)
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemoryReturnsCopies(t *testing.T) {
	m := NewMemory()
	s, err := m.Create(context.Background(), "Kira")
	require.NoError(t, err)

	s.Character.Vows = append(s.Character.Vows, character.Vow{Description: "x"})
	s.Journal = append(s.Journal, protocol.Block{Type: "user", HTML: "x"})

	got, err := m.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Character.Vows)
	assert.Empty(t, got.Journal)
}

func TestMemoryListOrder(t *testing.T) {
	m := NewMemory()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	m.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	first, _ := m.Create(context.Background(), "first")
	second, _ := m.Create(context.Background(), "second")

	list, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestRowRoundTripFillsEmptySlices(t *testing.T) {
	s := Session{ID: "x", Name: "Kira", Phase: protocol.PhaseActive}
	got := toRow(s).session()
	assert.NotNil(t, got.Journal)
	assert.NotNil(t, got.Character.Vows)
	assert.Equal(t, "Kira", got.Name)
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("IRONSWORN_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("IRONSWORN_TEST_DATABASE_URL not set")
	}
	pg, err := OpenPostgres(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		pg.db.Exec("DELETE FROM play_sessions")
		_ = pg.Close()
	})
	pg.db.Exec("DELETE FROM play_sessions")
	exercise(t, pg)
}
