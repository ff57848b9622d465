package games

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/store"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSessionPerSlot(t *testing.T) {
	r := New(discard(), store.NewMemory())
	defer r.Close()
	ctx := context.Background()

	a, err := r.Session(ctx, "a")
	require.NoError(t, err)
	again, err := r.Session(ctx, "a")
	require.NoError(t, err)
	b, err := r.Session(ctx, "b")
	require.NoError(t, err)

	assert.Same(t, a, again)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, r.Len())
}

func TestConcurrentCreation(t *testing.T) {
	r := New(discard(), store.NewMemory())
	defer r.Close()

	var wg sync.WaitGroup
	got := make([]*mines.Session, 16)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := r.Session(context.Background(), "slot")
			assert.NoError(t, err)
			got[i] = s
		}()
	}
	wg.Wait()

	for _, s := range got {
		assert.Same(t, got[0], s)
	}
	assert.Equal(t, 1, r.Len())
}

func TestResumeFromStore(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	r := New(discard(), st)
	s, err := r.Session(ctx, "p")
	require.NoError(t, err)
	s.Reveal(0, 0)
	before := s.View()
	require.Equal(t, mines.Playing, before.Status)
	r.Close()

	r = New(discard(), st)
	defer r.Close()
	s, err = r.Session(ctx, "p")
	require.NoError(t, err)
	after := s.View()
	assert.False(t, after.FirstClick)
	assert.Equal(t, before.Cells, after.Cells)
}

func TestClosed(t *testing.T) {
	r := New(discard(), store.NewMemory())
	r.Close()
	_, err := r.Session(context.Background(), "a")
	assert.ErrorIs(t, err, ErrClosed)
}

// flakyStore fails the next failures reads.
type flakyStore struct {
	store.Store
	failures atomic.Int32
}

func (f *flakyStore) Get(ctx context.Context, key string) (string, error) {
	if f.failures.Add(-1) >= 0 {
		return "", errors.New("connection reset")
	}
	return f.Store.Get(ctx, key)
}

func TestReadFailureDoesNotLoseSave(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	r := New(discard(), mem)
	s, err := r.Session(ctx, "p")
	require.NoError(t, err)
	s.Reveal(0, 0)
	require.Equal(t, mines.Playing, s.Status())
	before := s.View()
	r.Close()
	want, err := mem.Get(ctx, keyPrefix+"p")
	require.NoError(t, err)

	st := &flakyStore{Store: mem}
	st.failures.Store(1)
	r = New(discard(), st)
	defer r.Close()

	_, err = r.Session(ctx, "p")
	require.Error(t, err)
	assert.Zero(t, r.Len())
	got, err := mem.Get(ctx, keyPrefix+"p")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	s, err = r.Session(ctx, "p")
	require.NoError(t, err)
	after := s.View()
	assert.False(t, after.FirstClick)
	assert.Equal(t, before.Cells, after.Cells)
}

func TestCanceledRequestStillResumes(t *testing.T) {
	mem := store.NewMemory()
	r := New(discard(), mem)
	s, err := r.Session(context.Background(), "p")
	require.NoError(t, err)
	s.Reveal(0, 0)
	require.Equal(t, mines.Playing, s.Status())
	r.Close()

	r = New(discard(), mem)
	defer r.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, err = r.Session(ctx, "p")
	require.NoError(t, err)
	assert.False(t, s.View().FirstClick)
}

func TestEvictIdle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := New(discard(), store.NewMemory())
	r.now = func() time.Time { return now }
	defer r.Close()

	idle, err := r.Session(ctx, "idle")
	require.NoError(t, err)
	idle.Reveal(0, 0)
	require.Equal(t, mines.Playing, idle.Status())
	before := idle.View()

	now = now.Add(20 * time.Minute)
	_, err = r.Session(ctx, "busy")
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	r.Touch("busy")
	assert.Equal(t, 1, r.Evict(30*time.Minute))
	assert.Equal(t, 1, r.Len())

	updates, _ := idle.Subscribe()
	_, open := <-updates
	assert.False(t, open, "evicted session is closed")

	resumed, err := r.Session(ctx, "idle")
	require.NoError(t, err)
	assert.NotSame(t, idle, resumed)
	assert.Equal(t, before.Cells, resumed.View().Cells)
}

func TestRunStopsWithContext(t *testing.T) {
	r := New(discard(), store.NewMemory())
	defer r.Close()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, time.Millisecond, time.Hour) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}
