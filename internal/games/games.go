// Package games keeps one live game session per player slot.
package games

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/store"
)

var ErrClosed = errors.New("registry is closed")

const (
	keyPrefix = "savedgame:"

	resumeTimeout = 5 * time.Second
)

type entry struct {
	session  *mines.Session
	lastUsed time.Time
}

type Registry struct {
	logger *slog.Logger
	store  store.Store
	opts   []mines.Option
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	closed  bool
	group   singleflight.Group
}

// New creates a registry saving games into st. opts are applied to every
// session it creates.
func New(logger *slog.Logger, st store.Store, opts ...mines.Option) *Registry {
	return &Registry{
		logger:  logger,
		store:   st,
		opts:    opts,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

func (r *Registry) lookup(slot string) (*mines.Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, false, ErrClosed
	}
	e, ok := r.entries[slot]
	if !ok {
		return nil, false, nil
	}
	e.lastUsed = r.now()
	return e.session, true, nil
}

// Session returns the slot's session, creating it and resuming its saved game
// on first use. Concurrent first requests for a slot share one creation.
func (r *Registry) Session(ctx context.Context, slot string) (*mines.Session, error) {
	if s, ok, err := r.lookup(slot); ok || err != nil {
		return s, err
	}

	// the creation outlives the request that happened to start it
	ctx = context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(slot, func() (any, error) {
		if s, ok, err := r.lookup(slot); ok || err != nil {
			return s, err
		}
		return r.create(ctx, slot)
	})
	if err != nil {
		return nil, err
	}
	return v.(*mines.Session), nil
}

// Touch marks the slot as in use, keeping its session from being evicted.
func (r *Registry) Touch(slot string) {
	r.lookup(slot)
}

func (r *Registry) create(ctx context.Context, slot string) (*mines.Session, error) {
	persistence := mines.NewPersistence(r.store, keyPrefix+slot)
	opts := append([]mines.Option{mines.WithPersistence(persistence)}, r.opts...)

	s, err := mines.NewSession(mines.Easy, opts...)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, resumeTimeout)
	defer cancel()
	resumed, err := s.Resume(ctx)
	if err != nil {
		// an empty session would overwrite the save on its first move
		s.Close()
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		s.Close()
		return nil, ErrClosed
	}
	r.entries[slot] = &entry{session: s, lastUsed: r.now()}
	r.logger.Debug("session created", slog.String("slot", slot), slog.Bool("resumed", resumed))
	return s, nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Evict closes sessions unused for longer than idle and returns how many it
// closed. Their saved games stay in the store and are resumed on next use.
func (r *Registry) Evict(idle time.Duration) int {
	r.mu.Lock()
	cutoff := r.now().Add(-idle)
	var stale []*mines.Session
	for slot, e := range r.entries {
		if e.lastUsed.Before(cutoff) {
			stale = append(stale, e.session)
			delete(r.entries, slot)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// Run evicts idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, idle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Evict(idle); n > 0 {
				r.logger.Debug("evicted idle sessions", slog.Int("count", n))
			}
		}
	}
}

// Close stops every session. Saved games stay in the store.
func (r *Registry) Close() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*entry)
	r.closed = true
	r.mu.Unlock()

	for _, e := range entries {
		e.session.Close()
	}
}
