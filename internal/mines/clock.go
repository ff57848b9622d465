package mines

import (
	"context"
	"time"
)

// startClock (re)starts the elapsed-time ticker. Callers hold s.mu.
func (s *Session) startClock() {
	s.stopClock()
	if s.closed || s.status != Playing {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.clockCancel = cancel
	gen := s.clockGen

	s.tasks.Add(1)
	go s.runClock(ctx, gen)
}

// stopClock cancels the ticker. A tick already waiting for the lock sees the
// bumped generation and drops itself.
func (s *Session) stopClock() {
	if s.clockCancel != nil {
		s.clockCancel()
		s.clockCancel = nil
	}
	s.clockGen++
}

func (s *Session) runClock(ctx context.Context, gen uint64) {
	defer s.tasks.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if !s.tickClock(gen) {
			return
		}
	}
}

func (s *Session) tickClock(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clockGen != gen || s.status != Playing {
		return false
	}
	s.elapsedSeconds++
	s.notify()
	return true
}
