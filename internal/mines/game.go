package mines

import (
	"context"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Status int8

const (
	Playing Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("status(%d)", int8(s))
	}
}

// [Status] implements [encoding.TextMarshaler]
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "playing":
		*s = Playing
	case "won":
		*s = Won
	case "lost":
		*s = Lost
	default:
		return fmt.Errorf("unknown status %q", text)
	}
	return nil
}

const (
	DefaultHints = 3
	HintDuration = 10 * time.Second

	storeTimeout = 2 * time.Second
)

type Option func(*Session)

func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rnd = r }
}

// WithPersistence makes the session save itself after every settling move.
func WithPersistence(p *Persistence) Option {
	return func(s *Session) { s.persistence = p }
}

func WithHints(n int) Option {
	return func(s *Session) { s.hintsPerGame = max(n, 0) }
}

// WithTick sets how often the clock adds a second. Tests shorten it.
func WithTick(d time.Duration) Option {
	return func(s *Session) { s.tick = d }
}

func WithHintDuration(d time.Duration) Option {
	return func(s *Session) { s.hintTTL = d }
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// Session owns the board and all mutable game state. Every exported method
// is safe to call from multiple goroutines; the clock and hint expiry run in
// the background and take the same lock.
type Session struct {
	mu sync.Mutex

	rnd          *rand.Rand
	persistence  *Persistence
	hintsPerGame int
	tick         time.Duration
	hintTTL      time.Duration

	difficulty       Difficulty
	board            *Board
	status           Status
	flagsRemaining   int
	elapsedSeconds   int
	firstClick       bool
	hintsRemaining   int
	highlighted      *Point
	detonated        *Point
	usedSecondChance bool
	snapshot         *undoSnapshot

	clockCancel context.CancelFunc
	clockGen    uint64
	hintTimer   *time.Timer
	hintGen     uint64
	tasks       sync.WaitGroup

	subs    map[int]chan struct{}
	nextSub int
	closed  bool
}

func NewSession(d Difficulty, opts ...Option) (*Session, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		hintsPerGame: DefaultHints,
		tick:         time.Second,
		hintTTL:      HintDuration,
		subs:         make(map[int]chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = newRand()
	}
	s.reset(d)
	return s, nil
}

// reset throws the board away and builds an empty one for d.
func (s *Session) reset(d Difficulty) {
	s.stopClock()
	s.cancelHint()

	s.difficulty = d
	s.board = NewBoard(d.Rows, d.Cols)
	s.status = Playing
	s.flagsRemaining = d.MineCount
	s.elapsedSeconds = 0
	s.firstClick = true
	s.hintsRemaining = s.hintsPerGame
	s.detonated = nil
	s.usedSecondChance = false
	s.snapshot = nil
}

// NewGame discards the current game and any saved copy of it and starts an
// empty board for d. Mines are placed on the first reveal.
func (s *Session) NewGame(d Difficulty) error {
	if err := d.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset(d)
	s.clearSaved()
	Log.WithField("difficulty", d.String()).Debug("new game")
	s.notify()
	return nil
}

func (s *Session) cell(row, col int) (*Cell, bool) {
	p := Point{row, col}
	if !s.board.In(p) {
		return nil, false
	}
	return s.board.at(p), true
}

// settle runs after every revealing action: it detects a win and saves the
// game while it is still in progress.
func (s *Session) settle() {
	if s.status != Playing {
		return
	}
	total := s.board.rows * s.board.cols
	if s.board.revealedSafe() == total-s.board.mines() {
		s.win()
		return
	}
	s.persist()
}

func (s *Session) win() {
	s.status = Won
	s.stopClock()
	s.cancelHint()
	s.board.flagMines()
	s.flagsRemaining = 0
	s.snapshot = nil
	s.clearSaved()
	Log.WithFields(logrus.Fields{
		"difficulty": s.difficulty.String(),
		"elapsed":    s.elapsedSeconds,
	}).Info("game won")
}

func (s *Session) persist() {
	if s.persistence == nil || s.firstClick || s.status != Playing {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := s.persistence.SaveGameState(ctx, s.record()); err != nil {
		Log.WithError(err).Warn("unable to save game state")
	}
}

func (s *Session) clearSaved() {
	if s.persistence == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := s.persistence.ClearSavedGame(ctx); err != nil {
		Log.WithError(err).Warn("unable to clear saved game")
	}
}

// Close stops the clock and the hint timer and closes every subscription.
// The session must not be used afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.stopClock()
	s.cancelHint()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.mu.Unlock()

	// the clock goroutine needs the lock to observe its cancellation
	s.tasks.Wait()
}
