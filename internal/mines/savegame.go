package mines

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/store"
)

// SaveExpiry is how long a saved game stays resumable.
const SaveExpiry = 3 * 24 * time.Hour

var ErrCorruptSave = errors.New("corrupt saved game")

type SavedCell struct {
	Row              int  `json:"row"`
	Col              int  `json:"col"`
	IsMine           bool `json:"is_mine"`
	AdjacentMines    int  `json:"adjacent_mines"`
	IsRevealed       bool `json:"is_revealed"`
	IsFlagged        bool `json:"is_flagged"`
	IsQuestionMarked bool `json:"is_question_marked"`
}

// SavedGame is the persisted form of an in-progress session.
type SavedGame struct {
	Difficulty       string        `json:"difficulty"`
	ElapsedSeconds   int           `json:"elapsed_seconds"`
	FlagsRemaining   int           `json:"flags_remaining"`
	IsFirstClick     bool          `json:"is_first_click"`
	Status           Status        `json:"status"`
	HintsRemaining   int           `json:"hints_remaining"`
	UsedSecondChance bool          `json:"used_second_chance"`
	Cells            [][]SavedCell `json:"cells"`
	SavedAt          int64         `json:"saved_at"` // epoch ms
}

func DecodeSavedGame(data string) (*SavedGame, error) {
	var g SavedGame
	if err := json.Unmarshal([]byte(data), &g); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSave, err)
	}
	return &g, nil
}

func (g *SavedGame) Encode() (string, error) {
	b, err := json.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Persistence keeps one saved game under key in a [store.Store].
type Persistence struct {
	store  store.Store
	key    string
	expiry time.Duration
	now    func() time.Time
}

func NewPersistence(st store.Store, key string) *Persistence {
	return &Persistence{
		store:  st,
		key:    key,
		expiry: SaveExpiry,
		now:    time.Now,
	}
}

func (p *Persistence) SaveGameState(ctx context.Context, g *SavedGame) error {
	g.SavedAt = p.now().UnixMilli()
	data, err := g.Encode()
	if err != nil {
		return fmt.Errorf("unable to encode saved game: %w", err)
	}
	return p.store.Set(ctx, p.key, data)
}

// LoadGameState returns the saved game, if there is a usable one. Expired
// and undecodable records are deleted; a store that cannot be read counts as
// no saved game.
func (p *Persistence) LoadGameState(ctx context.Context) (*SavedGame, bool) {
	g, err := p.load(ctx)
	if err != nil {
		Log.WithError(err).WithField("key", p.key).Warn("unable to read saved game")
		return nil, false
	}
	return g, g != nil
}

// load is LoadGameState that keeps read failures apart from a missing
// record: it returns nil, nil when there is nothing usable to resume.
func (p *Persistence) load(ctx context.Context) (*SavedGame, error) {
	log := Log.WithField("key", p.key)

	data, err := p.store.Get(ctx, p.key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	g, err := DecodeSavedGame(data)
	if err != nil {
		log.WithError(err).Warn("discarding saved game")
		p.discard(ctx)
		return nil, nil
	}

	age := p.now().Sub(time.UnixMilli(g.SavedAt))
	switch {
	case age < 0:
		log.WithField("saved_at", g.SavedAt).Warn("discarding saved game from the future")
		p.discard(ctx)
		return nil, nil
	case age > p.expiry:
		log.WithField("age", age.String()).Info("saved game expired")
		p.discard(ctx)
		return nil, nil
	}

	return g, nil
}

func (p *Persistence) HasSavedGame(ctx context.Context) bool {
	_, err := p.store.Get(ctx, p.key)
	return err == nil
}

func (p *Persistence) ClearSavedGame(ctx context.Context) error {
	return p.store.Delete(ctx, p.key)
}

func (p *Persistence) discard(ctx context.Context) {
	if err := p.ClearSavedGame(ctx); err != nil {
		Log.WithError(err).WithField("key", p.key).Warn("unable to delete saved game")
	}
}

// record projects the session into a [SavedGame]. Callers hold s.mu.
func (s *Session) record() *SavedGame {
	g := &SavedGame{
		Difficulty:       s.difficulty.Name,
		ElapsedSeconds:   s.elapsedSeconds,
		FlagsRemaining:   s.flagsRemaining,
		IsFirstClick:     s.firstClick,
		Status:           s.status,
		HintsRemaining:   s.hintsRemaining,
		UsedSecondChance: s.usedSecondChance,
		Cells:            make([][]SavedCell, s.board.rows),
	}
	for r := range s.board.rows {
		g.Cells[r] = make([]SavedCell, s.board.cols)
		for c := range s.board.cols {
			cell := s.board.cells[r][c]
			g.Cells[r][c] = SavedCell{
				Row:              cell.Row,
				Col:              cell.Col,
				IsMine:           cell.IsMine,
				AdjacentMines:    cell.AdjacentMines,
				IsRevealed:       cell.IsRevealed,
				IsFlagged:        cell.IsFlagged,
				IsQuestionMarked: cell.IsQuestionMarked,
			}
		}
	}
	return g
}

func (s *Session) difficultyNamed(name string) (Difficulty, error) {
	if d, err := ParseDifficulty(name); err == nil {
		return d, nil
	}
	if s.difficulty.Name == name {
		return s.difficulty, nil
	}
	return Difficulty{}, fmt.Errorf("%w: unknown difficulty %q", ErrCorruptSave, name)
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptSave, fmt.Sprintf(format, args...))
}

// boardFromSave rebuilds and checks the board of a saved game.
func boardFromSave(d Difficulty, g *SavedGame) (*Board, error) {
	if len(g.Cells) != d.Rows {
		return nil, corrupt("%d rows, want %d", len(g.Cells), d.Rows)
	}
	b := NewBoard(d.Rows, d.Cols)
	for r, row := range g.Cells {
		if len(row) != d.Cols {
			return nil, corrupt("row %d has %d cells, want %d", r, len(row), d.Cols)
		}
		for c, sc := range row {
			if sc.Row != r || sc.Col != c {
				return nil, corrupt("cell %d:%d stored at %d:%d", sc.Row, sc.Col, r, c)
			}
			if sc.IsFlagged && sc.IsQuestionMarked {
				return nil, corrupt("cell %d:%d is flagged and questioned", r, c)
			}
			if sc.IsRevealed && (sc.IsFlagged || sc.IsQuestionMarked) {
				return nil, corrupt("cell %d:%d is revealed and marked", r, c)
			}
			if sc.IsRevealed && sc.IsMine {
				return nil, corrupt("cell %d:%d is a revealed mine", r, c)
			}
			cell := b.at(Point{r, c})
			cell.IsMine = sc.IsMine
			cell.AdjacentMines = sc.AdjacentMines
			cell.IsRevealed = sc.IsRevealed
			cell.IsFlagged = sc.IsFlagged
			cell.IsQuestionMarked = sc.IsQuestionMarked
		}
	}

	var bad error
	b.each(func(c *Cell) {
		if bad != nil || c.IsMine {
			return
		}
		stored := c.AdjacentMines
		n := 0
		for _, p := range b.neighbors(c.Point()) {
			if b.at(p).IsMine {
				n++
			}
		}
		if n != stored {
			bad = corrupt("cell %d:%d claims %d adjacent mines, has %d", c.Row, c.Col, stored, n)
		}
	})
	return b, bad
}

// restore replaces the session state with g after validating it. Callers
// hold s.mu.
func (s *Session) restore(g *SavedGame) error {
	if g.Status != Playing {
		return corrupt("status %s is not resumable", g.Status)
	}
	d, err := s.difficultyNamed(g.Difficulty)
	if err != nil {
		return err
	}
	b, err := boardFromSave(d, g)
	if err != nil {
		return err
	}

	mines := b.mines()
	switch {
	case g.IsFirstClick && (mines != 0 || b.revealedSafe() != 0):
		return corrupt("board touched before the first click")
	case !g.IsFirstClick && (mines == 0 && d.MineCount > 0 || mines > d.MineCount):
		return corrupt("%d mines, want %d", mines, d.MineCount)
	case g.FlagsRemaining < 0 || g.FlagsRemaining+b.flags() != d.MineCount:
		return corrupt("%d flags remaining with %d placed", g.FlagsRemaining, b.flags())
	case g.ElapsedSeconds < 0 || g.HintsRemaining < 0:
		return corrupt("negative counters")
	case !g.IsFirstClick && b.revealedSafe() == b.rows*b.cols-mines:
		return corrupt("every safe cell is revealed but the game is not won")
	}

	s.stopClock()
	s.cancelHint()

	s.difficulty = d
	s.board = b
	s.status = Playing
	s.flagsRemaining = g.FlagsRemaining
	s.elapsedSeconds = g.ElapsedSeconds
	s.firstClick = g.IsFirstClick
	s.hintsRemaining = g.HintsRemaining
	s.usedSecondChance = g.UsedSecondChance
	s.detonated = nil
	s.snapshot = nil
	return nil
}

// Resume loads the saved game, if any, and continues it. It reports whether
// a game was restored. Saved games that fail validation are deleted; an
// error means the store could not be read and the saved game, if any, is
// left alone.
func (s *Session) Resume(ctx context.Context) (bool, error) {
	if s.persistence == nil {
		return false, nil
	}
	g, err := s.persistence.load(ctx)
	if err != nil {
		return false, fmt.Errorf("unable to read saved game: %w", err)
	}
	if g == nil {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.restore(g); err != nil {
		Log.WithError(err).Warn("discarding saved game")
		s.persistence.discard(ctx)
		return false, nil
	}
	if !s.firstClick {
		s.startClock()
	}
	Log.WithFields(logrus.Fields{
		"difficulty": s.difficulty.String(),
		"elapsed":    s.elapsedSeconds,
	}).Info("saved game resumed")
	s.notify()
	return true, nil
}
