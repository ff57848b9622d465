package mines

import (
	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"
)

// Reveal opens the cell at row, col. Revealing a flagged, revealed or
// out-of-bounds cell, or any cell once the game is over, does nothing.
func (s *Session) Reveal(row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cell(row, col)
	if !ok || s.status != Playing || c.IsRevealed || c.IsFlagged {
		return
	}

	s.captureSnapshot()
	s.cancelHint()
	s.reveal(c.Point())
	s.settle()
	s.notify()
}

// ChordReveal opens every unflagged hidden neighbour of a revealed number
// once the number of flags around it matches the number. Any of those
// neighbours may turn out to be a mine.
func (s *Session) ChordReveal(row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cell(row, col)
	if !ok || s.status != Playing || !c.IsRevealed || c.AdjacentMines == 0 {
		return
	}

	flags := 0
	var targets []Point
	for _, p := range s.board.neighbors(c.Point()) {
		n := s.board.at(p)
		switch {
		case n.IsFlagged:
			flags++
		case !n.IsRevealed:
			targets = append(targets, p)
		}
	}
	if flags != c.AdjacentMines || len(targets) == 0 {
		return
	}

	s.captureSnapshot()
	s.cancelHint()
	for _, p := range targets {
		s.reveal(p)
		if s.status != Playing {
			break
		}
	}
	s.settle()
	s.notify()
}

// reveal opens p, placing mines first if this is the first reveal of the
// game, and floods outwards from zero cells.
func (s *Session) reveal(p Point) {
	c := s.board.at(p)
	if s.status != Playing || c.IsRevealed || c.IsFlagged {
		return
	}

	if s.firstClick {
		s.firstClick = false
		placed := s.board.placeMines(p, s.difficulty.MineCount, s.rnd)
		Log.WithFields(logrus.Fields{
			"first":  p.String(),
			"mines":  placed,
			"layout": s.difficulty.String(),
		}).Debug("mines placed")
		s.startClock()
	}

	c.IsQuestionMarked = false
	c.IsRevealed = true

	if c.IsMine {
		s.detonate(p)
		return
	}
	if c.AdjacentMines == 0 {
		s.flood(p)
	}
}

// flood reveals the connected zero region around origin together with its
// numbered border. Flags stop the fill; revealed cells are not revisited.
func (s *Session) flood(origin Point) {
	q := deque.New[Point]()
	q.PushBack(origin)

	for q.Len() > 0 {
		p := q.PopFront()
		for _, np := range s.board.neighbors(p) {
			n := s.board.at(np)
			if n.IsRevealed || n.IsFlagged || n.IsMine {
				continue
			}
			n.IsQuestionMarked = false
			n.IsRevealed = true
			if n.AdjacentMines == 0 {
				q.PushBack(np)
			}
		}
	}
}

// detonate ends the game on the mine at p. The first time this happens the
// rest of the mines stay hidden so the move can be undone.
func (s *Session) detonate(p Point) {
	s.status = Lost
	s.stopClock()
	s.cancelHint()
	s.detonated = &p

	if s.usedSecondChance {
		s.snapshot = nil
		s.board.discloseMines()
	}

	s.clearSaved()
	Log.WithFields(logrus.Fields{
		"cell":          p.String(),
		"second_chance": !s.usedSecondChance,
	}).Info("mine detonated")
	if Log.IsLevelEnabled(logrus.DebugLevel) {
		Log.Debug("board at detonation:\n" + s.board.String())
	}
}
