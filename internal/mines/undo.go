package mines

type cellMarks struct {
	revealed, flagged, questioned bool
}

// undoSnapshot is the player-visible state right before a revealing move.
type undoSnapshot struct {
	cells          []cellMarks
	flagsRemaining int
	elapsedSeconds int
}

func (s *Session) captureSnapshot() {
	if s.usedSecondChance {
		return
	}
	snap := &undoSnapshot{
		cells:          make([]cellMarks, 0, s.board.rows*s.board.cols),
		flagsRemaining: s.flagsRemaining,
		elapsedSeconds: s.elapsedSeconds,
	}
	s.board.each(func(c *Cell) {
		snap.cells = append(snap.cells, cellMarks{
			c.IsRevealed, c.IsFlagged, c.IsQuestionMarked,
		})
	})
	s.snapshot = snap
}

func (s *Session) canUndo() bool {
	return s.status == Lost && s.snapshot != nil && !s.usedSecondChance
}

func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canUndo()
}

// UndoLastMove takes back the reveal that lost the game. It works once per
// game.
func (s *Session) UndoLastMove() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.canUndo() {
		return
	}

	snap := s.snapshot
	i := 0
	s.board.each(func(c *Cell) {
		m := snap.cells[i]
		c.IsRevealed, c.IsFlagged, c.IsQuestionMarked = m.revealed, m.flagged, m.questioned
		i++
	})
	s.flagsRemaining = snap.flagsRemaining
	s.elapsedSeconds = snap.elapsedSeconds

	s.status = Playing
	s.usedSecondChance = true
	s.snapshot = nil
	s.detonated = nil
	s.cancelHint()
	s.startClock()
	s.persist()

	Log.WithField("elapsed", s.elapsedSeconds).Info("second chance used")
	s.notify()
}
