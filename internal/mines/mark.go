package mines

// CycleMark moves a hidden cell through none -> flag -> question -> none.
// With no flags left an unmarked cell goes straight to question.
func (s *Session) CycleMark(row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cell(row, col)
	if !ok || s.status != Playing || c.IsRevealed {
		return
	}

	switch {
	case c.IsFlagged:
		c.IsFlagged = false
		c.IsQuestionMarked = true
		s.flagsRemaining++
	case c.IsQuestionMarked:
		c.IsQuestionMarked = false
	case s.flagsRemaining > 0:
		c.IsFlagged = true
		s.flagsRemaining--
	default:
		c.IsQuestionMarked = true
	}

	if s.highlighted != nil && *s.highlighted == c.Point() {
		s.cancelHint()
	}

	s.persist()
	s.notify()
}
