package mines

// CellView is what a player may know about a cell. Mine and Adjacent are
// only filled in for revealed cells, and Mine also once the game is won.
type CellView struct {
	Row        int  `json:"row"`
	Col        int  `json:"col"`
	Revealed   bool `json:"revealed"`
	Flagged    bool `json:"flagged"`
	Questioned bool `json:"questioned"`
	Mine       bool `json:"mine"`
	Adjacent   int  `json:"adjacent"`
}

// View is a consistent copy of the observable session state.
type View struct {
	Difficulty       Difficulty   `json:"difficulty"`
	Status           Status       `json:"status"`
	FlagsRemaining   int          `json:"flags_remaining"`
	ElapsedSeconds   int          `json:"elapsed_seconds"`
	HintsRemaining   int          `json:"hints_remaining"`
	Highlighted      *Point       `json:"highlighted,omitempty"`
	Detonated        *Point       `json:"detonated,omitempty"`
	CanUndo          bool         `json:"can_undo"`
	UsedSecondChance bool         `json:"used_second_chance"`
	FirstClick       bool         `json:"first_click"`
	Cells            [][]CellView `json:"cells"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Difficulty:       s.difficulty,
		Status:           s.status,
		FlagsRemaining:   s.flagsRemaining,
		ElapsedSeconds:   s.elapsedSeconds,
		HintsRemaining:   s.hintsRemaining,
		CanUndo:          s.canUndo(),
		UsedSecondChance: s.usedSecondChance,
		FirstClick:       s.firstClick,
		Cells:            make([][]CellView, s.board.rows),
	}
	if s.highlighted != nil {
		p := *s.highlighted
		v.Highlighted = &p
	}
	if s.detonated != nil {
		p := *s.detonated
		v.Detonated = &p
	}

	for r := range s.board.rows {
		v.Cells[r] = make([]CellView, s.board.cols)
		for c := range s.board.cols {
			cell := &s.board.cells[r][c]
			cv := CellView{
				Row:        r,
				Col:        c,
				Revealed:   cell.IsRevealed,
				Flagged:    cell.IsFlagged,
				Questioned: cell.IsQuestionMarked,
			}
			if cell.IsRevealed || s.status == Won {
				cv.Mine = cell.IsMine
			}
			if cell.IsRevealed && !cell.IsMine {
				cv.Adjacent = cell.AdjacentMines
			}
			v.Cells[r][c] = cv
		}
	}
	return v
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) Difficulty() Difficulty {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.difficulty
}

// Subscribe returns a channel that receives a value whenever the session
// changes. Notifications coalesce: a slow reader sees one pending value,
// then reads [Session.View]. The channel is closed by cancel or
// [Session.Close].
func (s *Session) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// notify wakes subscribers without blocking. Callers hold s.mu.
func (s *Session) notify() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
