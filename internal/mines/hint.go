package mines

import "time"

// UseHint highlights a safe hidden cell for a while. It prefers cells next
// to numbers the player can already see and falls back to any safe cell.
func (s *Session) UseHint() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != Playing || s.firstClick || s.hintsRemaining == 0 {
		return
	}

	p, ok := s.pickHint()
	if !ok {
		return
	}

	s.hintsRemaining--
	s.highlight(p)
	s.persist()
	Log.WithField("cell", p.String()).Debug("hint used")
	s.notify()
}

func (s *Session) pickHint() (Point, bool) {
	var numbered []Point
	s.board.each(func(c *Cell) {
		if c.IsRevealed && !c.IsMine && c.AdjacentMines > 0 {
			numbered = append(numbered, c.Point())
		}
	})
	s.rnd.Shuffle(len(numbered), func(i, j int) {
		numbered[i], numbered[j] = numbered[j], numbered[i]
	})

	for _, p := range numbered {
		var pool []Point
		for _, np := range s.board.neighbors(p) {
			if s.board.at(np).safe() {
				pool = append(pool, np)
			}
		}
		if len(pool) > 0 {
			return pool[s.rnd.IntN(len(pool))], true
		}
	}

	var pool []Point
	s.board.each(func(c *Cell) {
		if c.safe() {
			pool = append(pool, c.Point())
		}
	})
	if len(pool) == 0 {
		return Point{}, false
	}
	return pool[s.rnd.IntN(len(pool))], true
}

func (s *Session) highlight(p Point) {
	s.cancelHint()
	s.highlighted = &p
	if s.closed {
		return
	}
	gen := s.hintGen
	s.hintTimer = time.AfterFunc(s.hintTTL, func() { s.expireHint(gen) })
}

// cancelHint drops the highlight and disarms its timer. Callers hold s.mu.
func (s *Session) cancelHint() {
	if s.hintTimer != nil {
		s.hintTimer.Stop()
		s.hintTimer = nil
	}
	s.hintGen++
	s.highlighted = nil
}

func (s *Session) expireHint(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hintGen != gen {
		return
	}
	s.highlighted = nil
	s.hintTimer = nil
	s.notify()
}
