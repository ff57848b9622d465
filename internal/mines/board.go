package mines

import (
	"fmt"
	"strings"
)

// Board is the rows x cols grid of a session.
type Board struct {
	rows, cols int
	cells      [][]Cell
}

func NewBoard(rows, cols int) *Board {
	cells := make([][]Cell, rows)
	for r := range rows {
		cells[r] = make([]Cell, cols)
		for c := range cols {
			cells[r][c] = Cell{Row: r, Col: c}
		}
	}
	return &Board{rows: rows, cols: cols, cells: cells}
}

func (b *Board) Rows() int { return b.rows }
func (b *Board) Cols() int { return b.cols }

func (b *Board) In(p Point) bool {
	return 0 <= p.Row && p.Row < b.rows && 0 <= p.Col && p.Col < b.cols
}

func (b *Board) at(p Point) *Cell {
	return &b.cells[p.Row][p.Col]
}

// neighbors returns the up to 8 in-bounds points around p.
func (b *Board) neighbors(p Point) []Point {
	ns := make([]Point, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Point{p.Row + dr, p.Col + dc}
			if b.In(n) {
				ns = append(ns, n)
			}
		}
	}
	return ns
}

func (b *Board) each(fn func(c *Cell)) {
	for r := range b.rows {
		for c := range b.cols {
			fn(&b.cells[r][c])
		}
	}
}

func (b *Board) count(pred func(c *Cell) bool) (n int) {
	b.each(func(c *Cell) {
		if pred(c) {
			n++
		}
	})
	return
}

func (b *Board) mines() int {
	return b.count(func(c *Cell) bool { return c.IsMine })
}

func (b *Board) flags() int {
	return b.count(func(c *Cell) bool { return c.IsFlagged })
}

func (b *Board) revealedSafe() int {
	return b.count(func(c *Cell) bool { return c.IsRevealed && !c.IsMine })
}

func (b *Board) computeAdjacency() {
	b.each(func(c *Cell) {
		if c.IsMine {
			return
		}
		n := 0
		for _, p := range b.neighbors(c.Point()) {
			if b.at(p).IsMine {
				n++
			}
		}
		c.AdjacentMines = n
	})
}

// discloseMines reveals every mine that is not flagged. Flagged mines stay
// flagged so the player can see which flags were right.
func (b *Board) discloseMines() {
	b.each(func(c *Cell) {
		if c.IsMine && !c.IsFlagged {
			c.IsQuestionMarked = false
			c.IsRevealed = true
		}
	})
}

// flagMines flags every mine that is still hidden and unflagged.
func (b *Board) flagMines() {
	b.each(func(c *Cell) {
		if c.IsMine && !c.IsRevealed {
			c.IsQuestionMarked = false
			c.IsFlagged = true
		}
	})
}

// String renders the player's view of the board, one row per line.
func (b *Board) String() string {
	var sb strings.Builder
	for r := range b.rows {
		for c := range b.cols {
			fmt.Fprint(&sb, b.cells[r][c].String()+" ")
		}
		fmt.Fprint(&sb, "\n")
	}
	return sb.String()
}
