package mines

import "fmt"

// Point addresses a cell on the board.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// Cell is one grid position. Row and Col never change once the board is
// built; everything else is game state.
//
// IsFlagged and IsQuestionMarked are exclusive, and a revealed cell is
// never marked. AdjacentMines is only meaningful when IsMine is false.
type Cell struct {
	Row, Col         int
	IsMine           bool
	AdjacentMines    int
	IsRevealed       bool
	IsFlagged        bool
	IsQuestionMarked bool
}

func (c *Cell) Point() Point {
	return Point{c.Row, c.Col}
}

func (c *Cell) marked() bool {
	return c.IsFlagged || c.IsQuestionMarked
}

// safe reports whether the cell is a hint candidate: hidden, unmarked and
// not a mine.
func (c *Cell) safe() bool {
	return !c.IsRevealed && !c.IsMine && !c.marked()
}

func (c *Cell) String() string {
	switch {
	case c.IsFlagged:
		return "*"
	case c.IsQuestionMarked:
		return "?"
	case !c.IsRevealed:
		return " "
	case c.IsMine:
		return "!"
	default:
		return fmt.Sprint(c.AdjacentMines)
	}
}
