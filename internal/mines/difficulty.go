package mines

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidDifficulty = errors.New("invalid difficulty")

type Difficulty struct {
	Name      string `json:"name"`
	Rows      int    `json:"rows"`
	Cols      int    `json:"cols"`
	MineCount int    `json:"mine_count"`
}

var (
	Easy   = Difficulty{Name: "Easy", Rows: 8, Cols: 8, MineCount: 10}
	Medium = Difficulty{Name: "Medium", Rows: 10, Cols: 10, MineCount: 20}
	Hard   = Difficulty{Name: "Hard", Rows: 12, Cols: 12, MineCount: 30}
)

func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// ParseDifficulty looks a built-in difficulty up by name, ignoring case.
func ParseDifficulty(name string) (Difficulty, error) {
	name = strings.TrimSpace(name)
	for _, d := range Difficulties() {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return Difficulty{}, fmt.Errorf("%w: unknown name %q", ErrInvalidDifficulty, name)
}

func (d Difficulty) Validate() error {
	if d.Rows <= 0 || d.Cols <= 0 {
		return fmt.Errorf("%w: %dx%d board", ErrInvalidDifficulty, d.Rows, d.Cols)
	}
	if d.MineCount < 0 {
		return fmt.Errorf("%w: %d mines", ErrInvalidDifficulty, d.MineCount)
	}
	return nil
}

func (d Difficulty) String() string {
	return fmt.Sprintf("%s %dx%d(%d)", d.Name, d.Rows, d.Cols, d.MineCount)
}
