package handlers

import (
	"fmt"
	"net/url"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var decoder = func() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}()

type PositionDTO struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

func ParsePosition(src url.Values) (PositionDTO, error) {
	var dto PositionDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type NewGameDTO struct {
	Difficulty string `schema:"difficulty"`
}

// ParseNewGame reads the difficulty name, keeping the current one when
// none is given.
func ParseNewGame(src url.Values, current mines.Difficulty) (mines.Difficulty, error) {
	var dto NewGameDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.Difficulty{}, err
	}
	if dto.Difficulty == "" {
		return current, nil
	}
	return mines.ParseDifficulty(dto.Difficulty)
}

func inBounds(d mines.Difficulty, row, col int) error {
	if row < 0 || row >= d.Rows || col < 0 || col >= d.Cols {
		return fmt.Errorf("cell %d:%d is outside the %dx%d board", row, col, d.Rows, d.Cols)
	}
	return nil
}
