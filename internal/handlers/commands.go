package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0,
	"r": 2,
	"c": 2,
	"m": 2,
	"u": 0,
	"h": 0,
	"n": 1,
}

func parseRowCol(args []string) (row int, col int, err error) {
	if row, err = strconv.Atoi(args[0]); err != nil {
		return 0, 0, errors.New("row must be an int")
	}
	if col, err = strconv.Atoi(args[1]); err != nil {
		return 0, 0, errors.New("col must be an int")
	}
	return row, col, nil
}

// executeCommand applies one text command to s. "g" only asks for the
// current view.
func executeCommand(s *mines.Session, c string) error {
	parts := strings.Fields(c)
	if len(parts) == 0 {
		return errors.New("empty command")
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", parts[0])
	}
	if nargs != len(parts)-1 {
		return fmt.Errorf("command %q takes %d arguments", parts[0], nargs)
	}

	switch parts[0] {
	case "g":
	case "r", "c", "m":
		row, col, err := parseRowCol(parts[1:])
		if err != nil {
			return err
		}
		if err := inBounds(s.Difficulty(), row, col); err != nil {
			return err
		}
		switch parts[0] {
		case "r":
			s.Reveal(row, col)
		case "c":
			s.ChordReveal(row, col)
		case "m":
			s.CycleMark(row, col)
		}
	case "u":
		s.UndoLastMove()
	case "h":
		s.UseHint()
	case "n":
		d, err := mines.ParseDifficulty(parts[1])
		if err != nil {
			return err
		}
		return s.NewGame(d)
	}
	return nil
}
