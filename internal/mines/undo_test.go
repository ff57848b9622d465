package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecondChance(t *testing.T) {
	mines := []Point{
		{7, 0}, {7, 1}, {7, 2}, {7, 3}, {7, 4},
		{7, 5}, {7, 6}, {7, 7}, {6, 7}, {5, 7},
	}
	s := newTestSession(t, Easy, mines)
	s.Reveal(6, 0)
	s.CycleMark(7, 7)
	require.Equal(t, Playing, s.Status())
	before := s.View()

	s.Reveal(7, 0)

	v := s.View()
	require.Equal(t, Lost, v.Status)
	assert.True(t, v.CanUndo)
	assert.True(t, v.Cells[7][0].Revealed)
	for _, p := range mines[1:] {
		assert.False(t, v.Cells[p.Row][p.Col].Revealed, "mine %s disclosed early", p)
	}

	s.UndoLastMove()

	v = s.View()
	assert.Equal(t, Playing, v.Status)
	assert.False(t, v.Cells[7][0].Revealed)
	assert.True(t, v.UsedSecondChance)
	assert.False(t, v.CanUndo)
	assert.Nil(t, v.Detonated)
	assert.Equal(t, before.Cells, v.Cells)
	assert.Equal(t, before.FlagsRemaining, v.FlagsRemaining)
	checkInvariants(t, s)

	s.Reveal(7, 1)

	v = s.View()
	assert.Equal(t, Lost, v.Status)
	assert.False(t, v.CanUndo)
	for _, p := range mines {
		c := v.Cells[p.Row][p.Col]
		if p == (Point{7, 7}) {
			assert.True(t, c.Flagged)
			continue
		}
		assert.True(t, c.Revealed, "mine %s hidden after second loss", p)
	}

	s.UndoLastMove()
	assert.Equal(t, Lost, s.Status())
}

func TestUndoRestoresFlagsAndClock(t *testing.T) {
	s := newTestSession(t, corner, []Point{{0, 0}})
	s.Reveal(1, 1)
	s.CycleMark(0, 1) // wrong flag
	s.mu.Lock()
	s.elapsedSeconds = 42
	s.mu.Unlock()

	s.ChordReveal(1, 1)
	require.Equal(t, Lost, s.Status())
	s.mu.Lock()
	s.elapsedSeconds = 50
	s.mu.Unlock()

	s.UndoLastMove()

	v := s.View()
	assert.Equal(t, Playing, v.Status)
	assert.Equal(t, 42, v.ElapsedSeconds)
	assert.Equal(t, 0, v.FlagsRemaining)
	assert.True(t, v.Cells[0][1].Flagged)
	assert.False(t, v.Cells[0][2].Revealed)
	checkInvariants(t, s)
}

func TestUndoWithoutLossIsNoop(t *testing.T) {
	s := newTestSession(t, corner, []Point{{0, 0}})
	s.Reveal(1, 1)
	before := s.View()

	s.UndoLastMove()

	assert.Equal(t, before, s.View())
	assert.False(t, s.CanUndo())
}

func TestNewGameDropsSecondChance(t *testing.T) {
	s := newTestSession(t, corner, []Point{{0, 0}})
	s.Reveal(0, 0)
	require.True(t, s.CanUndo())

	require.NoError(t, s.NewGame(Medium))

	v := s.View()
	assert.False(t, v.CanUndo)
	assert.Equal(t, Playing, v.Status)
	assert.True(t, v.FirstClick)
	assert.Equal(t, Medium, v.Difficulty)
	assert.Len(t, v.Cells, Medium.Rows)
	assert.Len(t, v.Cells[0], Medium.Cols)
	assert.Equal(t, Medium.MineCount, v.FlagsRemaining)
	assert.Equal(t, DefaultHints, v.HintsRemaining)
}
