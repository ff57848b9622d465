package mines

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x5 strip with a mine in the middle.
var strip = Difficulty{Name: "strip", Rows: 1, Cols: 5, MineCount: 1}

func TestHintNeedsFirstReveal(t *testing.T) {
	s, err := NewSession(Easy)
	require.NoError(t, err)
	defer s.Close()

	s.UseHint()

	v := s.View()
	assert.Nil(t, v.Highlighted)
	assert.Equal(t, DefaultHints, v.HintsRemaining)
}

func TestHintPrefersCellsNextToNumbers(t *testing.T) {
	near := map[Point]bool{
		{0, 3}: true, {0, 4}: true, {1, 3}: true, {2, 3}: true, {2, 4}: true,
	}
	for seed := range uint64(20) {
		s := newTestSession(t, wall, wallMines(), WithRand(seeded(seed)))
		s.Reveal(1, 4)

		s.UseHint()

		v := s.View()
		require.NotNil(t, v.Highlighted)
		assert.True(t, near[*v.Highlighted], "seed %d: hint %s is not next to a number", seed, *v.Highlighted)
		assert.Equal(t, DefaultHints-1, v.HintsRemaining)
	}
}

func TestHintFallsBackToAnySafeCell(t *testing.T) {
	s := newTestSession(t, strip, []Point{{0, 2}})
	s.Reveal(0, 0)
	require.True(t, cellAt(s, 0, 1).IsRevealed)

	s.UseHint()

	v := s.View()
	require.NotNil(t, v.Highlighted)
	assert.Contains(t, []Point{{0, 3}, {0, 4}}, *v.Highlighted)
}

func TestHintWithoutCandidatesIsNoop(t *testing.T) {
	s := newTestSession(t, strip, []Point{{0, 2}})
	s.Reveal(0, 0)
	s.CycleMark(0, 3)
	s.CycleMark(0, 4)
	require.True(t, cellAt(s, 0, 3).IsFlagged)
	require.True(t, cellAt(s, 0, 4).IsQuestionMarked)

	s.UseHint()

	v := s.View()
	assert.Nil(t, v.Highlighted)
	assert.Equal(t, DefaultHints, v.HintsRemaining)
}

func TestHintsRunOut(t *testing.T) {
	s := newTestSession(t, wall, wallMines(), WithHints(1))
	s.Reveal(1, 4)

	s.UseHint()
	first := s.View().Highlighted
	require.NotNil(t, first)

	s.UseHint()

	v := s.View()
	assert.Equal(t, 0, v.HintsRemaining)
	assert.Equal(t, first, v.Highlighted)
}

func TestHintExpires(t *testing.T) {
	s := newTestSession(t, wall, wallMines(), WithHintDuration(20*time.Millisecond))
	s.Reveal(1, 4)

	s.UseHint()
	require.NotNil(t, s.View().Highlighted)

	assert.Eventually(t, func() bool {
		return s.View().Highlighted == nil
	}, time.Second, 5*time.Millisecond)
}

func TestSupersededHintExpiresOnce(t *testing.T) {
	s := newTestSession(t, wall, wallMines(), WithHintDuration(30*time.Millisecond))
	s.Reveal(1, 4)

	s.UseHint()
	s.UseHint()
	require.NotNil(t, s.View().Highlighted)
	assert.Equal(t, DefaultHints-2, s.View().HintsRemaining)

	assert.Eventually(t, func() bool {
		return s.View().Highlighted == nil
	}, time.Second, 5*time.Millisecond)
}

func TestRevealClearsHint(t *testing.T) {
	s := newTestSession(t, wall, wallMines())
	s.Reveal(1, 4)
	s.UseHint()
	h := s.View().Highlighted
	require.NotNil(t, h)

	s.Reveal(h.Row, h.Col)

	assert.Nil(t, s.View().Highlighted)
}
