package mines

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

// Sampling gives up after this many tries per requested mine and falls
// back to a scan, so placement always terminates.
const placementAttemptsPerMine = 1000

func absDiff(x, y int) int {
	if x < y {
		return y - x
	}
	return x - y
}

func inSafeZone(first, p Point) bool {
	return absDiff(first.Row, p.Row) <= 1 && absDiff(first.Col, p.Col) <= 1
}

// placeMines scatters up to count mines outside the 3x3 safe zone around
// first and recomputes adjacency. The count is clamped to the number of
// cells outside the safe zone. Returns the number of mines placed.
func (b *Board) placeMines(first Point, count int, r *rand.Rand) int {
	available := b.count(func(c *Cell) bool {
		return !inSafeZone(first, c.Point())
	})
	if count > available {
		Log.WithFields(logrus.Fields{
			"requested": count,
			"available": available,
		}).Warn("clamping mine count to cells outside the safe zone")
		count = available
	}

	placed := 0
	ceiling := max(count, 1) * placementAttemptsPerMine
	for attempt := 0; placed < count && attempt < ceiling; attempt++ {
		p := Point{r.IntN(b.rows), r.IntN(b.cols)}
		if inSafeZone(first, p) {
			continue
		}
		if c := b.at(p); !c.IsMine {
			c.IsMine = true
			placed++
		}
	}

	b.each(func(c *Cell) {
		if placed < count && !c.IsMine && !inSafeZone(first, c.Point()) {
			c.IsMine = true
			placed++
		}
	})

	b.computeAdjacency()
	return placed
}
