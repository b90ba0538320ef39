package main

import (
	"math"
	"sort"

	"github.com/pthm-cable/scroller/config"
)

// CellSpace maps the optimizer's normalized coordinate onto the finder cell
// sizes that evenly divide the world.
type CellSpace struct {
	Sizes []int // ascending
}

// NewCellSpace lists the divisors of worldSize in [minCell, maxCell].
func NewCellSpace(worldSize, minCell, maxCell int) *CellSpace {
	var sizes []int
	for d := 1; d*d <= worldSize; d++ {
		if worldSize%d != 0 {
			continue
		}
		for _, c := range []int{d, worldSize / d} {
			if c >= minCell && c <= maxCell {
				sizes = append(sizes, c)
			}
		}
	}
	sort.Ints(sizes)
	// d and worldSize/d coincide for perfect squares.
	out := sizes[:0]
	for i, c := range sizes {
		if i == 0 || c != sizes[i-1] {
			out = append(out, c)
		}
	}
	return &CellSpace{Sizes: out}
}

// Len returns the number of candidate cell sizes.
func (cs *CellSpace) Len() int {
	return len(cs.Sizes)
}

// Normalize returns the coordinate of the candidate closest to size.
func (cs *CellSpace) Normalize(size int) float64 {
	if len(cs.Sizes) < 2 {
		return 0
	}
	lo, hi := math.Log(float64(cs.Sizes[0])), math.Log(float64(cs.Sizes[len(cs.Sizes)-1]))
	return (math.Log(float64(size)) - lo) / (hi - lo)
}

// Snap maps x in [0,1] (clamped) onto the nearest candidate on a log scale.
func (cs *CellSpace) Snap(x float64) int {
	if len(cs.Sizes) == 0 {
		return 0
	}
	x = clamp01(x)
	lo, hi := math.Log(float64(cs.Sizes[0])), math.Log(float64(cs.Sizes[len(cs.Sizes)-1]))
	target := lo + x*(hi-lo)

	best := cs.Sizes[0]
	bestDist := math.Inf(1)
	for _, c := range cs.Sizes {
		if d := math.Abs(math.Log(float64(c)) - target); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// ApplyToConfig returns a copy of base using the given cell size.
func ApplyToConfig(base *config.Config, cellSize int) (*config.Config, error) {
	cfg := *base
	cfg.World.CellSize = cellSize
	if err := cfg.Refresh(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
