package deepzoom

import (
	"fmt"
	"image"
	"math"
)

// plan is the immutable level hierarchy derived from a source's
// full-resolution size. It is built exactly once, at Generator
// construction, and shared read-only by every tile request.
type plan struct {
	tileSize int
	overlap  int

	// Index 0 is the coarsest level; levelDims[len-1] equals the
	// source's tier-0 dimensions.
	levelDims  []image.Point
	levelTiles []image.Point

	// Per level: the source tier chosen to render it, and the factor
	// mapping level-pixel distances to that tier's pixels.
	tierForLevel []int
	levelToTier  []float64

	tierDims        []image.Point
	tierDownsamples []float64
}

// buildPlan derives the complete hierarchy from the source's reported tier
// geometry and the tile configuration.
func buildPlan(src Source, tileSize, overlap int) (*plan, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("deepzoom: tile size must be positive, got %d", tileSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("deepzoom: overlap must be non-negative, got %d", overlap)
	}

	tierDims := src.TierDimensions()
	tierDownsamples := src.TierDownsamples()
	if len(tierDims) == 0 {
		return nil, fmt.Errorf("deepzoom: source reports no resolution tiers")
	}
	if len(tierDownsamples) != len(tierDims) {
		return nil, fmt.Errorf("deepzoom: source reports %d tiers but %d downsamples",
			len(tierDims), len(tierDownsamples))
	}
	full := tierDims[0]
	if full.X < 1 || full.Y < 1 {
		return nil, fmt.Errorf("deepzoom: full resolution %dx%d is empty", full.X, full.Y)
	}

	// Halving recurrence, finest first. The level count must come from
	// this recurrence, not a closed-form log, so the grid agrees exactly
	// with clients replicating the standard Deep Zoom halving rule.
	dims := []image.Point{full}
	for d := full; d.X > 1 || d.Y > 1; {
		d = image.Pt(halve(d.X), halve(d.Y))
		dims = append(dims, d)
	}
	reverse(dims)

	levels := len(dims)
	tiles := make([]image.Point, levels)
	for i, d := range dims {
		tiles[i] = image.Pt(ceilDiv(d.X, tileSize), ceilDiv(d.Y, tileSize))
	}

	tierForLevel := make([]int, levels)
	levelToTier := make([]float64, levels)
	for level := 0; level < levels; level++ {
		// Downsample of this level relative to full resolution.
		down := math.Ldexp(1, levels-1-level)
		tier := src.BestTierForDownsample(down)
		if tier < 0 || tier >= len(tierDims) {
			return nil, fmt.Errorf("deepzoom: source chose tier %d for downsample %g (have %d tiers)",
				tier, down, len(tierDims))
		}
		tierForLevel[level] = tier
		levelToTier[level] = down / tierDownsamples[tier]
	}

	return &plan{
		tileSize:        tileSize,
		overlap:         overlap,
		levelDims:       dims,
		levelTiles:      tiles,
		tierForLevel:    tierForLevel,
		levelToTier:     levelToTier,
		tierDims:        append([]image.Point(nil), tierDims...),
		tierDownsamples: append([]float64(nil), tierDownsamples...),
	}, nil
}

func (p *plan) levelCount() int { return len(p.levelDims) }

func (p *plan) tileCount() int {
	total := 0
	for _, t := range p.levelTiles {
		total += t.X * t.Y
	}
	return total
}

// halve is one step of the Deep Zoom recurrence: max(1, ceil(d/2)).
func halve(d int) int {
	if d <= 1 {
		return 1
	}
	return (d + 1) / 2
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func reverse(s []image.Point) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
