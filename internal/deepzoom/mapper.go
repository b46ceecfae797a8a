package deepzoom

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// Validation failures for tile addresses. Both are raised before any source
// read is attempted; wrap details with fmt.Errorf and test with errors.Is.
var (
	ErrInvalidLevel   = errors.New("deepzoom: invalid level")
	ErrInvalidAddress = errors.New("deepzoom: invalid tile address")
)

// tileRegion describes everything needed to produce one tile: the source
// read and the exact pixel size the finished tile must have. Values are
// computed fresh per request and discarded after use.
type tileRegion struct {
	location image.Point // tier-0 pixels, rounded down
	tier     int
	size     image.Point // tier pixels, rounded up then clipped
	final    image.Point // level pixels, incl. overlap, pre-clip
}

// mapTile resolves a tile address to the source sub-rectangle and final
// size for that tile.
func (p *plan) mapTile(level, col, row int) (tileRegion, error) {
	if level < 0 || level >= p.levelCount() {
		return tileRegion{}, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidLevel, level, p.levelCount())
	}
	grid := p.levelTiles[level]
	if col < 0 || col >= grid.X || row < 0 || row >= grid.Y {
		return tileRegion{}, fmt.Errorf("%w: (%d, %d) outside %dx%d grid at level %d",
			ErrInvalidAddress, col, row, grid.X, grid.Y, level)
	}

	tier := p.tierForLevel[level]
	x := p.mapAxis(level, col, grid.X, p.levelDims[level].X, p.tierDims[tier].X)
	y := p.mapAxis(level, row, grid.Y, p.levelDims[level].Y, p.tierDims[tier].Y)

	return tileRegion{
		location: image.Pt(x.location, y.location),
		tier:     tier,
		size:     image.Pt(x.size, y.size),
		final:    image.Pt(x.final, y.final),
	}, nil
}

// axisSpan is the result of mapping one axis; x and y are symmetric.
type axisSpan struct {
	location int // tier-0 read origin
	size     int // tier-pixel read extent
	final    int // level-pixel tile extent
}

// mapAxis maps tile index t along one axis. levelDim is the level's pixel
// extent and tierDim the chosen tier's, both for this axis.
func (p *plan) mapAxis(level, t, grid, levelDim, tierDim int) axisSpan {
	tier := p.tierForLevel[level]
	toTier := p.levelToTier[level]

	// Overlap applies only on interior edges.
	before, after := 0, 0
	if t != 0 {
		before = p.overlap
	}
	if t != grid-1 {
		after = p.overlap
	}

	// The min clips the tile's core content at the pyramid edge, so the
	// last tile in a row or column is narrower than tileSize when the
	// level dimension is not an exact multiple.
	final := min(p.tileSize, levelDim-p.tileSize*t) + before + after

	// Read origin: back up over the leading overlap in level pixels,
	// scale to tier pixels, then to tier-0 pixels, and round down.
	tierOrigin := toTier * float64(p.tileSize*t-before)
	location := int(math.Floor(p.tierDownsamples[tier] * tierOrigin))

	// Read size: round up, then clip so the read never extends past the
	// tier. The clip uses the unrounded tier origin; together with the
	// floor above this can leave the read a pixel narrower than the
	// nominal size at the tier edge, which downstream resampling absorbs.
	size := int(math.Min(
		math.Ceil(toTier*float64(final)),
		float64(tierDim)-math.Ceil(tierOrigin),
	))

	return axisSpan{location: location, size: size, final: final}
}
