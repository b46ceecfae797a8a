package deepzoom

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Source is the multi-resolution image the pyramid is generated from.
// Implementations expose the source's native resolution tiers; tier 0 is
// full resolution and later tiers are coarser.
//
// ReadRegion locations are always in tier-0 pixel coordinates while the
// size is in the requested tier's own pixels; the implementation performs
// the conversion. The returned image carries an alpha channel in which
// transparent pixels mark area outside the source's valid extent.
type Source interface {
	TierDimensions() []image.Point
	TierDownsamples() []float64

	// BestTierForDownsample returns the tier best suited to render
	// content at the given downsample factor: the finest tier whose own
	// downsample does not exceed it, or the coarsest tier if all do.
	BestTierForDownsample(downsample float64) int

	ReadRegion(location image.Point, tier int, size image.Point) (image.Image, error)

	// BackgroundColor is an optional "RRGGBB" or "#RRGGBB" hint for the
	// color behind transparent source area. Empty means white.
	BackgroundColor() string
}

// Config holds the tile parameters, fixed for the life of a Generator.
type Config struct {
	TileSize int // width and height of a single tile
	Overlap  int // extra pixels added to each interior tile edge
}

// DefaultConfig returns the standard Deep Zoom parameters: 256-pixel tiles
// with a 1-pixel overlap.
func DefaultConfig() Config {
	return Config{TileSize: 256, Overlap: 1}
}

// Generator produces Deep Zoom tiles and metadata for a Source.
//
// The level hierarchy is computed once at construction; a Generator holds
// no other state and its methods are safe for concurrent use.
type Generator struct {
	src  Source
	plan *plan
	bg   color.NRGBA
}

// New builds the pyramid plan for src and returns a ready Generator.
func New(src Source, cfg Config) (*Generator, error) {
	p, err := buildPlan(src, cfg.TileSize, cfg.Overlap)
	if err != nil {
		return nil, err
	}
	return &Generator{
		src:  src,
		plan: p,
		bg:   parseBackground(src.BackgroundColor()),
	}, nil
}

// LevelCount returns the number of levels in the pyramid.
func (g *Generator) LevelCount() int { return g.plan.levelCount() }

// LevelDimensions returns the pixel size of every level, coarsest first.
func (g *Generator) LevelDimensions() []image.Point {
	return append([]image.Point(nil), g.plan.levelDims...)
}

// LevelTiles returns the tile-grid size (columns, rows) of every level,
// coarsest first.
func (g *Generator) LevelTiles() []image.Point {
	return append([]image.Point(nil), g.plan.levelTiles...)
}

// TileCount returns the total number of tiles across all levels.
func (g *Generator) TileCount() int { return g.plan.tileCount() }

// TileSize returns the configured tile size.
func (g *Generator) TileSize() int { return g.plan.tileSize }

// Overlap returns the configured overlap.
func (g *Generator) Overlap() int { return g.plan.overlap }

// Tile renders the tile at (level, col, row). It fails with ErrInvalidLevel
// or ErrInvalidAddress before any read is attempted when the address is out
// of range; source read errors propagate unchanged.
func (g *Generator) Tile(level, col, row int) (*image.NRGBA, error) {
	region, err := g.plan.mapTile(level, col, row)
	if err != nil {
		return nil, err
	}
	raw, err := g.src.ReadRegion(region.location, region.tier, region.size)
	if err != nil {
		return nil, fmt.Errorf("read tier %d region at %v size %v: %w",
			region.tier, region.location, region.size, err)
	}
	return compositeTile(raw, region.final, g.bg), nil
}

// Descriptor returns the .dzi XML document for the pyramid. format is the
// codec token for the individual tiles, e.g. "jpeg" or "png".
func (g *Generator) Descriptor(format string) (string, error) {
	return emitDescriptor(g.plan, format)
}

// parseBackground resolves the source's background hint, falling back to
// white when the hint is absent or malformed.
func parseBackground(hint string) color.NRGBA {
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if hint == "" {
		return white
	}
	if !strings.HasPrefix(hint, "#") {
		hint = "#" + hint
	}
	c, err := colorful.Hex(hint)
	if err != nil {
		return white
	}
	r, gg, b := c.RGB255()
	return color.NRGBA{R: r, G: gg, B: b, A: 0xff}
}
