// Package source provides deepzoom.Source implementations.
package source

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// defaultCoarsestSide bounds the longest side of the coarsest generated
// tier when Options.CoarsestSide is zero.
const defaultCoarsestSide = 512

// Options configures an ImagePyramid.
type Options struct {
	// Background is the "RRGGBB" or "#RRGGBB" hint handed to the
	// generator. Empty means white.
	Background string

	// CoarsestSide stops tier generation once the longest side fits
	// within it. Zero means 512.
	CoarsestSide int
}

// ImagePyramid adapts a decoded image to the multi-resolution source
// contract. Tier 0 is the image itself; coarser tiers are pre-halved
// copies, generated once at construction, until the longest side fits
// within the configured bound.
//
// An ImagePyramid is immutable after FromImage and safe for concurrent
// reads.
type ImagePyramid struct {
	tiers []*image.NRGBA
	dims  []image.Point
	downs []float64
	bg    string
}

// FromImage builds the tier set for img.
func FromImage(img image.Image, opts Options) *ImagePyramid {
	coarsest := opts.CoarsestSide
	if coarsest <= 0 {
		coarsest = defaultCoarsestSide
	}

	p := &ImagePyramid{bg: opts.Background}
	tier := imaging.Clone(img)
	p.addTier(tier)
	for tier.Bounds().Dx() > coarsest || tier.Bounds().Dy() > coarsest {
		w := halve(tier.Bounds().Dx())
		h := halve(tier.Bounds().Dy())
		tier = imaging.Resize(tier, w, h, imaging.Box)
		p.addTier(tier)
	}

	full := p.dims[0]
	for _, d := range p.dims {
		// Downsample as the mean of the per-axis ratios, the way
		// multi-resolution readers report it for stored levels.
		p.downs = append(p.downs,
			(float64(full.X)/float64(d.X)+float64(full.Y)/float64(d.Y))/2)
	}
	return p
}

func (p *ImagePyramid) addTier(t *image.NRGBA) {
	p.tiers = append(p.tiers, t)
	p.dims = append(p.dims, t.Bounds().Size())
}

// TierDimensions returns the pixel size of every tier, finest first.
func (p *ImagePyramid) TierDimensions() []image.Point {
	return append([]image.Point(nil), p.dims...)
}

// TierDownsamples returns every tier's downsample factor relative to
// tier 0.
func (p *ImagePyramid) TierDownsamples() []float64 {
	return append([]float64(nil), p.downs...)
}

// BestTierForDownsample returns the tier just before the first tier whose
// downsample exceeds the factor, or the coarsest tier when none does.
func (p *ImagePyramid) BestTierForDownsample(downsample float64) int {
	for i := 1; i < len(p.downs); i++ {
		if downsample < p.downs[i] {
			return i - 1
		}
	}
	return len(p.downs) - 1
}

// ReadRegion extracts a sub-rectangle of the given tier. location is in
// tier-0 pixels, size in the tier's own pixels. Area outside the tier is
// returned transparent so the compositor can flatten it onto the
// background color.
func (p *ImagePyramid) ReadRegion(location image.Point, tier int, size image.Point) (image.Image, error) {
	if tier < 0 || tier >= len(p.tiers) {
		return nil, fmt.Errorf("source: tier %d not in [0, %d)", tier, len(p.tiers))
	}
	if size.X < 1 || size.Y < 1 {
		return nil, fmt.Errorf("source: empty read size %v", size)
	}

	// Tier-0 -> tier pixel coordinates.
	d := p.downs[tier]
	origin := image.Pt(int(float64(location.X)/d), int(float64(location.Y)/d))

	out := imaging.New(size.X, size.Y, color.Transparent)
	visible := image.Rectangle{Min: origin, Max: origin.Add(size)}.
		Intersect(p.tiers[tier].Bounds())
	if !visible.Empty() {
		out = imaging.Paste(out, imaging.Crop(p.tiers[tier], visible), visible.Min.Sub(origin))
	}
	return out, nil
}

// BackgroundColor returns the configured background hint.
func (p *ImagePyramid) BackgroundColor() string { return p.bg }

func halve(d int) int {
	if d <= 1 {
		return 1
	}
	return (d + 1) / 2
}
