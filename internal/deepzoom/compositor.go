package deepzoom

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
)

// compositeTile flattens a raw source region onto an opaque background and
// resamples it to the tile's final size. The region's alpha channel marks
// pixels outside the source's valid area; those take the background color,
// opaque source pixels pass through unchanged.
func compositeTile(region image.Image, final image.Point, bg color.Color) *image.NRGBA {
	b := region.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), bg)
	flat := blend.Normal(canvas, region)

	// Only ever shrink: the mapper's read size covers at least the
	// downsampled final size. Box filtering gives the area-average
	// downscale Deep Zoom tiles expect.
	if b.Dx() != final.X || b.Dy() != final.Y {
		return imaging.Resize(flat, final.X, final.Y, imaging.Box)
	}
	return imaging.Clone(flat)
}
