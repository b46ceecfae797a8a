// Package deepzoom converts a multi-resolution image source into a Deep Zoom
// tile pyramid: a sequence of zoom levels, each a grid of fixed-size square
// tiles, plus the .dzi descriptor document giving the pyramid's shape.
//
// # Coordinate Planes
//
// Four coordinate planes are in play, and most of the arithmetic in this
// package is converting between them:
//
//   - Tile plane: column and row of a tile within a pyramid level.
//   - Level plane: pixel coordinates within a pyramid level.
//   - Tier plane: pixel coordinates within one of the source's native
//     resolution tiers.
//   - Tier-0 plane: pixel coordinates within the source's full-resolution
//     tier. Read locations handed to a Source are always expressed here.
//
// Levels form a strict power-of-two halving sequence down to a 1x1 image and
// are independent of the source's tiers; each level is rendered from the
// tier whose native downsample is closest to (without exceeding) the level's
// own downsample.
//
// # Rounding
//
// Read locations always round down and read sizes round up before being
// clipped to the tier's bounds. The read region therefore fully covers the
// intended area without ever requesting pixels outside the tier. Viewers
// stitch adjacent tiles pixel-for-pixel, so the rounding order used by the
// mapper must not be rearranged: an off-by-one here shows up as a visible
// seam.
//
// # Thread Safety
//
// A Generator's plan is computed once at construction and never mutated.
// Tile and all query methods are safe for concurrent use; the only shared
// call is Source.ReadRegion, whose concurrency behavior belongs to the
// Source implementation.
package deepzoom
