package deepzoom

import (
	"image"
	"image/color"
	"sync"
)

// fakeSource is an in-memory Source for tests. Tier geometry is declared
// up front; ReadRegion returns a solid region filled with fill, or readErr
// when set.
type fakeSource struct {
	dims    []image.Point
	downs   []float64
	bg      string
	fill    color.NRGBA
	readErr error

	// reads records every ReadRegion call for assertions.
	mu    sync.Mutex
	reads []readCall
}

type readCall struct {
	location image.Point
	tier     int
	size     image.Point
}

func (s *fakeSource) TierDimensions() []image.Point { return s.dims }
func (s *fakeSource) TierDownsamples() []float64    { return s.downs }
func (s *fakeSource) BackgroundColor() string       { return s.bg }

func (s *fakeSource) BestTierForDownsample(d float64) int {
	for i := 1; i < len(s.downs); i++ {
		if d < s.downs[i] {
			return i - 1
		}
	}
	return len(s.downs) - 1
}

func (s *fakeSource) ReadRegion(location image.Point, tier int, size image.Point) (image.Image, error) {
	s.mu.Lock()
	s.reads = append(s.reads, readCall{location: location, tier: tier, size: size})
	s.mu.Unlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	img := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			img.SetNRGBA(x, y, s.fill)
		}
	}
	return img, nil
}

// singleTier returns a source with one full-resolution tier of the given
// size, filled with opaque mid-gray.
func singleTier(w, h int) *fakeSource {
	return &fakeSource{
		dims:  []image.Point{image.Pt(w, h)},
		downs: []float64{1},
		fill:  color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	}
}
