package deepzoom

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	g, err := New(singleTier(300, 300), DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if g.TileSize() != 256 {
		t.Errorf("TileSize: got %d, want 256", g.TileSize())
	}
	if g.Overlap() != 1 {
		t.Errorf("Overlap: got %d, want 1", g.Overlap())
	}
	if g.LevelCount() != 10 {
		t.Errorf("LevelCount: got %d, want 10", g.LevelCount())
	}
}

func TestNew_RejectsBadConfig(t *testing.T) {
	if _, err := New(singleTier(300, 300), Config{TileSize: 0, Overlap: 1}); err == nil {
		t.Error("New should fail for zero tile size")
	}
	if _, err := New(singleTier(300, 300), Config{TileSize: 256, Overlap: -1}); err == nil {
		t.Error("New should fail for negative overlap")
	}
}

func TestGenerator_Queries(t *testing.T) {
	g, err := New(singleTier(300, 300), DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	dims := g.LevelDimensions()
	tiles := g.LevelTiles()
	if len(dims) != g.LevelCount() || len(tiles) != g.LevelCount() {
		t.Fatalf("slice lengths %d/%d, want %d", len(dims), len(tiles), g.LevelCount())
	}
	if dims[g.LevelCount()-1] != image.Pt(300, 300) {
		t.Errorf("finest dimensions: got %v, want (300, 300)", dims[g.LevelCount()-1])
	}
	if tiles[g.LevelCount()-1] != image.Pt(2, 2) {
		t.Errorf("finest grid: got %v, want (2, 2)", tiles[g.LevelCount()-1])
	}

	sum := 0
	for _, gr := range tiles {
		sum += gr.X * gr.Y
	}
	if g.TileCount() != sum {
		t.Errorf("TileCount: got %d, want %d", g.TileCount(), sum)
	}

	// Returned slices are copies: mutating them must not touch the plan.
	dims[0] = image.Pt(999, 999)
	if g.LevelDimensions()[0] == image.Pt(999, 999) {
		t.Error("LevelDimensions returned a live reference to the plan")
	}
}

func TestGenerator_TileSizes(t *testing.T) {
	g, err := New(singleTier(300, 300), DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	finest := g.LevelCount() - 1

	tests := []struct {
		name            string
		level, col, row int
		want            image.Point
	}{
		{"finest first corner", finest, 0, 0, image.Pt(257, 257)},
		{"finest last corner", finest, 1, 1, image.Pt(45, 45)},
		{"coarsest single pixel", 0, 0, 0, image.Pt(1, 1)},
		{"mid level single tile", finest - 1, 0, 0, image.Pt(150, 150)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile, err := g.Tile(tt.level, tt.col, tt.row)
			if err != nil {
				t.Fatalf("Tile failed: %v", err)
			}
			if got := tile.Bounds().Size(); got != tt.want {
				t.Errorf("tile size: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerator_BackgroundFlattening(t *testing.T) {
	// The fake source returns a fully transparent region; the background
	// hint must show through.
	src := singleTier(100, 100)
	src.fill = color.NRGBA{} // transparent
	src.bg = "ff0000"

	g, err := New(src, DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	tile, err := g.Tile(g.LevelCount()-1, 0, 0)
	if err != nil {
		t.Fatalf("Tile failed: %v", err)
	}

	want := color.NRGBA{R: 0xff, A: 0xff}
	if got := tile.NRGBAAt(50, 50); got != want {
		t.Errorf("pixel: got %v, want background %v", got, want)
	}
}

func TestGenerator_BackgroundHintFormats(t *testing.T) {
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	tests := []struct {
		name string
		hint string
		want color.NRGBA
	}{
		{"empty hint defaults to white", "", white},
		{"bare hex", "00ff00", color.NRGBA{G: 0xff, A: 0xff}},
		{"leading hash", "#0000ff", color.NRGBA{B: 0xff, A: 0xff}},
		{"garbage falls back to white", "not-a-color", white},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseBackground(tt.hint); got != tt.want {
				t.Errorf("parseBackground(%q): got %v, want %v", tt.hint, got, tt.want)
			}
		})
	}
}

func TestGenerator_InvalidRequestsDoNotRead(t *testing.T) {
	src := singleTier(300, 300)
	g, err := New(src, DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := g.Tile(-1, 0, 0); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("Tile(-1, 0, 0): got %v, want ErrInvalidLevel", err)
	}
	if _, err := g.Tile(g.LevelCount(), 0, 0); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("Tile(levelCount, 0, 0): got %v, want ErrInvalidLevel", err)
	}
	if _, err := g.Tile(g.LevelCount()-1, 2, 0); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("Tile(finest, 2, 0): got %v, want ErrInvalidAddress", err)
	}
	if len(src.reads) != 0 {
		t.Errorf("invalid requests issued %d source reads, want 0", len(src.reads))
	}
}

func TestGenerator_ReadErrorPropagates(t *testing.T) {
	readErr := errors.New("tier decode failed")
	src := singleTier(300, 300)
	src.readErr = readErr

	g, err := New(src, DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := g.Tile(g.LevelCount()-1, 0, 0); !errors.Is(err, readErr) {
		t.Errorf("Tile: got %v, want wrapped source error", err)
	}
}

func TestGenerator_ConcurrentTiles(t *testing.T) {
	g, err := New(singleTier(1000, 1000), DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	finest := g.LevelCount() - 1
	grid := g.LevelTiles()[finest]

	var wg sync.WaitGroup
	errs := make(chan error, grid.X*grid.Y)
	for col := 0; col < grid.X; col++ {
		for row := 0; row < grid.Y; row++ {
			wg.Add(1)
			go func(c, r int) {
				defer wg.Done()
				if _, err := g.Tile(finest, c, r); err != nil {
					errs <- err
				}
			}(col, row)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent Tile failed: %v", err)
	}
}
