// Package server exposes a deepzoom.Generator over HTTP using the URL
// layout Deep Zoom viewers expect:
//
//	GET /{name}.dzi                              the descriptor document
//	GET /{name}_files/{level}/{col}_{row}.{ext}  one tile
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"

	"github.com/slidekit/deepzoom/internal/deepzoom"
)

// Server serves tiles and metadata for a single pyramid.
type Server struct {
	gen     *deepzoom.Generator
	name    string
	format  string // tile codec token, "jpeg" or "png"
	quality int    // JPEG quality
}

// New creates a tile server for gen. name is the image name used in URLs,
// format the tile codec ("jpeg" or "png"), quality the JPEG quality
// (ignored for PNG; 0 means 85).
func New(gen *deepzoom.Generator, name, format string, quality int) (*Server, error) {
	if name == "" {
		name = "image"
	}
	if format != "jpeg" && format != "png" {
		return nil, fmt.Errorf("server: unsupported tile format %q", format)
	}
	if quality <= 0 {
		quality = 85
	}
	return &Server{gen: gen, name: name, format: format, quality: quality}, nil
}

// Routes returns the chi router for this pyramid. Middleware is left to
// the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Get(fmt.Sprintf("/%s.dzi", s.name), s.handleDescriptor)
	r.Get(fmt.Sprintf("/%s_files/{level}/{tile}", s.name), s.handleTile)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status": "ok",
		"levels": s.gen.LevelCount(),
		"tiles":  s.gen.TileCount(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Error encoding health response: %v", err)
	}
}

func (s *Server) handleDescriptor(w http.ResponseWriter, r *http.Request) {
	doc, err := s.gen.Descriptor(s.format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if _, err := w.Write([]byte(doc)); err != nil {
		log.Printf("Error writing descriptor: %v", err)
	}
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil {
		http.Error(w, "malformed level", http.StatusBadRequest)
		return
	}
	col, row, err := s.parseTileName(chi.URLParam(r, "tile"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tile, err := s.gen.Tile(level, col, row)
	switch {
	case errors.Is(err, deepzoom.ErrInvalidLevel), errors.Is(err, deepzoom.ErrInvalidAddress):
		http.NotFound(w, r)
		return
	case err != nil:
		// Source read failures are not the client's fault.
		log.Printf("Tile (%d, %d, %d) failed: %v", level, col, row, err)
		http.Error(w, "tile read failed", http.StatusBadGateway)
		return
	}

	if s.format == "png" {
		w.Header().Set("Content-Type", "image/png")
		err = imaging.Encode(w, tile, imaging.PNG)
	} else {
		w.Header().Set("Content-Type", "image/jpeg")
		err = imaging.Encode(w, tile, imaging.JPEG, imaging.JPEGQuality(s.quality))
	}
	if err != nil {
		log.Printf("Error encoding tile (%d, %d, %d): %v", level, col, row, err)
	}
}

// parseTileName splits "{col}_{row}.{ext}", checking the extension matches
// the served format.
func (s *Server) parseTileName(name string) (col, row int, err error) {
	base, ext, ok := strings.Cut(name, ".")
	if !ok || ext != s.format {
		return 0, 0, fmt.Errorf("malformed tile name %q, want {col}_{row}.%s", name, s.format)
	}
	colStr, rowStr, ok := strings.Cut(base, "_")
	if !ok {
		return 0, 0, fmt.Errorf("malformed tile address %q", base)
	}
	if col, err = strconv.Atoi(colStr); err != nil {
		return 0, 0, fmt.Errorf("malformed tile column %q", colStr)
	}
	if row, err = strconv.Atoi(rowStr); err != nil {
		return 0, 0, fmt.Errorf("malformed tile row %q", rowStr)
	}
	return col, row, nil
}
