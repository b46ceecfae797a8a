package deepzoom

import (
	"encoding/xml"
	"fmt"
)

// dziNamespace identifies the document as a Deep Zoom image descriptor.
const dziNamespace = "http://schemas.microsoft.com/deepzoom/2008"

// descriptor is the .dzi document shape: an Image root carrying the
// pyramid's static parameters and a Size child with the full-resolution
// dimensions.
type descriptor struct {
	XMLName  xml.Name       `xml:"Image"`
	TileSize int            `xml:"TileSize,attr"`
	Overlap  int            `xml:"Overlap,attr"`
	Format   string         `xml:"Format,attr"`
	Xmlns    string         `xml:"xmlns,attr"`
	Size     descriptorSize `xml:"Size"`
}

type descriptorSize struct {
	Width  int `xml:"Width,attr"`
	Height int `xml:"Height,attr"`
}

// emitDescriptor renders the plan's static parameters as UTF-8 XML text.
// format is the tile codec token the caller serves, e.g. "jpeg" or "png".
func emitDescriptor(p *plan, format string) (string, error) {
	full := p.levelDims[p.levelCount()-1]
	doc := descriptor{
		TileSize: p.tileSize,
		Overlap:  p.overlap,
		Format:   format,
		Xmlns:    dziNamespace,
		Size:     descriptorSize{Width: full.X, Height: full.Y},
	}
	out, err := xml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("deepzoom: marshal descriptor: %w", err)
	}
	return xml.Header + string(out), nil
}
