package terrain

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/Faultbox/panzer3d/pkg/formats"
	"github.com/Faultbox/panzer3d/pkg/math"
)

// LoadOptions describes where terrain comes from.
type LoadOptions struct {
	Path        string  // .hfd file or heightmap image; empty generates flat terrain
	CellSize    float32 // node spacing for images and flat terrain
	HeightScale float32 // height per luminance level for images
	FlatHeight  float32
	Columns     int // flat terrain only
	Rows        int // flat terrain only
}

// Load builds a height field from opts. Images and flat terrain are
// centered on the world origin.
func Load(opts LoadOptions) (*HeightField, error) {
	if opts.Path == "" {
		return NewFlat(opts.Columns, opts.Rows, opts.CellSize, centered(opts.Columns, opts.Rows, opts.CellSize), opts.FlatHeight)
	}

	switch strings.ToLower(filepath.Ext(opts.Path)) {
	case ".hfd":
		h, err := formats.ParseHFDFile(opts.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", opts.Path)
		}
		return FromHFD(h)
	default:
		hm, err := formats.DecodeHeightmapFile(opts.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", opts.Path)
		}
		return FromHeightmap(hm, opts.HeightScale, opts.CellSize)
	}
}

// FromHFD builds a height field from parsed HFD data.
func FromHFD(h *formats.HFD) (*HeightField, error) {
	origin := math.Vec2{X: h.OriginX, Y: h.OriginZ}
	hf, err := NewHeightField(int(h.Columns), int(h.Rows), h.CellSize, origin, h.Heights)
	if err != nil {
		return nil, errors.Wrap(err, "hfd")
	}
	return hf, nil
}

// FromHeightmap builds a centered height field from a decoded image.
func FromHeightmap(hm *formats.Heightmap, scale, cellSize float32) (*HeightField, error) {
	h := hm.ToHFD(scale, cellSize)
	origin := centered(hm.Width, hm.Height, cellSize)
	h.OriginX, h.OriginZ = origin.X, origin.Y
	return FromHFD(h)
}

// ToHFD converts the height field to its file representation.
func ToHFD(hf *HeightField) *formats.HFD {
	return &formats.HFD{
		Version:  formats.CurrentHFDVersion,
		Columns:  uint32(hf.columns),
		Rows:     uint32(hf.rows),
		CellSize: hf.cellSize,
		OriginX:  hf.origin.X,
		OriginZ:  hf.origin.Y,
		Heights:  hf.Heights(),
	}
}

func centered(columns, rows int, cellSize float32) math.Vec2 {
	return math.Vec2{
		X: -float32(columns-1) * cellSize / 2,
		Y: -float32(rows-1) * cellSize / 2,
	}
}
