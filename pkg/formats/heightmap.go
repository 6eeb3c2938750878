package formats

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // GIF heightmaps
	_ "image/jpeg" // JPEG heightmaps
	_ "image/png"  // PNG heightmaps
	"io"
	"os"

	_ "golang.org/x/image/bmp" // BMP heightmaps
)

// Heightmap is a grayscale image read as terrain levels.
// Pixel (x, y) becomes grid node (column x, row y).
type Heightmap struct {
	Width  int
	Height int
	Format string    // decoder name, e.g. "png"
	Levels []float32 // luminance 0-255, stored column by column
}

// DecodeHeightmap reads a heightmap image in any registered format.
func DecodeHeightmap(r io.Reader) (*Heightmap, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding heightmap: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 2 || h < 2 {
		return nil, fmt.Errorf("%w: heightmap %dx%d", ErrInvalidHFDDimensions, w, h)
	}

	hm := &Heightmap{
		Width:  w,
		Height: h,
		Format: format,
		Levels: make([]float32, w*h),
	}
	for x := range w {
		for y := range h {
			g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			hm.Levels[x*h+y] = float32(g.Y) / 257
		}
	}
	return hm, nil
}

// DecodeHeightmapFile reads a heightmap image from disk.
func DecodeHeightmapFile(path string) (*Heightmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening heightmap: %w", err)
	}
	defer f.Close()
	return DecodeHeightmap(f)
}

// ToHFD converts the heightmap to height field data, multiplying each
// level by scale.
func (hm *Heightmap) ToHFD(scale, cellSize float32) *HFD {
	heights := make([]float32, len(hm.Levels))
	for i, l := range hm.Levels {
		heights[i] = l * scale
	}
	return &HFD{
		Version:  CurrentHFDVersion,
		Columns:  uint32(hm.Width),
		Rows:     uint32(hm.Height),
		CellSize: cellSize,
		Heights:  heights,
	}
}
