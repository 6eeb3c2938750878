package terrain

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/Faultbox/panzer3d/pkg/math"
)

// ErrOutOfBounds is returned for queries outside the height field extent.
var ErrOutOfBounds = errors.New("position outside terrain bounds")

// HeightField is an immutable grid of height samples with cached normals.
//
// Node (c, r) sits at world (origin.X + c*cellSize, height, origin.Y + r*cellSize)
// and is stored at math.GridIndex(c, r, rows). A HeightField is safe for
// concurrent readers.
type HeightField struct {
	columns  int
	rows     int
	cellSize float32
	origin   math.Vec2
	samples  []Sample

	minHeight, maxHeight float32
}

// NewHeightField builds a height field from heights laid out column by column.
func NewHeightField(columns, rows int, cellSize float32, origin math.Vec2, heights []float32) (*HeightField, error) {
	if columns < 2 || rows < 2 || !(cellSize > 0) {
		return nil, errors.Wrapf(math.ErrInvalidGrid, "height field %dx%d, cell size %v", columns, rows, cellSize)
	}
	if len(heights) != columns*rows {
		return nil, errors.Wrapf(math.ErrInvalidGrid, "expected %d heights, got %d", columns*rows, len(heights))
	}

	hf := &HeightField{
		columns:  columns,
		rows:     rows,
		cellSize: cellSize,
		origin:   origin,
		samples:  make([]Sample, len(heights)),
	}
	hf.minHeight, hf.maxHeight = heights[0], heights[0]
	for _, h := range heights[1:] {
		hf.minHeight = min(hf.minHeight, h)
		hf.maxHeight = max(hf.maxHeight, h)
	}

	for c := range columns {
		for r := range rows {
			idx, err := math.GridIndex(c, r, rows)
			if err != nil {
				return nil, err
			}
			hf.samples[idx].Position = math.Vec3{
				X: origin.X + float32(c)*cellSize,
				Y: heights[idx],
				Z: origin.Y + float32(r)*cellSize,
			}
		}
	}

	// Normals need every position in place first.
	for c := range columns {
		for r := range rows {
			n, err := math.EstimateNormal(hf.ring(c, r))
			if err != nil {
				return nil, errors.Wrapf(err, "normal at node (%d, %d)", c, r)
			}
			unit, err := n.NormalizeStrict()
			if err != nil {
				return nil, errors.Wrapf(err, "normal at node (%d, %d)", c, r)
			}
			hf.samples[hf.index(c, r)].Normal = unit
		}
	}

	return hf, nil
}

// NewFlat builds a height field with the same height at every node.
func NewFlat(columns, rows int, cellSize float32, origin math.Vec2, height float32) (*HeightField, error) {
	if columns < 0 || rows < 0 {
		return nil, errors.Wrapf(math.ErrInvalidGrid, "height field %dx%d", columns, rows)
	}
	heights := make([]float32, columns*rows)
	for i := range heights {
		heights[i] = height
	}
	return NewHeightField(columns, rows, cellSize, origin, heights)
}

// Columns returns the number of node columns (X direction).
func (hf *HeightField) Columns() int { return hf.columns }

// Rows returns the number of node rows (Z direction).
func (hf *HeightField) Rows() int { return hf.rows }

// CellSize returns the distance between neighboring nodes.
func (hf *HeightField) CellSize() float32 { return hf.cellSize }

// Origin returns the XZ position of node (0, 0).
func (hf *HeightField) Origin() math.Vec2 { return hf.origin }

// Bounds returns the XZ extent covered by the nodes.
func (hf *HeightField) Bounds() Bounds {
	return Bounds{
		Min: hf.origin,
		Max: math.Vec2{
			X: hf.origin.X + float32(hf.columns-1)*hf.cellSize,
			Y: hf.origin.Y + float32(hf.rows-1)*hf.cellSize,
		},
	}
}

// Node returns a copy of the sample at (column, row).
func (hf *HeightField) Node(column, row int) (Sample, error) {
	if column >= hf.columns || row >= hf.rows {
		return Sample{}, errors.Wrapf(ErrOutOfBounds, "node (%d, %d)", column, row)
	}
	idx, err := math.GridIndex(column, row, hf.rows)
	if err != nil {
		return Sample{}, errors.Wrapf(err, "node (%d, %d)", column, row)
	}
	return hf.samples[idx], nil
}

// Heights returns a copy of the node heights in storage order.
func (hf *HeightField) Heights() []float32 {
	out := make([]float32, len(hf.samples))
	for i, s := range hf.samples {
		out[i] = s.Position.Y
	}
	return out
}

// HeightRange returns the minimum and maximum node height. Interpolated
// heights never leave this range.
func (hf *HeightField) HeightRange() (lo, hi float32) {
	return hf.minHeight, hf.maxHeight
}

// HeightAt returns the bilinearly interpolated height under position.
func (hf *HeightField) HeightAt(position math.Vec3) (float32, error) {
	p := position.XZ()
	c, r, err := hf.locate(p)
	if err != nil {
		return 0, err
	}
	return hf.interpolate(p, c, r, func(s Sample) float32 { return s.Position.Y })
}

// NormalAt returns the unit normal under position, bilinearly blended
// from the four surrounding node normals.
func (hf *HeightField) NormalAt(position math.Vec3) (math.Vec3, error) {
	p := position.XZ()
	c, r, err := hf.locate(p)
	if err != nil {
		return math.Vec3{}, err
	}

	var n math.Vec3
	if n.X, err = hf.interpolate(p, c, r, func(s Sample) float32 { return s.Normal.X }); err != nil {
		return math.Vec3{}, err
	}
	if n.Y, err = hf.interpolate(p, c, r, func(s Sample) float32 { return s.Normal.Y }); err != nil {
		return math.Vec3{}, err
	}
	if n.Z, err = hf.interpolate(p, c, r, func(s Sample) float32 { return s.Normal.Z }); err != nil {
		return math.Vec3{}, err
	}

	unit, err := n.NormalizeStrict()
	if err != nil {
		return math.Vec3{}, errors.Wrapf(err, "normal at (%.2f, %.2f)", p.X, p.Y)
	}
	return unit, nil
}

// locate returns the cell whose lower corner is node (c, r) and which
// contains p. Points on the far edges map to the last cell.
func (hf *HeightField) locate(p math.Vec2) (int, int, error) {
	if !hf.Bounds().Contains(p) {
		return 0, 0, errors.Wrapf(ErrOutOfBounds, "(%.2f, %.2f)", p.X, p.Y)
	}

	cell := p.Sub(hf.origin).Scale(1 / hf.cellSize)
	c := clampInt(int(math32.Floor(cell.X)), 0, hf.columns-2)
	r := clampInt(int(math32.Floor(cell.Y)), 0, hf.rows-2)
	return c, r, nil
}

func (hf *HeightField) interpolate(p math.Vec2, c, r int, value func(Sample) float32) (float32, error) {
	s11 := hf.samples[hf.index(c, r)]
	s21 := hf.samples[hf.index(c+1, r)]
	s12 := hf.samples[hf.index(c, r+1)]
	s22 := hf.samples[hf.index(c+1, r+1)]

	return math.BilinearInterpolate(p,
		s11.Position.X, s21.Position.X,
		s11.Position.Z, s12.Position.Z,
		value(s11), value(s21), value(s12), value(s22))
}

// ring returns the edges from node (c, r) to its neighbors in the order
// -Z, +X, +Z, -X (clockwise seen from above). A neighbor missing at the
// border is replaced by the mirror of the opposite edge.
func (hf *HeightField) ring(c, r int) []math.Vec3 {
	center := hf.samples[hf.index(c, r)].Position
	edge := func(nc, nr int) (math.Vec3, bool) {
		if nc < 0 || nr < 0 || nc >= hf.columns || nr >= hf.rows {
			return math.Vec3{}, false
		}
		return hf.samples[hf.index(nc, nr)].Position.Sub(center), true
	}

	north, hasNorth := edge(c, r-1)
	east, hasEast := edge(c+1, r)
	south, hasSouth := edge(c, r+1)
	west, hasWest := edge(c-1, r)

	if !hasNorth {
		north = south.Negate()
	}
	if !hasSouth {
		south = north.Negate()
	}
	if !hasEast {
		east = west.Negate()
	}
	if !hasWest {
		west = east.Negate()
	}

	return []math.Vec3{north, east, south, west}
}

// index is GridIndex for coordinates already known to be valid.
func (hf *HeightField) index(c, r int) int {
	return c*hf.rows + r
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
