package math

// BilinearInterpolate interpolates a scalar defined at the corners of the
// rectangle [x1,x2]x[y1,y2] onto p.
//
// Corner weights: w11 at (x1,y1), w21 at (x2,y1), w12 at (x1,y2), w22 at (x2,y2).
// Points outside the rectangle are linearly extrapolated.
func BilinearInterpolate(p Vec2, x1, x2, y1, y2, w11, w21, w12, w22 float32) (float32, error) {
	area := (x2 - x1) * (y2 - y1)
	if x1 == x2 || y1 == y2 || area == 0 {
		return 0, ErrDegenerateCell
	}

	sum := w11*(x2-p.X)*(y2-p.Y) +
		w21*(p.X-x1)*(y2-p.Y) +
		w12*(x2-p.X)*(p.Y-y1) +
		w22*(p.X-x1)*(p.Y-y1)

	return sum / area, nil
}

// AverageVectors returns the arithmetic mean of values.
func AverageVectors(values []Vec3) (Vec3, error) {
	if len(values) == 0 {
		return Vec3{}, ErrEmptySequence
	}

	var sum Vec3
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float32(len(values))), nil
}

// EstimateNormal estimates a surface normal from the edges leading from a
// point to its neighbors.
//
// The ring must be ordered clockwise as seen from the side the normal
// should point to; reversing the order negates the result. The returned
// vector is the negated mean of the consecutive cross products and is
// not normalized.
func EstimateNormal(ring []Vec3) (Vec3, error) {
	n := len(ring)
	if n == 0 {
		return Vec3{}, ErrEmptySequence
	}

	crossed := make([]Vec3, n)
	for i := range ring {
		crossed[i] = ring[i].Cross(ring[(i+1)%n])
	}

	avg, err := AverageVectors(crossed)
	if err != nil {
		return Vec3{}, err
	}
	return avg.Negate(), nil
}

// GridIndex maps a (column, row) pair to a flat column-major index.
func GridIndex(column, row, numRows int) (int, error) {
	if numRows < 1 || column < 0 || row < 0 {
		return 0, ErrInvalidGrid
	}
	return column*numRows + row, nil
}
