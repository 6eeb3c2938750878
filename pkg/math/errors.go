package math

import (
	"errors"
	"fmt"
)

// ErrPrecondition is wrapped by every input-contract error in this package.
var ErrPrecondition = errors.New("precondition violated")

// Precondition errors.
var (
	ErrEmptySequence  = fmt.Errorf("%w: empty vector sequence", ErrPrecondition)
	ErrDegenerateCell = fmt.Errorf("%w: degenerate interpolation cell", ErrPrecondition)
	ErrInvalidGrid    = fmt.Errorf("%w: invalid grid coordinates", ErrPrecondition)
	ErrZeroVector     = fmt.Errorf("%w: cannot normalize zero-length vector", ErrPrecondition)
)
