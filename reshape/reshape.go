package reshape

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrIndexOutOfRange is returned when the requested row index does not
	// exist in the table.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNotSquare is returned when the table's column count is not a
	// perfect square, so no k×k block layout fits.
	ErrNotSquare = errors.New("column count is not a perfect square")
)

// Tab2Mat extracts the draw stored in row index of X as a k×k matrix.
//
// X must have k² columns for some k ≥ 1; each row is the row-major
// flattening of one square matrix. index is 0-based.
func Tab2Mat(X mat.Matrix, index int) (*mat.Dense, error) {
	rows, cols := X.Dims()

	k := int(math.Sqrt(float64(cols)))
	if k < 1 || k*k != cols {
		return nil, fmt.Errorf("reshape: %d columns: %w", cols, ErrNotSquare)
	}
	if index < 0 || index >= rows {
		return nil, fmt.Errorf("reshape: row %d of %d: %w", index, rows, ErrIndexOutOfRange)
	}

	out := mat.NewDense(k, k, nil)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			out.Set(i, j, X.At(index, i*k+j))
		}
	}

	return out, nil
}

// MatTab flattens a square k×k matrix into a single 1×k² table row,
// row-major. It is the inverse of Tab2Mat for a one-row table.
func MatTab(m mat.Matrix) (*mat.Dense, error) {
	r, c := m.Dims()
	if r != c {
		return nil, fmt.Errorf("reshape: %dx%d matrix: %w", r, c, ErrNotSquare)
	}

	out := mat.NewDense(1, r*c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(0, i*c+j, m.At(i, j))
		}
	}

	return out, nil
}
