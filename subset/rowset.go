package subset

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrRowOutOfRange is returned when a selector names a row the matrix
	// does not have.
	ErrRowOutOfRange = errors.New("selected row out of range")

	// ErrEmptyMatrix is returned when there are no rows or columns to
	// average.
	ErrEmptyMatrix = errors.New("empty matrix")
)

// RowSet is a set of observation row indices.
// It wraps a roaring bitmap, so sparse and dense selections are both cheap.
type RowSet struct {
	rb *roaring.Bitmap
}

// NewRowSet creates a RowSet containing the given rows.
// Negative rows panic; selectors are built from known data indices.
func NewRowSet(rows ...int) *RowSet {
	s := &RowSet{rb: roaring.New()}
	for _, r := range rows {
		s.Add(r)
	}
	return s
}

// Add adds a row index to the set.
func (s *RowSet) Add(row int) {
	if row < 0 {
		panic(fmt.Sprintf("subset: negative row index %d", row))
	}
	s.rb.Add(uint32(row))
}

// Contains reports whether row is in the set.
func (s *RowSet) Contains(row int) bool {
	return row >= 0 && s.rb.Contains(uint32(row))
}

// Cardinality returns the number of selected rows.
func (s *RowSet) Cardinality() int {
	return int(s.rb.GetCardinality())
}

// IsEmpty reports whether no rows are selected.
func (s *RowSet) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Clone returns a deep copy of the set.
func (s *RowSet) Clone() *RowSet {
	return &RowSet{rb: s.rb.Clone()}
}

// MeanRows averages the selected rows of x into a vector of column means.
//
// A nil or empty set selects every row. Selecting a row at or beyond
// rows(x) fails with ErrRowOutOfRange.
func MeanRows(x mat.Matrix, set *RowSet) (*mat.VecDense, error) {
	n, cols := x.Dims()
	if n == 0 || cols == 0 {
		return nil, fmt.Errorf("subset: %dx%d matrix: %w", n, cols, ErrEmptyMatrix)
	}

	sums := make([]float64, cols)

	if set == nil || set.IsEmpty() {
		for i := 0; i < n; i++ {
			for j := 0; j < cols; j++ {
				sums[j] += x.At(i, j)
			}
		}
		scaleInto(sums, n)
		return mat.NewVecDense(cols, sums), nil
	}

	it := set.rb.Iterator()
	count := 0
	for it.HasNext() {
		i := int(it.Next())
		if i >= n {
			return nil, fmt.Errorf("subset: row %d of %d: %w", i, n, ErrRowOutOfRange)
		}
		for j := 0; j < cols; j++ {
			sums[j] += x.At(i, j)
		}
		count++
	}

	scaleInto(sums, count)
	return mat.NewVecDense(cols, sums), nil
}

func scaleInto(sums []float64, count int) {
	inv := 1 / float64(count)
	for j := range sums {
		sums[j] *= inv
	}
}
