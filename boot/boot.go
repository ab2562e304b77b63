package boot

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/statkit/margins/draws"
)

// ErrEmptyInput is returned when a required dimension has zero length.
var ErrEmptyInput = errors.New("empty input")

// RowBootMeans returns a vector whose element i is the mean of row i of x
// across all replicate columns.
func RowBootMeans(x mat.Matrix) (*mat.VecDense, error) {
	n, m := x.Dims()
	if m == 0 {
		return nil, fmt.Errorf("boot: zero replicate columns: %w", ErrEmptyInput)
	}
	if n == 0 {
		return nil, fmt.Errorf("boot: zero rows: %w", ErrEmptyInput)
	}

	out := mat.NewVecDense(n, nil)
	row := make([]float64, m)
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		out.SetVec(i, floats.Sum(row)/float64(m))
	}
	return out, nil
}

// Resample bootstraps the column means of x.
//
// For each of the replicates, it resamples the rows of x with replacement
// and takes per-column means of the resample. The result has one row per
// column of x and one column per replicate, ready for RowBootMeans.
func Resample(rng *draws.RNG, x mat.Matrix, replicates int) (*mat.Dense, error) {
	n, cols := x.Dims()
	if n == 0 || cols == 0 {
		return nil, fmt.Errorf("boot: %dx%d source: %w", n, cols, ErrEmptyInput)
	}
	if replicates < 1 {
		return nil, fmt.Errorf("boot: %d replicates: %w", replicates, ErrEmptyInput)
	}

	out := mat.NewDense(cols, replicates, nil)
	sums := make([]float64, cols)
	for b := 0; b < replicates; b++ {
		for j := range sums {
			sums[j] = 0
		}
		for k := 0; k < n; k++ {
			i := rng.Intn(n)
			for j := 0; j < cols; j++ {
				sums[j] += x.At(i, j)
			}
		}
		for j := 0; j < cols; j++ {
			out.Set(j, b, sums[j]/float64(n))
		}
	}
	return out, nil
}
