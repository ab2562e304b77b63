package quadrature

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrDimensionMismatch indicates that the node matrix, scale vector and
// Cholesky factor do not agree on the dimensionality k.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Field    string
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("quadrature: %s dimension mismatch: expected %d, got %d", e.Field, e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// IntegrateMVN transforms standard-normal nodes into the correlated, scaled
// space of a k-dimensional multivariate normal.
//
// X is n×k with one node per row, sd holds the k per-dimension standard
// deviations, and chol is the k×k Cholesky factor of the target correlation.
// Row i of the result is (chol · X[i,:]ᵗ) scaled element-wise by sd.
func IntegrateMVN(X mat.Matrix, k int, sd *mat.VecDense, chol mat.Matrix) (*mat.Dense, error) {
	if k < 1 {
		return nil, &ErrDimensionMismatch{Field: "k", Expected: 1, Actual: k}
	}

	n, xc := X.Dims()
	if xc != k {
		return nil, &ErrDimensionMismatch{Field: "nodes", Expected: k, Actual: xc}
	}
	if sd == nil || sd.Len() != k {
		actual := 0
		if sd != nil {
			actual = sd.Len()
		}
		return nil, &ErrDimensionMismatch{Field: "sd", Expected: k, Actual: actual}
	}
	cr, cc := chol.Dims()
	if cr != k || cc != k {
		return nil, &ErrDimensionMismatch{Field: "chol", Expected: k, Actual: max(cr, cc)}
	}

	out := mat.NewDense(n, k, nil)
	node := mat.NewVecDense(k, nil)
	mapped := mat.NewVecDense(k, nil)

	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			node.SetVec(j, X.At(i, j))
		}
		mapped.MulVec(chol, node)
		for j := 0; j < k; j++ {
			out.Set(i, j, mapped.AtVec(j)*sd.AtVec(j))
		}
	}

	return out, nil
}
