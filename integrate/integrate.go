package integrate

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNoDraws is returned when the draw matrix is missing or empty.
	ErrNoDraws = errors.New("at least one draw is required")

	// ErrNilPredict is returned when no prediction callback is configured.
	ErrNilPredict = errors.New("prediction callback is required")

	// ErrDimensionMismatch is returned when the weight vector does not match
	// the number of draws, or a per-draw prediction changes shape.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrBadWeights is returned when a weight is negative or the weights sum
	// to zero.
	ErrBadWeights = errors.New("weights must be non-negative with positive sum")

	// ErrNonFinite is returned when accumulation produces NaN or Inf.
	// Integration aborts rather than returning corrupted averages.
	ErrNonFinite = errors.New("non-finite accumulation")
)

// PredictionError reports a prediction callback failure for a single draw.
//
// The callback's original error can be accessed via errors.Unwrap.
type PredictionError struct {
	Draw  int
	cause error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("integrate: prediction failed for draw %d: %v", e.Draw, e.cause)
}

func (e *PredictionError) Unwrap() error { return e.cause }

// PredictFunc evaluates the model's conditional prediction at one
// random-effect draw. The returned matrix must have the same shape for
// every draw. Implementations must not retain the draw vector.
type PredictFunc func(draw *mat.VecDense) (*mat.Dense, error)

// RE configures a random-effects integration.
//
// Draws holds one random-effect draw per row. Weights is optional; when nil
// every draw carries weight 1 (a plain Monte-Carlo average). The zero value
// is not usable; Draws and Predict are required.
type RE struct {
	Draws   *mat.Dense
	Predict PredictFunc
	Weights *mat.VecDense
}

// Integrate evaluates the callback for every draw and returns the weighted
// average prediction matrix.
//
// The first callback failure aborts integration with a *PredictionError; no
// partial average is ever returned. A NaN or Inf appearing during
// accumulation aborts with ErrNonFinite.
func (re *RE) Integrate(ctx context.Context) (*mat.Dense, error) {
	wsum, err := re.validate()
	if err != nil {
		return nil, err
	}

	nDraws, _ := re.Draws.Dims()

	var acc, scaled *mat.Dense
	for i := 0; i < nDraws; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pred, err := re.Predict(re.draw(i))
		if err != nil {
			return nil, &PredictionError{Draw: i, cause: err}
		}

		if acc == nil {
			r, c := pred.Dims()
			acc = mat.NewDense(r, c, nil)
			scaled = mat.NewDense(r, c, nil)
		} else if err := sameShape(acc, pred); err != nil {
			return nil, fmt.Errorf("integrate: draw %d: %w", i, err)
		}

		scaled.Scale(re.weight(i), pred)
		acc.Add(acc, scaled)

		if !allFinite(acc) {
			return nil, fmt.Errorf("integrate: draw %d: %w", i, ErrNonFinite)
		}
	}

	acc.Scale(1/wsum, acc)
	return acc, nil
}

// validate checks the configuration and returns the weight sum.
func (re *RE) validate() (float64, error) {
	if re.Draws == nil {
		return 0, ErrNoDraws
	}
	nDraws, _ := re.Draws.Dims()
	if nDraws < 1 {
		return 0, ErrNoDraws
	}
	if re.Predict == nil {
		return 0, ErrNilPredict
	}

	if re.Weights == nil {
		return float64(nDraws), nil
	}

	if re.Weights.Len() != nDraws {
		return 0, fmt.Errorf("integrate: %d weights for %d draws: %w", re.Weights.Len(), nDraws, ErrDimensionMismatch)
	}
	var wsum float64
	for i := 0; i < nDraws; i++ {
		w := re.Weights.AtVec(i)
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return 0, fmt.Errorf("integrate: weight %d is %v: %w", i, w, ErrBadWeights)
		}
		wsum += w
	}
	if wsum <= 0 {
		return 0, ErrBadWeights
	}
	return wsum, nil
}

// draw returns a copy of row i of the draw matrix. The callback gets its own
// vector so it can never alias or clobber the configured draws.
func (re *RE) draw(i int) *mat.VecDense {
	_, k := re.Draws.Dims()
	return mat.NewVecDense(k, mat.Row(nil, i, re.Draws))
}

func (re *RE) weight(i int) float64 {
	if re.Weights == nil {
		return 1
	}
	return re.Weights.AtVec(i)
}

func sameShape(a, b mat.Matrix) error {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return fmt.Errorf("prediction shape %dx%d, expected %dx%d: %w", br, bc, ar, ac, ErrDimensionMismatch)
	}
	return nil
}

func allFinite(m *mat.Dense) bool {
	for _, v := range m.RawMatrix().Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
