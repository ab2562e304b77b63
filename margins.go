package margins

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/statkit/margins/boot"
	"github.com/statkit/margins/integrate"
	"github.com/statkit/margins/subset"
)

// ErrBadBootstrap is returned when bootstrap options are inconsistent, such
// as a replicate count without a generator.
var ErrBadBootstrap = errors.New("bootstrap requires a generator and a positive replicate count")

// EstimateSpec names the inputs of a margin estimate: the random-effect
// draws (one per row) and the model's conditional prediction callback.
type EstimateSpec struct {
	Draws   *mat.Dense
	Predict integrate.PredictFunc
}

// Result holds a margin estimate.
type Result struct {
	// Integrated is the prediction matrix averaged over all draws, one row
	// per observation.
	Integrated *mat.Dense

	// Margin is the mean of the selected observation rows of Integrated,
	// one element per prediction column.
	Margin *mat.VecDense

	// BootMeans holds the bootstrap means of the margin, one element per
	// prediction column. Nil unless WithBootstrap was given.
	BootMeans *mat.VecDense
}

// Estimate integrates the prediction callback over the random-effect draws
// and averages the result into a subgroup margin.
//
// Numeric failures and callback errors abort the estimate; no partial
// result is ever returned.
func Estimate(ctx context.Context, spec EstimateSpec, opts ...Option) (*Result, error) {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}

	logger := o.Logger
	if logger == nil {
		logger = NoopLogger()
	}
	if o.BootReplicates > 0 && o.BootRNG == nil {
		return nil, ErrBadBootstrap
	}

	re := &integrate.RE{
		Draws:   spec.Draws,
		Predict: spec.Predict,
		Weights: o.Weights,
	}

	var (
		integrated *mat.Dense
		err        error
	)
	if o.Workers > 1 {
		logger.DebugContext(ctx, "integrating draws", "workers", o.Workers)
		integrated, err = re.IntegrateParallel(ctx, o.Workers)
	} else {
		logger.DebugContext(ctx, "integrating draws", "workers", 1)
		integrated, err = re.Integrate(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("margins: %w", err)
	}

	margin, err := subset.MeanRows(integrated, o.Subset)
	if err != nil {
		return nil, fmt.Errorf("margins: %w", err)
	}

	result := &Result{
		Integrated: integrated,
		Margin:     margin,
	}

	if o.BootReplicates > 0 {
		rows, _ := integrated.Dims()
		logger.DebugContext(ctx, "bootstrapping margin",
			"replicates", o.BootReplicates, "rows", rows, "seed", o.BootRNG.Seed())

		sample, err := selectRows(integrated, o.Subset)
		if err != nil {
			return nil, fmt.Errorf("margins: %w", err)
		}
		reps, err := boot.Resample(o.BootRNG, sample, o.BootReplicates)
		if err != nil {
			return nil, fmt.Errorf("margins: %w", err)
		}
		result.BootMeans, err = boot.RowBootMeans(reps)
		if err != nil {
			return nil, fmt.Errorf("margins: %w", err)
		}
	}

	return result, nil
}

// selectRows copies the selected rows of x into a new matrix. A nil or
// empty set selects everything.
func selectRows(x *mat.Dense, set *subset.RowSet) (*mat.Dense, error) {
	if set == nil || set.IsEmpty() {
		return x, nil
	}

	n, cols := x.Dims()
	out := mat.NewDense(set.Cardinality(), cols, nil)

	dst := 0
	for i := 0; i < n; i++ {
		if !set.Contains(i) {
			continue
		}
		out.SetRow(dst, mat.Row(nil, i, x))
		dst++
	}
	if dst != set.Cardinality() {
		return nil, fmt.Errorf("margins: %d of %d selected rows exist: %w", dst, set.Cardinality(), subset.ErrRowOutOfRange)
	}
	return out, nil
}
