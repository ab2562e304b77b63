package margins

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/statkit/margins/draws"
	"github.com/statkit/margins/integrate"
	"github.com/statkit/margins/subset"
)

// shiftPredict predicts two observations shifted by the draw value, so the
// averaged prediction depends on the draws in a checkable way.
func shiftPredict(draw *mat.VecDense) (*mat.Dense, error) {
	b := draw.AtVec(0)
	return mat.NewDense(2, 2, []float64{
		1 + b, 10 + b,
		3 + b, 30 + b,
	}), nil
}

func TestEstimate(t *testing.T) {
	// Draw values -2 and 2 average out, so the margin is the b=0 surface.
	spec := EstimateSpec{
		Draws:   mat.NewDense(2, 1, []float64{-2, 2}),
		Predict: shiftPredict,
	}

	result, err := Estimate(context.Background(), spec)
	require.NoError(t, err)

	wantIntegrated := mat.NewDense(2, 2, []float64{
		1, 10,
		3, 30,
	})
	assert.True(t, mat.EqualApprox(wantIntegrated, result.Integrated, 1e-12))

	require.Equal(t, 2, result.Margin.Len())
	assert.InDelta(t, 2.0, result.Margin.AtVec(0), 1e-12)
	assert.InDelta(t, 20.0, result.Margin.AtVec(1), 1e-12)
	assert.Nil(t, result.BootMeans)
}

func TestEstimateSubset(t *testing.T) {
	spec := EstimateSpec{
		Draws:   mat.NewDense(2, 1, []float64{-2, 2}),
		Predict: shiftPredict,
	}

	result, err := Estimate(context.Background(), spec, WithSubset(subset.NewRowSet(1)))
	require.NoError(t, err)

	// Only observation 1 contributes to the margin.
	assert.InDelta(t, 3.0, result.Margin.AtVec(0), 1e-12)
	assert.InDelta(t, 30.0, result.Margin.AtVec(1), 1e-12)
}

func TestEstimateParallelMatchesSequential(t *testing.T) {
	data := make([]float64, 40)
	for i := range data {
		data[i] = float64(i%7) - 3
	}
	spec := EstimateSpec{
		Draws:   mat.NewDense(40, 1, data),
		Predict: shiftPredict,
	}

	seq, err := Estimate(context.Background(), spec)
	require.NoError(t, err)

	par, err := Estimate(context.Background(), spec, WithParallel(4))
	require.NoError(t, err)

	assert.True(t, mat.EqualApprox(seq.Integrated, par.Integrated, 1e-12))
	assert.True(t, mat.EqualApprox(seq.Margin, par.Margin, 1e-12))
}

func TestEstimateBootstrap(t *testing.T) {
	spec := EstimateSpec{
		Draws:   mat.NewDense(2, 1, []float64{-2, 2}),
		Predict: shiftPredict,
	}

	a, err := Estimate(context.Background(), spec, WithBootstrap(draws.NewRNG(9), 50))
	require.NoError(t, err)
	require.NotNil(t, a.BootMeans)
	require.Equal(t, 2, a.BootMeans.Len())

	// Bootstrap means of a 2-row sample stay within the row range.
	assert.GreaterOrEqual(t, a.BootMeans.AtVec(0), 1.0)
	assert.LessOrEqual(t, a.BootMeans.AtVec(0), 3.0)

	b, err := Estimate(context.Background(), spec, WithBootstrap(draws.NewRNG(9), 50))
	require.NoError(t, err)
	assert.True(t, mat.Equal(a.BootMeans, b.BootMeans), "same seed must reproduce bootstrap means")
}

func TestEstimateBootstrapWithSubset(t *testing.T) {
	spec := EstimateSpec{
		Draws:   mat.NewDense(2, 1, []float64{-2, 2}),
		Predict: shiftPredict,
	}

	// A single-row subset has a degenerate bootstrap: every resample is
	// that row, so BootMeans equals the margin exactly.
	result, err := Estimate(context.Background(), spec,
		WithSubset(subset.NewRowSet(1)),
		WithBootstrap(draws.NewRNG(1), 25),
	)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(result.Margin, result.BootMeans, 1e-12))
}

func TestEstimateBadBootstrap(t *testing.T) {
	spec := EstimateSpec{
		Draws:   mat.NewDense(1, 1, nil),
		Predict: shiftPredict,
	}

	_, err := Estimate(context.Background(), spec, WithBootstrap(nil, 10))
	assert.ErrorIs(t, err, ErrBadBootstrap)
}

func TestEstimatePropagatesPredictionError(t *testing.T) {
	spec := EstimateSpec{
		Draws: mat.NewDense(3, 1, nil),
		Predict: func(draw *mat.VecDense) (*mat.Dense, error) {
			return nil, assert.AnError
		},
	}

	result, err := Estimate(context.Background(), spec)
	assert.Nil(t, result)

	var predErr *integrate.PredictionError
	assert.ErrorAs(t, err, &predErr)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestEstimateWeighted(t *testing.T) {
	spec := EstimateSpec{
		Draws:   mat.NewDense(2, 1, []float64{-2, 2}),
		Predict: shiftPredict,
	}

	// All weight on the second draw: margin is the b=2 surface.
	result, err := Estimate(context.Background(), spec,
		WithWeights(mat.NewVecDense(2, []float64{0, 1})))
	require.NoError(t, err)

	assert.InDelta(t, 4.0, result.Margin.AtVec(0), 1e-12) // mean(1+2, 3+2)
	assert.InDelta(t, 22.0, result.Margin.AtVec(1), 1e-12)
}
