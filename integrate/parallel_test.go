package integrate

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// predictFromDraw builds a deterministic prediction from the draw itself so
// sequential and parallel paths can be compared exactly. Values are small
// integers, keeping float64 sums exact under any summation order.
func predictFromDraw(draw *mat.VecDense) (*mat.Dense, error) {
	v := draw.AtVec(0)
	return mat.NewDense(2, 2, []float64{v, v + 1, v + 2, v + 3}), nil
}

func TestIntegrateParallelMatchesSequential(t *testing.T) {
	const nDraws = 17

	data := make([]float64, nDraws)
	for i := range data {
		data[i] = float64(i)
	}
	draws := mat.NewDense(nDraws, 1, data)

	re := &RE{Draws: draws, Predict: predictFromDraw}

	want, err := re.Integrate(context.Background())
	require.NoError(t, err)

	for _, workers := range []int{1, 2, 3, 8, 64} {
		got, err := re.IntegrateParallel(context.Background(), workers)
		require.NoError(t, err, "workers=%d", workers)
		assert.True(t, mat.Equal(want, got), "workers=%d", workers)
	}
}

func TestIntegrateParallelWeighted(t *testing.T) {
	re := &RE{
		Draws:   mat.NewDense(4, 1, []float64{0, 2, 4, 6}),
		Weights: mat.NewVecDense(4, []float64{1, 1, 1, 5}),
		Predict: predictFromDraw,
	}

	want, err := re.Integrate(context.Background())
	require.NoError(t, err)

	got, err := re.IntegrateParallel(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(want, got, 1e-12))
}

func TestIntegrateParallelPropagatesFailure(t *testing.T) {
	var mu sync.Mutex
	var calls int

	re := &RE{
		Draws: mat.NewDense(32, 1, nil),
		Predict: func(draw *mat.VecDense) (*mat.Dense, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n == 5 {
				return nil, assert.AnError
			}
			return mat.NewDense(1, 1, []float64{1}), nil
		},
	}

	got, err := re.IntegrateParallel(context.Background(), 4)
	assert.Nil(t, got)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)

	var predErr *PredictionError
	assert.ErrorAs(t, err, &predErr)
}

func TestIntegrateParallelRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	re := &RE{Draws: mat.NewDense(8, 1, nil), Predict: predictFromDraw}

	_, err := re.IntegrateParallel(ctx, 4)
	assert.ErrorIs(t, err, context.Canceled)
}
