package integrate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// IntegrateParallel is Integrate with draws spread across workers.
//
// Each worker accumulates its own partial sum; partials are merged after all
// workers finish, so no accumulator is ever shared between goroutines. The
// first failing draw cancels the remaining workers and its error is
// returned. workers < 2 falls back to the sequential path.
func (re *RE) IntegrateParallel(ctx context.Context, workers int) (*mat.Dense, error) {
	wsum, err := re.validate()
	if err != nil {
		return nil, err
	}

	nDraws, _ := re.Draws.Dims()
	if workers > nDraws {
		workers = nDraws
	}
	if workers < 2 {
		return re.Integrate(ctx)
	}

	partials := make([]*mat.Dense, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		lo := w * nDraws / workers
		hi := (w + 1) * nDraws / workers
		g.Go(func() error {
			var acc, scaled *mat.Dense
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}

				pred, err := re.Predict(re.draw(i))
				if err != nil {
					return &PredictionError{Draw: i, cause: err}
				}

				if acc == nil {
					r, c := pred.Dims()
					acc = mat.NewDense(r, c, nil)
					scaled = mat.NewDense(r, c, nil)
				} else if err := sameShape(acc, pred); err != nil {
					return fmt.Errorf("integrate: draw %d: %w", i, err)
				}

				scaled.Scale(re.weight(i), pred)
				acc.Add(acc, scaled)

				if !allFinite(acc) {
					return fmt.Errorf("integrate: draw %d: %w", i, ErrNonFinite)
				}
			}
			partials[w] = acc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Workers saw disjoint draw ranges; their partial shapes must still
	// agree with each other.
	var acc *mat.Dense
	for _, p := range partials {
		if p == nil {
			continue
		}
		if acc == nil {
			acc = p
			continue
		}
		if err := sameShape(acc, p); err != nil {
			return nil, fmt.Errorf("integrate: %w", err)
		}
		acc.Add(acc, p)
	}
	if acc == nil {
		return nil, ErrNoDraws
	}

	acc.Scale(1/wsum, acc)
	return acc, nil
}
