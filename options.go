package margins

import (
	"gonum.org/v1/gonum/mat"

	"github.com/statkit/margins/draws"
	"github.com/statkit/margins/subset"
)

// Options configures an Estimate call. Use the With* helpers.
type Options struct {
	Weights        *mat.VecDense
	Subset         *subset.RowSet
	Workers        int
	BootRNG        *draws.RNG
	BootReplicates int
	Logger         *Logger
}

// Option mutates Options.
type Option func(*Options)

// WithWeights sets explicit integration weights, one per draw.
// Without this option every draw carries equal weight.
func WithWeights(w *mat.VecDense) Option {
	return func(o *Options) {
		o.Weights = w
	}
}

// WithSubset restricts the margin to the selected observation rows.
func WithSubset(s *subset.RowSet) Option {
	return func(o *Options) {
		o.Subset = s
	}
}

// WithParallel spreads draw evaluation across the given number of workers.
func WithParallel(workers int) Option {
	return func(o *Options) {
		o.Workers = workers
	}
}

// WithBootstrap adds a bootstrap of the margin with the given replicate
// count, drawn from the supplied generator.
func WithBootstrap(rng *draws.RNG, replicates int) Option {
	return func(o *Options) {
		o.BootRNG = rng
		o.BootReplicates = replicates
	}
}

// WithLogger sets the logger used by the facade.
func WithLogger(l *Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}
