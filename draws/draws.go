package draws

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/statkit/margins/quadrature"
)

// RNG encapsulates a seeded random source. It is not safe for concurrent
// use; give each goroutine its own instance.
type RNG struct {
	src  rand.Source
	rand *rand.Rand
	seed uint64
}

// NewRNG creates a new RNG with the specified seed.
func NewRNG(seed uint64) *RNG {
	src := rand.NewSource(seed)
	return &RNG{
		src:  src,
		rand: rand.New(src),
		seed: seed,
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() uint64 { return r.seed }

// Intn returns a uniform int in [0, n). It panics if n <= 0, matching the
// underlying generator.
func (r *RNG) Intn(n int) int { return r.rand.Intn(n) }

// StandardNormal draws an n×k matrix of independent standard-normal nodes.
func StandardNormal(rng *RNG, n, k int) (*mat.Dense, error) {
	if n < 1 || k < 1 {
		return nil, fmt.Errorf("draws: %dx%d standard normal: %w", n, k, ErrBadShape)
	}

	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: rng.src}

	out := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			out.Set(i, j, norm.Rand())
		}
	}
	return out, nil
}

// Correlated draws n random-effect vectors from the multivariate normal
// with per-dimension scale sd and correlation Cholesky factor chol. It is
// StandardNormal composed with the quadrature node transform.
func Correlated(rng *RNG, n int, sd *mat.VecDense, chol mat.Matrix) (*mat.Dense, error) {
	if sd == nil {
		return nil, fmt.Errorf("draws: nil scale vector: %w", ErrBadShape)
	}
	k := sd.Len()

	std, err := StandardNormal(rng, n, k)
	if err != nil {
		return nil, err
	}
	return quadrature.IntegrateMVN(std, k, sd, chol)
}
