// Package integrate averages model predictions over random-effect draws.
//
// A mixed-effects marginal prediction integrates the conditional prediction
// f(y | b) over the random-effect distribution. With draws b_1..b_d and
// weights w_1..w_d this is approximated by the weighted mean
//
//	∫ f(y | b) φ(b) db ≈ Σ w_i f(y | b_i) / Σ w_i
//
// The caller supplies the draws, an optional weight vector (uniform when
// absent) and a prediction callback evaluated once per draw. Evaluation is
// fail-fast: a callback error or a non-finite accumulation aborts the whole
// integration rather than returning a partially averaged result.
//
// IntegrateParallel spreads draws across workers with per-worker partial
// accumulators merged at the end; results match Integrate up to
// floating-point summation order.
package integrate
