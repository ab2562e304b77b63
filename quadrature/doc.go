// Package quadrature maps standardized integration nodes into the space of a
// target multivariate normal distribution.
//
// Nodes are rows of a matrix in standard-normal space. IntegrateMVN applies a
// Cholesky factor and a per-dimension scale to each node, producing points at
// which an integrand can be evaluated and combined with quadrature weights
// (weight combination is the caller's responsibility).
//
// # Usage
//
//	Y, err := quadrature.IntegrateMVN(X, k, sd, chol)
//
// All functions are pure: inputs are never mutated and no package state is
// kept between calls.
package quadrature
