// Package margins estimates marginal predictions for mixed-effects models
// by numeric integration over random-effect draws.
//
// The numeric core lives in the subpackages and is deliberately small:
//
//   - quadrature: maps standard-normal nodes into a target MVN space
//   - reshape: converts flattened posterior tables to square matrices
//   - integrate: averages a prediction callback over random-effect draws
//   - boot: bootstrap resampling and row-mean reduction
//   - draws: explicit, seedable draw generation
//   - subset: roaring-bitmap row selectors for subgroup margins
//   - codec: compressed binary snapshots of draw matrices
//
// This root package wires them together behind Estimate:
//
//	result, err := margins.Estimate(ctx, margins.EstimateSpec{
//	    Draws:   reDraws,
//	    Predict: predictFn,
//	}, margins.WithSubset(females), margins.WithParallel(8))
//
// The subpackages never log or perform I/O; only this facade emits
// structured logs, and only through the logger the caller provides.
package margins
