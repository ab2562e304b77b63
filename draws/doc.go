// Package draws generates random-effect draws from explicit, seedable
// generator state.
//
// No function in this module touches a global random source: callers create
// an RNG with a seed and thread it through every stochastic step, so runs
// are reproducible by construction.
package draws
