// Package codec persists draw and prediction matrices as self-describing
// binary snapshots.
//
// Codec selection is a breaking-change boundary: the compression mode is
// recorded in the snapshot header, so bytes written with any mode decode
// with the same DecodeMatrix call, but header layout changes require a
// version bump.
//
// Snapshot layout (little-endian):
//
//	magic "MGSN" | version uint8 | compression uint8 |
//	rows uint32 | cols uint32 | payload
//
// The payload is the row-major float64 data, optionally LZ4- or
// ZSTD-compressed.
package codec
