// Package boot reduces bootstrap replicate matrices.
//
// Replicates are stored one per column: row i of the input tracks a single
// quantity across all replicates, and RowBootMeans collapses each row to its
// mean. Resample produces such a replicate matrix by resampling the rows of
// a source matrix with replacement.
package boot
