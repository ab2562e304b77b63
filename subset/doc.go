// Package subset selects observation rows for subgroup margins.
//
// A RowSet is a compressed bitmap of row indices into a prediction matrix.
// Margins over a subpopulation average only the selected rows; a nil or
// empty RowSet means the whole sample.
package subset
