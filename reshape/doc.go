// Package reshape converts between flattened posterior tables and square
// matrices.
//
// A table stores one draw per row, with each row holding the row-major
// flattening of a k×k matrix (so the table has k² columns). Tab2Mat extracts
// the draw at a given row index as a k×k matrix; MatTab is the inverse,
// flattening a square matrix back into a single table row.
package reshape
