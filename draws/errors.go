package draws

import "errors"

// ErrBadShape is returned when a requested draw matrix has a non-positive
// dimension.
var ErrBadShape = errors.New("draw dimensions must be positive")
