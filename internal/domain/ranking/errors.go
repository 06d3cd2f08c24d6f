package ranking

import "errors"

// Sentinel kinds for ranking errors.
var (
	ErrShape           = errors.New("row does not match periods")
	ErrDuplicateEntity = errors.New("duplicate entity")
	ErrInvariant       = errors.New("ranking invariant violated")
)
