package domain

import "errors"

// ErrEmptyName rejects a collection create whose name trims to "".
// It is the only error a Collection Store mutation can return; every other
// operation on a missing or unmatched id degrades to a no-op.
var ErrEmptyName = errors.New("collection name cannot be empty")
