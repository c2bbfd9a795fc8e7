package learning

import "errors"

// ErrCallbackNotSet indicates a lookup capability was required but never
// supplied to the profile. This is programmer error, not user-recoverable.
var ErrCallbackNotSet = errors.New("callback not set")

// ValidationError reports caller-supplied data that violates an invariant.
// The rejected operation leaves state unchanged.
type ValidationError struct {
	Op     string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Op + ": " + e.Reason
}
