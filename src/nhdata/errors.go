package nhdata

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by data operations. Callers can map these onto
// whatever surface they expose (HTTP statuses, CLI exit codes).
var (
	// The acting user is not allowed to perform the operation.
	ErrUnauthorized = errors.New("not authorized")

	// The entity is not in a state where the operation makes sense, e.g.
	// approving a join request that was already rejected.
	ErrInvalidState = errors.New("invalid state for operation")

	// The operation lost to a concurrent equivalent, e.g. filing a second
	// pending join request for the same publication.
	ErrConflict = errors.New("conflicting record already exists")
)

// ValidationError indicates bad input data, as opposed to a bad actor or a
// bad time. It names the offending field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}
