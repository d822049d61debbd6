package buffer

import (
	"errors"
	"fmt"
)

// Errors returned by buffer operations.
var (
	// ErrOutOfRange indicates a range or location outside the available range.
	ErrOutOfRange = errors.New("out of range")

	// ErrModificationForbidden indicates a host vetoed a modification.
	ErrModificationForbidden = errors.New("modification forbidden")
)

// OutOfRangeError reports a requested range that is not inside the
// available one.
type OutOfRangeError struct {
	Requested Range
	Available Range
}

// NewOutOfRange creates an OutOfRangeError.
func NewOutOfRange(requested, available Range) *OutOfRangeError {
	return &OutOfRangeError{Requested: requested, Available: available}
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("requested %v out of range %v", e.Requested, e.Available)
}

// Is makes errors.Is(err, ErrOutOfRange) match.
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// SplitsCharacterError reports an offset that falls inside a composed
// character sequence. It is an out-of-range condition: the only valid
// offsets are cluster boundaries.
type SplitsCharacterError struct {
	Offset    int
	Character Range
}

func (e *SplitsCharacterError) Error() string {
	return fmt.Sprintf("offset %d splits composed character %v", e.Offset, e.Character)
}

// Is makes errors.Is(err, ErrOutOfRange) match.
func (e *SplitsCharacterError) Is(target error) bool {
	return target == ErrOutOfRange
}

// ModificationForbiddenError reports a host veto of a scoped modification.
type ModificationForbiddenError struct {
	Range Range
}

func (e *ModificationForbiddenError) Error() string {
	return fmt.Sprintf("modification of %v forbidden", e.Range)
}

// Is makes errors.Is(err, ErrModificationForbidden) match.
func (e *ModificationForbiddenError) Is(target error) bool {
	return target == ErrModificationForbidden
}
