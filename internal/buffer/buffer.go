// Package buffer defines the capability contract the editing engine consumes
// from storage backends, and provides StringBuffer, an in-memory backend.
//
// All offsets are UTF-16 code units. Every range-taking operation validates
// against the buffer's current full range, re-evaluated per call, and fails
// fast with a typed error:
//
//   - *OutOfRangeError when a range or location is not inside the buffer
//     (errors.Is(err, ErrOutOfRange))
//   - *ModificationForbiddenError when a host vetoes a scoped modification
//     (errors.Is(err, ErrModificationForbidden))
//
// Buffers are single-owner mutable resources without internal locking.
package buffer

import "github.com/zjrosen/splice/internal/textrange"

// Range is an alias for textrange.Range for convenience.
type Range = textrange.Range

// Buffer is a mutable character sequence with a selection.
type Buffer interface {
	// Range returns the full range of the buffer.
	Range() Range

	// Content returns the text in r.
	Content(r Range) (string, error)

	// UnsafeCharacter returns the composed character sequence at location.
	// Callers must validate location first; out-of-bounds access panics.
	UnsafeCharacter(location int) string

	// Insert inserts content at location. location may equal the end of
	// the buffer.
	Insert(content string, location int) error

	// Delete removes the text in r.
	Delete(r Range) error

	// Replace replaces the text in r with content.
	Replace(r Range, content string) error

	// Selection returns the selected range; an empty range is a caret.
	Selection() Range

	// Select sets the selected range.
	Select(r Range) error

	// LineRange returns the smallest newline-delimited span containing r,
	// including the trailing newline if there is one.
	LineRange(r Range) (Range, error)

	// Modifying runs body as one scoped modification of affected.
	// The host may veto the modification before body runs. Once admitted,
	// a matching "did modify" notification is delivered on every exit path.
	Modifying(affected Range, body func() error) error
}

// Host observes and may veto scoped modifications of a buffer, the way a
// text view asks its delegate before changing text.
type Host interface {
	// ShouldModify reports whether a modification of affected may proceed.
	ShouldModify(affected Range) bool

	// DidModify is called once an admitted modification has ended,
	// whether or not it succeeded.
	DidModify(affected Range)
}

// Modification is the payload of modification and change events.
type Modification struct {
	Range    Range  // Affected range, in pre-edit coordinates
	Delta    int    // Net length change; zero for scoped begin/end events
	Revision uint64 // Buffer revision after the event
}
