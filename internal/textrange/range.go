// Package textrange provides half-open integer intervals over buffer offsets
// and the algebra used to keep them valid while a buffer is being edited.
//
// Offsets are measured in UTF-16 code units. A Range covers
// [Location, Location+Length); Length is never negative for ranges produced
// by this package.
package textrange

import (
	"fmt"
	"math"
)

// Range is a half-open interval [Location, Location+Length).
type Range struct {
	Location int
	Length   int
}

// NotFound is the sentinel returned by lookups that found nothing.
// It passes through Subtract unchanged.
var NotFound = Range{Location: math.MaxInt, Length: 0}

// New creates a Range from a location and a length.
func New(location, length int) Range {
	return Range{Location: location, Length: length}
}

// Between creates the Range covering [start, end).
func Between(start, end int) Range {
	return Range{Location: start, Length: end - start}
}

// Point returns the empty range at location, i.e. an insertion point.
func Point(location int) Range {
	return Range{Location: location}
}

// EndLocation returns the exclusive upper bound.
func (r Range) EndLocation() int {
	return r.Location + r.Length
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Length == 0
}

// IsValid returns true if the length is not negative.
func (r Range) IsValid() bool {
	return r.Length >= 0
}

// IsNotFound reports whether r is the NotFound sentinel.
func (r Range) IsNotFound() bool {
	return r == NotFound
}

// String returns the range as "{location, length}".
func (r Range) String() string {
	if r.IsNotFound() {
		return "{NotFound}"
	}
	return fmt.Sprintf("{%d, %d}", r.Location, r.Length)
}

// Contains reports whether other is a valid range lying entirely inside r.
// An empty range contains only empty ranges at a location within its bounds.
func (r Range) Contains(other Range) bool {
	return other.IsValid() &&
		r.Location <= other.Location &&
		r.EndLocation() >= other.EndLocation()
}

// IsValidInsertionPoint reports whether location lies in
// [Location, EndLocation]. Unlike Contains, the end itself is valid: it is the
// append position.
func (r Range) IsValidInsertionPoint(location int) bool {
	return location >= r.Location && location <= r.EndLocation()
}

// Intersection returns the overlap of r and other, or an empty range at the
// later of the two starts when they do not overlap.
func (r Range) Intersection(other Range) Range {
	start := max(r.Location, other.Location)
	end := min(r.EndLocation(), other.EndLocation())
	if end < start {
		return Range{Location: start}
	}
	return Between(start, end)
}

// Union returns the smallest range covering both r and other.
func (r Range) Union(other Range) Range {
	return Between(
		min(r.Location, other.Location),
		max(r.EndLocation(), other.EndLocation()),
	)
}

// Subtract returns what remains of r after other has been removed from the
// text both are measured in.
//
// The length shrinks by the overlap. The location moves left by the part of
// other that precedes r, and never below zero.
func (r Range) Subtract(other Range) Range {
	if r.IsNotFound() {
		return r
	}

	overlap := r.Intersection(other).Length
	precedingLength := max(0, min(other.EndLocation(), r.Location)-other.Location)

	return Range{
		Location: max(0, r.Location-precedingLength),
		Length:   r.Length - overlap,
	}
}

// Shifted moves r by delta. Shifting left past zero truncates the range
// instead of producing a negative location.
func (r Range) Shifted(delta int) Range {
	moved := r.Location + delta
	return Range{
		Location: max(0, moved),
		Length:   max(0, r.Length+min(0, moved)),
	}
}

// Resized changes the length by delta, clamped at zero. The location is kept.
func (r Range) Resized(delta int) Range {
	return Range{
		Location: r.Location,
		Length:   max(0, r.Length+delta),
	}
}

// Prefix returns the part of r before location.
// Panics if location is outside [Location, EndLocation].
func (r Range) Prefix(upTo int) Range {
	r.mustSplitAt(upTo)
	return Between(r.Location, upTo)
}

// PrefixBefore returns the part of r before other starts.
func (r Range) PrefixBefore(other Range) Range {
	return r.Prefix(other.Location)
}

// Suffix returns the part of r from location on.
// Panics if location is outside [Location, EndLocation].
func (r Range) Suffix(after int) Range {
	r.mustSplitAt(after)
	return Between(after, r.EndLocation())
}

// SuffixAfter returns the part of r after other ends.
func (r Range) SuffixAfter(other Range) Range {
	return r.Suffix(other.EndLocation())
}

// Expanded extends r's start (Upstream) or end (Downstream) out to the
// matching bound of to. Panics unless to contains r.
func (r Range) Expanded(to Range, dir Direction) Range {
	if !to.Contains(r) {
		panic(fmt.Sprintf("textrange: cannot expand %v to %v, it is not contained", r, to))
	}
	switch dir {
	case Upstream:
		return Between(to.Location, r.EndLocation())
	case Downstream:
		return Between(r.Location, to.EndLocation())
	default:
		panic(fmt.Sprintf("textrange: unknown direction %d", dir))
	}
}

func (r Range) mustSplitAt(location int) {
	if !r.IsValidInsertionPoint(location) {
		panic(fmt.Sprintf("textrange: split point %d outside %v", location, r))
	}
}
