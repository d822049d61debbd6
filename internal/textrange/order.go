package textrange

// Ordering is the relative position of two ranges.
type Ordering int

const (
	// StrictlyBefore means the first range ends at or before the second starts.
	StrictlyBefore Ordering = iota
	// Intersects means the ranges share at least one position.
	Intersects
	// StrictlyAfter means the first range starts at or after the second ends.
	StrictlyAfter
)

// String returns a string representation of the ordering.
func (o Ordering) String() string {
	switch o {
	case StrictlyBefore:
		return "strictlyBefore"
	case Intersects:
		return "intersects"
	case StrictlyAfter:
		return "strictlyAfter"
	default:
		return "unknown"
	}
}

// Order compares r against other.
func (r Range) Order(other Range) Ordering {
	switch {
	case r.EndLocation() <= other.Location:
		return StrictlyBefore
	case r.Location >= other.EndLocation():
		return StrictlyAfter
	default:
		return Intersects
	}
}

// Direction is the side of a range a scan or expansion moves towards.
type Direction int

const (
	// Upstream is towards the start of the buffer.
	Upstream Direction = iota
	// Downstream is towards the end of the buffer.
	Downstream
)

// String returns a string representation of the direction.
func (d Direction) String() string {
	switch d {
	case Upstream:
		return "upstream"
	case Downstream:
		return "downstream"
	default:
		return "unknown"
	}
}
