// Package change accumulates the length deltas produced by applying edits.
//
// Each delta is tagged with whether it has already been reflected in a
// tracked range (the selection, or the affected range of a modification
// chain). Consume hands out the pending part exactly once, so a range that is
// updated after every step never counts the same edit twice.
package change

import (
	"fmt"
	"strings"
)

// Status tells whether a delta has been applied to a tracked range yet.
type Status uint8

const (
	// Pending deltas have not been reflected in the tracked range.
	Pending Status = iota
	// Reflected deltas have already been applied to the tracked range.
	Reflected
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Reflected:
		return "reflected"
	default:
		return "unknown"
	}
}

// Delta is one signed length change.
type Delta struct {
	Length int
	Status Status
}

// Record is an ordered list of deltas.
// The zero value is an empty record ready to use.
type Record struct {
	deltas []Delta
}

// New creates a record holding the given pending deltas.
func New(lengths ...int) *Record {
	r := &Record{}
	for _, n := range lengths {
		r.Add(n)
	}
	return r
}

// Add appends a pending delta.
func (r *Record) Add(length int) {
	r.deltas = append(r.deltas, Delta{Length: length, Status: Pending})
}

// AddReflected appends a delta that is already reflected in the tracked range.
func (r *Record) AddReflected(length int) {
	r.deltas = append(r.deltas, Delta{Length: length, Status: Reflected})
}

// Merge appends all deltas of other, keeping their status.
// A nil other is ignored.
func (r *Record) Merge(other *Record) {
	if other == nil {
		return
	}
	r.deltas = append(r.deltas, other.deltas...)
}

// Total returns the sum of all deltas regardless of status.
func (r *Record) Total() int {
	total := 0
	for _, d := range r.deltas {
		total += d.Length
	}
	return total
}

// PendingTotal returns the sum of the deltas not yet reflected.
func (r *Record) PendingTotal() int {
	total := 0
	for _, d := range r.deltas {
		if d.Status == Pending {
			total += d.Length
		}
	}
	return total
}

// Consume marks every pending delta as reflected and returns their sum.
func (r *Record) Consume() int {
	total := 0
	for i := range r.deltas {
		if r.deltas[i].Status == Pending {
			total += r.deltas[i].Length
			r.deltas[i].Status = Reflected
		}
	}
	return total
}

// Deltas returns a copy of the recorded deltas in order.
func (r *Record) Deltas() []Delta {
	out := make([]Delta, len(r.deltas))
	copy(out, r.deltas)
	return out
}

// Len returns the number of recorded deltas.
func (r *Record) Len() int {
	return len(r.deltas)
}

// String returns a compact representation such as "[+2 -7(reflected)] = -5".
func (r *Record) String() string {
	parts := make([]string, len(r.deltas))
	for i, d := range r.deltas {
		parts[i] = fmt.Sprintf("%+d", d.Length)
		if d.Status == Reflected {
			parts[i] += "(reflected)"
		}
	}
	return fmt.Sprintf("[%s] = %d", strings.Join(parts, " "), r.Total())
}
