package edit

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zjrosen/splice/internal/buffer"
	"github.com/zjrosen/splice/internal/change"
	"github.com/zjrosen/splice/internal/log"
)

// Errors returned when composing a Set.
var (
	// ErrInvalidComposition indicates insertions and deletions were mixed.
	ErrInvalidComposition = errors.New("edit set mixes insertions and deletions")

	// ErrOverlappingDeletions indicates two deletions share positions.
	ErrOverlappingDeletions = errors.New("edit set contains overlapping deletions")
)

// Set is a kind-homogeneous collection of edits, sorted by location.
// It is built once and applied once.
type Set struct {
	kind  Kind
	edits []Edit
}

// Compose validates and sorts edits into a Set.
//
// Edits are sorted by ascending location with a stable sort, so insertions at
// the same location keep their declaration order: after Apply their contents
// appear concatenated in that order.
func Compose(edits ...Edit) (*Set, error) {
	s := &Set{edits: make([]Edit, len(edits))}
	copy(s.edits, edits)

	if len(s.edits) == 0 {
		return s, nil
	}

	s.kind = s.edits[0].Kind()
	for i, e := range s.edits {
		if e.Kind() != s.kind {
			return nil, fmt.Errorf("%w: edit %d (%v) is a %s, set holds %ss",
				ErrInvalidComposition, i, e, e.Kind(), s.kind)
		}
	}

	sort.SliceStable(s.edits, func(i, j int) bool {
		return s.edits[i].Location() < s.edits[j].Location()
	})

	if s.kind == KindDeletion {
		for i := 1; i < len(s.edits); i++ {
			prev := s.edits[i-1].(Deletion).Range
			cur := s.edits[i].(Deletion).Range
			if cur.Location < prev.EndLocation() {
				return nil, fmt.Errorf("%w: %v and %v", ErrOverlappingDeletions, prev, cur)
			}
		}
	}

	return s, nil
}

// Kind returns the kind of all edits in the set.
// An empty set reports KindInsertion.
func (s *Set) Kind() Kind {
	return s.kind
}

// Len returns the number of edits.
func (s *Set) Len() int {
	return len(s.edits)
}

// Edits returns the edits in ascending location order.
func (s *Set) Edits() []Edit {
	out := make([]Edit, len(s.edits))
	copy(out, s.edits)
	return out
}

// Delta returns the length change the set will cause when fully applied.
func (s *Set) Delta() int {
	total := 0
	for _, e := range s.edits {
		total += e.Delta()
	}
	return total
}

// Apply applies the edits to buf from the highest location down and records
// each edit's delta.
//
// The first failing edit stops the application. Edits already applied are
// not rolled back; the returned record covers exactly those, so its Total
// still equals the buffer's net length change. Callers that need
// all-or-nothing behavior group the call in an undo session and undo on error.
func (s *Set) Apply(buf buffer.Buffer) (*change.Record, error) {
	record := &change.Record{}

	for i := len(s.edits) - 1; i >= 0; i-- {
		e := s.edits[i]
		if err := e.apply(buf); err != nil {
			log.ErrorErr(log.CatEdit, "Edit set aborted", err,
				"edit", e, "applied", len(s.edits)-1-i, "remaining", i+1)
			return record, fmt.Errorf("apply %v: %w", e, err)
		}
		record.Add(e.Delta())
	}

	log.Debug(log.CatEdit, "Applied edit set",
		"kind", s.kind, "count", len(s.edits), "delta", record.Total())
	return record, nil
}

// Builder accumulates edits fluently and validates them on Build.
//
//	set, err := edit.NewBuilder().
//	    Insert(0, "<").
//	    Insert(5, ">").
//	    Build()
type Builder struct {
	edits []Edit
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Insert adds an insertion.
func (b *Builder) Insert(location int, content string) *Builder {
	return b.Add(Insert(location, content))
}

// Delete adds a deletion.
func (b *Builder) Delete(r buffer.Range) *Builder {
	return b.Add(Delete(r))
}

// Add adds any edit.
func (b *Builder) Add(e Edit) *Builder {
	b.edits = append(b.edits, e)
	return b
}

// Build composes the accumulated edits.
func (b *Builder) Build() (*Set, error) {
	return Compose(b.edits...)
}
