// Package edit composes insertions or deletions declared against pre-edit
// offsets and applies them to a buffer.
//
// Callers describe edits the way a user thinks of them: every location refers
// to the buffer as it was before any of the edits ran. A Set sorts its edits
// and applies them from the highest location down, so an edit never shifts
// the location of one that has not run yet.
//
// Basic usage:
//
//	set, err := edit.Compose(
//	    edit.Insert(9, "**"),
//	    edit.Insert(25, "**"),
//	)
//	if err != nil {
//	    return err
//	}
//	record, err := set.Apply(buf)
//
// A Set holds edits of one kind only. Mixing insertions and deletions is
// rejected by Compose, not by Apply.
package edit

import (
	"fmt"

	"github.com/zjrosen/splice/internal/buffer"
	"github.com/zjrosen/splice/internal/grapheme"
	"github.com/zjrosen/splice/internal/textrange"
)

// Kind categorizes an edit.
type Kind uint8

const (
	KindInsertion Kind = iota // Content is inserted at a location
	KindDeletion              // A range is removed
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindInsertion:
		return "insertion"
	case KindDeletion:
		return "deletion"
	default:
		return "unknown"
	}
}

// Edit is a single declared edit. The only implementations are Insertion and
// Deletion.
type Edit interface {
	// Kind returns the edit's kind.
	Kind() Kind

	// Location returns the pre-edit location the edit is sorted by.
	Location() int

	// Delta returns the length change the edit causes.
	Delta() int

	// String returns a human-readable representation of the edit.
	String() string

	apply(buf buffer.Buffer) error
}

// Insertion inserts Content at At.
type Insertion struct {
	At      int
	Content string
}

// Insert creates an Insertion.
func Insert(location int, content string) Insertion {
	return Insertion{At: location, Content: content}
}

func (i Insertion) Kind() Kind    { return KindInsertion }
func (i Insertion) Location() int { return i.At }
func (i Insertion) Delta() int    { return grapheme.UTF16Length(i.Content) }

func (i Insertion) String() string {
	return fmt.Sprintf("Insert(%d, %q)", i.At, i.Content)
}

func (i Insertion) apply(buf buffer.Buffer) error {
	return buf.Insert(i.Content, i.At)
}

// Deletion removes Range.
type Deletion struct {
	Range textrange.Range
}

// Delete creates a Deletion.
func Delete(r textrange.Range) Deletion {
	return Deletion{Range: r}
}

func (d Deletion) Kind() Kind    { return KindDeletion }
func (d Deletion) Location() int { return d.Range.Location }
func (d Deletion) Delta() int    { return -d.Range.Length }

func (d Deletion) String() string {
	return fmt.Sprintf("Delete%v", d.Range)
}

func (d Deletion) apply(buf buffer.Buffer) error {
	return buf.Delete(d.Range)
}
