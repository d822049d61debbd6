package modify

import (
	"github.com/zjrosen/splice/internal/boundary"
	"github.com/zjrosen/splice/internal/buffer"
	"github.com/zjrosen/splice/internal/change"
	"github.com/zjrosen/splice/internal/edit"
	"github.com/zjrosen/splice/internal/grapheme"
	"github.com/zjrosen/splice/internal/textrange"
)

// wordRanger is implemented by buffers with their own word lookup, such as
// scoped windows whose lookups see past the window.
type wordRanger interface {
	WordRange(r textrange.Range) (textrange.Range, error)
}

// SelectWord expands the affected range to its word range and selects it.
func SelectWord() Step {
	return SelectWordWith(nil)
}

// SelectWordWith is SelectWord using finder for buffers without their own
// word lookup. A nil finder uses the package default.
func SelectWordWith(finder *boundary.Finder) Step {
	return expandAndSelect(func(buf buffer.Buffer, r textrange.Range) (textrange.Range, error) {
		if wr, ok := buf.(wordRanger); ok {
			return wr.WordRange(r)
		}
		if finder != nil {
			return finder.WordRange(buf, r)
		}
		return boundary.WordRange(buf, r)
	})
}

// SelectLine expands the affected range to its line range and selects it.
func SelectLine() Step {
	return expandAndSelect(boundary.LineRange)
}

func expandAndSelect(find func(buffer.Buffer, textrange.Range) (textrange.Range, error)) Step {
	return func(buf buffer.Buffer, affected *AffectedRange) (*change.Record, error) {
		r, err := find(buf, affected.Value())
		if err != nil {
			return nil, err
		}
		affected.SetValue(r)
		return &change.Record{}, buf.Select(r)
	}
}

// SelectAffected selects the affected range.
func SelectAffected() Step {
	return func(buf buffer.Buffer, affected *AffectedRange) (*change.Record, error) {
		return &change.Record{}, buf.Select(affected.Value())
	}
}

// Wrap inserts prefix before and suffix after the affected range.
func Wrap(prefix, suffix string) Step {
	return func(buf buffer.Buffer, affected *AffectedRange) (*change.Record, error) {
		return apply(buf,
			edit.Insert(affected.Location(), prefix),
			edit.Insert(affected.EndLocation(), suffix),
		)
	}
}

// InsertBefore inserts content at the start of the affected range.
func InsertBefore(content string) Step {
	return func(buf buffer.Buffer, affected *AffectedRange) (*change.Record, error) {
		return apply(buf, edit.Insert(affected.Location(), content))
	}
}

// InsertAfter inserts content at the end of the affected range.
func InsertAfter(content string) Step {
	return func(buf buffer.Buffer, affected *AffectedRange) (*change.Record, error) {
		return apply(buf, edit.Insert(affected.EndLocation(), content))
	}
}

// DeleteAffected removes the affected range, leaving it empty.
func DeleteAffected() Step {
	return func(buf buffer.Buffer, affected *AffectedRange) (*change.Record, error) {
		return apply(buf, edit.Delete(affected.Value()))
	}
}

// ReplaceAffected replaces the affected range with content. The range then
// covers the new content.
func ReplaceAffected(content string) Step {
	return func(buf buffer.Buffer, affected *AffectedRange) (*change.Record, error) {
		r := affected.Value()
		if err := buf.Replace(r, content); err != nil {
			return nil, err
		}
		return change.New(-r.Length, grapheme.UTF16Length(content)), nil
	}
}

func apply(buf buffer.Buffer, edits ...edit.Edit) (*change.Record, error) {
	set, err := edit.Compose(edits...)
	if err != nil {
		return nil, err
	}
	return set.Apply(buf)
}
