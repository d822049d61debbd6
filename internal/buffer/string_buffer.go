package buffer

import (
	"unicode/utf16"

	"github.com/zjrosen/splice/internal/grapheme"
	"github.com/zjrosen/splice/internal/log"
	"github.com/zjrosen/splice/internal/pubsub"
	"github.com/zjrosen/splice/internal/textrange"
)

// StringBuffer is an in-memory Buffer backed by UTF-16 code units.
//
// The selection follows edits the way a text view's does: text inserted at or
// before the selection pushes it right, text inserted inside it grows it, and
// deleted text is subtracted from it.
type StringBuffer struct {
	units     []uint16
	selection Range
	host      Host
	events    *pubsub.Broker[Modification]
	revision  uint64

	// clusters is rebuilt lazily after each mutation.
	clusters *grapheme.Table
}

// NewStringBuffer creates a buffer holding content with a caret at the start.
func NewStringBuffer(content string) *StringBuffer {
	return &StringBuffer{units: utf16.Encode([]rune(content))}
}

// SetHost installs the host consulted by Modifying. A nil host admits every
// modification.
func (b *StringBuffer) SetHost(h Host) {
	b.host = h
}

// Events returns the broker on which change and modification events are
// published. It is created on first use.
func (b *StringBuffer) Events() *pubsub.Broker[Modification] {
	if b.events == nil {
		b.events = pubsub.NewBroker[Modification]()
	}
	return b.events
}

// Revision increases with every mutation.
func (b *StringBuffer) Revision() uint64 {
	return b.revision
}

// String returns the whole content.
func (b *StringBuffer) String() string {
	return string(utf16.Decode(b.units))
}

// Range returns the full range of the buffer.
func (b *StringBuffer) Range() Range {
	return textrange.New(0, len(b.units))
}

// Content returns the text in r.
func (b *StringBuffer) Content(r Range) (string, error) {
	if err := b.validateRange(r); err != nil {
		return "", err
	}
	return string(utf16.Decode(b.units[r.Location:r.EndLocation()])), nil
}

// UnsafeCharacter returns the composed character sequence containing
// location. Panics if location is outside the buffer.
func (b *StringBuffer) UnsafeCharacter(location int) string {
	c, ok := b.table().ClusterAt(location)
	if !ok {
		panic(NewOutOfRange(textrange.Point(location), b.Range()))
	}
	return c.Text
}

// Insert inserts content at location.
func (b *StringBuffer) Insert(content string, location int) error {
	if err := b.validateInsertionPoint(location); err != nil {
		return err
	}

	inserted := utf16.Encode([]rune(content))
	b.units = append(b.units[:location], append(inserted, b.units[location:]...)...)
	b.selection = shiftForInsertion(b.selection, location, len(inserted))
	b.changed(textrange.Point(location), len(inserted))

	log.Debug(log.CatBuffer, "Inserted", "location", location, "length", len(inserted))
	return nil
}

// Delete removes the text in r.
func (b *StringBuffer) Delete(r Range) error {
	if err := b.validateRange(r); err != nil {
		return err
	}

	b.units = append(b.units[:r.Location], b.units[r.EndLocation():]...)
	b.selection = b.selection.Subtract(r)
	b.changed(r, -r.Length)

	log.Debug(log.CatBuffer, "Deleted", "range", r)
	return nil
}

// Replace replaces the text in r with content.
func (b *StringBuffer) Replace(r Range, content string) error {
	if err := b.validateRange(r); err != nil {
		return err
	}

	inserted := utf16.Encode([]rune(content))
	tail := append([]uint16(nil), b.units[r.EndLocation():]...)
	b.units = append(append(b.units[:r.Location], inserted...), tail...)

	b.selection = shiftForInsertion(b.selection.Subtract(r), r.Location, len(inserted))
	b.changed(r, len(inserted)-r.Length)

	log.Debug(log.CatBuffer, "Replaced", "range", r, "length", len(inserted))
	return nil
}

// Selection returns the selected range.
func (b *StringBuffer) Selection() Range {
	return b.selection
}

// Select sets the selected range.
func (b *StringBuffer) Select(r Range) error {
	if err := b.validateRange(r); err != nil {
		return err
	}
	b.selection = r
	return nil
}

// LineRange returns the newline-delimited span containing r.
func (b *StringBuffer) LineRange(r Range) (Range, error) {
	if err := b.validateRange(r); err != nil {
		return textrange.Range{}, err
	}

	start := r.Location
	for start > 0 && b.units[start-1] != '\n' {
		start--
	}

	end := r.Location
	if r.Length > 0 {
		end = r.EndLocation() - 1
	}
	for end < len(b.units) && b.units[end] != '\n' {
		end++
	}
	if end < len(b.units) {
		end++ // include the newline
	}

	return textrange.Between(start, end), nil
}

// Modifying asks the host for permission, then runs body. The host's
// DidModify and the DidModifyEvent fire on every exit path of an admitted
// modification, including a panicking body.
func (b *StringBuffer) Modifying(affected Range, body func() error) error {
	if err := b.validateRange(affected); err != nil {
		return err
	}

	if b.host != nil && !b.host.ShouldModify(affected) {
		log.Warn(log.CatBuffer, "Modification vetoed by host", "range", affected)
		b.publish(pubsub.ForbiddenEvent, Modification{Range: affected, Revision: b.revision})
		return &ModificationForbiddenError{Range: affected}
	}

	b.publish(pubsub.WillModifyEvent, Modification{Range: affected, Revision: b.revision})
	defer func() {
		if b.host != nil {
			b.host.DidModify(affected)
		}
		b.publish(pubsub.DidModifyEvent, Modification{Range: affected, Revision: b.revision})
	}()

	return body()
}

func (b *StringBuffer) table() *grapheme.Table {
	if b.clusters == nil {
		b.clusters = grapheme.Segment(b.String())
	}
	return b.clusters
}

func (b *StringBuffer) changed(r Range, delta int) {
	b.revision++
	b.clusters = nil
	b.publish(pubsub.ChangedEvent, Modification{Range: r, Delta: delta, Revision: b.revision})
}

func (b *StringBuffer) publish(eventType pubsub.EventType, m Modification) {
	if b.events != nil {
		b.events.Publish(eventType, m)
	}
}

func (b *StringBuffer) validateRange(r Range) error {
	if !b.Range().Contains(r) {
		return NewOutOfRange(r, b.Range())
	}
	if err := b.validateBoundary(r.Location); err != nil {
		return err
	}
	return b.validateBoundary(r.EndLocation())
}

func (b *StringBuffer) validateInsertionPoint(location int) error {
	if !b.Range().IsValidInsertionPoint(location) {
		return NewOutOfRange(textrange.Point(location), b.Range())
	}
	return b.validateBoundary(location)
}

// validateBoundary rejects offsets inside a surrogate pair or a multi-unit
// grapheme cluster.
func (b *StringBuffer) validateBoundary(offset int) error {
	t := b.table()
	if t.IsBoundary(offset) {
		return nil
	}
	c, _ := t.ClusterAt(offset)
	return &SplitsCharacterError{
		Offset:    offset,
		Character: textrange.New(c.Offset, c.Length),
	}
}

// shiftForInsertion moves sel to account for length units inserted at
// location.
func shiftForInsertion(sel Range, location, length int) Range {
	switch {
	case location <= sel.Location:
		return textrange.New(sel.Location+length, sel.Length)
	case location < sel.EndLocation():
		return sel.Resized(length)
	default:
		return sel
	}
}
