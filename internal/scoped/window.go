// Package scoped confines edits to a window of a base buffer.
//
// A Window implements buffer.Buffer over the base, using the base's offsets.
// Every read and write is checked against the window before it reaches the
// base, and successful writes resize the window by their net length change,
// so the window always covers the same logical text.
//
// Word and line lookups may return ranges that extend past the window; they
// only need the requested range to lie inside it.
package scoped

import (
	"github.com/zjrosen/splice/internal/boundary"
	"github.com/zjrosen/splice/internal/buffer"
	"github.com/zjrosen/splice/internal/grapheme"
	"github.com/zjrosen/splice/internal/log"
	"github.com/zjrosen/splice/internal/textrange"
)

// Window is a sandboxed, self-resizing sub-range of a base buffer.
type Window struct {
	base   buffer.Buffer
	window textrange.Range
}

var _ buffer.Buffer = (*Window)(nil)

// New creates a window over base. The window must lie inside the base.
func New(base buffer.Buffer, window textrange.Range) (*Window, error) {
	if !base.Range().Contains(window) {
		return nil, buffer.NewOutOfRange(window, base.Range())
	}
	return &Window{base: base, window: window}, nil
}

// Within runs body against a window over base and discards the window.
func Within(base buffer.Buffer, window textrange.Range, body func(w *Window) error) error {
	w, err := New(base, window)
	if err != nil {
		return err
	}
	return body(w)
}

// Base returns the wrapped buffer.
func (w *Window) Base() buffer.Buffer {
	return w.base
}

// Range returns the window.
func (w *Window) Range() textrange.Range {
	return w.window
}

func (w *Window) Content(r textrange.Range) (string, error) {
	if err := w.check(r); err != nil {
		return "", err
	}
	return w.base.Content(r)
}

// UnsafeCharacter returns the character at location. Panics if location is
// outside the window.
func (w *Window) UnsafeCharacter(location int) string {
	if location < w.window.Location || location >= w.window.EndLocation() {
		panic(buffer.NewOutOfRange(textrange.New(location, 1), w.window))
	}
	return w.base.UnsafeCharacter(location)
}

func (w *Window) Insert(content string, location int) error {
	if !w.window.IsValidInsertionPoint(location) {
		return w.violation(textrange.Point(location))
	}
	if err := w.base.Insert(content, location); err != nil {
		return err
	}
	w.resize(grapheme.UTF16Length(content))
	return nil
}

func (w *Window) Delete(r textrange.Range) error {
	if err := w.check(r); err != nil {
		return err
	}
	if err := w.base.Delete(r); err != nil {
		return err
	}
	w.resize(-r.Length)
	return nil
}

func (w *Window) Replace(r textrange.Range, content string) error {
	if err := w.check(r); err != nil {
		return err
	}
	if err := w.base.Replace(r, content); err != nil {
		return err
	}
	w.resize(grapheme.UTF16Length(content) - r.Length)
	return nil
}

func (w *Window) Selection() textrange.Range {
	return w.base.Selection()
}

func (w *Window) Select(r textrange.Range) error {
	return w.base.Select(r)
}

// LineRange returns the line range around r, which may extend past the
// window.
func (w *Window) LineRange(r textrange.Range) (textrange.Range, error) {
	if err := w.check(r); err != nil {
		return textrange.Range{}, err
	}
	return w.base.LineRange(r)
}

// WordRange returns the word range around r, which may extend past the
// window.
func (w *Window) WordRange(r textrange.Range) (textrange.Range, error) {
	if err := w.check(r); err != nil {
		return textrange.Range{}, err
	}
	return boundary.WordRange(w.base, r)
}

func (w *Window) Modifying(affected textrange.Range, body func() error) error {
	if err := w.check(affected); err != nil {
		return err
	}
	return w.base.Modifying(affected, body)
}

func (w *Window) check(r textrange.Range) error {
	if !w.window.Contains(r) {
		return w.violation(r)
	}
	return nil
}

func (w *Window) violation(requested textrange.Range) error {
	log.Debug(log.CatScope, "Access outside window", "requested", requested, "window", w.window)
	return buffer.NewOutOfRange(requested, w.window)
}

func (w *Window) resize(delta int) {
	w.window = w.window.Resized(delta)
	log.Debug(log.CatScope, "Window resized", "delta", delta, "window", w.window)
}
