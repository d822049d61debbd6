// Package markup reads and writes the one-line buffer notation used by test
// fixtures and the CLI.
//
// A caret ‸ marks an insertion point. A pair of brackets « » marks a
// selection, the text between them being selected:
//
//	"Hello‸ world"    caret at 5
//	"Hello «world»"   selection {6, 5}
//
// Exactly one caret or exactly one bracket pair must be present.
package markup

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/zjrosen/splice/internal/buffer"
	"github.com/zjrosen/splice/internal/textrange"
)

// Markers.
const (
	Caret          = '‸'
	SelectionStart = '«'
	SelectionEnd   = '»'
)

// ErrMalformed is matched by every parse error.
var ErrMalformed = errors.New("malformed fixture")

// MalformedError describes why a fixture could not be parsed.
type MalformedError struct {
	Input  string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed fixture %q: %s", e.Input, e.Reason)
}

// Is reports whether target is ErrMalformed.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

// Fixture is a parsed fixture: plain content plus a selection in UTF-16
// offsets.
type Fixture struct {
	Content   string
	Selection textrange.Range
}

// ParseFixture strips the markers from s and returns the selection they
// denote.
func ParseFixture(s string) (Fixture, error) {
	var (
		content                 strings.Builder
		offset                  int
		carets, starts, ends    int
		caretAt, startAt, endAt int
	)

	for _, r := range s {
		switch r {
		case Caret:
			carets++
			caretAt = offset
		case SelectionStart:
			starts++
			startAt = offset
		case SelectionEnd:
			if starts == 0 {
				return Fixture{}, &MalformedError{Input: s, Reason: "selection closed before it was opened"}
			}
			ends++
			endAt = offset
		default:
			content.WriteRune(r)
			offset += utf16.RuneLen(r)
		}
	}

	switch {
	case carets == 1 && starts == 0 && ends == 0:
		return Fixture{Content: content.String(), Selection: textrange.Point(caretAt)}, nil
	case carets == 0 && starts == 1 && ends == 1:
		return Fixture{Content: content.String(), Selection: textrange.Between(startAt, endAt)}, nil
	case carets == 0 && starts == 0 && ends == 0:
		return Fixture{}, &MalformedError{Input: s, Reason: "no caret or selection"}
	case carets > 0 && (starts > 0 || ends > 0):
		return Fixture{}, &MalformedError{Input: s, Reason: "both caret and selection"}
	case carets > 1:
		return Fixture{}, &MalformedError{Input: s, Reason: fmt.Sprintf("%d carets", carets)}
	default:
		return Fixture{}, &MalformedError{
			Input:  s,
			Reason: fmt.Sprintf("unbalanced selection (%d opening, %d closing)", starts, ends),
		}
	}
}

// Parse builds an in-memory buffer from a fixture.
func Parse(s string) (*buffer.StringBuffer, error) {
	f, err := ParseFixture(s)
	if err != nil {
		return nil, err
	}

	buf := buffer.NewStringBuffer(f.Content)
	if err := buf.Select(f.Selection); err != nil {
		return nil, &MalformedError{Input: s, Reason: err.Error()}
	}
	return buf, nil
}

// MustParse is like Parse but panics on error. For tests.
func MustParse(s string) *buffer.StringBuffer {
	buf, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return buf
}

// Format renders the buffer content with its selection marked: brackets
// around a non-empty selection, a caret otherwise.
func Format(buf buffer.Buffer) (string, error) {
	full := buf.Range()
	sel := buf.Selection()
	if !full.Contains(sel) {
		return "", buffer.NewOutOfRange(sel, full)
	}

	before, err := buf.Content(textrange.Between(full.Location, sel.Location))
	if err != nil {
		return "", err
	}
	selected, err := buf.Content(sel)
	if err != nil {
		return "", err
	}
	after, err := buf.Content(textrange.Between(sel.EndLocation(), full.EndLocation()))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(before)
	if sel.IsEmpty() {
		b.WriteRune(Caret)
	} else {
		b.WriteRune(SelectionStart)
		b.WriteString(selected)
		b.WriteRune(SelectionEnd)
	}
	b.WriteString(after)
	return b.String(), nil
}

// MustFormat is like Format but panics on error. For tests.
func MustFormat(buf buffer.Buffer) string {
	s, err := Format(buf)
	if err != nil {
		panic(err)
	}
	return s
}
