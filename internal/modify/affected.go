package modify

import "github.com/zjrosen/splice/internal/textrange"

// AffectedRange is the range a modification chain is working on. One value is
// created per chain and shared by pointer between its steps, so a step that
// widens or moves the range is seen by every later step.
//
// It must not outlive the chain that created it.
type AffectedRange struct {
	value textrange.Range
}

// NewAffectedRange creates a handle holding r.
func NewAffectedRange(r textrange.Range) *AffectedRange {
	return &AffectedRange{value: r}
}

// Value returns the current range.
func (a *AffectedRange) Value() textrange.Range {
	return a.value
}

// SetValue replaces the range.
func (a *AffectedRange) SetValue(r textrange.Range) {
	a.value = r
}

// SetLength changes the length, keeping the location. Negative lengths are
// clamped to zero.
func (a *AffectedRange) SetLength(n int) {
	a.value.Length = max(0, n)
}

func (a *AffectedRange) Location() int    { return a.value.Location }
func (a *AffectedRange) Length() int      { return a.value.Length }
func (a *AffectedRange) EndLocation() int { return a.value.EndLocation() }

func (a *AffectedRange) String() string {
	return a.value.String()
}
