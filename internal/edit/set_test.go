package edit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/splice/internal/buffer"
	"github.com/zjrosen/splice/internal/textrange"
)

func TestCompose_RejectsMixedKinds(t *testing.T) {
	_, err := Compose(Insert(0, "a"), Delete(textrange.New(1, 1)))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidComposition)

	_, err = NewBuilder().Delete(textrange.New(0, 1)).Insert(3, "x").Build()
	assert.ErrorIs(t, err, ErrInvalidComposition)
}

func TestCompose_RejectsOverlappingDeletions(t *testing.T) {
	_, err := Compose(Delete(textrange.New(4, 3)), Delete(textrange.New(2, 3)))
	assert.ErrorIs(t, err, ErrOverlappingDeletions)

	set, err := Compose(Delete(textrange.New(0, 2)), Delete(textrange.New(2, 2)))
	require.NoError(t, err, "adjacent deletions do not overlap")
	assert.Equal(t, 2, set.Len())
}

func TestCompose_SortsStably(t *testing.T) {
	set, err := Compose(Insert(5, "b"), Insert(1, "a"), Insert(5, "c"))
	require.NoError(t, err)

	assert.Equal(t, []Edit{Insert(1, "a"), Insert(5, "b"), Insert(5, "c")}, set.Edits())
	assert.Equal(t, KindInsertion, set.Kind())
	assert.Equal(t, 3, set.Delta())
}

func TestSet_ApplyDeletion(t *testing.T) {
	buf := buffer.NewStringBuffer("Hello, World!")

	set, err := Compose(Delete(textrange.New(1, 7)))
	require.NoError(t, err)

	record, err := set.Apply(buf)
	require.NoError(t, err)
	assert.Equal(t, "Horld!", buf.String())
	assert.Equal(t, -7, record.Total())
}

func TestSet_ApplyUsesPreEditLocations(t *testing.T) {
	buf := buffer.NewStringBuffer("Welcome, fellow traveller, to these barren lands!")

	set, err := NewBuilder().
		Insert(9, "**").
		Insert(25, "**").
		Build()
	require.NoError(t, err)

	record, err := set.Apply(buf)
	require.NoError(t, err)
	assert.Equal(t, "Welcome, **fellow traveller**, to these barren lands!", buf.String())
	assert.Equal(t, 4, record.Total())
	assert.Equal(t, 2, record.Len())
}

func TestSet_ApplyMultipleDeletions(t *testing.T) {
	buf := buffer.NewStringBuffer("a-b-c-d")

	set, err := Compose(
		Delete(textrange.New(1, 1)),
		Delete(textrange.New(5, 1)),
		Delete(textrange.New(3, 1)),
	)
	require.NoError(t, err)

	_, err = set.Apply(buf)
	require.NoError(t, err)
	assert.Equal(t, "abcd", buf.String())
}

func TestSet_EqualLocationsConcatenateInDeclarationOrder(t *testing.T) {
	buf := buffer.NewStringBuffer("()")

	set, err := Compose(Insert(1, "first"), Insert(1, "-"), Insert(1, "second"))
	require.NoError(t, err)

	_, err = set.Apply(buf)
	require.NoError(t, err)
	assert.Equal(t, "(first-second)", buf.String())
}

func TestSet_ApplyCountsUTF16Units(t *testing.T) {
	buf := buffer.NewStringBuffer("ab")

	set, err := Compose(Insert(1, "😀"))
	require.NoError(t, err)

	record, err := set.Apply(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, record.Total())
	assert.Equal(t, 4, buf.Range().Length)
}

func TestSet_ApplyStopsAtFirstFailure(t *testing.T) {
	buf := buffer.NewStringBuffer("abc")

	// Applied from the highest location down: 99 fails first, so nothing runs.
	set, err := Compose(Insert(1, "x"), Insert(99, "y"))
	require.NoError(t, err)

	record, err := set.Apply(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, buffer.ErrOutOfRange)
	assert.Equal(t, 0, record.Len())
	assert.Equal(t, "abc", buf.String())

	// Here the high edit succeeds before the low one fails.
	set, err = Compose(Delete(textrange.New(2, 1)), Delete(textrange.New(-1, 1)))
	require.NoError(t, err)

	record, err = set.Apply(buf)
	require.Error(t, err)
	assert.Equal(t, -1, record.Total(), "partial record covers the applied edit")
	assert.Equal(t, "ab", buf.String())
}

func TestSet_EmptySetIsNoop(t *testing.T) {
	buf := buffer.NewStringBuffer("abc")

	set, err := Compose()
	require.NoError(t, err)

	record, err := set.Apply(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, record.Len())
	assert.Equal(t, "abc", buf.String())
}

func TestEdit_String(t *testing.T) {
	assert.Equal(t, `Insert(3, "x")`, Insert(3, "x").String())
	assert.Equal(t, "Delete{1, 7}", Delete(textrange.New(1, 7)).String())
	assert.Equal(t, "deletion", KindDeletion.String())
}

// applySequentially applies insertions one by one, adjusting each location
// for the insertions already made before it.
func applySequentially(base string, edits []Insertion) string {
	type placed struct {
		at      int
		content string
	}
	var done []placed
	out := base
	for _, e := range edits {
		at := e.At
		for _, p := range done {
			if p.at <= e.At {
				at += len(p.content)
			}
		}
		out = out[:at] + e.Content + out[at:]
		done = append(done, placed{at: e.At, content: e.Content})
	}
	return out
}

func TestProperty_InsertionOrderIndependence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.StringMatching(`[a-z]{0,20}`).Draw(t, "base")
		n := rapid.IntRange(0, 6).Draw(t, "n")

		edits := make([]Insertion, n)
		for i := range edits {
			edits[i] = Insert(
				rapid.IntRange(0, len(base)).Draw(t, "at"),
				rapid.StringMatching(`[A-Z]{1,3}`).Draw(t, "content"),
			)
		}

		declared := make([]Edit, n)
		for i, e := range edits {
			declared[i] = e
		}
		set, err := Compose(declared...)
		require.NoError(t, err)

		buf := buffer.NewStringBuffer(base)
		record, err := set.Apply(buf)
		require.NoError(t, err)

		// Sorting stably by location gives the sequential reference order.
		sorted := make([]Insertion, n)
		for i, e := range set.Edits() {
			sorted[i] = e.(Insertion)
		}
		require.Equal(t, applySequentially(base, sorted), buf.String())
		require.Equal(t, len(buf.String())-len(base), record.Total())
	})
}

func TestProperty_DeletionsRemoveExactlyTheirRanges(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.StringMatching(`[a-z]{1,30}`).Draw(t, "base")
		keep := make([]bool, len(base))
		for i := range keep {
			keep[i] = true
		}

		var edits []Edit
		pos := 0
		for pos < len(base) {
			gap := rapid.IntRange(0, 3).Draw(t, "gap")
			length := rapid.IntRange(1, 3).Draw(t, "length")
			start := pos + gap
			if start+length > len(base) {
				break
			}
			edits = append(edits, Delete(textrange.New(start, length)))
			for i := start; i < start+length; i++ {
				keep[i] = false
			}
			pos = start + length
		}

		var want strings.Builder
		for i, k := range keep {
			if k {
				want.WriteByte(base[i])
			}
		}

		// Reverse the declaration order; the result must not depend on it.
		for i, j := 0, len(edits)-1; i < j; i, j = i+1, j-1 {
			edits[i], edits[j] = edits[j], edits[i]
		}

		set, err := Compose(edits...)
		require.NoError(t, err)

		buf := buffer.NewStringBuffer(base)
		_, err = set.Apply(buf)
		require.NoError(t, err)
		require.Equal(t, want.String(), buf.String())
	})
}
