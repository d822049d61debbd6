package buffer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/splice/internal/pubsub"
	"github.com/zjrosen/splice/internal/textrange"
)

// mockHost is a testify mock for the Host interface.
type mockHost struct {
	mock.Mock
}

func (m *mockHost) ShouldModify(affected Range) bool {
	args := m.Called(affected)
	return args.Bool(0)
}

func (m *mockHost) DidModify(affected Range) {
	m.Called(affected)
}

func TestStringBuffer_Content(t *testing.T) {
	buf := NewStringBuffer("Hello, World!")

	got, err := buf.Content(textrange.New(7, 5))
	require.NoError(t, err)
	assert.Equal(t, "World", got)

	_, err = buf.Content(textrange.New(10, 5))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfRange)

	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, textrange.New(10, 5), oor.Requested)
	assert.Equal(t, textrange.New(0, 13), oor.Available)
}

func TestStringBuffer_UTF16Offsets(t *testing.T) {
	buf := NewStringBuffer("a😀b")

	assert.Equal(t, textrange.New(0, 4), buf.Range())
	got, err := buf.Content(textrange.New(1, 2))
	require.NoError(t, err)
	assert.Equal(t, "😀", got)
	assert.Equal(t, "😀", buf.UnsafeCharacter(2), "offset inside the pair yields the whole character")
}

func TestStringBuffer_RejectsSplittingComposedCharacters(t *testing.T) {
	buf := NewStringBuffer("a🇺🇸b")

	err := buf.Insert("x", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfRange)

	var split *SplitsCharacterError
	require.ErrorAs(t, err, &split)
	assert.Equal(t, textrange.New(1, 4), split.Character)

	_, err = buf.Content(textrange.New(0, 2))
	assert.ErrorIs(t, err, ErrOutOfRange)

	require.NoError(t, buf.Delete(textrange.New(1, 4)))
	assert.Equal(t, "ab", buf.String())
}

func TestStringBuffer_UnsafeCharacterPanicsOutOfBounds(t *testing.T) {
	buf := NewStringBuffer("ab")
	assert.Panics(t, func() { buf.UnsafeCharacter(2) })
}

func TestStringBuffer_Insert(t *testing.T) {
	buf := NewStringBuffer("0123456789")
	require.NoError(t, buf.Select(textrange.Point(8)))

	require.NoError(t, buf.Insert("xxx", 3))
	assert.Equal(t, "012xxx3456789", buf.String())
	assert.Equal(t, textrange.Point(11), buf.Selection())

	require.NoError(t, buf.Insert("!", buf.Range().EndLocation()), "append position is valid")
	assert.Equal(t, "012xxx3456789!", buf.String())

	err := buf.Insert("?", 99)
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, textrange.Point(99), oor.Requested)
}

func TestStringBuffer_InsertInsideSelectionGrowsIt(t *testing.T) {
	buf := NewStringBuffer("abcdef")
	require.NoError(t, buf.Select(textrange.New(1, 3)))

	require.NoError(t, buf.Insert("XY", 2))
	assert.Equal(t, textrange.New(1, 5), buf.Selection())

	require.NoError(t, buf.Insert("Z", 6))
	assert.Equal(t, textrange.New(1, 5), buf.Selection(), "insertion at selection end leaves it alone")
}

func TestStringBuffer_Delete(t *testing.T) {
	buf := NewStringBuffer("Hello, World!")
	require.NoError(t, buf.Select(textrange.New(7, 5)))

	require.NoError(t, buf.Delete(textrange.New(1, 8)))
	assert.Equal(t, "Horld!", buf.String())
	assert.Equal(t, textrange.New(1, 3), buf.Selection())
}

func TestStringBuffer_Replace(t *testing.T) {
	buf := NewStringBuffer("Hello, World!")
	require.NoError(t, buf.Select(textrange.New(7, 5)))

	require.NoError(t, buf.Replace(textrange.New(7, 5), "Go"))
	assert.Equal(t, "Hello, Go!", buf.String())
	assert.Equal(t, textrange.Point(9), buf.Selection())

	err := buf.Replace(textrange.New(8, 10), "x")
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestStringBuffer_Select(t *testing.T) {
	buf := NewStringBuffer("abc")
	require.NoError(t, buf.Select(textrange.New(1, 2)))
	assert.Equal(t, textrange.New(1, 2), buf.Selection())

	assert.ErrorIs(t, buf.Select(textrange.New(2, 2)), ErrOutOfRange)
}

func TestStringBuffer_LineRange(t *testing.T) {
	buf := NewStringBuffer("first\nsecond line\nthird")

	tests := []struct {
		name string
		r    Range
		want Range
	}{
		{"caret in first line", textrange.Point(2), textrange.New(0, 6)},
		{"caret at start of second line", textrange.Point(6), textrange.New(6, 12)},
		{"selection across lines", textrange.New(3, 6), textrange.New(0, 18)},
		{"selection ending with newline", textrange.New(6, 12), textrange.New(6, 12)},
		{"last line without newline", textrange.Point(20), textrange.New(18, 5)},
		{"caret at end", textrange.Point(23), textrange.New(18, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buf.LineRange(tt.r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := buf.LineRange(textrange.New(20, 10))
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestStringBuffer_ModifyingWithoutHost(t *testing.T) {
	buf := NewStringBuffer("abc")

	ran := false
	err := buf.Modifying(textrange.New(0, 1), func() error {
		ran = true
		return buf.Delete(textrange.New(0, 1))
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, "bc", buf.String())
}

func TestStringBuffer_ModifyingVetoed(t *testing.T) {
	buf := NewStringBuffer("abc")
	host := &mockHost{}
	host.On("ShouldModify", textrange.New(0, 2)).Return(false)
	buf.SetHost(host)

	err := buf.Modifying(textrange.New(0, 2), func() error {
		t.Fatal("body must not run when vetoed")
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModificationForbidden)
	var forbidden *ModificationForbiddenError
	require.ErrorAs(t, err, &forbidden)
	assert.Equal(t, textrange.New(0, 2), forbidden.Range)

	host.AssertExpectations(t)
	host.AssertNotCalled(t, "DidModify", mock.Anything)
}

func TestStringBuffer_ModifyingNotifiesOnFailure(t *testing.T) {
	buf := NewStringBuffer("abc")
	host := &mockHost{}
	host.On("ShouldModify", textrange.New(1, 1)).Return(true)
	host.On("DidModify", textrange.New(1, 1)).Return().Once()
	buf.SetHost(host)

	boom := errors.New("boom")
	err := buf.Modifying(textrange.New(1, 1), func() error { return boom })

	assert.ErrorIs(t, err, boom)
	host.AssertExpectations(t)
}

func TestStringBuffer_ModifyingNotifiesOnPanic(t *testing.T) {
	buf := NewStringBuffer("abc")
	host := &mockHost{}
	host.On("ShouldModify", mock.Anything).Return(true)
	host.On("DidModify", mock.Anything).Return().Once()
	buf.SetHost(host)

	assert.Panics(t, func() {
		_ = buf.Modifying(textrange.New(0, 0), func() error { panic("body exploded") })
	})
	host.AssertExpectations(t)
}

func TestStringBuffer_ModifyingRejectsOutOfRange(t *testing.T) {
	buf := NewStringBuffer("abc")
	err := buf.Modifying(textrange.New(2, 5), func() error { return nil })
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestStringBuffer_Events(t *testing.T) {
	buf := NewStringBuffer("abc")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := pubsub.NewListener[Modification](ctx, buf.Events())

	err := buf.Modifying(textrange.New(0, 3), func() error {
		return buf.Insert("xy", 1)
	})
	require.NoError(t, err)

	events := listener.Drain()
	require.Len(t, events, 3)
	assert.Equal(t, pubsub.WillModifyEvent, events[0].Type)
	assert.Equal(t, pubsub.ChangedEvent, events[1].Type)
	assert.Equal(t, 2, events[1].Payload.Delta)
	assert.Equal(t, uint64(1), events[1].Payload.Revision)
	assert.Equal(t, pubsub.DidModifyEvent, events[2].Type)
	assert.Equal(t, uint64(1), buf.Revision())
}
