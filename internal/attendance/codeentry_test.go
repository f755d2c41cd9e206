package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func typeAll(e *CodeEntry, s string) {
	for _, ch := range s {
		e.Type(ch)
	}
}

func TestCodeEntryTypeAdvancesFocus(t *testing.T) {
	e := NewCodeEntry()
	assert.Equal(t, 0, e.Focus())

	assert.True(t, e.Type('a'))
	assert.Equal(t, 'A', e.Cell(0), "input is upper-cased")
	assert.Equal(t, 1, e.Focus())

	assert.True(t, e.Type('B'))
	assert.True(t, e.Type('1'))
	assert.Equal(t, 3, e.Focus())

	// Typing into the last cell fills it but focus stays put.
	assert.True(t, e.Type('2'))
	assert.Equal(t, 3, e.Focus())
	assert.Equal(t, '2', e.Cell(3))

	// Overtyping the last cell replaces its character.
	assert.True(t, e.Type('9'))
	assert.Equal(t, 3, e.Focus())
	assert.Equal(t, '9', e.Cell(3))
}

func TestCodeEntryRejectsNonAlphanumeric(t *testing.T) {
	e := NewCodeEntry()
	for _, ch := range []rune{' ', '-', '!', '\n'} {
		assert.False(t, e.Type(ch))
	}
	assert.Equal(t, 0, e.Focus(), "rejected input must not move focus")
	assert.Equal(t, rune(0), e.Cell(0))
}

func TestCodeEntryBackspace(t *testing.T) {
	e := NewCodeEntry()
	typeAll(e, "AB1")
	assert.Equal(t, 3, e.Focus())

	// Focused cell is empty: retreat and clear the previous one.
	e.Backspace()
	assert.Equal(t, 2, e.Focus())
	assert.Equal(t, rune(0), e.Cell(2))

	// Focused cell holds a character after a full fill: clear in place.
	typeAll(e, "12")
	assert.Equal(t, '2', e.Cell(3))
	e.Backspace()
	assert.Equal(t, 3, e.Focus())
	assert.Equal(t, rune(0), e.Cell(3))

	// Drain the rest back to the start.
	e.Backspace() // retreats to 2, clears
	e.Backspace() // retreats to 1, clears
	e.Backspace() // retreats to 0, clears
	assert.Equal(t, 0, e.Focus())

	// Backspace on an empty first cell is a no-op.
	e.Backspace()
	assert.Equal(t, 0, e.Focus())
	assert.False(t, e.Complete())
}

func TestCodeEntryCompleteGatesSubmission(t *testing.T) {
	e := NewCodeEntry()
	assert.False(t, e.Complete())

	typeAll(e, "AB1")
	assert.False(t, e.Complete(), "three of four cells filled")

	e.Type('2')
	assert.True(t, e.Complete())
	assert.Equal(t, "AB12", e.Code())

	e.Backspace()
	assert.False(t, e.Complete(), "clearing any cell un-gates submission")
}
