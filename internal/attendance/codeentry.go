// Package attendance implements the lesson-attendance verification flow:
// the attendance-code entry state machine and the verification service that
// matches a submitted code against scheduled lessons and records completion.
package attendance

import "unicode"

// CellCount is the number of single-character cells in the code entry
// widget, equal to the attendance code length.
const CellCount = 4

// CodeEntry models the four-cell code input.  Each cell holds at most one
// upper-cased alphanumeric character and exactly one cell is focused at a
// time.  Typing into a cell that is not the last advances focus; Backspace
// on an empty cell retreats it.  Submission is gated on Complete().
//
// The zero value is not usable; construct with NewCodeEntry.
type CodeEntry struct {
	cells [CellCount]rune // zero rune means the cell is empty
	focus int             // index of the focused cell, 0..CellCount-1
}

// NewCodeEntry returns an empty entry focused on the first cell.
func NewCodeEntry() *CodeEntry {
	return &CodeEntry{}
}

// Focus returns the index of the currently focused cell.
func (e *CodeEntry) Focus() int { return e.focus }

// Cell returns the character stored at cell i, or zero when the cell is
// empty or i is out of range.
func (e *CodeEntry) Cell(i int) rune {
	if i < 0 || i >= CellCount {
		return 0
	}
	return e.cells[i]
}

// Type stores ch (upper-cased) at the focused cell and, when the cell is
// not the last, advances focus by one.  Non-alphanumeric input is rejected
// and reported by the false return; focus does not move in that case.
func (e *CodeEntry) Type(ch rune) bool {
	if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) {
		return false
	}
	e.cells[e.focus] = unicode.ToUpper(ch)
	if e.focus < CellCount-1 {
		e.focus++
	}
	return true
}

// Backspace clears the focused cell when it holds a character.  When the
// focused cell is already empty and is not the first, focus retreats one
// cell and that cell is cleared.  Backspace on an empty first cell is a
// no-op.
func (e *CodeEntry) Backspace() {
	if e.cells[e.focus] != 0 {
		e.cells[e.focus] = 0
		return
	}
	if e.focus > 0 {
		e.focus--
		e.cells[e.focus] = 0
	}
}

// Complete reports whether every cell is filled, independent of whether the
// resulting code is valid for any lesson.
func (e *CodeEntry) Complete() bool {
	for _, c := range e.cells {
		if c == 0 {
			return false
		}
	}
	return true
}

// Code joins the filled cells into the submission string.  Empty cells are
// skipped, so callers should gate on Complete() first.
func (e *CodeEntry) Code() string {
	out := make([]rune, 0, CellCount)
	for _, c := range e.cells {
		if c != 0 {
			out = append(out, c)
		}
	}
	return string(out)
}
