package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAttendanceCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := NewAttendanceCode()
		require.NoError(t, err)
		assert.Len(t, code, AttendanceCodeLength)
		for _, ch := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, ch), "code %q uses %q outside the alphabet", code, ch)
		}
		seen[code] = true
	}
	// 200 draws from a ~900k space should essentially never all collide.
	assert.Greater(t, len(seen), 1, "codes must vary")
}

func TestCodeAlphabetOmitsAmbiguousCharacters(t *testing.T) {
	for _, ch := range "O0I1L" {
		assert.NotContains(t, codeAlphabet, string(ch))
	}
}

// The delete guard only counts completions recorded on the sitting's own
// date; completions the lesson template earned at other sittings must not
// block removal.
const deleteGuardPattern = `SELECT COUNT\(\*\) FROM lesson_progress lp(?s).*` +
	`DATE\(lp\.completed_at\) = DATE\(sl\.lesson_date\)`

func TestDeleteGuardScopedToSittingDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewScheduleRepo(db)

	t.Run("no completions on the date", func(t *testing.T) {
		mock.ExpectQuery(deleteGuardPattern).
			WithArgs(uint64(11)).
			WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM scheduled_lessons WHERE id=\?`).
			WithArgs(uint64(11)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(context.Background(), 11))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("completions on the date block removal", func(t *testing.T) {
		mock.ExpectQuery(deleteGuardPattern).
			WithArgs(uint64(12)).
			WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(3))

		err := repo.Delete(context.Background(), 12)
		assert.ErrorIs(t, err, ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet(), "no DELETE may run after the guard trips")
	})

	t.Run("missing sitting", func(t *testing.T) {
		mock.ExpectQuery(deleteGuardPattern).
			WithArgs(uint64(13)).
			WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM scheduled_lessons WHERE id=\?`).
			WithArgs(uint64(13)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), 13)
		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})
}
