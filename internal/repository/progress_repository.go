// Persistence for lesson_progress, the per-user per-lesson status rows.
// The table is composite-keyed by (user_id, lesson_id), which is what makes
// UpsertCompleted idempotent: re-verifying an already completed lesson
// rewrites the same row instead of adding another.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/temirkhan/campus-lesson-tracker/internal/model"
)

// ProgressRepo manages persistence for lesson progress rows.
type ProgressRepo struct{ db *sql.DB }

func NewProgressRepo(db *sql.DB) *ProgressRepo { return &ProgressRepo{db: db} }

// UpsertCompleted writes a COMPLETED row for (userID, lessonID), creating it
// if absent or overwriting status and completed_at if present.  Calling this
// twice produces the same end state with a refreshed timestamp.
func (r *ProgressRepo) UpsertCompleted(ctx context.Context, userID, lessonID uint64, completedAt time.Time) error {
	const q = `INSERT INTO lesson_progress (user_id, lesson_id, status, completed_at)
		VALUES (?, ?, 'COMPLETED', ?)
		ON DUPLICATE KEY UPDATE status='COMPLETED', completed_at=VALUES(completed_at)`
	_, err := r.db.ExecContext(ctx, q, userID, lessonID, completedAt)
	return err
}

// UpsertStatus writes an arbitrary status for (userID, lessonID).  Used by
// instructor-side manual marking; a non-COMPLETED status clears completed_at.
func (r *ProgressRepo) UpsertStatus(ctx context.Context, userID, lessonID uint64, status string) error {
	const q = `INSERT INTO lesson_progress (user_id, lesson_id, status, completed_at)
		VALUES (?, ?, ?, IF(?='COMPLETED', UTC_TIMESTAMP(), NULL))
		ON DUPLICATE KEY UPDATE status=VALUES(status), completed_at=VALUES(completed_at)`
	_, err := r.db.ExecContext(ctx, q, userID, lessonID, status, status)
	return err
}

// Get returns the progress row for one (user, lesson) pair, or sql.ErrNoRows.
func (r *ProgressRepo) Get(ctx context.Context, userID, lessonID uint64) (model.LessonProgress, error) {
	var (
		p           model.LessonProgress
		completedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, lesson_id, status, completed_at, updated_at
		 FROM lesson_progress WHERE user_id=? AND lesson_id=? LIMIT 1`,
		userID, lessonID).Scan(&p.UserID, &p.LessonID, &p.Status, &completedAt, &p.UpdatedAt)
	if err != nil {
		return model.LessonProgress{}, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		p.CompletedAt = &t
	}
	return p, nil
}

// ListForUser returns all progress rows a user has, keyed usage is building
// the dashboard view next to the lesson list.
func (r *ProgressRepo) ListForUser(ctx context.Context, userID uint64) ([]model.LessonProgress, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, lesson_id, status, completed_at, updated_at
		 FROM lesson_progress WHERE user_id=? ORDER BY lesson_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.LessonProgress
	for rows.Next() {
		var (
			p           model.LessonProgress
			completedAt sql.NullTime
		)
		if err := rows.Scan(&p.UserID, &p.LessonID, &p.Status, &completedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if completedAt.Valid {
			t := completedAt.Time
			p.CompletedAt = &t
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountCompletedForUser returns how many lessons the user has completed; the
// numerator of the progress percentage and an input to reward tiers.
func (r *ProgressRepo) CountCompletedForUser(ctx context.Context, userID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lesson_progress WHERE user_id=? AND status='COMPLETED'`,
		userID).Scan(&n)
	return n, err
}

// CountCompleted returns the total number of completed rows platform-wide.
func (r *ProgressRepo) CountCompleted(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lesson_progress WHERE status='COMPLETED'`).Scan(&n)
	return n, err
}

// CompletionRow is one line of an instructor roster: who completed the
// lesson behind a scheduled sitting and when.
type CompletionRow struct {
	UserID      uint64
	Email       string
	FullName    string
	CompletedAt time.Time
}

// CompletionsForLesson lists the students who completed a lesson template,
// most recent first.
func (r *ProgressRepo) CompletionsForLesson(ctx context.Context, lessonID uint64) ([]CompletionRow, error) {
	const q = `SELECT lp.user_id, u.email, p.full_name, lp.completed_at
		FROM lesson_progress lp
		JOIN users u ON u.id = lp.user_id
		JOIN profiles p ON p.user_id = lp.user_id
		WHERE lp.lesson_id=? AND lp.status='COMPLETED'
		ORDER BY lp.completed_at DESC`
	rows, err := r.db.QueryContext(ctx, q, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CompletionRow
	for rows.Next() {
		var (
			row         CompletionRow
			completedAt sql.NullTime
		)
		if err := rows.Scan(&row.UserID, &row.Email, &row.FullName, &completedAt); err != nil {
			return nil, err
		}
		if !completedAt.Valid {
			return nil, errors.New("completed row without timestamp")
		}
		row.CompletedAt = completedAt.Time
		out = append(out, row)
	}
	return out, rows.Err()
}
