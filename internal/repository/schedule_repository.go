// Package repository: persistence for scheduled lessons.  A scheduled lesson
// is one dated sitting of a lesson template at a campus, carrying the short
// attendance code students submit.  Only instructors mutate these rows; the
// student attendance flow reads them.
package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/temirkhan/campus-lesson-tracker/internal/model"
)

// ErrScheduleNotFound indicates that a scheduled lesson does not exist.
var ErrScheduleNotFound = errors.New("scheduled lesson not found")

// AttendanceCodeLength is the fixed length of attendance codes.
const AttendanceCodeLength = 4

// codeAlphabet omits easily confused characters (O/0, I/1, L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// NewAttendanceCode returns a random upper-case code of the fixed length.
func NewAttendanceCode() (string, error) {
	buf := make([]byte, AttendanceCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, AttendanceCodeLength)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out), nil
}

// ScheduleRepo manages persistence for scheduled lessons.
type ScheduleRepo struct{ db *sql.DB }

func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// DB exposes the underlying handle for cross-repository transactions.
func (r *ScheduleRepo) DB() *sql.DB { return r.db }

const scheduleCols = `id, lesson_id, campus, attendance_code, lesson_date, starts_at, ends_at, location, created_by, created_at, updated_at`

func scanSchedule(row interface{ Scan(...interface{}) error }, s *model.ScheduledLesson) error {
	return row.Scan(&s.ID, &s.LessonID, &s.Campus, &s.AttendanceCode, &s.LessonDate,
		&s.StartsAt, &s.EndsAt, &s.Location, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
}

// Create inserts a scheduled lesson and populates DB-default fields on the
// struct.  The attendance code must already be set (see NewAttendanceCode).
func (r *ScheduleRepo) Create(ctx context.Context, s *model.ScheduledLesson) error {
	const q = `INSERT INTO scheduled_lessons
		(lesson_id, campus, attendance_code, lesson_date, starts_at, ends_at, location, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		s.LessonID, s.Campus, strings.ToUpper(s.AttendanceCode), s.LessonDate,
		s.StartsAt, s.EndsAt, s.Location, s.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return scanSchedule(r.db.QueryRowContext(ctx,
		`SELECT `+scheduleCols+` FROM scheduled_lessons WHERE id = ?`, s.ID), s)
}

// GetByID retrieves one scheduled lesson.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (*model.ScheduledLesson, error) {
	var s model.ScheduledLesson
	err := scanSchedule(r.db.QueryRowContext(ctx,
		`SELECT `+scheduleCols+` FROM scheduled_lessons WHERE id = ?`, id), &s)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Update rewrites the mutable fields of a scheduled lesson.  The attendance
// code is only changed when a non-empty value is supplied.
func (r *ScheduleRepo) Update(ctx context.Context, s *model.ScheduledLesson) error {
	const q = `UPDATE scheduled_lessons
		SET lesson_id=?, campus=?, lesson_date=?, starts_at=?, ends_at=?, location=?,
		    attendance_code=IF(?='', attendance_code, ?)
		WHERE id=?`
	code := strings.ToUpper(strings.TrimSpace(s.AttendanceCode))
	res, err := r.db.ExecContext(ctx, q,
		s.LessonID, s.Campus, s.LessonDate, s.StartsAt, s.EndsAt, s.Location,
		code, code, s.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var one int
		if scanErr := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM scheduled_lessons WHERE id=? LIMIT 1`, s.ID).Scan(&one); scanErr != nil {
			return ErrScheduleNotFound
		}
	}
	return scanSchedule(r.db.QueryRowContext(ctx,
		`SELECT `+scheduleCols+` FROM scheduled_lessons WHERE id = ?`, s.ID), s)
}

// Delete removes a scheduled lesson.  A sitting whose date already produced
// completions of its lesson is part of the attendance record and is
// protected with ErrConflict; completions earned at other sittings of the
// same lesson do not block deletion.  Progress rows reference the lesson
// template, not the sitting, so deletion never orphans them.
func (r *ScheduleRepo) Delete(ctx context.Context, id uint64) error {
	var completions int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lesson_progress lp
		 JOIN scheduled_lessons sl ON sl.lesson_id = lp.lesson_id
		 WHERE sl.id=? AND lp.status='COMPLETED'
		   AND DATE(lp.completed_at) = DATE(sl.lesson_date)`, id).Scan(&completions)
	if err != nil {
		return err
	}
	if completions > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_lessons WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// ListByCampus returns scheduled lessons at one campus from a given date
// onward, ordered by start time.  Browsing views and the "next upcoming
// lesson" resolution both consume this ordering.
func (r *ScheduleRepo) ListByCampus(ctx context.Context, campus string, from time.Time) ([]model.ScheduledLesson, error) {
	const q = `SELECT ` + scheduleCols + ` FROM scheduled_lessons
		WHERE campus = ? AND lesson_date >= ?
		ORDER BY starts_at, id`
	rows, err := r.db.QueryContext(ctx, q, campus, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ScheduledLesson
	for rows.Next() {
		var s model.ScheduledLesson
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListByCreator returns the sittings an instructor has created, newest date
// first.
func (r *ScheduleRepo) ListByCreator(ctx context.Context, instructorID uint64) ([]model.ScheduledLesson, error) {
	const q = `SELECT ` + scheduleCols + ` FROM scheduled_lessons
		WHERE created_by = ? ORDER BY lesson_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, instructorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ScheduledLesson
	for rows.Next() {
		var s model.ScheduledLesson
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// FindByCodeAndCampus returns scheduled lessons whose attendance code equals
// the given code at the given campus.  Codes are matched case-insensitively
// by upper-casing the input; the campus filter is what keeps a code from one
// campus from validating at another.  The ordering (lesson_date, then id) is
// the deterministic tie-break when a campus accidentally reuses a code.
func (r *ScheduleRepo) FindByCodeAndCampus(ctx context.Context, code, campus string) ([]model.ScheduledLesson, error) {
	const q = `SELECT ` + scheduleCols + ` FROM scheduled_lessons
		WHERE attendance_code = ? AND campus = ?
		ORDER BY lesson_date, id`
	rows, err := r.db.QueryContext(ctx, q, strings.ToUpper(strings.TrimSpace(code)), campus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ScheduledLesson
	for rows.Next() {
		var s model.ScheduledLesson
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountByCampus returns scheduled lesson counts grouped by campus for the
// admin dashboard.
func (r *ScheduleRepo) CountByCampus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT campus, COUNT(*) FROM scheduled_lessons GROUP BY campus`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var campus string
		var n int
		if err := rows.Scan(&campus, &n); err != nil {
			return nil, err
		}
		out[campus] = n
	}
	return out, rows.Err()
}
