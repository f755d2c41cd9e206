// Lesson templates are the curriculum units scheduled lessons point at.
// This file covers reads for browsing plus the admin-side create/update.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/temirkhan/campus-lesson-tracker/internal/model"
)

// ErrLessonNotFound indicates that a lesson template does not exist.
var ErrLessonNotFound = errors.New("lesson not found")

// LessonRepo manages persistence for lesson templates.
type LessonRepo struct{ db *sql.DB }

func NewLessonRepo(db *sql.DB) *LessonRepo { return &LessonRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span repositories.
func (r *LessonRepo) DB() *sql.DB { return r.db }

// Create inserts a lesson template and assigns the generated ID back.
func (r *LessonRepo) Create(ctx context.Context, l *model.Lesson) error {
	const q = `INSERT INTO lessons (title, description, sort_order) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, l.Title, l.Description, l.SortOrder)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	const sel = `SELECT id, title, description, sort_order, created_at, updated_at FROM lessons WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, l.ID).Scan(
		&l.ID, &l.Title, &l.Description, &l.SortOrder, &l.CreatedAt, &l.UpdatedAt)
}

// GetByID retrieves one lesson template.
func (r *LessonRepo) GetByID(ctx context.Context, id uint64) (*model.Lesson, error) {
	const q = `SELECT id, title, description, sort_order, created_at, updated_at FROM lessons WHERE id = ?`
	var l model.Lesson
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&l.ID, &l.Title, &l.Description, &l.SortOrder, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return &l, nil
}

// List returns all lesson templates in curriculum order.
func (r *LessonRepo) List(ctx context.Context) ([]model.Lesson, error) {
	const q = `SELECT id, title, description, sort_order, created_at, updated_at FROM lessons ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Lesson
	for rows.Next() {
		var l model.Lesson
		if err := rows.Scan(&l.ID, &l.Title, &l.Description, &l.SortOrder, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Count returns the number of lesson templates; the denominator of the
// student progress percentage.
func (r *LessonRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lessons`).Scan(&n)
	return n, err
}
