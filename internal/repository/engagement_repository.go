package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/temirkhan/campus-lesson-tracker/internal/model"
)

// EngagementRepo manages persistence for logged conversations.
type EngagementRepo struct{ db *sql.DB }

func NewEngagementRepo(db *sql.DB) *EngagementRepo { return &EngagementRepo{db: db} }

// Create inserts an engagement row and assigns the generated ID back.
func (r *EngagementRepo) Create(ctx context.Context, e *model.Engagement) error {
	const q = `INSERT INTO engagements (user_id, contact_name, notes, engaged_at) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		e.UserID, strings.TrimSpace(e.ContactName), e.Notes, e.EngagedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	const sel = `SELECT id, user_id, contact_name, notes, engaged_at, created_at FROM engagements WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, e.ID).Scan(
		&e.ID, &e.UserID, &e.ContactName, &e.Notes, &e.EngagedAt, &e.CreatedAt)
}

// ListForUser returns a user's engagements, newest first.
func (r *EngagementRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Engagement, error) {
	const q = `SELECT id, user_id, contact_name, notes, engaged_at, created_at
		FROM engagements WHERE user_id=? ORDER BY engaged_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Engagement
	for rows.Next() {
		var e model.Engagement
		if err := rows.Scan(&e.ID, &e.UserID, &e.ContactName, &e.Notes, &e.EngagedAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountForUser returns how many conversations a user has logged; an input to
// the reward tier computation.
func (r *EngagementRepo) CountForUser(ctx context.Context, userID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM engagements WHERE user_id=?`, userID).Scan(&n)
	return n, err
}

// Count returns the platform-wide engagement total for the admin dashboard.
func (r *EngagementRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM engagements`).Scan(&n)
	return n, err
}
