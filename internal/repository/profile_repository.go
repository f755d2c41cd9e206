package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/temirkhan/campus-lesson-tracker/internal/model"
)

// ErrProfileNotFound indicates no profile row exists for the user.  Profiles
// are created with the account, so this normally means the user id itself is
// stale.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepo manages persistence for the `profiles` table.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

// GetByUserID fetches the profile owned by a user.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uint64) (model.Profile, error) {
	var (
		p      model.Profile
		campus sql.NullString
		phone  sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id,full_name,campus,phone,reward_tier,reward_points,created_at,updated_at FROM profiles WHERE user_id=? LIMIT 1",
		userID).Scan(&p.UserID, &p.FullName, &campus, &phone, &p.RewardTier, &p.RewardPoints, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, err
	}
	if campus.Valid {
		v := campus.String
		p.Campus = &v
	}
	if phone.Valid {
		v := phone.String
		p.Phone = &v
	}
	return p, nil
}

// CampusFor resolves just the campus of a user.  The attendance flow uses
// this narrow read instead of loading the whole profile.  An empty string
// with nil error means the campus is unset.
func (r *ProfileRepo) CampusFor(ctx context.Context, userID uint64) (string, error) {
	var campus sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT campus FROM profiles WHERE user_id=? LIMIT 1", userID).Scan(&campus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrProfileNotFound
		}
		return "", err
	}
	if !campus.Valid {
		return "", nil
	}
	return strings.TrimSpace(campus.String), nil
}

// UpdateOwn lets a user change their display fields.  Nil pointers leave the
// corresponding column untouched; an explicit empty string clears it.
func (r *ProfileRepo) UpdateOwn(ctx context.Context, userID uint64, fullName *string, campus *string, phone *string) error {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	if fullName != nil {
		sets = append(sets, "full_name=?")
		args = append(args, strings.TrimSpace(*fullName))
	}
	if campus != nil {
		sets = append(sets, "campus=?")
		args = append(args, nullIfEmpty(*campus))
	}
	if phone != nil {
		sets = append(sets, "phone=?")
		args = append(args, nullIfEmpty(*phone))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, userID)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE profiles SET "+strings.Join(sets, ", ")+" WHERE user_id=?", args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Either no such profile or the values already match; distinguish so
		// callers do not report a phantom failure.
		var one int
		if scanErr := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM profiles WHERE user_id=? LIMIT 1", userID).Scan(&one); scanErr != nil {
			return ErrProfileNotFound
		}
	}
	return nil
}

// SetReward persists a freshly computed reward tier and point total.
func (r *ProfileRepo) SetReward(ctx context.Context, userID uint64, tier string, points uint32) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE profiles SET reward_tier=?, reward_points=? WHERE user_id=?",
		tier, points, userID)
	return err
}

func nullIfEmpty(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
