package model

import "time"

// Profile holds the per-user attributes shown on dashboards and required by
// the attendance flow.  A profile is created together with the account and
// is only ever mutated by its owner, except Role on the users table which an
// admin sets.  Campus may be null until the student completes onboarding;
// attendance verification refuses to run while it is unset.
//
// Fields:
//  UserID      – primary key, references users.id.
//  FullName    – display name.
//  Campus      – campus the student attends (nullable).
//  Phone       – optional contact number.
//  RewardTier  – last computed reward tier (see reward.go).
//  RewardPoints – running points total backing the tier.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Profile struct {
	UserID       uint64    // profiles.user_id
	FullName     string    // profiles.full_name
	Campus       *string   // profiles.campus (nullable)
	Phone        *string   // profiles.phone (nullable)
	RewardTier   string    // profiles.reward_tier
	RewardPoints uint32    // profiles.reward_points
	CreatedAt    time.Time // profiles.created_at
	UpdatedAt    time.Time // profiles.updated_at
}
