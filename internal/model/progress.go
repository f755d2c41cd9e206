package model

import "time"

// Progress statuses stored in lesson_progress.status.
const (
	ProgressNotStarted = "NOT_STARTED"
	ProgressInProgress = "IN_PROGRESS"
	ProgressCompleted  = "COMPLETED"
)

// LessonProgress is the per-user per-lesson status row.  The table is
// composite-keyed by (user_id, lesson_id) so there is at most one row per
// pair; writes go through an upsert and re-completing a lesson only
// refreshes CompletedAt.
//
// Fields:
//  UserID      – references users.id, part of the primary key.
//  LessonID    – references lessons.id, part of the primary key.
//  Status      – NOT_STARTED, IN_PROGRESS or COMPLETED.
//  CompletedAt – when the lesson was completed (null otherwise).
//  UpdatedAt   – last write timestamp.
type LessonProgress struct {
	UserID      uint64     // lesson_progress.user_id
	LessonID    uint64     // lesson_progress.lesson_id
	Status      string     // lesson_progress.status
	CompletedAt *time.Time // lesson_progress.completed_at (nullable)
	UpdatedAt   time.Time  // lesson_progress.updated_at
}

// ProgressPercent computes the share of completed lessons out of total as a
// whole percentage.  A zero total yields zero rather than dividing.
func ProgressPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return completed * 100 / total
}
