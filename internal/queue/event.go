// Package queue defines message payloads exchanged over the message broker.
package queue

// LessonCompletedEvent is published when a student's attendance code is
// verified and their completion recorded.  It carries enough information for
// downstream consumers to log, recompute reward tiers, or feed analytics
// without querying the primary database for the triggering row.
type LessonCompletedEvent struct {
	UserID            uint64 `json:"user_id"`
	LessonID          uint64 `json:"lesson_id"`
	ScheduledLessonID uint64 `json:"scheduled_lesson_id"`
	Campus            string `json:"campus"`
	CompletedAt       string `json:"completed_at"`
}
