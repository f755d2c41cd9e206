package model

import "time"

// Lesson is a reusable lesson template.  Scheduled lessons reference it by
// LessonID and add the campus, date and attendance code for one sitting.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – lesson title shown in browsing views.
//  Description – free-form description.
//  SortOrder   – position within the curriculum.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Lesson struct {
	ID          uint64    // lessons.id
	Title       string    // lessons.title
	Description string    // lessons.description
	SortOrder   uint32    // lessons.sort_order
	CreatedAt   time.Time // lessons.created_at
	UpdatedAt   time.Time // lessons.updated_at
}

// ScheduledLesson is a dated sitting of a lesson template at one campus.
// The attendance code is a short 4-character string students enter to mark
// themselves present.  Rows are immutable from the student flow's
// perspective; only instructors create and update them.
// NOTE: StartsAt/EndsAt are DB DATETIME values in UTC.
type ScheduledLesson struct {
	ID             uint64    // scheduled_lessons.id
	LessonID       uint64    // scheduled_lessons.lesson_id
	Campus         string    // scheduled_lessons.campus
	AttendanceCode string    // scheduled_lessons.attendance_code (4 chars)
	LessonDate     time.Time // scheduled_lessons.lesson_date (date component)
	StartsAt       time.Time // scheduled_lessons.starts_at
	EndsAt         time.Time // scheduled_lessons.ends_at
	Location       string    // scheduled_lessons.location
	CreatedBy      uint64    // scheduled_lessons.created_by (instructor user id)
	CreatedAt      time.Time // scheduled_lessons.created_at
	UpdatedAt      time.Time // scheduled_lessons.updated_at
}

// NextUpcoming returns the first scheduled lesson from the slice that starts
// at or after now, assuming the slice is ordered by StartsAt ascending.  It
// returns nil when every lesson is in the past.
func NextUpcoming(lessons []ScheduledLesson, now time.Time) *ScheduledLesson {
	for i := range lessons {
		if !lessons[i].StartsAt.Before(now) {
			return &lessons[i]
		}
	}
	return nil
}
