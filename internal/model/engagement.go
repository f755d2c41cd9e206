package model

import "time"

// Engagement is one logged conversation a student had about the programme.
// Students create these from their dashboard; the count feeds the reward
// tier computation.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – student who logged the conversation.
//  ContactName – who the conversation was with.
//  Notes       – free-form notes about the conversation.
//  EngagedAt   – when the conversation happened.
//  CreatedAt   – row creation timestamp.
type Engagement struct {
	ID          uint64    // engagements.id
	UserID      uint64    // engagements.user_id
	ContactName string    // engagements.contact_name
	Notes       string    // engagements.notes
	EngagedAt   time.Time // engagements.engaged_at
	CreatedAt   time.Time // engagements.created_at
}
