package models

import (
	"time"

	"github.com/google/uuid"
)

// MeetupAttendance is a user's yes/no response for a meetup. One row per
// (meetup_id, user_id); resubmission overwrites. CheckedBy records who
// performed the write (today always the user themselves).
type MeetupAttendance struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MeetupID    uuid.UUID `gorm:"column:meetup_id;type:uuid;not null;uniqueIndex:meetup_attendance_meetup_user_key"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:meetup_attendance_meetup_user_key"`
	IsAttending bool      `gorm:"column:is_attending;not null"`
	CheckedBy   uuid.UUID `gorm:"column:checked_by;type:uuid;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
