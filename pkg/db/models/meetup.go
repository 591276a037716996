package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ourthen/ourthen/pkg/enums"
)

// Meetup is a scheduled gathering within a circle.
type Meetup struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CircleID    uuid.UUID          `gorm:"column:circle_id;type:uuid;not null"`
	HostID      uuid.UUID          `gorm:"column:host_id;type:uuid;not null"`
	Title       string             `gorm:"column:title;not null"`
	Status      enums.MeetupStatus `gorm:"column:status;type:meetup_status;not null;default:'planned'"`
	ScheduledAt *time.Time         `gorm:"column:scheduled_at"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
}
