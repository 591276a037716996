package meetups

import (
	"time"

	"github.com/google/uuid"

	"github.com/ourthen/ourthen/pkg/db/models"
	"github.com/ourthen/ourthen/pkg/enums"
)

// MeetupDTO is the transport shape for a meetup record.
type MeetupDTO struct {
	ID          uuid.UUID          `json:"id"`
	CircleID    uuid.UUID          `json:"circle_id"`
	HostID      uuid.UUID          `json:"host_id"`
	Title       string             `json:"title"`
	Status      enums.MeetupStatus `json:"status"`
	ScheduledAt *time.Time         `json:"scheduled_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// MentionDTO records that a piece came up during a meetup.
type MentionDTO struct {
	PieceID   uuid.UUID `json:"piece_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AttendanceDTO is one member's attendance answer for a meetup.
type AttendanceDTO struct {
	UserID      uuid.UUID `json:"user_id"`
	IsAttending bool      `json:"is_attending"`
	CheckedBy   uuid.UUID `json:"checked_by"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateMeetupInput carries the fields needed to plan a meetup.
type CreateMeetupInput struct {
	CircleID    uuid.UUID `json:"-"`
	HostID      uuid.UUID `json:"-"`
	Title       string    `json:"title"`
	ScheduledAt string    `json:"scheduled_at"`
}

// ToDTO converts a meetup model to the external DTO.
func ToDTO(m *models.Meetup) *MeetupDTO {
	if m == nil {
		return nil
	}
	return &MeetupDTO{
		ID:          m.ID,
		CircleID:    m.CircleID,
		HostID:      m.HostID,
		Title:       m.Title,
		Status:      m.Status,
		ScheduledAt: m.ScheduledAt,
		CreatedAt:   m.CreatedAt,
	}
}

func mentionToDTO(m models.PieceMention) MentionDTO {
	return MentionDTO{
		PieceID:   m.PieceID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}
}

func attendanceToDTO(a models.MeetupAttendance) AttendanceDTO {
	return AttendanceDTO{
		UserID:      a.UserID,
		IsAttending: a.IsAttending,
		CheckedBy:   a.CheckedBy,
		UpdatedAt:   a.UpdatedAt,
	}
}
