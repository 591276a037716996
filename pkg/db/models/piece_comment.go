package models

import (
	"time"

	"github.com/google/uuid"
)

// PieceComment is a free-standing annotation on a piece, optionally tied to
// the meetup where it was written.
type PieceComment struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PieceID   uuid.UUID  `gorm:"column:piece_id;type:uuid;not null"`
	MeetupID  *uuid.UUID `gorm:"column:meetup_id;type:uuid"`
	AuthorID  uuid.UUID  `gorm:"column:author_id;type:uuid;not null"`
	Body      string     `gorm:"column:body;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
