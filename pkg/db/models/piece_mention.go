package models

import (
	"time"

	"github.com/google/uuid"
)

// PieceMention records that a piece was referenced during a meetup.
// (meetup_id, piece_id) is unique; the insert path treats a violation of
// that constraint as success.
type PieceMention struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MeetupID  uuid.UUID `gorm:"column:meetup_id;type:uuid;not null;uniqueIndex:piece_mentions_meetup_piece_key"`
	PieceID   uuid.UUID `gorm:"column:piece_id;type:uuid;not null;uniqueIndex:piece_mentions_meetup_piece_key"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
