package models

import (
	"time"

	"github.com/google/uuid"
)

// Piece gives a feed item its display identity. Created in the same
// transaction as its feed item; feed_item_id is unique.
type Piece struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FeedItemID uuid.UUID `gorm:"column:feed_item_id;type:uuid;not null;uniqueIndex:pieces_feed_item_id_key"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
