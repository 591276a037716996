package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ourthen/ourthen/pkg/enums"
)

// FeedItem is the stored content a piece is derived from.
type FeedItem struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CircleID  uuid.UUID          `gorm:"column:circle_id;type:uuid;not null"`
	AuthorID  uuid.UUID          `gorm:"column:author_id;type:uuid;not null"`
	Type      enums.FeedItemType `gorm:"column:type;type:feed_item_type;not null"`
	Body      *string            `gorm:"column:body"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
}
