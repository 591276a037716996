package feed

import (
	"time"

	"github.com/google/uuid"

	"github.com/ourthen/ourthen/pkg/enums"
)

// PieceDTO is one memory piece as displayed in the catalog. Body always holds
// display text; pieces saved without content get a positional label.
type PieceDTO struct {
	ID        uuid.UUID `json:"id"`
	CircleID  uuid.UUID `json:"circle_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedItemDTO is one entry in the circle's activity feed.
type FeedItemDTO struct {
	ID        uuid.UUID          `json:"id"`
	CircleID  uuid.UUID          `json:"circle_id"`
	AuthorID  uuid.UUID          `json:"author_id"`
	Type      enums.FeedItemType `json:"type"`
	Body      string             `json:"body"`
	CreatedAt time.Time          `json:"created_at"`
}

// CreatePieceInput carries the fields needed to save a new text piece.
type CreatePieceInput struct {
	CircleID uuid.UUID `json:"-"`
	AuthorID uuid.UUID `json:"-"`
	Body     string    `json:"body"`
}
