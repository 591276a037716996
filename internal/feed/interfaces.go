package feed

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ourthen/ourthen/pkg/db/models"
)

// Repository defines persistence operations for feed items and pieces.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateFeedItem(ctx context.Context, item *models.FeedItem) (*models.FeedItem, error)
	CreatePiece(ctx context.Context, piece *models.Piece) (*models.Piece, error)
	ListPieces(ctx context.Context, circleID uuid.UUID, limit int) ([]PieceRow, error)
	ListFeedItems(ctx context.Context, circleID uuid.UUID, limit int) ([]models.FeedItem, error)
	ResolvePieceCircle(ctx context.Context, pieceID uuid.UUID) (uuid.UUID, error)
	CountPieces(ctx context.Context, circleID uuid.UUID) (int64, error)
}

// MembershipChecker gates feed surfaces to circle members.
type MembershipChecker interface {
	IsMember(ctx context.Context, userID, circleID uuid.UUID) (bool, error)
}

// PieceRow is a piece joined with its backing feed item.
type PieceRow struct {
	PieceID    uuid.UUID `gorm:"column:piece_id"`
	FeedItemID uuid.UUID `gorm:"column:feed_item_id"`
	CircleID   uuid.UUID `gorm:"column:circle_id"`
	AuthorID   uuid.UUID `gorm:"column:author_id"`
	Body       *string   `gorm:"column:body"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}
