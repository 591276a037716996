package feed

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ourthen/ourthen/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) CreateFeedItem(ctx context.Context, item *models.FeedItem) (*models.FeedItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) CreatePiece(ctx context.Context, piece *models.Piece) (*models.Piece, error) {
	if err := r.db.WithContext(ctx).Create(piece).Error; err != nil {
		return nil, err
	}
	return piece, nil
}

func (r *repository) ListPieces(ctx context.Context, circleID uuid.UUID, limit int) ([]PieceRow, error) {
	var rows []PieceRow
	err := r.db.WithContext(ctx).
		Model(&models.Piece{}).
		Select("pieces.id AS piece_id, feed_items.id AS feed_item_id, feed_items.circle_id, feed_items.author_id, feed_items.body, feed_items.created_at").
		Joins("JOIN feed_items ON feed_items.id = pieces.feed_item_id").
		Where("feed_items.circle_id = ?", circleID).
		Order("feed_items.created_at DESC, pieces.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListFeedItems(ctx context.Context, circleID uuid.UUID, limit int) ([]models.FeedItem, error) {
	var rows []models.FeedItem
	err := r.db.WithContext(ctx).
		Where("circle_id = ?", circleID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ResolvePieceCircle(ctx context.Context, pieceID uuid.UUID) (uuid.UUID, error) {
	var circleID uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Piece{}).
		Select("feed_items.circle_id").
		Joins("JOIN feed_items ON feed_items.id = pieces.feed_item_id").
		Where("pieces.id = ?", pieceID).
		First(&circleID).Error
	if err != nil {
		return uuid.Nil, err
	}
	return circleID, nil
}

func (r *repository) CountPieces(ctx context.Context, circleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Piece{}).
		Joins("JOIN feed_items ON feed_items.id = pieces.feed_item_id").
		Where("feed_items.circle_id = ?", circleID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
