package comments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ourthen/ourthen/pkg/db/models"
)

// Repository defines persistence operations for piece comments.
type Repository interface {
	Create(ctx context.Context, comment *models.PieceComment) (*models.PieceComment, error)
	ListByPiece(ctx context.Context, pieceID uuid.UUID) ([]models.PieceComment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, comment *models.PieceComment) (*models.PieceComment, error) {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *repository) ListByPiece(ctx context.Context, pieceID uuid.UUID) ([]models.PieceComment, error) {
	var rows []models.PieceComment
	err := r.db.WithContext(ctx).
		Where("piece_id = ?", pieceID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
