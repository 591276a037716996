package circles

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

func (r *repository) Create(ctx context.Context, circle *models.Circle) (*models.Circle, error) {
	if err := r.db.WithContext(ctx).Create(circle).Error; err != nil {
		return nil, err
	}
	return circle, nil
}

func (r *repository) FindByID(ctx context.Context, circleID uuid.UUID) (*models.Circle, error) {
	var circle models.Circle
	err := r.db.WithContext(ctx).
		Where("id = ?", circleID).
		First(&circle).Error
	if err != nil {
		return nil, err
	}
	return &circle, nil
}
