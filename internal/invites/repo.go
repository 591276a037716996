package invites

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

// Rotate replaces the circle's invite code in place. Each circle keeps exactly one
// active invite; issuing again overwrites the previous code.
func (r *repository) Rotate(ctx context.Context, circleID uuid.UUID, code string, issuedBy uuid.UUID) (*models.CircleInvite, error) {
	var invite models.CircleInvite
	err := r.db.WithContext(ctx).
		Raw(`INSERT INTO circle_invites (circle_id, code, issued_by, issued_at)
		     VALUES (?, ?, ?, now())
		     ON CONFLICT (circle_id) DO UPDATE
		       SET code = EXCLUDED.code, issued_by = EXCLUDED.issued_by, issued_at = EXCLUDED.issued_at
		     RETURNING id, circle_id, code, issued_by, issued_at`,
			circleID, code, issuedBy).
		Scan(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *repository) FindByCircle(ctx context.Context, circleID uuid.UUID) (*models.CircleInvite, error) {
	var invite models.CircleInvite
	err := r.db.WithContext(ctx).
		Where("circle_id = ?", circleID).
		First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.CircleInvite, error) {
	var invite models.CircleInvite
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}
