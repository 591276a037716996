package memberships

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ourthen/ourthen/pkg/db/models"
	"github.com/ourthen/ourthen/pkg/enums"
)

// Repository exposes membership persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListUserCircles returns the circles a user belongs to along with membership metadata.
func (r *Repository) ListUserCircles(ctx context.Context, userID uuid.UUID) ([]MembershipWithCircle, error) {
	var rows []membershipWithCircleRow

	err := r.db.WithContext(ctx).
		Model(&models.CircleMember{}).
		Select("circle_members.*, circles.name AS circle_name, circles.created_by AS circle_created_by").
		Joins("JOIN circles ON circles.id = circle_members.circle_id").
		Where("circle_members.user_id = ?", userID).
		Order("circle_members.joined_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return membershipRowsToDTO(rows), nil
}

// GetMembership retrieves a membership by user and circle.
func (r *Repository) GetMembership(ctx context.Context, userID, circleID uuid.UUID) (*models.CircleMember, error) {
	var membership models.CircleMember
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND circle_id = ?", userID, circleID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// CreateMembership persists a new membership record.
func (r *Repository) CreateMembership(ctx context.Context, circleID, userID uuid.UUID, role enums.CircleRole) (*models.CircleMember, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid circle role %q", role)
	}

	membership := &models.CircleMember{
		CircleID: circleID,
		UserID:   userID,
		Role:     role,
	}

	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// UserHasRole reports whether the user holds one of the provided roles for the circle.
func (r *Repository) UserHasRole(ctx context.Context, userID, circleID uuid.UUID, roles ...enums.CircleRole) (bool, error) {
	if len(roles) == 0 {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CircleMember{}).
		Where("user_id = ? AND circle_id = ? AND role IN ?", userID, circleID, roles).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsMember reports whether the user belongs to the circle at all.
func (r *Repository) IsMember(ctx context.Context, userID, circleID uuid.UUID) (bool, error) {
	return r.UserHasRole(ctx, userID, circleID, enums.CircleRoleAdmin, enums.CircleRoleMember)
}

// ListCircleMembers returns the memberships of a circle ordered admin-first, oldest join first.
func (r *Repository) ListCircleMembers(ctx context.Context, circleID uuid.UUID) ([]models.CircleMember, error) {
	var rows []models.CircleMember
	err := r.db.WithContext(ctx).
		Where("circle_id = ?", circleID).
		Order("role ASC, joined_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountCircleMembers returns the member count for a circle.
func (r *Repository) CountCircleMembers(ctx context.Context, circleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CircleMember{}).
		Where("circle_id = ?", circleID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
