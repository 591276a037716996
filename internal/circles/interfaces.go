package circles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ourthen/ourthen/internal/memberships"
	"github.com/ourthen/ourthen/pkg/db/models"
	"github.com/ourthen/ourthen/pkg/enums"
)

// Repository defines persistence operations for the circles table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, circle *models.Circle) (*models.Circle, error)
	FindByID(ctx context.Context, circleID uuid.UUID) (*models.Circle, error)
}

// MembershipStore is the slice of the memberships repository the circle service needs.
type MembershipStore interface {
	WithTx(tx *gorm.DB) MembershipStore
	ListUserCircles(ctx context.Context, userID uuid.UUID) ([]memberships.MembershipWithCircle, error)
	CreateMembership(ctx context.Context, circleID, userID uuid.UUID, role enums.CircleRole) (*models.CircleMember, error)
	IsMember(ctx context.Context, userID, circleID uuid.UUID) (bool, error)
	ListCircleMembers(ctx context.Context, circleID uuid.UUID) ([]models.CircleMember, error)
}

type membershipStoreAdapter struct {
	repo *memberships.Repository
}

// NewMembershipStore adapts the concrete memberships repository to the MembershipStore interface.
func NewMembershipStore(repo *memberships.Repository) MembershipStore {
	return membershipStoreAdapter{repo: repo}
}

func (a membershipStoreAdapter) WithTx(tx *gorm.DB) MembershipStore {
	return membershipStoreAdapter{repo: a.repo.WithTx(tx)}
}

func (a membershipStoreAdapter) ListUserCircles(ctx context.Context, userID uuid.UUID) ([]memberships.MembershipWithCircle, error) {
	return a.repo.ListUserCircles(ctx, userID)
}

func (a membershipStoreAdapter) CreateMembership(ctx context.Context, circleID, userID uuid.UUID, role enums.CircleRole) (*models.CircleMember, error) {
	return a.repo.CreateMembership(ctx, circleID, userID, role)
}

func (a membershipStoreAdapter) IsMember(ctx context.Context, userID, circleID uuid.UUID) (bool, error) {
	return a.repo.IsMember(ctx, userID, circleID)
}

func (a membershipStoreAdapter) ListCircleMembers(ctx context.Context, circleID uuid.UUID) ([]models.CircleMember, error) {
	return a.repo.ListCircleMembers(ctx, circleID)
}
