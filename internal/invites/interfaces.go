package invites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ourthen/ourthen/pkg/db/models"
	"github.com/ourthen/ourthen/pkg/enums"
)

// Repository defines persistence operations for the circle_invites table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Rotate(ctx context.Context, circleID uuid.UUID, code string, issuedBy uuid.UUID) (*models.CircleInvite, error)
	FindByCircle(ctx context.Context, circleID uuid.UUID) (*models.CircleInvite, error)
	FindByCode(ctx context.Context, code string) (*models.CircleInvite, error)
}

// MembershipStore is the slice of the memberships repository the invite service needs.
type MembershipStore interface {
	UserHasRole(ctx context.Context, userID, circleID uuid.UUID, roles ...enums.CircleRole) (bool, error)
	GetMembership(ctx context.Context, userID, circleID uuid.UUID) (*models.CircleMember, error)
	CreateMembership(ctx context.Context, circleID, userID uuid.UUID, role enums.CircleRole) (*models.CircleMember, error)
}

// CircleLookup resolves circle metadata for redeem responses.
type CircleLookup interface {
	FindByID(ctx context.Context, circleID uuid.UUID) (*models.Circle, error)
}
