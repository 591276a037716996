package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/ourthen/ourthen/pkg/db/models"
	"github.com/ourthen/ourthen/pkg/enums"
)

// MembershipDTO is the transport shape for a raw membership record.
type MembershipDTO struct {
	ID       uuid.UUID        `json:"id"`
	CircleID uuid.UUID        `json:"circle_id"`
	UserID   uuid.UUID        `json:"user_id"`
	Role     enums.CircleRole `json:"role"`
	JoinedAt time.Time        `json:"joined_at"`
}

// MembershipWithCircle includes basic circle metadata + membership info.
type MembershipWithCircle struct {
	MembershipID    uuid.UUID        `json:"membership_id"`
	CircleID        uuid.UUID        `json:"circle_id"`
	UserID          uuid.UUID        `json:"user_id"`
	CircleName      string           `json:"circle_name"`
	CircleCreatedBy uuid.UUID        `json:"circle_created_by"`
	Role            enums.CircleRole `json:"role"`
	JoinedAt        time.Time        `json:"joined_at"`
}

// ToDTO converts a model to the external DTO.
func ToDTO(m *models.CircleMember) *MembershipDTO {
	if m == nil {
		return nil
	}

	return &MembershipDTO{
		ID:       m.ID,
		CircleID: m.CircleID,
		UserID:   m.UserID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
}
