package invites

import (
	"time"

	"github.com/google/uuid"

	"github.com/ourthen/ourthen/pkg/db/models"
	"github.com/ourthen/ourthen/pkg/enums"
	"github.com/ourthen/ourthen/pkg/invite"
)

// InviteDTO is the transport shape for a circle invite. Code carries the
// display form with the separator inserted.
type InviteDTO struct {
	CircleID uuid.UUID `json:"circle_id"`
	Code     string    `json:"code"`
	IssuedBy uuid.UUID `json:"issued_by"`
	IssuedAt time.Time `json:"issued_at"`
}

// RedeemResult reports the membership the user holds after redeeming a code,
// whether it was newly created or already existed.
type RedeemResult struct {
	CircleID   uuid.UUID        `json:"circle_id"`
	CircleName string           `json:"circle_name"`
	Role       enums.CircleRole `json:"role"`
	AlreadyIn  bool             `json:"already_in"`
}

// ToDTO converts an invite model to the external DTO, formatting the code for display.
func ToDTO(m *models.CircleInvite) *InviteDTO {
	if m == nil {
		return nil
	}
	return &InviteDTO{
		CircleID: m.CircleID,
		Code:     invite.Format(m.Code),
		IssuedBy: m.IssuedBy,
		IssuedAt: m.IssuedAt,
	}
}
