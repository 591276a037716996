package circles

import (
	"time"

	"github.com/google/uuid"

	"github.com/ourthen/ourthen/pkg/db/models"
	"github.com/ourthen/ourthen/pkg/enums"
)

// CircleDTO is the transport shape for a circle record.
type CircleDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// CircleSummary is a circle as seen from one user's membership.
type CircleSummary struct {
	CircleID   uuid.UUID        `json:"circle_id"`
	CircleName string           `json:"circle_name"`
	Role       enums.CircleRole `json:"role"`
	JoinedAt   time.Time        `json:"joined_at"`
}

// MemberDTO is one entry in a circle's member roster.
type MemberDTO struct {
	UserID   uuid.UUID        `json:"user_id"`
	Role     enums.CircleRole `json:"role"`
	JoinedAt time.Time        `json:"joined_at"`
	IsSelf   bool             `json:"is_self"`
}

// CreateCircleInput carries the fields needed to open a new circle.
type CreateCircleInput struct {
	Name      string    `json:"name"`
	CreatorID uuid.UUID `json:"-"`
}

// ToDTO converts a circle model to the external DTO.
func ToDTO(c *models.Circle) *CircleDTO {
	if c == nil {
		return nil
	}
	return &CircleDTO{
		ID:        c.ID,
		Name:      c.Name,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt,
	}
}
