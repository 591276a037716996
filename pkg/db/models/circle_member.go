package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ourthen/ourthen/pkg/enums"
)

// CircleMember links a user with a circle and captures their role there.
// (circle_id, user_id) is unique.
type CircleMember struct {
	ID       uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CircleID uuid.UUID        `gorm:"column:circle_id;type:uuid;not null"`
	UserID   uuid.UUID        `gorm:"column:user_id;type:uuid;not null"`
	Role     enums.CircleRole `gorm:"column:role;type:circle_role;not null"`
	JoinedAt time.Time        `gorm:"column:joined_at;autoCreateTime"`
}
