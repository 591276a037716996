package models

import (
	"time"

	"github.com/google/uuid"
)

// CircleInvite is the single current invite code for a circle. circle_id is
// unique, so rotation replaces the row in place; code is unique globally so
// redemption can resolve the circle from the code alone.
type CircleInvite struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CircleID uuid.UUID `gorm:"column:circle_id;type:uuid;not null;uniqueIndex:circle_invites_circle_id_key"`
	Code     string    `gorm:"column:code;not null;uniqueIndex:circle_invites_code_key"`
	IssuedBy uuid.UUID `gorm:"column:issued_by;type:uuid;not null"`
	IssuedAt time.Time `gorm:"column:issued_at;autoCreateTime"`
}
