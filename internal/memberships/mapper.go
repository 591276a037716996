package memberships

import (
	"github.com/google/uuid"

	"github.com/ourthen/ourthen/pkg/db/models"
)

type membershipWithCircleRow struct {
	models.CircleMember
	CircleName      string    `gorm:"column:circle_name"`
	CircleCreatedBy uuid.UUID `gorm:"column:circle_created_by"`
}

func membershipWithCircleFromRow(row membershipWithCircleRow) MembershipWithCircle {
	return MembershipWithCircle{
		MembershipID:    row.ID,
		CircleID:        row.CircleID,
		UserID:          row.UserID,
		CircleName:      row.CircleName,
		CircleCreatedBy: row.CircleCreatedBy,
		Role:            row.Role,
		JoinedAt:        row.JoinedAt,
	}
}

func membershipRowsToDTO(rows []membershipWithCircleRow) []MembershipWithCircle {
	out := make([]MembershipWithCircle, 0, len(rows))
	for _, row := range rows {
		out = append(out, membershipWithCircleFromRow(row))
	}
	return out
}
