package meetups

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ourthen/ourthen/pkg/db/models"
)

// Repository defines persistence operations for meetups, mentions and attendance.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateMeetup(ctx context.Context, meetup *models.Meetup) (*models.Meetup, error)
	FindMeetup(ctx context.Context, meetupID uuid.UUID) (*models.Meetup, error)
	ListByCircle(ctx context.Context, circleID uuid.UUID) ([]models.Meetup, error)
	CountByCircle(ctx context.Context, circleID uuid.UUID) (int64, error)

	CreateMention(ctx context.Context, mention *models.PieceMention) error
	ListMentions(ctx context.Context, meetupID uuid.UUID) ([]models.PieceMention, error)

	GetAttendance(ctx context.Context, meetupID, userID uuid.UUID) (*models.MeetupAttendance, error)
	UpsertAttendance(ctx context.Context, meetupID, userID uuid.UUID, isAttending bool, checkedBy uuid.UUID) (*models.MeetupAttendance, error)
	ListAttendance(ctx context.Context, meetupID uuid.UUID) ([]models.MeetupAttendance, error)
}

// MembershipChecker gates meetup surfaces to circle members.
type MembershipChecker interface {
	IsMember(ctx context.Context, userID, circleID uuid.UUID) (bool, error)
}

// PieceResolver reports which circle a piece belongs to.
type PieceResolver interface {
	ResolvePieceCircle(ctx context.Context, pieceID uuid.UUID) (uuid.UUID, error)
}
