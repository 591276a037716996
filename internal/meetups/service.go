package meetups

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ourthen/ourthen/pkg/db"
	"github.com/ourthen/ourthen/pkg/db/models"
	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
	"github.com/ourthen/ourthen/pkg/metrics"
)

const (
	titleRequiredMessage    = "모임 제목을 입력해 주세요."
	scheduleRequiredMessage = "모임 날짜와 시간을 입력해 주세요."
	scheduleFormatMessage   = "모임 날짜 형식이 올바르지 않아요."
)

// Service defines meetup planning, mention and attendance operations.
type Service interface {
	CreateMeetup(ctx context.Context, input CreateMeetupInput) (*MeetupDTO, error)
	ListByCircle(ctx context.Context, userID, circleID uuid.UUID) ([]MeetupDTO, error)

	RecordMention(ctx context.Context, userID, meetupID, pieceID uuid.UUID) error
	ListMentions(ctx context.Context, userID, meetupID uuid.UUID) ([]MentionDTO, error)

	GetAttendance(ctx context.Context, userID, meetupID uuid.UUID) (*AttendanceDTO, error)
	SetAttendance(ctx context.Context, userID, meetupID uuid.UUID, isAttending bool) (*AttendanceDTO, error)
	ListAttendance(ctx context.Context, userID, meetupID uuid.UUID) ([]AttendanceDTO, error)
}

type service struct {
	repo    Repository
	members MembershipChecker
	pieces  PieceResolver
	actions *metrics.ActionMetrics
}

// NewService builds a meetup service with the required dependencies.
func NewService(repo Repository, members MembershipChecker, pieces PieceResolver, actions *metrics.ActionMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("meetups repository required")
	}
	if members == nil {
		return nil, fmt.Errorf("membership checker required")
	}
	if pieces == nil {
		return nil, fmt.Errorf("piece resolver required")
	}
	return &service{repo: repo, members: members, pieces: pieces, actions: actions}, nil
}

// CreateMeetup plans a meetup inside a circle the host belongs to.
func (s *service) CreateMeetup(ctx context.Context, input CreateMeetupInput) (*MeetupDTO, error) {
	if input.HostID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.CircleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "circle id required")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, titleRequiredMessage)
	}
	if strings.TrimSpace(input.ScheduledAt) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, scheduleRequiredMessage)
	}
	scheduledAt, err := time.Parse(time.RFC3339, strings.TrimSpace(input.ScheduledAt))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, scheduleFormatMessage)
	}

	if err := s.requireMember(ctx, input.HostID, input.CircleID); err != nil {
		return nil, err
	}

	meetup, err := s.repo.CreateMeetup(ctx, &models.Meetup{
		CircleID:    input.CircleID,
		HostID:      input.HostID,
		Title:       title,
		ScheduledAt: &scheduledAt,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create meetup")
	}
	return ToDTO(meetup), nil
}

// ListByCircle returns the circle's meetups, soonest first.
func (s *service) ListByCircle(ctx context.Context, userID, circleID uuid.UUID) ([]MeetupDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if circleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "circle id required")
	}
	if err := s.requireMember(ctx, userID, circleID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByCircle(ctx, circleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list meetups")
	}
	out := make([]MeetupDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *ToDTO(&rows[i]))
	}
	return out, nil
}

// RecordMention marks a piece as brought up during a meetup. Recording the same
// piece twice is a silent no-op; the first row wins.
func (s *service) RecordMention(ctx context.Context, userID, meetupID, pieceID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if meetupID == uuid.Nil || pieceID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "meetup id and piece id required")
	}

	meetup, err := s.loadMeetup(ctx, meetupID)
	if err != nil {
		return err
	}
	if err := s.requireMember(ctx, userID, meetup.CircleID); err != nil {
		return err
	}

	pieceCircle, err := s.pieces.ResolvePieceCircle(ctx, pieceID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "piece not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve piece circle")
	}
	if pieceCircle != meetup.CircleID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "piece belongs to another circle")
	}

	err = s.repo.CreateMention(ctx, &models.PieceMention{
		MeetupID: meetupID,
		PieceID:  pieceID,
		UserID:   userID,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "piece_mentions_meetup_piece_key") {
			s.actions.IncMentionDuplicate()
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record mention")
	}
	return nil
}

// ListMentions returns the pieces mentioned during a meetup, oldest first.
func (s *service) ListMentions(ctx context.Context, userID, meetupID uuid.UUID) ([]MentionDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	meetup, err := s.loadMeetup(ctx, meetupID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, userID, meetup.CircleID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListMentions(ctx, meetupID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list mentions")
	}
	out := make([]MentionDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, mentionToDTO(row))
	}
	return out, nil
}

// GetAttendance returns the user's own answer for the meetup, or nil when the
// user has not answered yet.
func (s *service) GetAttendance(ctx context.Context, userID, meetupID uuid.UUID) (*AttendanceDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	meetup, err := s.loadMeetup(ctx, meetupID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, userID, meetup.CircleID); err != nil {
		return nil, err
	}

	row, err := s.repo.GetAttendance(ctx, meetupID, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load attendance")
	}
	dto := attendanceToDTO(*row)
	return &dto, nil
}

// SetAttendance records or overwrites the user's answer. Last write wins.
func (s *service) SetAttendance(ctx context.Context, userID, meetupID uuid.UUID, isAttending bool) (*AttendanceDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	meetup, err := s.loadMeetup(ctx, meetupID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, userID, meetup.CircleID); err != nil {
		return nil, err
	}

	row, err := s.repo.UpsertAttendance(ctx, meetupID, userID, isAttending, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert attendance")
	}
	s.actions.IncAttendanceUpsert()
	dto := attendanceToDTO(*row)
	return &dto, nil
}

// ListAttendance returns everyone's answers for the meetup.
func (s *service) ListAttendance(ctx context.Context, userID, meetupID uuid.UUID) ([]AttendanceDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	meetup, err := s.loadMeetup(ctx, meetupID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, userID, meetup.CircleID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListAttendance(ctx, meetupID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list attendance")
	}
	out := make([]AttendanceDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, attendanceToDTO(row))
	}
	return out, nil
}

func (s *service) loadMeetup(ctx context.Context, meetupID uuid.UUID) (*models.Meetup, error) {
	if meetupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "meetup id required")
	}
	meetup, err := s.repo.FindMeetup(ctx, meetupID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "meetup not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load meetup")
	}
	return meetup, nil
}

func (s *service) requireMember(ctx context.Context, userID, circleID uuid.UUID) error {
	ok, err := s.members.IsMember(ctx, userID, circleID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this circle")
	}
	return nil
}
