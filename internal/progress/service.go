package progress

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
	"github.com/ourthen/ourthen/pkg/puzzle"
)

// PieceCounter reports how many pieces a circle has collected.
type PieceCounter interface {
	CountPieces(ctx context.Context, circleID uuid.UUID) (int64, error)
}

// MeetupCounter reports how many meetups a circle has planned.
type MeetupCounter interface {
	CountByCircle(ctx context.Context, circleID uuid.UUID) (int64, error)
}

// MembershipChecker gates progress surfaces to circle members.
type MembershipChecker interface {
	IsMember(ctx context.Context, userID, circleID uuid.UUID) (bool, error)
}

// PuzzleDTO is the circle's puzzle progress snapshot.
type PuzzleDTO struct {
	CircleID    uuid.UUID    `json:"circle_id"`
	Score       float64      `json:"score"`
	Stage       puzzle.Stage `json:"stage"`
	PieceCount  int64        `json:"piece_count"`
	MeetupCount int64        `json:"meetup_count"`
}

// Service computes puzzle progress for circles.
type Service interface {
	GetPuzzle(ctx context.Context, userID, circleID uuid.UUID) (*PuzzleDTO, error)
}

type service struct {
	pieces  PieceCounter
	meetups MeetupCounter
	members MembershipChecker
}

// NewService builds a progress service with the required dependencies.
func NewService(pieces PieceCounter, meetups MeetupCounter, members MembershipChecker) (Service, error) {
	if pieces == nil {
		return nil, fmt.Errorf("piece counter required")
	}
	if meetups == nil {
		return nil, fmt.Errorf("meetup counter required")
	}
	if members == nil {
		return nil, fmt.Errorf("membership checker required")
	}
	return &service{pieces: pieces, meetups: meetups, members: members}, nil
}

// GetPuzzle derives the circle's puzzle stage from its activity counts.
func (s *service) GetPuzzle(ctx context.Context, userID, circleID uuid.UUID) (*PuzzleDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if circleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "circle id required")
	}

	ok, err := s.members.IsMember(ctx, userID, circleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this circle")
	}

	pieceCount, err := s.pieces.CountPieces(ctx, circleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pieces")
	}
	meetupCount, err := s.meetups.CountByCircle(ctx, circleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count meetups")
	}

	score := puzzle.ScoreFrom(int(pieceCount), int(meetupCount))
	return &PuzzleDTO{
		CircleID:    circleID,
		Score:       score,
		Stage:       puzzle.StageOf(score),
		PieceCount:  pieceCount,
		MeetupCount: meetupCount,
	}, nil
}
