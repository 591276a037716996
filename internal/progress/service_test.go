package progress

import (
	"context"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
	"github.com/ourthen/ourthen/pkg/puzzle"
)

type stubCounts struct {
	pieces  int64
	meetups int64
}

func (s stubCounts) CountPieces(ctx context.Context, circleID uuid.UUID) (int64, error) {
	return s.pieces, nil
}

func (s stubCounts) CountByCircle(ctx context.Context, circleID uuid.UUID) (int64, error) {
	return s.meetups, nil
}

type allowAll struct{}

func (allowAll) IsMember(ctx context.Context, userID, circleID uuid.UUID) (bool, error) {
	return true, nil
}

type denyAll struct{}

func (denyAll) IsMember(ctx context.Context, userID, circleID uuid.UUID) (bool, error) {
	return false, nil
}

func TestGetPuzzleDerivesStageFromCounts(t *testing.T) {
	cases := []struct {
		name    string
		pieces  int64
		meetups int64
		score   float64
		stage   puzzle.Stage
	}{
		{name: "fresh circle floors at one", pieces: 0, meetups: 0, score: 1, stage: 1},
		{name: "two pieces one meetup", pieces: 2, meetups: 1, score: 32, stage: 4},
		{name: "active circle caps at hundred", pieces: 10, meetups: 5, score: 100, stage: 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, err := NewService(stubCounts{pieces: tc.pieces, meetups: tc.meetups}, stubCounts{pieces: tc.pieces, meetups: tc.meetups}, allowAll{})
			if err != nil {
				t.Fatalf("new service: %v", err)
			}

			dto, err := svc.GetPuzzle(context.Background(), uuid.New(), uuid.New())
			if err != nil {
				t.Fatalf("get puzzle: %v", err)
			}
			if dto.Score != tc.score {
				t.Fatalf("expected score %v, got %v", tc.score, dto.Score)
			}
			if dto.Stage != tc.stage {
				t.Fatalf("expected stage %d, got %d", tc.stage, dto.Stage)
			}
		})
	}
}

func TestGetPuzzleGatedToMembers(t *testing.T) {
	svc, err := NewService(stubCounts{}, stubCounts{}, denyAll{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.GetPuzzle(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
