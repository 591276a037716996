package comments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ourthen/ourthen/pkg/db"
	"github.com/ourthen/ourthen/pkg/db/models"
	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
)

const bodyRequiredMessage = "댓글 내용을 입력해 주세요."

// MembershipChecker gates comment surfaces to circle members.
type MembershipChecker interface {
	IsMember(ctx context.Context, userID, circleID uuid.UUID) (bool, error)
}

// PieceResolver reports which circle a piece belongs to.
type PieceResolver interface {
	ResolvePieceCircle(ctx context.Context, pieceID uuid.UUID) (uuid.UUID, error)
}

// CommentDTO is one comment on a piece.
type CommentDTO struct {
	ID        uuid.UUID  `json:"id"`
	PieceID   uuid.UUID  `json:"piece_id"`
	MeetupID  *uuid.UUID `json:"meetup_id,omitempty"`
	AuthorID  uuid.UUID  `json:"author_id"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateCommentInput carries the fields needed to comment on a piece.
type CreateCommentInput struct {
	PieceID  uuid.UUID  `json:"-"`
	MeetupID *uuid.UUID `json:"meetup_id,omitempty"`
	AuthorID uuid.UUID  `json:"-"`
	Body     string     `json:"body"`
}

// Service defines comment operations on pieces.
type Service interface {
	CreateComment(ctx context.Context, input CreateCommentInput) (*CommentDTO, error)
	ListByPiece(ctx context.Context, userID, pieceID uuid.UUID) ([]CommentDTO, error)
}

type service struct {
	repo    Repository
	members MembershipChecker
	pieces  PieceResolver
}

// NewService builds a comment service with the required dependencies.
func NewService(repo Repository, members MembershipChecker, pieces PieceResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("comments repository required")
	}
	if members == nil {
		return nil, fmt.Errorf("membership checker required")
	}
	if pieces == nil {
		return nil, fmt.Errorf("piece resolver required")
	}
	return &service{repo: repo, members: members, pieces: pieces}, nil
}

// CreateComment attaches a comment to a piece, optionally tied to the meetup
// where the piece came up.
func (s *service) CreateComment(ctx context.Context, input CreateCommentInput) (*CommentDTO, error) {
	if input.AuthorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.PieceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "piece id required")
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, bodyRequiredMessage)
	}

	if err := s.requirePieceMember(ctx, input.AuthorID, input.PieceID); err != nil {
		return nil, err
	}

	comment, err := s.repo.Create(ctx, &models.PieceComment{
		PieceID:  input.PieceID,
		MeetupID: input.MeetupID,
		AuthorID: input.AuthorID,
		Body:     body,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create comment")
	}
	return toDTO(comment), nil
}

// ListByPiece returns the piece's comments, oldest first.
func (s *service) ListByPiece(ctx context.Context, userID, pieceID uuid.UUID) ([]CommentDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if pieceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "piece id required")
	}

	if err := s.requirePieceMember(ctx, userID, pieceID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByPiece(ctx, pieceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list comments")
	}
	out := make([]CommentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) requirePieceMember(ctx context.Context, userID, pieceID uuid.UUID) error {
	circleID, err := s.pieces.ResolvePieceCircle(ctx, pieceID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "piece not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve piece circle")
	}

	ok, err := s.members.IsMember(ctx, userID, circleID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this circle")
	}
	return nil
}

func toDTO(c *models.PieceComment) *CommentDTO {
	return &CommentDTO{
		ID:        c.ID,
		PieceID:   c.PieceID,
		MeetupID:  c.MeetupID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}
