package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ourthen/ourthen/pkg/db/models"
	"github.com/ourthen/ourthen/pkg/enums"
	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
)

const (
	bodyRequiredMessage = "조각 내용을 입력해 주세요."

	// the catalog and the feed both show a fixed window of recent entries
	listWindow = 30

	fallbackLabelFormat = "기억 조각 %d"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines piece catalog and activity feed operations.
type Service interface {
	CreateTextPiece(ctx context.Context, input CreatePieceInput) (*PieceDTO, error)
	ListPieces(ctx context.Context, userID, circleID uuid.UUID) ([]PieceDTO, error)
	ListFeedItems(ctx context.Context, userID, circleID uuid.UUID) ([]FeedItemDTO, error)
}

type service struct {
	repo    Repository
	members MembershipChecker
	tx      txRunner
}

// NewService builds a feed service with the required dependencies.
func NewService(repo Repository, members MembershipChecker, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("feed repository required")
	}
	if members == nil {
		return nil, fmt.Errorf("membership checker required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, members: members, tx: tx}, nil
}

// CreateTextPiece saves a memory piece. The feed item carrying the text and
// the piece row pointing at it land in one transaction.
func (s *service) CreateTextPiece(ctx context.Context, input CreatePieceInput) (*PieceDTO, error) {
	if input.AuthorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.CircleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "circle id required")
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, bodyRequiredMessage)
	}

	if err := s.requireMember(ctx, input.AuthorID, input.CircleID); err != nil {
		return nil, err
	}

	var dto *PieceDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.CreateFeedItem(ctx, &models.FeedItem{
			CircleID: input.CircleID,
			AuthorID: input.AuthorID,
			Type:     enums.FeedItemTypeText,
			Body:     &body,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create feed item")
		}

		piece, err := repo.CreatePiece(ctx, &models.Piece{FeedItemID: item.ID})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create piece")
		}

		dto = &PieceDTO{
			ID:        piece.ID,
			CircleID:  item.CircleID,
			AuthorID:  item.AuthorID,
			Body:      body,
			CreatedAt: item.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// ListPieces returns the circle's newest pieces. Pieces whose feed item carries
// no text are shown with a positional fallback label instead of being dropped.
func (s *service) ListPieces(ctx context.Context, userID, circleID uuid.UUID) ([]PieceDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if circleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "circle id required")
	}
	if err := s.requireMember(ctx, userID, circleID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListPieces(ctx, circleID, listWindow)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pieces")
	}

	out := make([]PieceDTO, 0, len(rows))
	for i, row := range rows {
		body := ""
		if row.Body != nil {
			body = strings.TrimSpace(*row.Body)
		}
		if body == "" {
			body = fmt.Sprintf(fallbackLabelFormat, i+1)
		}
		out = append(out, PieceDTO{
			ID:        row.PieceID,
			CircleID:  row.CircleID,
			AuthorID:  row.AuthorID,
			Body:      body,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

// ListFeedItems returns the circle's newest feed entries. Entries without
// display text are dropped rather than labeled.
func (s *service) ListFeedItems(ctx context.Context, userID, circleID uuid.UUID) ([]FeedItemDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if circleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "circle id required")
	}
	if err := s.requireMember(ctx, userID, circleID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListFeedItems(ctx, circleID, listWindow)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list feed items")
	}

	out := make([]FeedItemDTO, 0, len(rows))
	for _, row := range rows {
		if row.Body == nil || strings.TrimSpace(*row.Body) == "" {
			continue
		}
		out = append(out, FeedItemDTO{
			ID:        row.ID,
			CircleID:  row.CircleID,
			AuthorID:  row.AuthorID,
			Type:      row.Type,
			Body:      strings.TrimSpace(*row.Body),
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
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
