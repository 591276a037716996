package circles

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

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines circle-level operations.
type Service interface {
	CreateCircle(ctx context.Context, input CreateCircleInput) (*CircleDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]CircleSummary, error)
	GetCircle(ctx context.Context, userID, circleID uuid.UUID) (*CircleDTO, error)
	ListMembers(ctx context.Context, userID, circleID uuid.UUID) ([]MemberDTO, error)
}

type service struct {
	repo    Repository
	members MembershipStore
	tx      txRunner
}

// NewService builds a circle service with the required dependencies.
func NewService(repo Repository, members MembershipStore, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("circles repository required")
	}
	if members == nil {
		return nil, fmt.Errorf("membership store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, members: members, tx: tx}, nil
}

// CreateCircle opens a new circle and enrolls the creator as its admin in one transaction.
func (s *service) CreateCircle(ctx context.Context, input CreateCircleInput) (*CircleDTO, error) {
	if input.CreatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "모임 이름을 입력해 주세요.")
	}

	var dto *CircleDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		circle, err := s.repo.WithTx(tx).Create(ctx, &models.Circle{
			Name:      name,
			CreatedBy: input.CreatorID,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create circle")
		}
		if _, err := s.members.WithTx(tx).CreateMembership(ctx, circle.ID, input.CreatorID, enums.CircleRoleAdmin); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "enroll creator as admin")
		}
		dto = ToDTO(circle)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// ListMine returns the circles the user belongs to.
func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]CircleSummary, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	rows, err := s.members.ListUserCircles(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user circles")
	}

	out := make([]CircleSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, CircleSummary{
			CircleID:   row.CircleID,
			CircleName: row.CircleName,
			Role:       row.Role,
			JoinedAt:   row.JoinedAt,
		})
	}
	return out, nil
}

// GetCircle returns circle metadata when the requester is a member.
func (s *service) GetCircle(ctx context.Context, userID, circleID uuid.UUID) (*CircleDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if circleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "circle id required")
	}

	if err := s.requireMember(ctx, userID, circleID); err != nil {
		return nil, err
	}

	circle, err := s.repo.FindByID(ctx, circleID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "circle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load circle")
	}
	return ToDTO(circle), nil
}

// ListMembers returns the circle roster. The requester is listed first, then admins,
// then members, oldest join first.
func (s *service) ListMembers(ctx context.Context, userID, circleID uuid.UUID) ([]MemberDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if circleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "circle id required")
	}

	if err := s.requireMember(ctx, userID, circleID); err != nil {
		return nil, err
	}

	rows, err := s.members.ListCircleMembers(ctx, circleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list circle members")
	}

	out := make([]MemberDTO, 0, len(rows))
	var self *MemberDTO
	for _, row := range rows {
		dto := MemberDTO{
			UserID:   row.UserID,
			Role:     row.Role,
			JoinedAt: row.JoinedAt,
			IsSelf:   row.UserID == userID,
		}
		if dto.IsSelf {
			selfCopy := dto
			self = &selfCopy
			continue
		}
		out = append(out, dto)
	}
	if self != nil {
		out = append([]MemberDTO{*self}, out...)
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
