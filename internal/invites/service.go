package invites

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ourthen/ourthen/pkg/db"
	"github.com/ourthen/ourthen/pkg/db/models"
	"github.com/ourthen/ourthen/pkg/enums"
	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
	"github.com/ourthen/ourthen/pkg/invite"
	"github.com/ourthen/ourthen/pkg/metrics"
)

const (
	invalidCodeMessage = "유효한 초대 코드가 아니에요."
	adminOnlyMessage   = "관리자만 초대 코드를 만들 수 있어요."

	// generated codes can collide with another circle's invite; retry a few times
	rotateAttempts = 3
)

// Service defines invite issuance and redemption operations.
type Service interface {
	FetchLatest(ctx context.Context, userID, circleID uuid.UUID) (*InviteDTO, error)
	Issue(ctx context.Context, userID, circleID uuid.UUID) (*InviteDTO, error)
	Redeem(ctx context.Context, userID uuid.UUID, rawCode string) (*RedeemResult, error)
}

type service struct {
	repo    Repository
	members MembershipStore
	circles CircleLookup
	actions *metrics.ActionMetrics
}

// NewService builds an invite service with the required dependencies.
func NewService(repo Repository, members MembershipStore, circles CircleLookup, actions *metrics.ActionMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invites repository required")
	}
	if members == nil {
		return nil, fmt.Errorf("membership store required")
	}
	if circles == nil {
		return nil, fmt.Errorf("circle lookup required")
	}
	return &service{repo: repo, members: members, circles: circles, actions: actions}, nil
}

// FetchLatest returns the circle's current invite for admins. Non-admins get
// nil without an error so the caller can hide the invite surface entirely.
func (s *service) FetchLatest(ctx context.Context, userID, circleID uuid.UUID) (*InviteDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if circleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "circle id required")
	}

	isAdmin, err := s.members.UserHasRole(ctx, userID, circleID, enums.CircleRoleAdmin)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check admin role")
	}
	if !isAdmin {
		return nil, nil
	}

	current, err := s.repo.FindByCircle(ctx, circleID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load circle invite")
	}
	return ToDTO(current), nil
}

// Issue rotates the circle's invite code. Only admins may issue; the previous
// code stops working the moment the new one lands.
func (s *service) Issue(ctx context.Context, userID, circleID uuid.UUID) (*InviteDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if circleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "circle id required")
	}

	isAdmin, err := s.members.UserHasRole(ctx, userID, circleID, enums.CircleRoleAdmin)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check admin role")
	}
	if !isAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, adminOnlyMessage)
	}

	var rotated *models.CircleInvite
	for attempt := 0; attempt < rotateAttempts; attempt++ {
		code, err := invite.Generate()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate invite code")
		}

		row, err := s.repo.Rotate(ctx, circleID, code, userID)
		if err != nil {
			if db.IsUniqueViolation(err, "circle_invites_code_key") {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate invite code")
		}
		rotated = row
		break
	}
	if rotated == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "could not allocate a unique invite code")
	}

	s.actions.IncInviteRotation()
	return ToDTO(rotated), nil
}

// Redeem joins the user to the circle behind the code. Redeeming while already
// a member is a no-op that reports the existing membership.
func (s *service) Redeem(ctx context.Context, userID uuid.UUID, rawCode string) (*RedeemResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	code := invite.Normalize(rawCode)
	if code == "" {
		s.actions.IncInviteRedemption("invalid")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidCodeMessage)
	}

	found, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			s.actions.IncInviteRedemption("invalid")
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, invalidCodeMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up invite code")
	}

	circle, err := s.circles.FindByID(ctx, found.CircleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load circle")
	}

	created, err := s.members.CreateMembership(ctx, found.CircleID, userID, enums.CircleRoleMember)
	if err != nil {
		if db.IsUniqueViolation(err, "circle_members_circle_user_key") {
			existing, lookupErr := s.members.GetMembership(ctx, userID, found.CircleID)
			if lookupErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, lookupErr, "load existing membership")
			}
			s.actions.IncInviteRedemption("already_member")
			return &RedeemResult{
				CircleID:   found.CircleID,
				CircleName: circle.Name,
				Role:       existing.Role,
				AlreadyIn:  true,
			}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create membership")
	}

	s.actions.IncInviteRedemption("joined")
	return &RedeemResult{
		CircleID:   found.CircleID,
		CircleName: circle.Name,
		Role:       created.Role,
		AlreadyIn:  false,
	}, nil
}
