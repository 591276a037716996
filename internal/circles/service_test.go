package circles

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ourthen/ourthen/internal/memberships"
	"github.com/ourthen/ourthen/pkg/db/models"
	"github.com/ourthen/ourthen/pkg/enums"
	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubCirclesRepo struct {
	created *models.Circle
	circle  *models.Circle
}

func (s *stubCirclesRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCirclesRepo) Create(ctx context.Context, circle *models.Circle) (*models.Circle, error) {
	if circle.ID == uuid.Nil {
		circle.ID = uuid.New()
	}
	s.created = circle
	return circle, nil
}

func (s *stubCirclesRepo) FindByID(ctx context.Context, circleID uuid.UUID) (*models.Circle, error) {
	if s.circle == nil || s.circle.ID != circleID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.circle, nil
}

type stubMembershipStore struct {
	memberships []models.CircleMember
	circles     []memberships.MembershipWithCircle
	created     []models.CircleMember
}

func (s *stubMembershipStore) WithTx(tx *gorm.DB) MembershipStore { return s }

func (s *stubMembershipStore) ListUserCircles(ctx context.Context, userID uuid.UUID) ([]memberships.MembershipWithCircle, error) {
	return s.circles, nil
}

func (s *stubMembershipStore) CreateMembership(ctx context.Context, circleID, userID uuid.UUID, role enums.CircleRole) (*models.CircleMember, error) {
	m := models.CircleMember{ID: uuid.New(), CircleID: circleID, UserID: userID, Role: role}
	s.created = append(s.created, m)
	return &m, nil
}

func (s *stubMembershipStore) IsMember(ctx context.Context, userID, circleID uuid.UUID) (bool, error) {
	for _, m := range s.memberships {
		if m.UserID == userID && m.CircleID == circleID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubMembershipStore) ListCircleMembers(ctx context.Context, circleID uuid.UUID) ([]models.CircleMember, error) {
	out := make([]models.CircleMember, 0, len(s.memberships))
	for _, m := range s.memberships {
		if m.CircleID == circleID {
			out = append(out, m)
		}
	}
	return out, nil
}

func newTestService(t *testing.T, repo Repository, members MembershipStore) Service {
	t.Helper()
	svc, err := NewService(repo, members, stubTxRunner{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateCircleEnrollsCreatorAsAdmin(t *testing.T) {
	repo := &stubCirclesRepo{}
	members := &stubMembershipStore{}
	svc := newTestService(t, repo, members)

	creatorID := uuid.New()
	dto, err := svc.CreateCircle(context.Background(), CreateCircleInput{
		Name:      "  15기 동기모임  ",
		CreatorID: creatorID,
	})
	if err != nil {
		t.Fatalf("create circle: %v", err)
	}

	if dto.Name != "15기 동기모임" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if len(members.created) != 1 {
		t.Fatalf("expected one membership, got %d", len(members.created))
	}
	if members.created[0].Role != enums.CircleRoleAdmin {
		t.Fatalf("expected admin role, got %s", members.created[0].Role)
	}
	if members.created[0].CircleID != dto.ID {
		t.Fatal("membership not bound to created circle")
	}
}

func TestCreateCircleRejectsBlankName(t *testing.T) {
	svc := newTestService(t, &stubCirclesRepo{}, &stubMembershipStore{})

	_, err := svc.CreateCircle(context.Background(), CreateCircleInput{
		Name:      "   ",
		CreatorID: uuid.New(),
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != "모임 이름을 입력해 주세요." {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestListMembersPutsRequesterFirst(t *testing.T) {
	circleID := uuid.New()
	admin := uuid.New()
	requester := uuid.New()
	other := uuid.New()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	members := &stubMembershipStore{
		memberships: []models.CircleMember{
			{ID: uuid.New(), CircleID: circleID, UserID: admin, Role: enums.CircleRoleAdmin, JoinedAt: base},
			{ID: uuid.New(), CircleID: circleID, UserID: other, Role: enums.CircleRoleMember, JoinedAt: base.Add(time.Hour)},
			{ID: uuid.New(), CircleID: circleID, UserID: requester, Role: enums.CircleRoleMember, JoinedAt: base.Add(2 * time.Hour)},
		},
	}
	svc := newTestService(t, &stubCirclesRepo{}, members)

	roster, err := svc.ListMembers(context.Background(), requester, circleID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(roster) != 3 {
		t.Fatalf("expected 3 members, got %d", len(roster))
	}
	if roster[0].UserID != requester || !roster[0].IsSelf {
		t.Fatal("expected requester first")
	}
	if roster[1].UserID != admin {
		t.Fatal("expected admin after requester")
	}
	if roster[2].UserID != other {
		t.Fatal("expected remaining member last")
	}
}

func TestListMembersRequiresMembership(t *testing.T) {
	svc := newTestService(t, &stubCirclesRepo{}, &stubMembershipStore{})

	_, err := svc.ListMembers(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestGetCircleNotFound(t *testing.T) {
	circleID := uuid.New()
	userID := uuid.New()
	members := &stubMembershipStore{
		memberships: []models.CircleMember{
			{ID: uuid.New(), CircleID: circleID, UserID: userID, Role: enums.CircleRoleMember},
		},
	}
	svc := newTestService(t, &stubCirclesRepo{}, members)

	_, err := svc.GetCircle(context.Background(), userID, circleID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListMineMapsMemberships(t *testing.T) {
	userID := uuid.New()
	circleID := uuid.New()
	members := &stubMembershipStore{
		circles: []memberships.MembershipWithCircle{
			{CircleID: circleID, UserID: userID, CircleName: "우리들", Role: enums.CircleRoleAdmin},
		},
	}
	svc := newTestService(t, &stubCirclesRepo{}, members)

	list, err := svc.ListMine(context.Background(), userID)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(list) != 1 || list[0].CircleName != "우리들" || list[0].Role != enums.CircleRoleAdmin {
		t.Fatalf("unexpected list: %+v", list)
	}
}
