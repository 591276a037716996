package feed

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ourthen/ourthen/pkg/db/models"
	"github.com/ourthen/ourthen/pkg/enums"
	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
)

type stubFeedRepo struct {
	items  []*models.FeedItem
	pieces []*models.Piece
	now    time.Time
}

func newStubFeedRepo() *stubFeedRepo {
	return &stubFeedRepo{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (s *stubFeedRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubFeedRepo) CreateFeedItem(ctx context.Context, item *models.FeedItem) (*models.FeedItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.now = s.now.Add(time.Minute)
	item.CreatedAt = s.now
	s.items = append(s.items, item)
	return item, nil
}

func (s *stubFeedRepo) CreatePiece(ctx context.Context, piece *models.Piece) (*models.Piece, error) {
	if piece.ID == uuid.Nil {
		piece.ID = uuid.New()
	}
	s.pieces = append(s.pieces, piece)
	return piece, nil
}

func (s *stubFeedRepo) findItem(id uuid.UUID) *models.FeedItem {
	for _, item := range s.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

func (s *stubFeedRepo) ListPieces(ctx context.Context, circleID uuid.UUID, limit int) ([]PieceRow, error) {
	var rows []PieceRow
	for _, piece := range s.pieces {
		item := s.findItem(piece.FeedItemID)
		if item == nil || item.CircleID != circleID {
			continue
		}
		rows = append(rows, PieceRow{
			PieceID:    piece.ID,
			FeedItemID: item.ID,
			CircleID:   item.CircleID,
			AuthorID:   item.AuthorID,
			Body:       item.Body,
			CreatedAt:  item.CreatedAt,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *stubFeedRepo) ListFeedItems(ctx context.Context, circleID uuid.UUID, limit int) ([]models.FeedItem, error) {
	var rows []models.FeedItem
	for _, item := range s.items {
		if item.CircleID == circleID {
			rows = append(rows, *item)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *stubFeedRepo) ResolvePieceCircle(ctx context.Context, pieceID uuid.UUID) (uuid.UUID, error) {
	for _, piece := range s.pieces {
		if piece.ID == pieceID {
			if item := s.findItem(piece.FeedItemID); item != nil {
				return item.CircleID, nil
			}
		}
	}
	return uuid.Nil, gorm.ErrRecordNotFound
}

func (s *stubFeedRepo) CountPieces(ctx context.Context, circleID uuid.UUID) (int64, error) {
	rows, _ := s.ListPieces(ctx, circleID, len(s.pieces)+1)
	return int64(len(rows)), nil
}

type stubFeedMembers struct {
	members map[string]bool
}

func (s *stubFeedMembers) IsMember(ctx context.Context, userID, circleID uuid.UUID) (bool, error) {
	return s.members[userID.String()+"/"+circleID.String()], nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newFeedFixture(t *testing.T) (Service, *stubFeedRepo, uuid.UUID, uuid.UUID) {
	t.Helper()
	repo := newStubFeedRepo()
	circleID := uuid.New()
	userID := uuid.New()
	members := &stubFeedMembers{members: map[string]bool{userID.String() + "/" + circleID.String(): true}}

	svc, err := NewService(repo, members, stubTx{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, userID, circleID
}

// seedPiece inserts a piece whose feed item body may be blank.
func seedPiece(repo *stubFeedRepo, circleID, authorID uuid.UUID, body string) {
	var bodyPtr *string
	if body != "" {
		b := body
		bodyPtr = &b
	}
	item, _ := repo.CreateFeedItem(context.Background(), &models.FeedItem{
		CircleID: circleID,
		AuthorID: authorID,
		Type:     enums.FeedItemTypeText,
		Body:     bodyPtr,
	})
	_, _ = repo.CreatePiece(context.Background(), &models.Piece{FeedItemID: item.ID})
}

func TestCreateTextPieceRejectsBlankBody(t *testing.T) {
	svc, _, userID, circleID := newFeedFixture(t)

	_, err := svc.CreateTextPiece(context.Background(), CreatePieceInput{
		CircleID: circleID,
		AuthorID: userID,
		Body:     "   ",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != "조각 내용을 입력해 주세요." {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestCreateTextPieceLinksFeedItem(t *testing.T) {
	svc, repo, userID, circleID := newFeedFixture(t)

	dto, err := svc.CreateTextPiece(context.Background(), CreatePieceInput{
		CircleID: circleID,
		AuthorID: userID,
		Body:     "  첫 모임의 기억  ",
	})
	if err != nil {
		t.Fatalf("create piece: %v", err)
	}
	if dto.Body != "첫 모임의 기억" {
		t.Fatalf("expected trimmed body, got %q", dto.Body)
	}
	if len(repo.items) != 1 || len(repo.pieces) != 1 {
		t.Fatalf("expected one feed item and one piece, got %d/%d", len(repo.items), len(repo.pieces))
	}
	if repo.pieces[0].FeedItemID != repo.items[0].ID {
		t.Fatal("piece not linked to its feed item")
	}
}

func TestListPiecesLabelsBlankBodies(t *testing.T) {
	svc, repo, userID, circleID := newFeedFixture(t)

	// inserted oldest first; the list returns newest first
	seedPiece(repo, circleID, userID, "잘가")
	seedPiece(repo, circleID, userID, "")
	seedPiece(repo, circleID, userID, "안녕")

	list, err := svc.ListPieces(context.Background(), userID, circleID)
	if err != nil {
		t.Fatalf("list pieces: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 pieces, got %d", len(list))
	}
	if list[0].Body != "안녕" || list[1].Body != "기억 조각 2" || list[2].Body != "잘가" {
		t.Fatalf("unexpected bodies: %q %q %q", list[0].Body, list[1].Body, list[2].Body)
	}
}

func TestListPiecesCapsWindow(t *testing.T) {
	svc, repo, userID, circleID := newFeedFixture(t)

	for i := 0; i < listWindow+5; i++ {
		seedPiece(repo, circleID, userID, "조각")
	}

	list, err := svc.ListPieces(context.Background(), userID, circleID)
	if err != nil {
		t.Fatalf("list pieces: %v", err)
	}
	if len(list) != listWindow {
		t.Fatalf("expected %d pieces, got %d", listWindow, len(list))
	}
}

func TestListFeedItemsDropsBlankEntries(t *testing.T) {
	svc, repo, userID, circleID := newFeedFixture(t)

	seedPiece(repo, circleID, userID, "첫번째")
	seedPiece(repo, circleID, userID, "")
	seedPiece(repo, circleID, userID, "세번째")

	list, err := svc.ListFeedItems(context.Background(), userID, circleID)
	if err != nil {
		t.Fatalf("list feed items: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected blanks dropped, got %d entries", len(list))
	}
	if list[0].Body != "세번째" || list[1].Body != "첫번째" {
		t.Fatalf("unexpected order: %q %q", list[0].Body, list[1].Body)
	}
}

func TestFeedGatedToMembers(t *testing.T) {
	svc, _, _, circleID := newFeedFixture(t)
	stranger := uuid.New()

	if _, err := svc.ListPieces(context.Background(), stranger, circleID); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("list pieces: expected forbidden, got %v", err)
	}
	if _, err := svc.CreateTextPiece(context.Background(), CreatePieceInput{CircleID: circleID, AuthorID: stranger, Body: "조각"}); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("create piece: expected forbidden, got %v", err)
	}
}
