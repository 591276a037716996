package meetups

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ourthen/ourthen/pkg/db/models"
	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
)

type stubMeetupsRepo struct {
	meetups    map[uuid.UUID]*models.Meetup
	mentions   map[string]*models.PieceMention // meetupID/pieceID
	attendance map[string]*models.MeetupAttendance
}

func newStubMeetupsRepo() *stubMeetupsRepo {
	return &stubMeetupsRepo{
		meetups:    map[uuid.UUID]*models.Meetup{},
		mentions:   map[string]*models.PieceMention{},
		attendance: map[string]*models.MeetupAttendance{},
	}
}

func (s *stubMeetupsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubMeetupsRepo) CreateMeetup(ctx context.Context, meetup *models.Meetup) (*models.Meetup, error) {
	if meetup.ID == uuid.Nil {
		meetup.ID = uuid.New()
	}
	meetup.CreatedAt = time.Now()
	s.meetups[meetup.ID] = meetup
	return meetup, nil
}

func (s *stubMeetupsRepo) FindMeetup(ctx context.Context, meetupID uuid.UUID) (*models.Meetup, error) {
	m, ok := s.meetups[meetupID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (s *stubMeetupsRepo) ListByCircle(ctx context.Context, circleID uuid.UUID) ([]models.Meetup, error) {
	var out []models.Meetup
	for _, m := range s.meetups {
		if m.CircleID == circleID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.ScheduledAt == nil && b.ScheduledAt == nil:
			return a.CreatedAt.After(b.CreatedAt)
		case a.ScheduledAt == nil:
			return false
		case b.ScheduledAt == nil:
			return true
		case !a.ScheduledAt.Equal(*b.ScheduledAt):
			return a.ScheduledAt.Before(*b.ScheduledAt)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
	return out, nil
}

func (s *stubMeetupsRepo) CountByCircle(ctx context.Context, circleID uuid.UUID) (int64, error) {
	rows, _ := s.ListByCircle(ctx, circleID)
	return int64(len(rows)), nil
}

func mentionKey(meetupID, pieceID uuid.UUID) string {
	return meetupID.String() + "/" + pieceID.String()
}

func (s *stubMeetupsRepo) CreateMention(ctx context.Context, mention *models.PieceMention) error {
	key := mentionKey(mention.MeetupID, mention.PieceID)
	if _, exists := s.mentions[key]; exists {
		return errDuplicateMention{}
	}
	mention.ID = uuid.New()
	mention.CreatedAt = time.Now()
	s.mentions[key] = mention
	return nil
}

type errDuplicateMention struct{}

func (errDuplicateMention) Error() string {
	return `duplicate key value violates unique constraint "piece_mentions_meetup_piece_key"`
}

func (s *stubMeetupsRepo) ListMentions(ctx context.Context, meetupID uuid.UUID) ([]models.PieceMention, error) {
	var out []models.PieceMention
	for _, m := range s.mentions {
		if m.MeetupID == meetupID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func attendanceKey(meetupID, userID uuid.UUID) string {
	return meetupID.String() + "/" + userID.String()
}

func (s *stubMeetupsRepo) GetAttendance(ctx context.Context, meetupID, userID uuid.UUID) (*models.MeetupAttendance, error) {
	row, ok := s.attendance[attendanceKey(meetupID, userID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *stubMeetupsRepo) UpsertAttendance(ctx context.Context, meetupID, userID uuid.UUID, isAttending bool, checkedBy uuid.UUID) (*models.MeetupAttendance, error) {
	key := attendanceKey(meetupID, userID)
	row, ok := s.attendance[key]
	if !ok {
		row = &models.MeetupAttendance{ID: uuid.New(), MeetupID: meetupID, UserID: userID}
		s.attendance[key] = row
	}
	row.IsAttending = isAttending
	row.CheckedBy = checkedBy
	row.UpdatedAt = time.Now()
	return row, nil
}

func (s *stubMeetupsRepo) ListAttendance(ctx context.Context, meetupID uuid.UUID) ([]models.MeetupAttendance, error) {
	var out []models.MeetupAttendance
	for _, row := range s.attendance {
		if row.MeetupID == meetupID {
			out = append(out, *row)
		}
	}
	return out, nil
}

type stubMembers struct {
	members map[string]bool // userID/circleID
}

func newStubMembers() *stubMembers {
	return &stubMembers{members: map[string]bool{}}
}

func (s *stubMembers) add(userID, circleID uuid.UUID) {
	s.members[userID.String()+"/"+circleID.String()] = true
}

func (s *stubMembers) IsMember(ctx context.Context, userID, circleID uuid.UUID) (bool, error) {
	return s.members[userID.String()+"/"+circleID.String()], nil
}

type stubPieceResolver struct {
	circles map[uuid.UUID]uuid.UUID // pieceID -> circleID
}

func (s *stubPieceResolver) ResolvePieceCircle(ctx context.Context, pieceID uuid.UUID) (uuid.UUID, error) {
	circleID, ok := s.circles[pieceID]
	if !ok {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return circleID, nil
}

type fixture struct {
	svc      Service
	repo     *stubMeetupsRepo
	members  *stubMembers
	pieces   *stubPieceResolver
	circleID uuid.UUID
	userID   uuid.UUID
	meetupID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newStubMeetupsRepo()
	members := newStubMembers()
	pieces := &stubPieceResolver{circles: map[uuid.UUID]uuid.UUID{}}

	svc, err := NewService(repo, members, pieces, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	circleID := uuid.New()
	userID := uuid.New()
	members.add(userID, circleID)

	meetupID := uuid.New()
	repo.meetups[meetupID] = &models.Meetup{ID: meetupID, CircleID: circleID, HostID: userID, Title: "정기 모임"}

	return &fixture{svc: svc, repo: repo, members: members, pieces: pieces, circleID: circleID, userID: userID, meetupID: meetupID}
}

func TestCreateMeetupValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		input   CreateMeetupInput
		message string
	}{
		{
			name:    "blank title",
			input:   CreateMeetupInput{CircleID: f.circleID, HostID: f.userID, Title: "  ", ScheduledAt: "2026-04-01T19:00:00+09:00"},
			message: "모임 제목을 입력해 주세요.",
		},
		{
			name:    "missing schedule",
			input:   CreateMeetupInput{CircleID: f.circleID, HostID: f.userID, Title: "봄소풍", ScheduledAt: ""},
			message: "모임 날짜와 시간을 입력해 주세요.",
		},
		{
			name:    "bad schedule format",
			input:   CreateMeetupInput{CircleID: f.circleID, HostID: f.userID, Title: "봄소풍", ScheduledAt: "내일 저녁"},
			message: "모임 날짜 형식이 올바르지 않아요.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateMeetup(ctx, tc.input)
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if typed := pkgerrors.As(err); typed == nil || typed.Message() != tc.message {
				t.Fatalf("unexpected message: %v", err)
			}
		})
	}
}

func TestCreateMeetupHappyPath(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.CreateMeetup(context.Background(), CreateMeetupInput{
		CircleID:    f.circleID,
		HostID:      f.userID,
		Title:       "  봄소풍  ",
		ScheduledAt: "2026-04-01T19:00:00+09:00",
	})
	if err != nil {
		t.Fatalf("create meetup: %v", err)
	}
	if dto.Title != "봄소풍" {
		t.Fatalf("expected trimmed title, got %q", dto.Title)
	}
	if dto.ScheduledAt == nil {
		t.Fatal("expected scheduled time")
	}
}

func TestCreateMeetupRequiresMembership(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateMeetup(context.Background(), CreateMeetupInput{
		CircleID:    f.circleID,
		HostID:      uuid.New(),
		Title:       "봄소풍",
		ScheduledAt: "2026-04-01T19:00:00+09:00",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestListByCircleOrdersSoonestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	delete(f.repo.meetups, f.meetupID)

	early := time.Date(2026, 4, 1, 19, 0, 0, 0, time.UTC)
	late := time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC)
	f.repo.meetups[uuid.New()] = &models.Meetup{ID: uuid.New(), CircleID: f.circleID, Title: "늦은 모임", ScheduledAt: &late, CreatedAt: time.Now()}
	f.repo.meetups[uuid.New()] = &models.Meetup{ID: uuid.New(), CircleID: f.circleID, Title: "이른 모임", ScheduledAt: &early, CreatedAt: time.Now()}
	f.repo.meetups[uuid.New()] = &models.Meetup{ID: uuid.New(), CircleID: f.circleID, Title: "날짜 미정", CreatedAt: time.Now()}

	list, err := f.svc.ListByCircle(ctx, f.userID, f.circleID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 meetups, got %d", len(list))
	}
	if list[0].Title != "이른 모임" || list[1].Title != "늦은 모임" || list[2].Title != "날짜 미정" {
		t.Fatalf("unexpected order: %q %q %q", list[0].Title, list[1].Title, list[2].Title)
	}
}

func TestRecordMentionBackToBackIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pieceID := uuid.New()
	f.pieces.circles[pieceID] = f.circleID

	if err := f.svc.RecordMention(ctx, f.userID, f.meetupID, pieceID); err != nil {
		t.Fatalf("first mention: %v", err)
	}
	if err := f.svc.RecordMention(ctx, f.userID, f.meetupID, pieceID); err != nil {
		t.Fatalf("repeat mention should be silent, got %v", err)
	}

	list, err := f.svc.ListMentions(ctx, f.userID, f.meetupID)
	if err != nil {
		t.Fatalf("list mentions: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly one mention, got %d", len(list))
	}
}

func TestRecordMentionRejectsForeignPiece(t *testing.T) {
	f := newFixture(t)

	pieceID := uuid.New()
	f.pieces.circles[pieceID] = uuid.New() // another circle

	err := f.svc.RecordMention(context.Background(), f.userID, f.meetupID, pieceID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestRecordMentionUnknownPiece(t *testing.T) {
	f := newFixture(t)

	err := f.svc.RecordMention(context.Background(), f.userID, f.meetupID, uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAttendanceNilBeforeFirstAnswer(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.GetAttendance(context.Background(), f.userID, f.meetupID)
	if err != nil {
		t.Fatalf("get attendance: %v", err)
	}
	if dto != nil {
		t.Fatal("expected nil before any answer")
	}
}

func TestAttendanceLastWriteWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.SetAttendance(ctx, f.userID, f.meetupID, true); err != nil {
		t.Fatalf("first set: %v", err)
	}
	dto, err := f.svc.SetAttendance(ctx, f.userID, f.meetupID, false)
	if err != nil {
		t.Fatalf("second set: %v", err)
	}
	if dto.IsAttending {
		t.Fatal("expected last write to win")
	}
	if dto.CheckedBy != f.userID {
		t.Fatalf("expected checked_by to track the writer, got %s", dto.CheckedBy)
	}

	list, err := f.svc.ListAttendance(ctx, f.userID, f.meetupID)
	if err != nil {
		t.Fatalf("list attendance: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected single row per user, got %d", len(list))
	}
}

func TestMeetupSurfacesGatedToMembers(t *testing.T) {
	f := newFixture(t)
	stranger := uuid.New()

	if _, err := f.svc.ListByCircle(context.Background(), stranger, f.circleID); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("list meetups: expected forbidden, got %v", err)
	}
	if err := f.svc.RecordMention(context.Background(), stranger, f.meetupID, uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("record mention: expected forbidden, got %v", err)
	}
	if _, err := f.svc.SetAttendance(context.Background(), stranger, f.meetupID, true); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("set attendance: expected forbidden, got %v", err)
	}
}
