package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ourthen/ourthen/api/middleware"
	"github.com/ourthen/ourthen/internal/circles"
	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
)

type stubCircleService struct {
	created *circles.CircleDTO
	mine    []circles.CircleSummary
	circle  *circles.CircleDTO
	members []circles.MemberDTO
	err     error
}

func (s stubCircleService) CreateCircle(ctx context.Context, input circles.CreateCircleInput) (*circles.CircleDTO, error) {
	return s.created, s.err
}

func (s stubCircleService) ListMine(ctx context.Context, userID uuid.UUID) ([]circles.CircleSummary, error) {
	return s.mine, s.err
}

func (s stubCircleService) GetCircle(ctx context.Context, userID, circleID uuid.UUID) (*circles.CircleDTO, error) {
	return s.circle, s.err
}

func (s stubCircleService) ListMembers(ctx context.Context, userID, circleID uuid.UUID) ([]circles.MemberDTO, error) {
	return s.members, s.err
}

func TestCircleCreateSuccess(t *testing.T) {
	userID := uuid.New()
	dto := &circles.CircleDTO{
		ID:        uuid.New(),
		Name:      "독서 모임",
		CreatedBy: userID,
		CreatedAt: time.Now(),
	}
	handler := CircleCreate(stubCircleService{created: dto}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/circles", bytes.NewReader([]byte(`{"name":"독서 모임"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}

	var envelope struct {
		Data circles.CircleDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Name != "독서 모임" {
		t.Fatalf("unexpected name %q", envelope.Data.Name)
	}
}

func TestCircleCreateBlankNameKeepsServiceMessage(t *testing.T) {
	userID := uuid.New()
	handler := CircleCreate(stubCircleService{err: pkgerrors.New(pkgerrors.CodeValidation, "모임 이름을 입력해 주세요.")}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/circles", bytes.NewReader([]byte(`{"name":"  "}`)))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "모임 이름을 입력해 주세요." {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestCircleCreateMissingUser(t *testing.T) {
	handler := CircleCreate(stubCircleService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/circles", bytes.NewReader([]byte(`{"name":"모임"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestCircleGetMissingCircleContext(t *testing.T) {
	handler := CircleGet(stubCircleService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/circles/abc", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New().String()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestCircleMembersSuccess(t *testing.T) {
	userID := uuid.New()
	circleID := uuid.New()
	members := []circles.MemberDTO{
		{UserID: userID, IsSelf: true},
		{UserID: uuid.New()},
	}
	handler := CircleMembers(stubCircleService{members: members}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/circles/"+circleID.String()+"/members", nil)
	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithCircleID(ctx, circleID.String())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data []circles.MemberDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 || !envelope.Data[0].IsSelf {
		t.Fatalf("expected requester first, got %+v", envelope.Data)
	}
}
