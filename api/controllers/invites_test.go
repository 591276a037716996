package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/ourthen/ourthen/api/middleware"
	"github.com/ourthen/ourthen/internal/invites"
	"github.com/ourthen/ourthen/pkg/enums"
	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
)

type stubInviteService struct {
	latest *invites.InviteDTO
	issued *invites.InviteDTO
	redeem *invites.RedeemResult
	err    error
}

func (s stubInviteService) FetchLatest(ctx context.Context, userID, circleID uuid.UUID) (*invites.InviteDTO, error) {
	return s.latest, s.err
}

func (s stubInviteService) Issue(ctx context.Context, userID, circleID uuid.UUID) (*invites.InviteDTO, error) {
	return s.issued, s.err
}

func (s stubInviteService) Redeem(ctx context.Context, userID uuid.UUID, rawCode string) (*invites.RedeemResult, error) {
	return s.redeem, s.err
}

func TestInviteIssueSuccess(t *testing.T) {
	userID := uuid.New()
	circleID := uuid.New()
	dto := &invites.InviteDTO{CircleID: circleID, Code: "A2B3-C4D5", IssuedBy: userID}
	handler := InviteIssue(stubInviteService{issued: dto}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/circles/"+circleID.String()+"/invites", nil)
	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithCircleID(ctx, circleID.String())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}

	var envelope struct {
		Data invites.InviteDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Code != "A2B3-C4D5" {
		t.Fatalf("unexpected code %q", envelope.Data.Code)
	}
}

func TestInviteIssueForbiddenKeepsServiceMessage(t *testing.T) {
	circleID := uuid.New()
	handler := InviteIssue(stubInviteService{err: pkgerrors.New(pkgerrors.CodeForbidden, "관리자만 초대 코드를 만들 수 있어요.")}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/circles/"+circleID.String()+"/invites", nil)
	ctx := middleware.WithUserID(req.Context(), uuid.New().String())
	ctx = middleware.WithCircleID(ctx, circleID.String())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "관리자만 초대 코드를 만들 수 있어요." {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestInviteRedeemSuccess(t *testing.T) {
	userID := uuid.New()
	circleID := uuid.New()
	result := &invites.RedeemResult{
		CircleID:   circleID,
		CircleName: "독서 모임",
		Role:       enums.CircleRoleMember,
	}
	handler := InviteRedeem(stubInviteService{redeem: result}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invites/redeem", bytes.NewReader([]byte(`{"code":"a2b3-c4d5"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data invites.RedeemResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CircleID != circleID || envelope.Data.AlreadyIn {
		t.Fatalf("unexpected result %+v", envelope.Data)
	}
}

func TestInviteRedeemUnknownCode(t *testing.T) {
	handler := InviteRedeem(stubInviteService{err: pkgerrors.New(pkgerrors.CodeNotFound, "유효한 초대 코드가 아니에요.")}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invites/redeem", bytes.NewReader([]byte(`{"code":"ZZZZZZZZ"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New().String()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
