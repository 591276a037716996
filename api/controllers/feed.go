package controllers

import (
	"net/http"

	"github.com/ourthen/ourthen/api/responses"
	"github.com/ourthen/ourthen/api/validators"
	"github.com/ourthen/ourthen/internal/feed"
	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
	"github.com/ourthen/ourthen/pkg/logger"
)

// Body content rules live in the service layer.
type createPiecePayload struct {
	Body string `json:"body" validate:"max=2000"`
}

// PieceCreate records a text piece in the active circle.
func PieceCreate(svc feed.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feed service unavailable"))
			return
		}

		userID, err := requireUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		circleID, err := requireCircleID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload createPiecePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		piece, err := svc.CreateTextPiece(ctx, feed.CreatePieceInput{
			CircleID: circleID,
			AuthorID: userID,
			Body:     payload.Body,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, piece)
	}
}

// PieceList returns the circle's most recent pieces, newest first.
func PieceList(svc feed.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feed service unavailable"))
			return
		}

		userID, err := requireUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		circleID, err := requireCircleID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListPieces(ctx, userID, circleID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// FeedList returns the circle's feed window with blank entries dropped.
func FeedList(svc feed.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feed service unavailable"))
			return
		}

		userID, err := requireUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		circleID, err := requireCircleID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListFeedItems(ctx, userID, circleID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
