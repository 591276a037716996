package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ourthen/ourthen/api/responses"
	"github.com/ourthen/ourthen/api/validators"
	"github.com/ourthen/ourthen/internal/comments"
	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
	"github.com/ourthen/ourthen/pkg/logger"
)

// Body content rules live in the service layer.
type createCommentPayload struct {
	Body     string `json:"body" validate:"max=1000"`
	MeetupID string `json:"meetup_id" validate:"omitempty,uuid"`
}

// CommentCreate adds a comment to a piece, optionally tied to a meetup.
func CommentCreate(svc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "comments service unavailable"))
			return
		}

		userID, err := requireUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pieceID, err := pathUUID(r, "pieceId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload createCommentPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := comments.CreateCommentInput{
			PieceID:  pieceID,
			AuthorID: userID,
			Body:     payload.Body,
		}
		if payload.MeetupID != "" {
			meetupID, err := uuid.Parse(payload.MeetupID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid meetup id"))
				return
			}
			input.MeetupID = &meetupID
		}

		comment, err := svc.CreateComment(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, comment)
	}
}

// CommentList lists a piece's comments, oldest first.
func CommentList(svc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "comments service unavailable"))
			return
		}

		userID, err := requireUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pieceID, err := pathUUID(r, "pieceId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListByPiece(ctx, userID, pieceID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
