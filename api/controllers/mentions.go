package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ourthen/ourthen/api/responses"
	"github.com/ourthen/ourthen/api/validators"
	"github.com/ourthen/ourthen/internal/meetups"
	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
	"github.com/ourthen/ourthen/pkg/logger"
)

type recordMentionPayload struct {
	PieceID string `json:"piece_id" validate:"required,uuid"`
}

// MentionRecord marks a piece as mentioned during a meetup. Repeats are
// absorbed silently.
func MentionRecord(svc meetups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "meetups service unavailable"))
			return
		}

		userID, err := requireUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		meetupID, err := pathUUID(r, "meetupId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload recordMentionPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pieceID, err := uuid.Parse(payload.PieceID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid piece id"))
			return
		}

		if err := svc.RecordMention(ctx, userID, meetupID, pieceID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"mentioned": true})
	}
}

// MentionList lists the pieces mentioned during a meetup.
func MentionList(svc meetups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "meetups service unavailable"))
			return
		}

		userID, err := requireUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		meetupID, err := pathUUID(r, "meetupId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListMentions(ctx, userID, meetupID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
