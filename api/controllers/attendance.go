package controllers

import (
	"net/http"

	"github.com/ourthen/ourthen/api/responses"
	"github.com/ourthen/ourthen/api/validators"
	"github.com/ourthen/ourthen/internal/meetups"
	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
	"github.com/ourthen/ourthen/pkg/logger"
)

type setAttendancePayload struct {
	IsAttending *bool `json:"is_attending" validate:"required"`
}

// AttendanceGet returns the caller's answer for a meetup, or an empty body
// before the first answer.
func AttendanceGet(svc meetups.Service, logg *logger.Logger) http.HandlerFunc {
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

		answer, err := svc.GetAttendance(ctx, userID, meetupID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, answer)
	}
}

// AttendanceSet records or replaces the caller's answer. Last write wins.
func AttendanceSet(svc meetups.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload setAttendancePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		answer, err := svc.SetAttendance(ctx, userID, meetupID, *payload.IsAttending)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, answer)
	}
}

// AttendanceList lists every recorded answer for a meetup.
func AttendanceList(svc meetups.Service, logg *logger.Logger) http.HandlerFunc {
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

		list, err := svc.ListAttendance(ctx, userID, meetupID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
