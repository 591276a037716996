package controllers

import (
	"net/http"

	"github.com/ourthen/ourthen/api/responses"
	"github.com/ourthen/ourthen/api/validators"
	"github.com/ourthen/ourthen/internal/circles"
	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
	"github.com/ourthen/ourthen/pkg/logger"
)

// Name content rules live in the service layer.
type createCirclePayload struct {
	Name string `json:"name" validate:"max=100"`
}

// CircleCreate creates a circle with the caller as its admin.
func CircleCreate(svc circles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "circles service unavailable"))
			return
		}

		userID, err := requireUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload createCirclePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		circle, err := svc.CreateCircle(ctx, circles.CreateCircleInput{
			Name:      payload.Name,
			CreatorID: userID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, circle)
	}
}

// CircleListMine lists the circles the caller belongs to, oldest joined first.
func CircleListMine(svc circles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "circles service unavailable"))
			return
		}

		userID, err := requireUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListMine(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// CircleGet returns a circle the caller is a member of.
func CircleGet(svc circles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "circles service unavailable"))
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

		circle, err := svc.GetCircle(ctx, userID, circleID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, circle)
	}
}

// CircleMembers lists circle members with the caller first.
func CircleMembers(svc circles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "circles service unavailable"))
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

		members, err := svc.ListMembers(ctx, userID, circleID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, members)
	}
}
