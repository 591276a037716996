package controllers

import (
	"net/http"

	"github.com/ourthen/ourthen/api/responses"
	"github.com/ourthen/ourthen/api/validators"
	"github.com/ourthen/ourthen/internal/invites"
	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
	"github.com/ourthen/ourthen/pkg/logger"
)

type redeemInvitePayload struct {
	Code string `json:"code" validate:"max=32"`
}

// InviteFetch returns the circle's current invite code for admins, or an
// empty body for members.
func InviteFetch(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invites service unavailable"))
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

		invite, err := svc.FetchLatest(ctx, userID, circleID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, invite)
	}
}

// InviteIssue mints a fresh invite code, replacing any previous one.
func InviteIssue(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invites service unavailable"))
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

		invite, err := svc.Issue(ctx, userID, circleID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, invite)
	}
}

// InviteRedeem joins the caller to the circle behind the supplied code.
func InviteRedeem(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invites service unavailable"))
			return
		}

		userID, err := requireUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload redeemInvitePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Redeem(ctx, userID, payload.Code)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
