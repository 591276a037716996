package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/ourthen/ourthen/api/responses"
	"github.com/ourthen/ourthen/pkg/enums"
	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
	"github.com/ourthen/ourthen/pkg/logger"
)

type MembershipChecker interface {
	UserHasRole(ctx context.Context, userID, circleID uuid.UUID, roles ...enums.CircleRole) (bool, error)
}

// RequireCircleRoles filters requests by circle membership roles before executing the handler.
func RequireCircleRoles(checker MembershipChecker, logg *logger.Logger, allowed ...enums.CircleRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if checker == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "membership checker unavailable"))
				return
			}
			if len(allowed) == 0 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "allowed roles missing"))
				return
			}

			userID := UserIDFromContext(ctx)
			if userID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
				return
			}

			circleID := CircleIDFromContext(ctx)
			if circleID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "circle context required"))
				return
			}

			uid, err := uuid.Parse(userID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
				return
			}

			cid, err := uuid.Parse(circleID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid circle id"))
				return
			}

			ok, err := checker.UserHasRole(ctx, uid, cid, allowed...)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership role"))
				return
			}
			if !ok {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient circle role"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
