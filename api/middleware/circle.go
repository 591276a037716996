package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ourthen/ourthen/api/responses"
	pkgerrors "github.com/ourthen/ourthen/pkg/errors"
	"github.com/ourthen/ourthen/pkg/logger"
)

// CircleContext lifts the {circleId} route param into the request context.
func CircleContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := chi.URLParam(r, "circleId")
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "circle id required"))
				return
			}
			circleID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid circle id"))
				return
			}

			ctx := WithCircleID(r.Context(), circleID.String())
			if logg != nil {
				ctx = logg.WithCircleID(ctx, circleID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
