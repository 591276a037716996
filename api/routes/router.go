package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ourthen/ourthen/api/controllers"
	"github.com/ourthen/ourthen/api/middleware"
	"github.com/ourthen/ourthen/internal/circles"
	"github.com/ourthen/ourthen/internal/comments"
	"github.com/ourthen/ourthen/internal/feed"
	"github.com/ourthen/ourthen/internal/invites"
	"github.com/ourthen/ourthen/internal/meetups"
	"github.com/ourthen/ourthen/internal/progress"
	"github.com/ourthen/ourthen/pkg/config"
	"github.com/ourthen/ourthen/pkg/db"
	"github.com/ourthen/ourthen/pkg/enums"
	"github.com/ourthen/ourthen/pkg/logger"
	"github.com/ourthen/ourthen/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	membershipChecker middleware.MembershipChecker,
	circleService circles.Service,
	inviteService invites.Service,
	meetupService meetups.Service,
	feedService feed.Service,
	commentService comments.Service,
	progressService progress.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	joinPolicy := middleware.JoinPolicy(cfg.RateLimit)
	writePolicy := middleware.WritePolicy(cfg.RateLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.With(middleware.RateLimit(joinPolicy, redisClient, logg)).
			Post("/invites/redeem", controllers.InviteRedeem(inviteService, logg))

		r.Route("/circles", func(r chi.Router) {
			r.With(middleware.RateLimit(writePolicy, redisClient, logg)).
				Post("/", controllers.CircleCreate(circleService, logg))
			r.Get("/", controllers.CircleListMine(circleService, logg))

			r.Route("/{circleId}", func(r chi.Router) {
				r.Use(middleware.CircleContext(logg))

				r.Get("/", controllers.CircleGet(circleService, logg))
				r.Get("/members", controllers.CircleMembers(circleService, logg))
				r.Get("/puzzle", controllers.PuzzleGet(progressService, logg))

				r.Route("/invites", func(r chi.Router) {
					r.Get("/", controllers.InviteFetch(inviteService, logg))
					r.With(middleware.RequireCircleRoles(membershipChecker, logg, enums.CircleRoleAdmin)).
						Post("/", controllers.InviteIssue(inviteService, logg))
				})

				r.Route("/meetups", func(r chi.Router) {
					r.Get("/", controllers.MeetupList(meetupService, logg))
					r.With(middleware.RateLimit(writePolicy, redisClient, logg)).
						Post("/", controllers.MeetupCreate(meetupService, logg))
				})

				r.Route("/pieces", func(r chi.Router) {
					r.Get("/", controllers.PieceList(feedService, logg))
					r.With(middleware.RateLimit(writePolicy, redisClient, logg)).
						Post("/", controllers.PieceCreate(feedService, logg))
				})

				r.Get("/feed", controllers.FeedList(feedService, logg))
			})
		})

		r.Route("/meetups/{meetupId}", func(r chi.Router) {
			r.Route("/mentions", func(r chi.Router) {
				r.Get("/", controllers.MentionList(meetupService, logg))
				r.With(middleware.RateLimit(writePolicy, redisClient, logg)).
					Post("/", controllers.MentionRecord(meetupService, logg))
			})
			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", controllers.AttendanceList(meetupService, logg))
				r.Get("/me", controllers.AttendanceGet(meetupService, logg))
				r.With(middleware.RateLimit(writePolicy, redisClient, logg)).
					Put("/me", controllers.AttendanceSet(meetupService, logg))
			})
		})

		r.Route("/pieces/{pieceId}/comments", func(r chi.Router) {
			r.Get("/", controllers.CommentList(commentService, logg))
			r.With(middleware.RateLimit(writePolicy, redisClient, logg)).
				Post("/", controllers.CommentCreate(commentService, logg))
		})
	})

	return r
}
