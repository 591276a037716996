package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ourthen/ourthen/api/routes"
	"github.com/ourthen/ourthen/internal/circles"
	"github.com/ourthen/ourthen/internal/comments"
	"github.com/ourthen/ourthen/internal/feed"
	"github.com/ourthen/ourthen/internal/invites"
	"github.com/ourthen/ourthen/internal/meetups"
	"github.com/ourthen/ourthen/internal/memberships"
	"github.com/ourthen/ourthen/internal/progress"
	"github.com/ourthen/ourthen/pkg/config"
	"github.com/ourthen/ourthen/pkg/db"
	"github.com/ourthen/ourthen/pkg/logger"
	"github.com/ourthen/ourthen/pkg/metrics"
	"github.com/ourthen/ourthen/pkg/migrate"
	"github.com/ourthen/ourthen/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	actions := metrics.NewActionMetrics(prometheus.DefaultRegisterer)

	membershipRepo := memberships.NewRepository(dbClient.DB())
	circleRepo := circles.NewRepository(dbClient.DB())
	inviteRepo := invites.NewRepository(dbClient.DB())
	meetupRepo := meetups.NewRepository(dbClient.DB())
	feedRepo := feed.NewRepository(dbClient.DB())
	commentRepo := comments.NewRepository(dbClient.DB())

	circleService, err := circles.NewService(circleRepo, circles.NewMembershipStore(membershipRepo), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create circles service", err)
		os.Exit(1)
	}

	inviteService, err := invites.NewService(inviteRepo, membershipRepo, circleRepo, actions)
	if err != nil {
		logg.Error(context.Background(), "failed to create invites service", err)
		os.Exit(1)
	}

	meetupService, err := meetups.NewService(meetupRepo, membershipRepo, feedRepo, actions)
	if err != nil {
		logg.Error(context.Background(), "failed to create meetups service", err)
		os.Exit(1)
	}

	feedService, err := feed.NewService(feedRepo, membershipRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create feed service", err)
		os.Exit(1)
	}

	commentService, err := comments.NewService(commentRepo, membershipRepo, feedRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create comments service", err)
		os.Exit(1)
	}

	progressService, err := progress.NewService(feedRepo, meetupRepo, membershipRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create progress service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			membershipRepo,
			circleService,
			inviteService,
			meetupService,
			feedService,
			commentService,
			progressService,
		),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
