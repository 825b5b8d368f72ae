// @title           Mentoring Platform API
// @version         1.0
// @description     Accounts, role-gated access, mentoring services and seat-limited reservations.
// @host            localhost:8080
// @BasePath        /
//
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/mentorhub/mentoring-api/docs"
	"github.com/mentorhub/mentoring-api/internal/api"
	"github.com/mentorhub/mentoring-api/internal/core/service"
	mongodb "github.com/mentorhub/mentoring-api/internal/infrastructure/db/mongo"
	redisdb "github.com/mentorhub/mentoring-api/internal/infrastructure/db/redis"
	"github.com/mentorhub/mentoring-api/internal/infrastructure/http/handlers"
	"github.com/mentorhub/mentoring-api/internal/infrastructure/queue"
	"github.com/mentorhub/mentoring-api/internal/pkg/config"
	"github.com/mentorhub/mentoring-api/pkg/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Repositories ---
	users := mongodb.NewUserRepository(db)
	categories := mongodb.NewCategoryRepository(db)
	offerings := mongodb.NewOfferingRepository(db)
	reservations := mongodb.NewReservationRepository(db)
	activity := mongodb.NewActivityRepository(db)

	if err := mongodb.EnsureIndexes(ctx, users, categories, offerings, reservations, activity); err != nil {
		return err
	}

	// --- Activity trail ---
	recorder := service.NewActivityRecorder(activity, redisdb.NewDedupChecker(rdb), logger.Component("activity"))
	dispatcher := queue.NewDispatcher(cfg.Activity.Workers, recorder, logger.Component("dispatcher"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	// --- Services ---
	authCfg := service.AuthConfig{
		Secret:            cfg.Auth.JWTSecret,
		TokenTTL:          cfg.Auth.TokenTTL,
		EmailMaxLength:    cfg.Auth.EmailMaxLength,
		PasswordMinLength: cfg.Auth.PasswordMinLength,
	}
	authService := service.NewAuthService(users, authCfg, logger.Component("auth"))
	reservationService := service.NewReservationService(
		users,
		offerings,
		reservations,
		mongodb.NewTransactor(client),
		redisdb.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL),
		dispatcher,
		logger.Component("reservations"),
	)

	e := api.NewRouter(api.Dependencies{
		Log:          logger.Component("http"),
		Auth:         authService,
		Users:        service.NewUserService(users, authCfg, logger.Component("users")),
		Categories:   service.NewCategoryService(categories),
		Offerings:    service.NewOfferingService(offerings, categories, logger.Component("services")),
		Reservations: reservationService,
		UserStore:    users,
		HealthChecks: map[string]handlers.Check{
			"mongo": handlers.MongoCheck(db),
			"redis": handlers.RedisCheck(rdb),
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serveErr:
		stopWorkers()
		dispatcher.Wait()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)

	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("shutdown complete")
	return err
}
