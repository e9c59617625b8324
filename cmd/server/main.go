// Command server runs the portal web server.
//
// @title        Portal API
// @version      1.0
// @description  Session record and view-state endpoints of the portal.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/miapp/portal/internal/api"
	"github.com/miapp/portal/internal/api/middleware"
	"github.com/miapp/portal/internal/core/ports"
	"github.com/miapp/portal/internal/core/service"
	"github.com/miapp/portal/internal/infrastructure/db/mongo"
	"github.com/miapp/portal/internal/infrastructure/db/redis"
	"github.com/miapp/portal/internal/infrastructure/queue"
	"github.com/miapp/portal/internal/infrastructure/session/memory"
	"github.com/miapp/portal/internal/pkg/config"
	"github.com/miapp/portal/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "portal",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	var (
		err      error
		rdb      *goredis.Client
		sessions ports.SessionBackend
		dedup    service.DedupChecker
	)
	switch cfg.Session.Backend {
	case config.BackendRedis:
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		sessions = redis.NewSessionBackend(rdb, cfg.Session.TTL)
		dedup = redis.NewDedupChecker(rdb)
	default:
		log.Warn().Msg("using in-memory session backend; records are lost on restart")
		sessions = memory.NewBackend()
	}

	var (
		db       *gomongo.Database
		recorder ports.ActivityRecorder
	)
	if cfg.ActivityAudit {
		mongoClient, mdb, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "portal",
		})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mongoClient.Disconnect(dctx)
		}()
		db = mdb

		activityRepo := mongo.NewActivityRepository(db)
		if err := activityRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("could not ensure session_events indexes")
		}

		activity := service.NewActivityService(activityRepo, dedup, log)
		dispatcher := queue.NewDispatcher(cfg.ActivityWorkers, activity, log)
		workerCtx, stopWorkers := context.WithCancel(context.Background())
		dispatcher.Start(workerCtx)
		defer func() {
			stopWorkers()
			dispatcher.Wait()
		}()
		recorder = dispatcher
	} else {
		log.Info().Msg("activity audit disabled; mongo not used")
	}

	e := api.NewRouter(api.Deps{
		Sessions:        sessions,
		Recorder:        recorder,
		Codec:           middleware.NewSessionCodec(cfg.Session.Secret, cfg.Session.TTL),
		SecureCookies:   cfg.IsProduction(),
		RegistrationURL: cfg.RegistrationPath,
		Mongo:           db,
		Redis:           rdb,
		Log:             log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("session_backend", cfg.Session.Backend).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
