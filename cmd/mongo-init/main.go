// Command mongo-init prepares the application database: the review and
// photo collections and their lookup indexes. It is safe to run repeatedly.
package main

import (
	"context"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/miapp/portal/internal/infrastructure/db/mongo"
	"github.com/miapp/portal/internal/pkg/config"
	"github.com/miapp/portal/pkg/logger"
)

func main() {
	log := logger.Init(logger.Options{
		Level:   os.Getenv("LOG_LEVEL"),
		Pretty:  os.Getenv("ENV") != "production",
		Service: "mongo-init",
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Only the Mongo settings matter here; SESSION_SECRET is not required.
	var cfg config.MongoConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.URI, Database: cfg.Database, AppName: "mongo-init"})
	if err != nil {
		log.Fatal().Err(err).Msg("unable to connect to database")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	res, err := mongo.Bootstrap(ctx, db, log)
	if err != nil {
		_ = client.Disconnect(context.Background())
		log.Fatal().Err(err).Msg("bootstrap failed")
	}

	log.Info().
		Strs("created", res.Created).
		Strs("existed", res.Existed).
		Msg("bootstrap complete")
}
