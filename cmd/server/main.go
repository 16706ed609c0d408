package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/feedyapp/feedy-api/internal/api"
	"github.com/feedyapp/feedy-api/internal/core/service"
	mongodb "github.com/feedyapp/feedy-api/internal/infrastructure/db/mongo"
	redisdb "github.com/feedyapp/feedy-api/internal/infrastructure/db/redis"
	"github.com/feedyapp/feedy-api/internal/infrastructure/jobs"
	"github.com/feedyapp/feedy-api/internal/infrastructure/mail"
	"github.com/feedyapp/feedy-api/internal/infrastructure/queue"
	"github.com/feedyapp/feedy-api/internal/pkg/config"
	"github.com/feedyapp/feedy-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Local development reads a .env file; production relies on real env vars.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Backing stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongo index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	titleRepo := mongodb.NewTitleRepository(db)
	entryRepo := mongodb.NewEntryRepository(db)
	voteRepo := mongodb.NewVoteRepository(db)
	categoryRepo := mongodb.NewCategoryRepository(db)
	pictureStore, err := mongodb.NewPictureStore(db)
	if err != nil {
		log.Fatal().Err(err).Msg("picture store init failed")
	}

	tokenStore := redisdb.NewTokenStore(rdb)
	oneTimeStore := redisdb.NewOneTimeTokenStore(rdb)
	trendingCache := redisdb.NewTrendingCache(rdb)

	// --- Mail pipeline ---
	mailer := mail.NewSMTPMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, log)
	dispatcher := queue.NewDispatcher(cfg.MailWorkers, mailer, log)
	dispatcher.Start(ctx)

	// --- Services ---
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, tokenStore)
	authService := service.NewAuthService(userRepo, tokenService, oneTimeStore, dispatcher, cfg.BaseURL, log)
	titleService := service.NewTitleService(titleRepo, entryRepo, voteRepo, categoryRepo, log)
	entryService := service.NewEntryService(entryRepo, voteRepo, titleRepo, log)
	categoryService := service.NewCategoryService(categoryRepo, titleRepo, trendingCache, log)
	userService := service.NewUserService(userRepo, pictureStore, log)

	// --- Background jobs ---
	runner := jobs.NewRunner(categoryService, log)
	if err := runner.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("job runner start failed")
	}
	defer runner.Stop()

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		DB:         db,
		Redis:      rdb,
		Tokens:     tokenService,
		Auth:       authService,
		Titles:     titleService,
		Entries:    entryService,
		Categories: categoryService,
		Users:      userService,
		Log:        log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
