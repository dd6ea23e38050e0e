package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	apiHttp "github.com/vibe-gaming/bmr-reminder/internal/api/http"
	"github.com/vibe-gaming/bmr-reminder/internal/cache"
	"github.com/vibe-gaming/bmr-reminder/internal/config"
	"github.com/vibe-gaming/bmr-reminder/internal/db"
	"github.com/vibe-gaming/bmr-reminder/internal/queue/asynqserver"
	"github.com/vibe-gaming/bmr-reminder/internal/queue/client"
	"github.com/vibe-gaming/bmr-reminder/internal/repository"
	"github.com/vibe-gaming/bmr-reminder/internal/server"
	"github.com/vibe-gaming/bmr-reminder/internal/service"
	"github.com/vibe-gaming/bmr-reminder/internal/worker"
	"github.com/vibe-gaming/bmr-reminder/pkg/email/smtp"
	"github.com/vibe-gaming/bmr-reminder/pkg/logger"
	"github.com/vibe-gaming/bmr-reminder/pkg/otp"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	// Init cfg from environment variables
	cfg := config.MustLoad()

	// Dependencies
	appLogger := logger.SetupLogger(cfg.Env, cfg.LogLevel)
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("starting bmr reminder", zap.String("env", cfg.Env))
	appLogger.Debug("debug messages are enabled")

	// Init database
	dbMySQL, err := db.New(cfg.Database)
	if err != nil {
		appLogger.Fatal("mysql connect problem", zap.Error(err))
	}
	defer func() {
		if err := dbMySQL.Close(); err != nil {
			appLogger.Error("error when closing", zap.Error(err))
		}
	}()
	appLogger.Info("mysql connection done")

	// Init redis
	redisClient, err := cache.NewRedis(cfg.Cache)
	if err != nil {
		appLogger.Fatal("redis connect problem", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			appLogger.Error("error when closing redis", zap.Error(err))
		}
	}()
	appLogger.Info("redis connection done")

	locker := cache.NewLocker(redisClient, cfg.Lock, appLogger.Named("locker"))

	asynqClient := asynq.NewClient(asynqserver.RedisOptions(cfg.Cache))
	defer func() {
		if err := asynqClient.Close(); err != nil {
			appLogger.Error("error when closing asynq client", zap.Error(err))
		}
	}()
	notifier := client.New(asynqClient, cfg.Queue, appLogger.Named("queue"))

	emailSender, err := smtp.NewSMTPSender(cfg.SMTP.From, cfg.SMTP.Pass, cfg.SMTP.Host, cfg.SMTP.Port)
	if err != nil {
		appLogger.Fatal("smtp sender creation failed", zap.Error(err))
	}

	// Services, Repos, Workers & API Handlers
	repos := repository.NewRepositories(dbMySQL)
	services := service.NewServices(service.Deps{
		Logger:       appLogger.Named("service"),
		Repos:        repos,
		OtpGenerator: otp.NewCryptoGenerator(),
		Notifier:     notifier,
		Locker:       locker,
	})

	workers, err := worker.NewWorkers(worker.Deps{
		Logger:        appLogger.Named("worker"),
		Config:        cfg,
		Repos:         repos,
		Services:      services,
		EmailProvider: emailSender,
		Notifier:      notifier,
		Locker:        locker,
	})
	if err != nil {
		appLogger.Fatal("workers creation failed", zap.Error(err))
	}

	handlers := apiHttp.NewHandlers(services, cfg)

	// HTTP Server
	srv := server.NewServer(cfg, handlers.Init())
	go func() {
		if err := srv.Run(); err != nil {
			appLogger.Error("error occurred while running http server", zap.Error(err))
		}
	}()
	appLogger.Info("server started", zap.String("port", cfg.HttpServer.Port))

	// Queue processors
	asynqSrv, mux := asynqserver.New(cfg, workers, appLogger.Named("asynq"))
	if err := asynqSrv.Start(mux); err != nil {
		appLogger.Fatal("asynq server start failed", zap.Error(err))
	}
	appLogger.Info("asynq server started")

	// Periodic tasks
	scheduler, err := asynqserver.NewScheduler(cfg, appLogger.Named("scheduler"))
	if err != nil {
		appLogger.Fatal("asynq scheduler creation failed", zap.Error(err))
	}
	if err := scheduler.Start(); err != nil {
		appLogger.Fatal("asynq scheduler start failed", zap.Error(err))
	}
	appLogger.Info("asynq scheduler started")

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	ctx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	if err := srv.Stop(ctx); err != nil {
		appLogger.Error("failed to stop server", zap.Error(err))
	}

	scheduler.Shutdown()
	asynqSrv.Shutdown()

	appLogger.Info("app stopped")
}
