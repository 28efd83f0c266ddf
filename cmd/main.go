package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/asopadel/padel-system/config"
	"github.com/asopadel/padel-system/db"
	"github.com/asopadel/padel-system/handlers"
	"github.com/asopadel/padel-system/live"
	"github.com/asopadel/padel-system/repositories"
	api "github.com/asopadel/padel-system/routes"
	"github.com/asopadel/padel-system/services"
	"github.com/asopadel/padel-system/storage"
)

// courtStatusInterval is how often live court statuses are recomputed and
// pushed to websocket subscribers.
const courtStatusInterval = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(context.Background(), dbConn); err != nil {
		logger.Error("failed to run schema migration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("schema migration applied")

	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize object storage", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("object storage initialized")
	} else {
		logger.Warn("object storage not configured, image uploads disabled")
	}

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := cache.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unreachable, leaderboard cache disabled", slog.Any("error", err))
			cache = nil
		} else {
			logger.Info("leaderboard cache connected", slog.String("addr", cfg.RedisAddr))
		}
	}

	hub := live.NewHub(logger)
	go hub.Run()

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	categoryRepo := repositories.NewPostgresCategoryRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	statRepo := repositories.NewPostgresStatRepository(dbConn)
	courtRepo := repositories.NewPostgresCourtRepository(dbConn)
	reservationRepo := repositories.NewPostgresReservationRepository(dbConn)
	newsRepo := repositories.NewPostgresNewsRepository(dbConn)

	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey, logger)
	userService := services.NewUserService(userRepo, uploader, logger)
	tournamentService := services.NewTournamentService(tournamentRepo, categoryRepo, userRepo, logger)
	matchService := services.NewMatchService(dbConn, matchRepo, userRepo, statRepo, tournamentRepo, hub, logger)
	reservationService := services.NewReservationService(dbConn, reservationRepo, courtRepo, hub, logger)
	courtService := services.NewCourtService(courtRepo, reservationRepo, matchRepo, uploader, logger)
	rankingService := services.NewRankingService(userRepo, statRepo, cache, logger)
	newsService := services.NewNewsService(newsRepo, uploader, logger)
	dashboardService := services.NewDashboardService(userRepo, matchRepo, reservationRepo, courtService, rankingService)

	// Periodically push court occupancy to the courts room.
	go func() {
		ticker := time.NewTicker(courtStatusInterval)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			statuses, err := courtService.ListStatuses(ctx, time.Now())
			cancel()
			if err != nil {
				logger.Error("court status refresh failed", slog.Any("error", err))
				continue
			}
			hub.BroadcastToRoom(live.CourtsRoom, live.Message{
				Type:    "COURT_STATUS",
				Payload: statuses,
			})
		}
	}()

	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	matchHandler := handlers.NewMatchHandler(matchService, rankingService)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	courtHandler := handlers.NewCourtHandler(courtService)
	rankingHandler := handlers.NewRankingHandler(rankingService)
	newsHandler := handlers.NewNewsHandler(newsService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	wsHandler := handlers.NewWebSocketHandler(hub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authService,
		authHandler,
		userHandler,
		tournamentHandler,
		matchHandler,
		reservationHandler,
		courtHandler,
		rankingHandler,
		newsHandler,
		dashboardHandler,
		wsHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
