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

	"github.com/Dosada05/cricket-league/config"
	"github.com/Dosada05/cricket-league/db"
	"github.com/Dosada05/cricket-league/handlers"
	"github.com/Dosada05/cricket-league/metrics"
	"github.com/Dosada05/cricket-league/realtime"
	"github.com/Dosada05/cricket-league/repositories"
	api "github.com/Dosada05/cricket-league/routes"
	"github.com/Dosada05/cricket-league/seed"
	"github.com/Dosada05/cricket-league/services"
	"github.com/Dosada05/cricket-league/standings"
	"github.com/Dosada05/cricket-league/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("tournament_id", cfg.TournamentID),
	)

	rules := standings.Rules{AllottedOvers: cfg.AllottedOvers, AllOutWickets: cfg.AllOutWickets}
	if err := rules.Validate(); err != nil {
		return err
	}

	// Подключение к базе данных
	dbConn, err := db.Connect(ctx, cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	if err := db.Migrate(ctx, dbConn); err != nil {
		return err
	}
	logger.Info("database connection established")

	// Инициализация загрузчика файлов (Cloudflare R2)
	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("Cloudflare R2 not configured, snapshots are only broadcast")
	}

	// Инициализация WebSocket Hub
	hub := realtime.NewHub(logger)
	go hub.Run(ctx)
	logger.Info("WebSocket Hub started")

	m := metrics.New()

	// Инициализация репозиториев
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)
	transactor := repositories.NewTransactor(dbConn)

	// Инициализация сервисов
	tournamentService := services.NewTournamentService(tournamentRepo, standingRepo, transactor, rules, uploader, logger)
	if cfg.SeedFile != "" {
		if err := seedTournament(ctx, tournamentService, cfg, rules, logger); err != nil {
			return err
		}
	}

	publisher := services.NewSnapshotPublisher(hub, uploader, services.PublisherConfig{Attempts: cfg.PublishAttempts}, m, logger)
	resultService := services.NewResultService(tournamentRepo, standingRepo, transactor, rules, publisher, m, logger)
	authService := services.NewAuthService(cfg.ScorerPINHash, cfg.JWTSecretKey)
	if cfg.ScorerPINHash == "" {
		logger.Warn("SCORER_PIN_HASH is not set, result submission is disabled")
	}
	logger.Info("Services initialized")

	// Инициализация обработчиков HTTP
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Deps{
		TournamentHandler: handlers.NewTournamentHandler(tournamentService),
		MatchHandler:      handlers.NewMatchHandler(resultService, logger),
		AuthHandler:       handlers.NewAuthHandler(authService),
		WebSocketHandler:  handlers.NewWebSocketHandler(hub, tournamentService, cfg.CORSAllowedOrigins, logger),
		Metrics:           m.Handler(),
		JWTSecret:         []byte(cfg.JWTSecretKey),
		AllowedOrigins:    cfg.CORSAllowedOrigins,
	})
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
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

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
	if err := server.Shutdown(shutdownCtx); err != nil {
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server shutdown complete")
	return nil
}

func seedTournament(ctx context.Context, ts *services.TournamentService, cfg *config.Config, rules standings.Rules, logger *slog.Logger) error {
	t, err := seed.LoadFile(cfg.SeedFile, rules)
	if err != nil {
		return fmt.Errorf("failed to load seed: %w", err)
	}
	if t.ID != cfg.TournamentID {
		return fmt.Errorf("seed file %s describes tournament %q, expected %q", cfg.SeedFile, t.ID, cfg.TournamentID)
	}
	created, err := ts.EnsureSeeded(ctx, t)
	if err != nil {
		return fmt.Errorf("failed to seed tournament: %w", err)
	}
	logger.Info("seed checked", slog.String("tournament_id", t.ID), slog.Bool("created", created))
	return nil
}
