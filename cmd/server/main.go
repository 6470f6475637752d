package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/praxislabs/praxis-backend/internal/cache"
	"github.com/praxislabs/praxis-backend/internal/config"
	"github.com/praxislabs/praxis-backend/internal/handler"
	"github.com/praxislabs/praxis-backend/internal/logger"
	"github.com/praxislabs/praxis-backend/internal/repository"
	"github.com/praxislabs/praxis-backend/internal/router"
	"github.com/praxislabs/praxis-backend/internal/service"
	"github.com/praxislabs/praxis-backend/internal/session"
	"github.com/praxislabs/praxis-backend/internal/storage"
	"github.com/praxislabs/praxis-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("storage", cfg.StorageDriver).
		Msg("Starting Praxis Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Storage Backend ──────────────────────────────────────────
	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("Failed to open storage backend")
	}
	defer backend.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	repos := repository.NewFactory(backend)

	// ─── Sessions and Request Cache ────────────────────────────────────
	sessions := session.NewStore(cfg.SessionTTL, cfg.RememberMeTTL)
	rc := cache.New(cfg.CacheTTL)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(repos.Users(), sessions, cfg.BcryptCost, log)
	contentService := service.NewContentService(repos.Scenarios(), rc, log)
	learningService := service.NewLearningService(repos.Scenarios(), repos.Programs(), repos.Tasks(), log)
	evaluationService := service.NewEvaluationService(repos.Evaluations(), repos.Programs(), repos.Tasks(), log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Scenario:   handler.NewScenarioHandler(contentService, rc),
		Program:    handler.NewProgramHandler(learningService),
		Evaluation: handler.NewEvaluationHandler(evaluationService),
		System:     handler.NewSystemHandler(backend, rc, sessions),
	}

	// ─── Prewarm Request Cache ────────────────────────────────────────
	// Load the active scenario catalog BEFORE accepting traffic so the
	// first burst of learners never stampedes the backend.
	if err := contentService.PrewarmActiveScenarios(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(sessions, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
