package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"artechoes/internal/config"
	"artechoes/internal/database"
	"artechoes/internal/domain/classify"
	"artechoes/internal/modules/feed"
	"artechoes/internal/pkg/logger"
	"artechoes/internal/pkg/modelzip"
	"artechoes/internal/pkg/storage"
	"artechoes/internal/server"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connect failed")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("database migration failed")
	}

	resolver, err := storage.NewResolver(storage.OSFS{}, ".", cfg.UploadsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("uploads directory")
	}
	if _, err := resolver.EnsureDir(resolver.Root()); err != nil {
		logger.Fatal().Err(err).Str("dir", resolver.Root()).Msg("uploads directory")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	classifier, closeClassifier := newClassifier(ctx, cfg)
	defer closeClassifier()

	hub := feed.NewHub()
	defer hub.Close()

	router := server.NewRouter(server.Deps{
		Config:     cfg,
		DB:         db,
		Resolver:   resolver,
		Classifier: classifier,
		Extractor:  modelzip.NewExtractor(cfg.MaxArchiveDepth, cfg.MaxExtractBytes),
		Feed:       hub,
	})

	logger.Info().
		Str("env", cfg.AppEnv).
		Str("classifier", cfg.Classifier).
		Str("uploads", resolver.Root()).
		Msg("artechoes api starting")

	if err := server.Run(ctx, ":"+cfg.Port, router); err != nil {
		logger.Fatal().Err(err).Msg("http server failed")
	}
	logger.Info().Msg("bye")
}

// newClassifier picks the configured strategy. A remote classifier falls
// back to the heuristic for files it cannot look at, and its answers are
// cached by content.
func newClassifier(ctx context.Context, cfg *config.Config) (classify.Classifier, func()) {
	heuristic := classify.NewHeuristic()
	if cfg.Classifier != "gemini" {
		return heuristic, func() {}
	}

	g, err := classify.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, heuristic)
	if err != nil {
		logger.Fatal().Err(err).Msg("gemini client")
	}
	return classify.NewCached(g), func() {
		if err := g.Close(); err != nil {
			logger.Warn().Err(err).Msg("gemini client close")
		}
	}
}
