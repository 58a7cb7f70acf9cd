package main

import (
	"flag"
	"time"

	"github.com/joho/godotenv"

	"artechoes/internal/config"
	"artechoes/internal/pkg/logger"
	"artechoes/internal/pkg/storage"
)

func main() {
	olderThan := flag.Duration("older-than", time.Hour, "remove ingest files older than this")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	resolver, err := storage.NewResolver(storage.OSFS{}, ".", cfg.UploadsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("uploads directory")
	}

	removed, err := resolver.SweepIngest(time.Now().Add(-*olderThan))
	if err != nil {
		logger.Fatal().Err(err).Int("removed", removed).Msg("ingest cleanup failed")
	}
	logger.Info().Int("removed", removed).Dur("older_than", *olderThan).Msg("ingest cleanup completed")
}
