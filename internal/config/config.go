package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort               = "5000"
	defaultDatabaseURL        = "artechoes.db"
	defaultJWTSecret          = "change-me-jwt-secret"
	defaultJWTTTL             = "24h"
	defaultUploadsDir         = "uploads"
	defaultMaxUploadBytes     = 50 << 20
	defaultMaxProfilePicBytes = 20 << 20
	defaultMaxArchiveDepth    = 8
	defaultMaxExtractBytes    = 512 << 20
	defaultClassifier         = "heuristic"
	defaultGeminiModel        = "gemini-1.5-flash"
	defaultLogLevel           = "info"
	defaultLogFormat          = "json"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	UploadsDir         string
	MaxUploadBytes     int64
	MaxProfilePicBytes int64
	MaxArchiveDepth    int
	MaxExtractBytes    int64

	Classifier   string
	GeminiAPIKey string
	GeminiModel  string

	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.UploadsDir = strings.TrimSpace(getEnv("UPLOADS_DIR", defaultUploadsDir))
	cfg.Classifier = strings.ToLower(strings.TrimSpace(getEnv("CLASSIFIER", defaultClassifier)))
	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	cfg.GeminiModel = strings.TrimSpace(getEnv("GEMINI_MODEL", defaultGeminiModel))
	cfg.LogLevel = strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel))
	cfg.LogFormat = strings.TrimSpace(getEnv("LOG_FORMAT", defaultLogFormat))
	cfg.CORSAllowedOrigins = parseListEnv("CORS_ALLOWED_ORIGINS")

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes, err = parseInt64Env("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}
	cfg.MaxProfilePicBytes, err = parseInt64Env("MAX_PROFILE_PIC_BYTES", defaultMaxProfilePicBytes)
	if err != nil {
		return nil, err
	}
	cfg.MaxExtractBytes, err = parseInt64Env("MAX_EXTRACT_BYTES", defaultMaxExtractBytes)
	if err != nil {
		return nil, err
	}
	depth, err := parseInt64Env("MAX_ARCHIVE_DEPTH", defaultMaxArchiveDepth)
	if err != nil {
		return nil, err
	}
	cfg.MaxArchiveDepth = int(depth)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV names a production-like environment.
func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.UploadsDir == "" {
		return fmt.Errorf("UPLOADS_DIR must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be > 0")
	}
	if cfg.MaxProfilePicBytes <= 0 {
		return fmt.Errorf("MAX_PROFILE_PIC_BYTES must be > 0")
	}
	if cfg.MaxExtractBytes <= 0 {
		return fmt.Errorf("MAX_EXTRACT_BYTES must be > 0")
	}
	if cfg.MaxArchiveDepth <= 0 {
		return fmt.Errorf("MAX_ARCHIVE_DEPTH must be > 0")
	}

	switch cfg.Classifier {
	case "heuristic":
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when CLASSIFIER=gemini")
		}
	default:
		return fmt.Errorf("CLASSIFIER must be one of: heuristic, gemini")
	}

	if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseInt64Env(name string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseListEnv(name string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
