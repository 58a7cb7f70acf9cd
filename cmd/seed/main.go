package main

import (
	"context"
	"errors"
	"flag"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"artechoes/internal/config"
	"artechoes/internal/database"
	"artechoes/internal/domain"
	"artechoes/internal/pkg/logger"
	"artechoes/internal/repository"
)

type seedUser struct {
	username, email, password string
}

type seedArtwork struct {
	title, artist, description string
	categories, tags           []string
	file                       string
	price                      float64
}

var users = []seedUser{
	{"mira", "mira@artechoes.dev", "gallery123"},
	{"tomas", "tomas@artechoes.dev", "gallery123"},
}

// Paths point at files the frontend ships as placeholders; the seed does
// not write anything under uploads/.
var artworks = []seedArtwork{
	{"Harbor at Dusk", "Mira Sol", "Long exposure over the old port #harbor #blue", []string{"photography", "landscape"}, []string{"harbor", "blue"}, "uploads/photography/harbor-at-dusk.jpg", 120},
	{"Quiet Room", "Mira Sol", "Oil on linen", []string{"oil-painting"}, []string{"interior"}, "uploads/oil-painting/quiet-room.jpg", 900},
	{"Grid Study 4", "Tomas Reyes", "Generative piece #generative", []string{"digital-art", "abstract"}, []string{"generative"}, "uploads/digital-art/grid-study-4.png", 45},
	{"Linocut Birds", "", "Three-colour print", []string{"printmaking"}, nil, "uploads/printmaking/linocut-birds.pdf", 60},
}

func main() {
	reset := flag.Bool("reset", false, "delete existing gallery rows first")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: "console"})

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connect failed")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("database migration failed")
	}

	if *reset {
		logger.Info().Msg("cleaning old data")
		for _, table := range []string{"artwork_categories", "artworks", "three_d_artworks", "profiles", "users"} {
			if err := db.Exec("DELETE FROM " + table).Error; err != nil {
				logger.Fatal().Err(err).Str("table", table).Msg("cleanup failed")
			}
		}
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	artworkRepo := repository.NewArtworkRepository(db)

	owners := make([]string, 0, len(users))
	for _, u := range users {
		id, err := ensureUser(ctx, userRepo, u)
		if err != nil {
			logger.Fatal().Err(err).Str("email", u.email).Msg("create user failed")
		}
		owners = append(owners, id)
		logger.Info().Str("email", u.email).Str("password", u.password).Msg("user ready")
	}

	for i, a := range artworks {
		art := &domain.Artwork{
			Title:       a.title,
			Artist:      a.artist,
			Description: a.description,
			Categories:  a.categories,
			Tags:        a.tags,
			FilePath:    a.file,
			Price:       a.price,
			OwnerID:     owners[i%len(owners)],
		}
		if art.Artist == "" {
			art.Artist = domain.DefaultArtist
		}
		if err := artworkRepo.Create(ctx, art); err != nil {
			logger.Fatal().Err(err).Str("title", a.title).Msg("create artwork failed")
		}
	}
	logger.Info().Int("users", len(users)).Int("artworks", len(artworks)).Msg("seed completed")
}

func ensureUser(ctx context.Context, repo *repository.UserRepository, u seedUser) (string, error) {
	existing, err := repo.GetByEmail(ctx, u.email)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	user := &domain.User{Username: u.username, Email: u.email, PasswordHash: string(hash)}
	if err := repo.Create(ctx, user); err != nil {
		return "", err
	}
	return user.ID, nil
}
