package server

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"artechoes/internal/config"
	"artechoes/internal/domain/classify"
	"artechoes/internal/domain/upload"
	"artechoes/internal/middleware"
	"artechoes/internal/modules/auth"
	"artechoes/internal/modules/feed"
	"artechoes/internal/modules/gallery"
	"artechoes/internal/modules/profile"
	"artechoes/internal/pkg/jwt"
	"artechoes/internal/pkg/modelzip"
	"artechoes/internal/pkg/response"
	"artechoes/internal/pkg/storage"
	"artechoes/internal/repository"
)

// Deps are the long-lived collaborators the HTTP layer is built from.
type Deps struct {
	Config     *config.Config
	DB         *gorm.DB
	Resolver   *storage.Resolver
	Classifier classify.Classifier
	Extractor  *modelzip.Extractor
	Feed       *feed.Hub
}

// NewRouter wires every module onto a fresh gin engine.
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config

	userRepo := repository.NewUserRepository(d.DB)
	artworkRepo := repository.NewArtworkRepository(d.DB)
	threeDRepo := repository.NewThreeDRepository(d.DB)
	profileRepo := repository.NewProfileRepository(d.DB)

	tokens := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	uploadService := upload.NewService(artworkRepo, threeDRepo, d.Classifier, d.Resolver, d.Extractor, d.Feed)
	authHandler := auth.NewHandler(auth.NewService(userRepo, tokens))
	galleryHandler := gallery.NewHandler(gallery.NewService(artworkRepo, threeDRepo, uploadService))
	profileHandler := profile.NewHandler(profile.NewService(profileRepo, uploadService), d.Resolver, cfg.MaxProfilePicBytes)
	uploadHandler := upload.NewHandler(uploadService, cfg.MaxUploadBytes)
	feedHandler := feed.NewHandler(d.Feed, nil)

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(),
		middleware.RequestLogger(),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	assets := r.Group("/"+assetPrefix(d.Resolver), middleware.PublicAssets(), hideIngest)
	assets.StaticFS("/", gin.Dir(d.Resolver.Root(), false))

	api := r.Group("/api")
	{
		authHandler.RegisterRoutes(api)
		galleryHandler.RegisterRoutes(api)
		profileHandler.RegisterRoutes(api, middleware.JWTAuth(tokens))
		upload.RegisterRoutes(api, uploadHandler, middleware.OptionalAuth(tokens))
	}
	feedHandler.RegisterRoutes(r)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})

	return r
}

// assetPrefix is the URL prefix of stored files. Stored paths are relative to
// the base directory, so "/" + path must resolve under it.
func assetPrefix(resolver *storage.Resolver) string {
	rel, err := resolver.Relative(resolver.Root())
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return storage.DefaultUploadsDir
	}
	return rel
}

// hideIngest keeps half-processed uploads out of the static tree.
func hideIngest(c *gin.Context) {
	p := path.Clean("/" + c.Param("filepath"))
	if p == "/"+storage.IngestDir || strings.HasPrefix(p, "/"+storage.IngestDir+"/") {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	c.Next()
}
