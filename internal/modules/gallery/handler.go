package gallery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"artechoes/internal/pkg/response"
	"artechoes/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	artworks := api.Group("/artworks")
	{
		artworks.GET("", h.ListArtworks)
		artworks.GET("/user/:userId", h.ListByOwner)
		artworks.GET("/:id", h.GetArtwork)
	}

	api.GET("/categories", h.Categories)

	threeD := api.Group("/3d-art")
	{
		threeD.GET("", h.ListThreeD)
		threeD.GET("/:id", h.GetThreeD)
		threeD.GET("/:id/model", h.GetModel)
	}
}

// ListArtworks godoc
// @Summary Browse artworks
// @Tags Gallery
// @Param page query int false "1-based page"
// @Param limit query int false "page size, max 100"
// @Param category query string false "category slug"
// @Param q query string false "search title, description and artist"
// @Param tag query string false "hashtag"
// @Success 200 {object} ArtworkPage
// @Router /artworks [get]
func (h *Handler) ListArtworks(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query", validator.Describe(err))
		return
	}

	page, err := h.service.ListArtworks(c.Request.Context(), q)
	if err != nil {
		h.internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// GetArtwork godoc
// @Summary Get one artwork
// @Tags Gallery
// @Param id path string true "artwork id"
// @Success 200 {object} domain.Artwork
// @Failure 404 {object} map[string]interface{}
// @Router /artworks/{id} [get]
func (h *Handler) GetArtwork(c *gin.Context) {
	a, err := h.service.GetArtwork(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Artwork not found")
		return
	}
	response.Success(c, http.StatusOK, a)
}

func (h *Handler) ListByOwner(c *gin.Context) {
	items, err := h.service.ListByOwner(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"artworks": items})
}

func (h *Handler) Categories(c *gin.Context) {
	cats, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"categories": cats})
}

func (h *Handler) ListThreeD(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query", validator.Describe(err))
		return
	}

	page, err := h.service.ListThreeD(c.Request.Context(), q)
	if err != nil {
		h.internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) GetThreeD(c *gin.Context) {
	a, err := h.service.GetThreeD(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "3D artwork not found")
		return
	}
	response.Success(c, http.StatusOK, a)
}

// GetModel godoc
// @Summary Locate the model file of a 3D artwork
// @Tags Gallery
// @Param id path string true "3D artwork id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]interface{}
// @Router /3d-art/{id}/model [get]
func (h *Handler) GetModel(c *gin.Context) {
	url, err := h.service.ModelURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Model file not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"modelUrl": url})
}

func (h *Handler) fail(c *gin.Context, err error, notFound string) {
	if errors.Is(err, ErrNotFound) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", notFound)
		return
	}
	h.internal(c, err)
}

func (h *Handler) internal(c *gin.Context, err error) {
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}
