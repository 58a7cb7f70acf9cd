package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"artechoes/internal/domain/upload"
	"artechoes/internal/middleware"
	"artechoes/internal/pkg/response"
	"artechoes/internal/pkg/storage"
	"artechoes/internal/pkg/validator"
)

type Handler struct {
	service  *Service
	resolver *storage.Resolver
	maxBytes int64
}

func NewHandler(service *Service, resolver *storage.Resolver, maxBytes int64) *Handler {
	return &Handler{service: service, resolver: resolver, maxBytes: maxBytes}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	profile := api.Group("/profile", auth)
	{
		profile.GET("", h.Get)
		profile.PUT("", h.Update)
		profile.POST("/upload", h.UploadPicture)
	}
}

// Get godoc
// @Summary Current user's profile
// @Tags Profile
// @Security BearerAuth
// @Success 200 {object} domain.Profile
// @Router /profile [get]
func (h *Handler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load profile")
		return
	}
	response.Success(c, http.StatusOK, p)
}

// Update godoc
// @Summary Edit the current user's profile
// @Tags Profile
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "bio, location, website"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} map[string]interface{}
// @Router /profile [put]
func (h *Handler) Update(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.Describe(err))
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid profile fields", errs)
		return
	}

	p, err := h.service.Update(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update profile")
		return
	}
	response.Success(c, http.StatusOK, p)
}

// UploadPicture godoc
// @Summary Replace the profile picture
// @Tags Profile
// @Security BearerAuth
// @Accept multipart/form-data
// @Param profilePic formData file true "Image"
// @Success 200 {object} map[string]interface{}
// @Failure 400,413,500 {object} map[string]interface{}
// @Router /profile/upload [post]
func (h *Handler) UploadPicture(c *gin.Context) {
	form, err := upload.ParseForm(c, h.maxBytes)
	if err != nil {
		upload.RespondError(c, err)
		return
	}
	defer form.RemoveAll()

	file, err := upload.Ingest(h.resolver, form, "profilePic")
	if err != nil {
		upload.RespondError(c, err)
		return
	}

	p, err := h.service.UploadPicture(c.Request.Context(), c.GetString(middleware.ContextUserID), file)
	if err != nil {
		upload.RespondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message":    "Profile picture updated",
		"profilePic": p.ProfilePic,
		"profile":    p,
	})
}
