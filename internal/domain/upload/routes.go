package upload

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the upload endpoints. auth identifies the caller when
// a token is sent; uploads may also name their owner in the userId field.
func RegisterRoutes(r *gin.RouterGroup, h *Handler, auth gin.HandlerFunc) {
	uploads := r.Group("/upload", auth)
	{
		uploads.POST("", h.SubmitArtwork)
		uploads.POST("/classify", h.SubmitArtwork)
		uploads.POST("/3d-art", h.SubmitThreeD)
	}
}
