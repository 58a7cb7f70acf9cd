package upload

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"artechoes/internal/domain"
	"artechoes/internal/middleware"
	"artechoes/internal/pkg/logger"
	"artechoes/internal/pkg/response"
	"artechoes/internal/pkg/utils"
)

// Handler exposes the upload pipeline over multipart HTTP.
type Handler struct {
	service  *Service
	maxBytes int64
}

func NewHandler(service *Service, maxBytes int64) *Handler {
	return &Handler{service: service, maxBytes: maxBytes}
}

// SubmitArtwork godoc
// @Summary Upload an artwork
// @Description Stores an image, PDF or 3D file under uploads/<category>/. A category of "Auto" is replaced by the classifier's label.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param artwork formData file true "Artwork file"
// @Param title formData string true "Title"
// @Param categories formData string true "JSON array of categories"
// @Success 201 {object} map[string]interface{}
// @Failure 400,413,500 {object} map[string]interface{}
// @Router /upload/classify [post]
func (h *Handler) SubmitArtwork(c *gin.Context) {
	form, ok := h.parseForm(c)
	if !ok {
		return
	}
	defer form.RemoveAll()

	categories, err := utils.ParseJSONList(formValue(form, "categories"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON for categories")
		return
	}
	tags, err := utils.ParseJSONList(formValue(form, "tags"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON for tags")
		return
	}

	file, err := h.ingest(form, "artwork")
	if err != nil {
		h.respondError(c, err)
		return
	}

	art, err := h.service.SubmitArtwork(c.Request.Context(), file, ArtworkMetadata{
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		Artist:      formValue(form, "artist"),
		OwnerID:     ownerID(c, form),
		Categories:  categories,
		Tags:        tags,
		Price:       formValue(form, "price"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	message := "Artwork uploaded successfully"
	body := gin.H{
		"id":         art.ID,
		"title":      art.Title,
		"artist":     art.Artist,
		"filePath":   art.FilePath,
		"categories": art.Categories,
		"price":      art.Price,
		"userId":     art.OwnerID,
	}
	if art.CategorizedAs != "" {
		message += fmt.Sprintf(" and categorized as %q", art.CategorizedAs)
		body["categorizedAs"] = art.CategorizedAs
	}
	response.Success(c, http.StatusCreated, gin.H{"message": message, "artwork": body})
}

// SubmitThreeD godoc
// @Summary Upload a 3D artwork
// @Description Stores a thumbnail and a model. A zipped model is extracted and the record points at the model inside it.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param thumbnail formData file true "Preview image"
// @Param modelFile formData file true "Model or zip bundle"
// @Success 201 {object} map[string]interface{}
// @Failure 400,413,500 {object} map[string]interface{}
// @Router /upload/3d-art [post]
func (h *Handler) SubmitThreeD(c *gin.Context) {
	form, ok := h.parseForm(c)
	if !ok {
		return
	}
	defer form.RemoveAll()

	thumb, err := h.ingest(form, "thumbnail")
	if err != nil {
		h.respondError(c, err)
		return
	}
	model, err := h.ingest(form, "modelFile")
	if err != nil {
		h.discard(thumb)
		h.respondError(c, err)
		return
	}

	rec, err := h.service.SubmitThreeD(c.Request.Context(), thumb, model, ThreeDMetadata{
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		Artist:      formValue(form, "artist"),
		OwnerID:     ownerID(c, form),
		Price:       formValue(form, "price"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "3D artwork uploaded successfully",
		"artwork": rec,
	})
}

func (h *Handler) parseForm(c *gin.Context) (*multipart.Form, bool) {
	form, err := ParseForm(c, h.maxBytes)
	if err != nil {
		RespondError(c, err)
		return nil, false
	}
	return form, true
}

// ParseForm reads a multipart body of at most maxBytes (0 disables the cap).
func ParseForm(c *gin.Context, maxBytes int64) (*multipart.Form, error) {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	}
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, maxBytes)
		}
		return nil, fmt.Errorf("%w: request must be multipart/form-data", ErrValidation)
	}
	return form, nil
}

// ingest copies the named multipart file into the ingest directory. A missing
// field yields a nil file, which the service reports as a validation error.
func (h *Handler) ingest(form *multipart.Form, field string) (*domain.UploadedFile, error) {
	return Ingest(h.service.Resolver(), form, field)
}

func (h *Handler) discard(f *domain.UploadedFile) {
	if f == nil {
		return
	}
	if err := h.service.Resolver().FS().Remove(f.TempPath); err != nil {
		logger.Warn().Err(err).Str("path", f.TempPath).Msg("failed to remove ingested file")
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	RespondError(c, err)
}

// RespondError writes err with the status and code from Status. Server-side
// failures are attached to the context for the error logger and get a generic
// message.
func RespondError(c *gin.Context, err error) {
	status, code := Status(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		message = "Upload failed"
	}
	response.Error(c, status, code, message)
}

// ownerID prefers the userId form field and falls back to the token's user.
func ownerID(c *gin.Context, form *multipart.Form) string {
	if id := formValue(form, "userId"); id != "" {
		return id
	}
	return c.GetString(middleware.ContextUserID)
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}
