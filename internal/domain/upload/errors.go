package upload

import (
	"errors"
	"net/http"

	"artechoes/internal/domain/classify"
	"artechoes/internal/pkg/modelzip"
	"artechoes/internal/pkg/storage"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrNotFound        = errors.New("not found")
	ErrRejected        = errors.New("record rejected")
	ErrPersistence     = errors.New("failed to save record")
)

// Status maps a pipeline error onto an HTTP status and a stable error code.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, ErrInvalidFileType):
		return http.StatusBadRequest, "INVALID_FILE_TYPE"
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, classify.ErrClassification):
		return http.StatusBadRequest, "CLASSIFICATION_ERROR"
	case errors.Is(err, modelzip.ErrCorrupt):
		return http.StatusBadRequest, "CORRUPT_ARCHIVE"
	case errors.Is(err, modelzip.ErrNotFound):
		// the uploaded archive holds no model; the request itself was fine
		return http.StatusBadRequest, "NOT_FOUND"
	case errors.Is(err, ErrRejected):
		return http.StatusBadRequest, "PERSISTENCE_REJECTED"
	case errors.Is(err, storage.ErrStorage):
		return http.StatusInternalServerError, "STORAGE_ERROR"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
