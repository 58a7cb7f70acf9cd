package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"artechoes/internal/domain"
	"artechoes/internal/pkg/storage"
)

// Ingest copies the named multipart file into the resolver's ingest
// directory under a random name. It returns nil, nil when the field is
// absent.
func Ingest(resolver *storage.Resolver, form *multipart.Form, field string) (*domain.UploadedFile, error) {
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	fh := headers[0]

	dir, err := resolver.IngestDir()
	if err != nil {
		return nil, err
	}
	tmp := filepath.Join(dir, uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))

	if err := saveUploadedFile(fh, tmp); err != nil {
		_ = resolver.FS().Remove(tmp)
		return nil, err
	}
	return &domain.UploadedFile{
		OriginalName: fh.Filename,
		MediaType:    fh.Header.Get("Content-Type"),
		TempPath:     tmp,
		Size:         fh.Size,
	}, nil
}

func saveUploadedFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("%w: open upload: %v", storage.ErrStorage, err)
	}
	defer src.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("%w: create ingest file: %v", storage.ErrStorage, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return fmt.Errorf("%w: write ingest file: %v", storage.ErrStorage, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: close ingest file: %v", storage.ErrStorage, err)
	}
	return nil
}
