package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artechoes/internal/config"
	"artechoes/internal/database"
	"artechoes/internal/domain/classify"
	"artechoes/internal/modules/feed"
	"artechoes/internal/pkg/modelzip"
	"artechoes/internal/pkg/storage"
)

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01}

type testServer struct {
	base   string
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	base := t.TempDir()
	resolver, err := storage.NewResolver(storage.OSFS{}, base, "uploads")
	require.NoError(t, err)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:server_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	hub := feed.NewHub()
	t.Cleanup(hub.Close)

	r := NewRouter(Deps{
		Config: &config.Config{
			JWTSecret:          "test-secret",
			JWTTTL:             time.Hour,
			UploadsDir:         "uploads",
			MaxUploadBytes:     1 << 20,
			MaxProfilePicBytes: 1 << 20,
		},
		DB:         db,
		Resolver:   resolver,
		Classifier: classify.NewHeuristic(),
		Extractor:  modelzip.NewExtractor(0, 0),
		Feed:       hub,
	})
	return &testServer{base: base, router: r}
}

func (s *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) signup(t *testing.T) (token, userID string) {
	t.Helper()
	body := `{"username":"ann","email":"ann@example.com","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := s.serve(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.Token, out.UserID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.serve(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestStaticUploads(t *testing.T) {
	s := newTestServer(t)
	dir := filepath.Join(s.base, "uploads", "photography")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), jpegBytes, 0o644))

	w := s.serve(httptest.NewRequest(http.MethodGet, "/uploads/photography/a.jpg", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "cross-origin", w.Header().Get("Cross-Origin-Resource-Policy"))
	assert.Equal(t, jpegBytes, w.Body.Bytes())
}

func TestStaticUploads_IngestHidden(t *testing.T) {
	s := newTestServer(t)
	dir := filepath.Join(s.base, "uploads", storage.IngestDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp.jpg"), jpegBytes, 0o644))

	for _, target := range []string{
		"/uploads/.ingest/tmp.jpg",
		"/uploads//.ingest/tmp.jpg",
		"/uploads/./.ingest/tmp.jpg",
		"/uploads/x/../.ingest/tmp.jpg",
		"/uploads/.ingest",
	} {
		w := s.serve(httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, target)
	}
}

func TestNoRoute(t *testing.T) {
	s := newTestServer(t)

	w := s.serve(httptest.NewRequest(http.MethodGet, "/api/does-not-exist", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "Route not found", body["error"])
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/upload/classify", nil)
	req.Header.Set("Origin", "http://localhost:3000")

	w := s.serve(req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUploadThenBrowse(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.signup(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Sunset"))
	require.NoError(t, mw.WriteField("categories", `["Auto"]`))
	require.NoError(t, mw.WriteField("description", "golden hour #beach"))
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="artwork"; filename="sunset.jpg"`)
	h.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(jpegBytes)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/classify", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := s.serve(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Artwork struct {
			ID       string `json:"id"`
			FilePath string `json:"filePath"`
			UserID   string `json:"userId"`
		} `json:"artwork"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, userID, created.Artwork.UserID)
	assert.True(t, strings.HasPrefix(created.Artwork.FilePath, "uploads/photography/"), created.Artwork.FilePath)

	// the stored path doubles as the public URL
	w = s.serve(httptest.NewRequest(http.MethodGet, "/"+created.Artwork.FilePath, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.serve(httptest.NewRequest(http.MethodGet, "/api/artworks?tag=beach", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Total    int64 `json:"total"`
		Artworks []struct {
			ID string `json:"id"`
		} `json:"artworks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, created.Artwork.ID, page.Artworks[0].ID)
}

func TestProfileRequiresAuth(t *testing.T) {
	s := newTestServer(t)
	w := s.serve(httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_HEADER_MISSING")
}

func TestAssetPrefix(t *testing.T) {
	base := t.TempDir()
	r, err := storage.NewResolver(storage.OSFS{}, base, "media/files")
	require.NoError(t, err)
	assert.Equal(t, "media/files", assetPrefix(r))

	r, err = storage.NewResolver(storage.OSFS{}, base, filepath.Join(t.TempDir(), "elsewhere"))
	require.NoError(t, err)
	assert.Equal(t, storage.DefaultUploadsDir, assetPrefix(r))
}
