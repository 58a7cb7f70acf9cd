package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"artechoes/internal/domain"
)

func newTestRouter(repo *mockUserRepo) (*gin.Engine, *Service) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(repo)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"))
	return r, svc
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_SignupAndValidate(t *testing.T) {
	repo := new(mockUserRepo)
	r, _ := newTestRouter(repo)

	repo.On("ExistsByEmailOrUsername", mock.Anything, "ann@example.com", "ann").Return(false, false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	w := postJSON(r, "/api/auth/signup", gin.H{"username": "ann", "email": "ann@example.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Token  string     `json:"token"`
		UserID string     `json:"userId"`
		User   UserPublic `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "user-1", body.UserID)
	assert.Equal(t, "ann", body.User.Username)
	assert.NotContains(t, w.Body.String(), "password")

	repo.On("GetByID", mock.Anything, "user-1").Return(&domain.User{ID: "user-1", Username: "ann", Email: "ann@example.com"}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/validate-token", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":true`)
}

func TestHandler_SignupValidation(t *testing.T) {
	repo := new(mockUserRepo)
	r, _ := newTestRouter(repo)

	w := postJSON(r, "/api/auth/signup", gin.H{"username": "ann", "email": "not-an-email", "password": "secret1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandler_SignupConflict(t *testing.T) {
	repo := new(mockUserRepo)
	r, _ := newTestRouter(repo)
	repo.On("ExistsByEmailOrUsername", mock.Anything, mock.Anything, mock.Anything).Return(false, true, nil)

	w := postJSON(r, "/api/auth/signup", gin.H{"username": "ann", "email": "ann@example.com", "password": "secret1"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "USERNAME_EXISTS")
}

func TestHandler_LoginInvalid(t *testing.T) {
	repo := new(mockUserRepo)
	r, _ := newTestRouter(repo)
	repo.On("GetByEmail", mock.Anything, "ann@example.com").Return(nil, gorm.ErrRecordNotFound)

	w := postJSON(r, "/api/auth/login", gin.H{"email": "ann@example.com", "password": "x"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}

func TestHandler_ValidateTokenMissingHeader(t *testing.T) {
	r, _ := newTestRouter(new(mockUserRepo))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/validate-token", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
