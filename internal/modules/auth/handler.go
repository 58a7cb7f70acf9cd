package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"artechoes/internal/domain"
	"artechoes/internal/pkg/response"
	"artechoes/internal/pkg/validator"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/validate-token", h.ValidateToken)
	}
}

// Signup godoc
// @Summary Register a new user
// @Tags Auth
// @Param request body SignupRequest true "username, email, password"
// @Success 201 {object} map[string]interface{}
// @Failure 400,409,500 {object} map[string]interface{}
// @Router /auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.Describe(err))
		return
	}

	user, token, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
		case errors.Is(err, ErrUsernameAlreadyExists):
			response.Error(c, http.StatusConflict, "USERNAME_EXISTS", "This username is already taken")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register user")
		}
		return
	}

	response.Success(c, http.StatusCreated, sessionBody(user, token))
}

// Login godoc
// @Summary Log in with email and password
// @Tags Auth
// @Param request body LoginRequest true "email, password"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401,500 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.Describe(err))
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		return
	}

	response.Success(c, http.StatusOK, sessionBody(user, token))
}

// ValidateToken godoc
// @Summary Check a Bearer token
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /auth/validate-token [get]
func (h *Handler) ValidateToken(c *gin.Context) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Bearer token is required")
		return
	}

	user, err := h.service.ValidateToken(c.Request.Context(), strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to validate token")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"valid": true, "user": toPublic(user)})
}

func sessionBody(user *domain.User, token string) gin.H {
	return gin.H{
		"token":    token,
		"userId":   user.ID,
		"username": user.Username,
		"email":    user.Email,
		"user":     toPublic(user),
	}
}

func toPublic(u *domain.User) UserPublic {
	return UserPublic{ID: u.ID, Username: u.Username, Email: u.Email}
}
