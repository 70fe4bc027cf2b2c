package auth

import (
	"errors"
	"net/http"

	"animehub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/users/me", h.GetMe)
}

// Register godoc
// @Summary Register a new account
// @Description Creates a user account and returns a JWT for the session.
// @Tags Auth
// @Param request body RegisterRequest true "name, email, password"
// @Success 201 {object} map[string]interface{}
// @Failure 400,409,500 {object} map[string]interface{}
// @Router /auth/register [POST]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "Email already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create account")
		return
	}

	response.Success(c, http.StatusCreated, res)
}

// Login godoc
// @Summary Log in
// @Tags Auth
// @Param request body LoginRequest true "email, password"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401,500 {object} map[string]interface{}
// @Router /auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Wrong email or password")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed")
		return
	}

	response.Success(c, http.StatusOK, res)
}

// GetMe godoc
// @Summary Current user's profile
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401,500 {object} map[string]interface{}
// @Router /users/me [GET]
func (h *Handler) GetMe(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load profile")
		return
	}

	response.Success(c, http.StatusOK, user)
}
