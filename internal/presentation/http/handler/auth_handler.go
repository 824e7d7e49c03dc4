package handler

import (
	"net/http"
	"time"

	"github.com/andesind/catalog-api/internal/application/service"
	"github.com/andesind/catalog-api/internal/presentation/http/dto/request"
	"github.com/andesind/catalog-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// SessionCookie describes the cookie that carries the session token
type SessionCookie struct {
	Name   string
	Secure bool
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	cookie      SessionCookie
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, cookie SessionCookie) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "session"
	}
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Login handles user login
// @Summary Login
// @Description Authenticate a back office user and start a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	maxAge := int(time.Until(output.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, output.Token, maxAge, "/", "", h.cookie.Secure, true)

	response.OK(c, "Login successful", gin.H{
		"user":       output.User,
		"token":      output.Token,
		"token_type": "Bearer",
		"expires_at": output.ExpiresAt,
	})
}

// Logout handles user logout
// @Summary Logout
// @Description Clear the session cookie
// @Tags auth
// @Success 200 {object} response.APIResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	response.OK(c, "Logged out successfully", nil)
}

// GetProfile handles fetching current user profile
// @Summary Get Profile
// @Description Get current user's profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	user, err := h.authService.GetProfile(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile retrieved successfully", gin.H{"user": user})
}
