package handler

import (
	"github.com/gin-gonic/gin"

	"residence-be-svc/internal/middleware"
	"residence-be-svc/internal/service"
	"residence-be-svc/pkg/logger"
	"residence-be-svc/pkg/utils"
)

// AdminLoginRequest represents the admin login body
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required" example:"superadmin"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// EmailLoginRequest represents the resident and service provider login body
type EmailLoginRequest struct {
	Email    string `json:"email" binding:"required" example:"jane@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// AuthHandler handles login, registration and session HTTP requests
type AuthHandler struct {
	authService service.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(authService service.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// AdminLogin handles POST /api/v1/admin/login
// @Summary Admin login
// @Description Authenticate a super admin by username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body AdminLoginRequest true "Admin credentials"
// @Success 200 {object} utils.APIResponse{data=response.LoginResponse} "Login successful"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 401 {object} utils.APIResponse "Username or password is incorrect"
// @Router /api/v1/admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Username and password are required")
		utils.BadRequestResponse(c, "Username and password are required", err)
		return
	}

	resp, err := h.authService.AdminLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.WithError(err).WithField("username", req.Username).Warn("Admin login failed")
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Login successful", resp)
}

// ServiceProviderLogin handles POST /api/v1/admin/service-provider/login
// @Summary Service provider login
// @Description Authenticate an approved service provider by email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body EmailLoginRequest true "Service provider credentials"
// @Success 200 {object} utils.APIResponse{data=response.LoginResponse} "Login successful"
// @Failure 401 {object} utils.APIResponse "Email or password is incorrect"
// @Failure 403 {object} utils.APIResponse "Account not approved"
// @Router /api/v1/admin/service-provider/login [post]
func (h *AuthHandler) ServiceProviderLogin(c *gin.Context) {
	var req EmailLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Email and password are required")
		utils.BadRequestResponse(c, "Email and password are required", err)
		return
	}

	resp, err := h.authService.ServiceProviderLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.WithError(err).WithField("email", req.Email).Warn("Service provider login failed")
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Login successful", resp)
}

// ResidentLogin handles POST /api/v1/admin/resident/login
// @Summary Resident login
// @Description Authenticate an active, approved resident by email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body EmailLoginRequest true "Resident credentials"
// @Success 200 {object} utils.APIResponse{data=response.LoginResponse} "Login successful"
// @Failure 401 {object} utils.APIResponse "Email or password is incorrect"
// @Failure 403 {object} utils.APIResponse "Pending approval or inactive"
// @Router /api/v1/admin/resident/login [post]
func (h *AuthHandler) ResidentLogin(c *gin.Context) {
	var req EmailLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Email and password are required")
		utils.BadRequestResponse(c, "Email and password are required", err)
		return
	}

	resp, err := h.authService.ResidentLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.WithError(err).WithField("email", req.Email).Warn("Resident login failed")
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Login successful", resp)
}

// RegisterServiceProvider handles POST /api/v1/admin/service-provider/register
// @Summary Register service provider
// @Description Create a pending service provider account. No token is issued until an admin approves it.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterServiceProviderRequest true "Service provider registration"
// @Success 201 {object} utils.APIResponse{data=models.ServiceProvider} "Service Provider registered successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /api/v1/admin/service-provider/register [post]
func (h *AuthHandler) RegisterServiceProvider(c *gin.Context) {
	var req service.RegisterServiceProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid registration data")
		utils.BadRequestResponse(c, "Invalid registration data", err)
		return
	}

	provider, err := h.authService.RegisterServiceProvider(c.Request.Context(), &req)
	if err != nil {
		h.logger.WithError(err).Warn("Service provider registration failed")
		utils.ErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Service Provider registered successfully", provider)
}

// RegisterResident handles POST /api/v1/admin/resident/register
// @Summary Register resident
// @Description Create a pending resident with credentials, or attach credentials to an admin-created resident with the same email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterResidentRequest true "Resident registration"
// @Success 201 {object} utils.APIResponse{data=models.Resident} "Resident registered successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /api/v1/admin/resident/register [post]
func (h *AuthHandler) RegisterResident(c *gin.Context) {
	var req service.RegisterResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid request body")
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	resident, err := h.authService.RegisterResident(c.Request.Context(), &req)
	if err != nil {
		h.logger.WithError(err).Warn("Resident registration failed")
		utils.ErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Resident registered successfully. Awaiting admin approval.", resident)
}

// Logout handles POST /api/v1/admin/logout
// @Summary Logout
// @Description Revoke the presented token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse "Logged out successfully"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /api/v1/admin/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.CurrentToken(c)); err != nil {
		h.logger.WithError(err).Error("Logout failed")
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Logged out successfully", nil)
}

// Me handles GET /api/v1/admin/me
// @Summary Current identity
// @Description Return the identity resolved from the token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse{data=models.Identity} "Identity retrieved successfully"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /api/v1/admin/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.UnauthorizedResponse(c, "No token provided")
		return
	}
	utils.SuccessResponse(c, "Identity retrieved successfully", identity)
}
