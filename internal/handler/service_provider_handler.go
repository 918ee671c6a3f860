package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"residence-be-svc/internal/models"
	"residence-be-svc/internal/models/response"
	"residence-be-svc/internal/repository"
	"residence-be-svc/internal/service"
	"residence-be-svc/pkg/logger"
	"residence-be-svc/pkg/utils"
)

// ServiceProviderApprovalRequest represents the service provider approval body
type ServiceProviderApprovalRequest struct {
	Status string `json:"status" binding:"required" example:"approved"`
}

// ServiceProviderHandler handles service provider administration HTTP requests
type ServiceProviderHandler struct {
	providerService service.ServiceProviderService
	logger          *logger.Logger
}

// NewServiceProviderHandler creates a new ServiceProviderHandler instance
func NewServiceProviderHandler(providerService service.ServiceProviderService, logger *logger.Logger) *ServiceProviderHandler {
	return &ServiceProviderHandler{
		providerService: providerService,
		logger:          logger,
	}
}

// ListServiceProviders handles GET /api/v1/admin/service-providers/all
// @Summary List service providers
// @Tags service-providers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Search term"
// @Param status query string false "pending, approved or rejected"
// @Param category query string false "Service category"
// @Param sort query string false "Sort field" default(createdAt)
// @Param order query string false "asc or desc" default(desc)
// @Success 200 {object} utils.APIResponse{data=response.ServiceProviderListResponse} "Service providers fetched successfully"
// @Router /api/v1/admin/service-providers/all [get]
func (h *ServiceProviderHandler) ListServiceProviders(c *gin.Context) {
	filter := repository.ServiceProviderFilter{
		ListOptions: listOptions(c),
		Status:      models.ServiceProviderStatus(c.Query("status")),
		Category:    c.Query("category"),
	}

	providers, total, err := h.providerService.ListServiceProviders(c.Request.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to list service providers")
		utils.ErrorResponse(c, err)
		return
	}
	if providers == nil {
		providers = []*models.ServiceProvider{}
	}

	utils.SuccessResponse(c, "Service providers fetched successfully", response.ServiceProviderListResponse{
		ServiceProviders: providers,
		Pagination:       utils.NewPagination(filter.Page, filter.Limit, total),
	})
}

// SetApproval handles PUT /api/v1/admin/service-providers/:id/approval
// @Summary Approve or reject service provider
// @Tags service-providers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service provider ID"
// @Param request body ServiceProviderApprovalRequest true "Decision"
// @Success 200 {object} utils.APIResponse{data=models.ServiceProvider} "Service provider approved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid status"
// @Failure 404 {object} utils.APIResponse "Service provider not found"
// @Router /api/v1/admin/service-providers/{id}/approval [put]
func (h *ServiceProviderHandler) SetApproval(c *gin.Context) {
	id, err := utils.GetIDParam(c, "id")
	if err != nil {
		h.logger.WithError(err).Warn("Invalid service provider ID")
		utils.BadRequestResponse(c, "Invalid service provider ID", err)
		return
	}

	var req ServiceProviderApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Status must be 'approved' or 'rejected'")
		utils.BadRequestResponse(c, "Status must be 'approved' or 'rejected'", err)
		return
	}

	status := models.ServiceProviderStatus(req.Status)
	provider, err := h.providerService.SetApproval(c.Request.Context(), id, status)
	if err != nil {
		h.logger.WithError(err).WithField("id", id).Warn("Failed to update service provider approval")
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, fmt.Sprintf("Service provider %s successfully", status), provider)
}

// DeleteServiceProvider handles DELETE /api/v1/admin/service-providers/:id
// @Summary Delete service provider
// @Tags service-providers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service provider ID"
// @Success 200 {object} utils.APIResponse "Service provider deleted successfully"
// @Failure 404 {object} utils.APIResponse "Service provider not found"
// @Router /api/v1/admin/service-providers/{id} [delete]
func (h *ServiceProviderHandler) DeleteServiceProvider(c *gin.Context) {
	id, err := utils.GetIDParam(c, "id")
	if err != nil {
		h.logger.WithError(err).Warn("Invalid service provider ID")
		utils.BadRequestResponse(c, "Invalid service provider ID", err)
		return
	}

	if err := h.providerService.DeleteServiceProvider(c.Request.Context(), id); err != nil {
		h.logger.WithError(err).WithField("id", id).Warn("Failed to delete service provider")
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Service provider deleted successfully", nil)
}

// Stats handles GET /api/v1/admin/service-providers/stats/overview
// @Summary Service provider statistics
// @Tags service-providers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse{data=response.ServiceProviderStatsResponse} "Statistics fetched successfully"
// @Router /api/v1/admin/service-providers/stats/overview [get]
func (h *ServiceProviderHandler) Stats(c *gin.Context) {
	stats, err := h.providerService.Stats(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load service provider stats")
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Statistics fetched successfully", stats)
}
