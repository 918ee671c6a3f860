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

// ApprovalRequest represents the resident approval body
type ApprovalRequest struct {
	ApprovalStatus string `json:"approvalStatus" binding:"required" example:"approved"`
}

// ResidentHandler handles resident administration HTTP requests
type ResidentHandler struct {
	residentService service.ResidentService
	logger          *logger.Logger
}

// NewResidentHandler creates a new ResidentHandler instance
func NewResidentHandler(residentService service.ResidentService, logger *logger.Logger) *ResidentHandler {
	return &ResidentHandler{
		residentService: residentService,
		logger:          logger,
	}
}

// listOptions reads the shared page, search and sort query parameters
func listOptions(c *gin.Context) repository.ListOptions {
	page, limit := utils.GetPageParams(c)
	return repository.ListOptions{
		Page:      page,
		Limit:     limit,
		Search:    c.Query("search"),
		SortBy:    c.Query("sort"),
		Ascending: utils.SortAscending(c),
	}
}

// ListResidents handles GET /api/v1/admin/resident
// @Summary List residents
// @Description Paginated resident list with search over name, email, apartment and phone
// @Tags residents
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Search term"
// @Param status query string false "pending, active or inactive"
// @Param sort query string false "Sort field" default(createdAt)
// @Param order query string false "asc or desc" default(desc)
// @Success 200 {object} utils.APIResponse{data=response.ResidentListResponse} "Residents fetched successfully"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/admin/resident [get]
func (h *ResidentHandler) ListResidents(c *gin.Context) {
	filter := repository.ResidentFilter{
		ListOptions: listOptions(c),
		Status:      models.ResidentStatus(c.Query("status")),
	}

	residents, total, err := h.residentService.ListResidents(c.Request.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to list residents")
		utils.ErrorResponse(c, err)
		return
	}
	if residents == nil {
		residents = []*models.Resident{}
	}

	utils.SuccessResponse(c, "Residents fetched successfully", response.ResidentListResponse{
		Residents:  residents,
		Pagination: utils.NewPagination(filter.Page, filter.Limit, total),
	})
}

// CreateResident handles POST /api/v1/admin/resident
// @Summary Create resident
// @Description Admin-created residents are active and approved but have no login until they register
// @Tags residents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateResidentRequest true "Resident"
// @Success 201 {object} utils.APIResponse{data=models.Resident} "Resident created successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /api/v1/admin/resident [post]
func (h *ResidentHandler) CreateResident(c *gin.Context) {
	var req service.CreateResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Name, apartment, phone and email are required")
		utils.BadRequestResponse(c, "Name, apartment, phone and email are required", err)
		return
	}

	resident, err := h.residentService.CreateResident(c.Request.Context(), &req)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to create resident")
		utils.ErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Resident created successfully", resident)
}

// GetResident handles GET /api/v1/admin/resident/:id
// @Summary Get resident
// @Tags residents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resident ID"
// @Success 200 {object} utils.APIResponse{data=models.Resident} "Resident fetched successfully"
// @Failure 404 {object} utils.APIResponse "Resident not found"
// @Router /api/v1/admin/resident/{id} [get]
func (h *ResidentHandler) GetResident(c *gin.Context) {
	id, err := utils.GetIDParam(c, "id")
	if err != nil {
		h.logger.WithError(err).Warn("Invalid resident ID")
		utils.BadRequestResponse(c, "Invalid resident ID", err)
		return
	}

	resident, err := h.residentService.GetResident(c.Request.Context(), id)
	if err != nil {
		h.logger.WithError(err).WithField("id", id).Warn("Failed to load resident")
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Resident fetched successfully", resident)
}

// SetApproval handles PUT /api/v1/admin/resident/:id/approval
// @Summary Approve or reject resident
// @Description approved activates the resident, rejected deactivates it
// @Tags residents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resident ID"
// @Param request body ApprovalRequest true "Approval decision"
// @Success 200 {object} utils.APIResponse{data=models.Resident} "Resident approved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid approval status"
// @Failure 404 {object} utils.APIResponse "Resident not found"
// @Router /api/v1/admin/resident/{id}/approval [put]
func (h *ResidentHandler) SetApproval(c *gin.Context) {
	id, err := utils.GetIDParam(c, "id")
	if err != nil {
		h.logger.WithError(err).Warn("Invalid resident ID")
		utils.BadRequestResponse(c, "Invalid resident ID", err)
		return
	}

	var req ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Approval status must be approved or rejected")
		utils.BadRequestResponse(c, "Approval status must be approved or rejected", err)
		return
	}

	approval := models.ApprovalStatus(req.ApprovalStatus)
	resident, err := h.residentService.SetApproval(c.Request.Context(), id, approval)
	if err != nil {
		h.logger.WithError(err).WithField("id", id).Warn("Failed to update resident approval")
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, fmt.Sprintf("Resident %s successfully", approval), resident)
}

// DeleteResident handles DELETE /api/v1/admin/resident/:id
// @Summary Delete resident
// @Description Deletes the resident together with their complaints and bills
// @Tags residents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resident ID"
// @Success 200 {object} utils.APIResponse "Resident deleted successfully"
// @Failure 404 {object} utils.APIResponse "Resident not found"
// @Router /api/v1/admin/resident/{id} [delete]
func (h *ResidentHandler) DeleteResident(c *gin.Context) {
	id, err := utils.GetIDParam(c, "id")
	if err != nil {
		h.logger.WithError(err).Warn("Invalid resident ID")
		utils.BadRequestResponse(c, "Invalid resident ID", err)
		return
	}

	if err := h.residentService.DeleteResident(c.Request.Context(), id); err != nil {
		h.logger.WithError(err).WithField("id", id).Warn("Failed to delete resident")
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Resident deleted successfully", nil)
}
