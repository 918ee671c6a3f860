package handler

import (
	"github.com/gin-gonic/gin"

	"residence-be-svc/internal/middleware"
	"residence-be-svc/internal/models"
	"residence-be-svc/internal/models/response"
	"residence-be-svc/internal/repository"
	"residence-be-svc/internal/service"
	"residence-be-svc/pkg/logger"
	"residence-be-svc/pkg/utils"
)

// ComplaintStatusRequest represents the admin status update body
type ComplaintStatusRequest struct {
	Status string `json:"status" example:"in_progress"`
}

// ComplaintHandler handles complaint HTTP requests
type ComplaintHandler struct {
	complaintService service.ComplaintService
	logger           *logger.Logger
}

// NewComplaintHandler creates a new ComplaintHandler instance
func NewComplaintHandler(complaintService service.ComplaintService, logger *logger.Logger) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
		logger:           logger,
	}
}

// ListComplaints handles GET /api/v1/admin/resident/complaints
// @Summary List complaints
// @Description Admins see every complaint, residents only their own. Totals are per status.
// @Tags complaints
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Search term"
// @Param status query string false "open, in_progress, resolved or closed"
// @Success 200 {object} utils.APIResponse{data=response.ComplaintListResponse} "Complaints fetched successfully"
// @Router /api/v1/admin/resident/complaints [get]
func (h *ComplaintHandler) ListComplaints(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	filter := repository.ComplaintFilter{
		ListOptions: listOptions(c),
		Status:      models.ComplaintStatus(c.Query("status")),
	}

	complaints, total, totals, err := h.complaintService.ListComplaints(c.Request.Context(), identity, filter)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to list complaints")
		utils.ErrorResponse(c, err)
		return
	}

	items := make([]*response.ComplaintResponse, 0, len(complaints))
	for _, complaint := range complaints {
		items = append(items, response.NewComplaintResponse(complaint))
	}

	counts := map[string]int64{"total": 0}
	for status, n := range totals {
		counts[string(status)] = n
		counts["total"] += n
	}

	utils.SuccessResponse(c, "Complaints fetched successfully", response.ComplaintListResponse{
		Complaints: items,
		Pagination: utils.NewPagination(filter.Page, filter.Limit, total),
		Totals:     counts,
	})
}

// CreateComplaint handles POST /api/v1/admin/resident/complaints
// @Summary Submit complaint
// @Description Residents file for themselves; admins must pass residentId
// @Tags complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateComplaintRequest true "Complaint"
// @Success 201 {object} utils.APIResponse{data=response.ComplaintResponse} "Complaint submitted successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /api/v1/admin/resident/complaints [post]
func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	var req service.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid request body")
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	complaint, err := h.complaintService.CreateComplaint(c.Request.Context(), identity, &req)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to submit complaint")
		utils.ErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Complaint submitted successfully", response.NewComplaintResponse(complaint))
}

// UpdateStatus handles PUT /api/v1/admin/resident/complaints/:id/admin-status-update
// @Summary Update complaint status
// @Tags complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Complaint ID"
// @Param request body ComplaintStatusRequest true "New status"
// @Success 200 {object} utils.APIResponse{data=response.ComplaintResponse} "Complaint status updated successfully"
// @Failure 400 {object} utils.APIResponse "Invalid status"
// @Failure 404 {object} utils.APIResponse "Complaint not found"
// @Router /api/v1/admin/resident/complaints/{id}/admin-status-update [put]
func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	id, err := utils.GetIDParam(c, "id")
	if err != nil {
		h.logger.WithError(err).Warn("Invalid complaint ID")
		utils.BadRequestResponse(c, "Invalid complaint ID", err)
		return
	}

	var req ComplaintStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Status is required")
		utils.BadRequestResponse(c, "Status is required", err)
		return
	}

	complaint, err := h.complaintService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.logger.WithError(err).WithField("id", id).Warn("Failed to update complaint status")
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Complaint status updated successfully", response.NewComplaintResponse(complaint))
}

// Respond handles PUT /api/v1/admin/resident/complaints/:id/respond
// @Summary Respond to complaint
// @Description Stores the admin response and stamps the response date, optionally moving the status
// @Tags complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Complaint ID"
// @Param request body service.RespondComplaintRequest true "Response"
// @Success 200 {object} utils.APIResponse{data=response.ComplaintResponse} "Response recorded successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Complaint not found"
// @Router /api/v1/admin/resident/complaints/{id}/respond [put]
func (h *ComplaintHandler) Respond(c *gin.Context) {
	id, err := utils.GetIDParam(c, "id")
	if err != nil {
		h.logger.WithError(err).Warn("Invalid complaint ID")
		utils.BadRequestResponse(c, "Invalid complaint ID", err)
		return
	}

	var req service.RespondComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Response is required")
		utils.BadRequestResponse(c, "Response is required", err)
		return
	}

	complaint, err := h.complaintService.Respond(c.Request.Context(), id, &req)
	if err != nil {
		h.logger.WithError(err).WithField("id", id).Warn("Failed to respond to complaint")
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Response recorded successfully", response.NewComplaintResponse(complaint))
}
