package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"residence-be-svc/internal/middleware"
	"residence-be-svc/internal/models"
	"residence-be-svc/internal/models/response"
	"residence-be-svc/internal/repository"
	"residence-be-svc/internal/service"
	"residence-be-svc/pkg/logger"
	"residence-be-svc/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BillHandler handles maintenance bill HTTP requests
type BillHandler struct {
	billService service.BillService
	logger      *logger.Logger
}

// NewBillHandler creates a new BillHandler instance
func NewBillHandler(billService service.BillService, logger *logger.Logger) *BillHandler {
	return &BillHandler{
		billService: billService,
		logger:      logger,
	}
}

func billFilter(c *gin.Context) repository.BillFilter {
	return repository.BillFilter{
		ListOptions: listOptions(c),
		Status:      models.BillStatus(c.Query("status")),
	}
}

// ListBills handles GET /api/v1/admin/maintenance
// @Summary List maintenance bills
// @Description Admins see every bill, residents only their own. Search matches month, year and resident name, apartment, email or phone.
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Search term"
// @Param status query string false "pending, paid, overdue or cancelled"
// @Param sort query string false "Sort field" default(createdAt)
// @Param order query string false "asc or desc" default(desc)
// @Success 200 {object} utils.APIResponse{data=response.BillListResponse} "Maintenance bills fetched successfully"
// @Router /api/v1/admin/maintenance [get]
func (h *BillHandler) ListBills(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)
	filter := billFilter(c)

	bills, total, err := h.billService.ListBills(c.Request.Context(), identity, filter)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to list maintenance bills")
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Maintenance bills fetched successfully", response.BillListResponse{
		Bills:      response.NewBillResponses(bills),
		Pagination: utils.NewPagination(filter.Page, filter.Limit, total),
	})
}

// GenerateBills handles POST /api/v1/admin/maintenance/generate
// @Summary Generate maintenance bills
// @Description Create one pending bill per active, approved resident for the period. Residents already billed for the period are skipped.
// @Tags maintenance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.GenerateBillsRequest true "Target residents and bill template"
// @Success 201 {object} utils.APIResponse{data=response.GenerateBillsResponse} "Bills generated"
// @Failure 400 {object} utils.APIResponse "Validation failed or every resident already billed"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Router /api/v1/admin/maintenance/generate [post]
func (h *BillHandler) GenerateBills(c *gin.Context) {
	var req service.GenerateBillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid request body")
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	result, err := h.billService.GenerateBills(c.Request.Context(), &req)
	if err != nil {
		var appErr *utils.AppError
		if result != nil && errors.As(err, &appErr) {
			h.logger.WithError(err).WithField("skipped_count", result.SkippedCount).Warn("Bill generation rejected")
			utils.FailureResponse(c, utils.StatusCode(appErr.Kind), appErr.Message, gin.H{"skippedCount": result.SkippedCount})
			return
		}
		h.logger.WithError(err).Warn("Bill generation rejected")
		utils.ErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, fmt.Sprintf("Successfully generated %d maintenance bills", len(result.Bills)), response.GenerateBillsResponse{
		Bills:        response.NewBillResponses(result.Bills),
		CreatedCount: len(result.Bills),
		SkippedCount: result.SkippedCount,
	})
}

// UpdateStatus handles PUT /api/v1/admin/maintenance/:id/status
// @Summary Update bill status
// @Description Writes any valid status. Setting paid stamps paidDate unless paidDate is given.
// @Tags maintenance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bill ID"
// @Param request body service.UpdateBillStatusRequest true "Status and/or paid date"
// @Success 200 {object} utils.APIResponse{data=response.BillResponse} "Bill status updated successfully"
// @Failure 400 {object} utils.APIResponse "Invalid status"
// @Failure 404 {object} utils.APIResponse "Bill not found"
// @Router /api/v1/admin/maintenance/{id}/status [put]
func (h *BillHandler) UpdateStatus(c *gin.Context) {
	id, err := utils.GetIDParam(c, "id")
	if err != nil {
		h.logger.WithError(err).Warn("Invalid bill ID")
		utils.BadRequestResponse(c, "Invalid bill ID", err)
		return
	}

	var req service.UpdateBillStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid request body")
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	bill, err := h.billService.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		h.logger.WithError(err).WithField("id", id).Warn("Failed to update bill status")
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Bill status updated successfully", response.NewBillResponse(bill))
}

// MarkPaid handles PUT /api/v1/admin/maintenance/:id/mark-paid
// @Summary Mark bill as paid
// @Description An admin settles the bill. A resident only notifies the admin about their own bill; its status is unchanged.
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bill ID"
// @Success 200 {object} utils.APIResponse{data=response.BillResponse} "Bill marked as paid or notification sent"
// @Failure 400 {object} utils.APIResponse "Already paid"
// @Failure 403 {object} utils.APIResponse "Not the owner"
// @Failure 404 {object} utils.APIResponse "Bill not found"
// @Router /api/v1/admin/maintenance/{id}/mark-paid [put]
func (h *BillHandler) MarkPaid(c *gin.Context) {
	id, err := utils.GetIDParam(c, "id")
	if err != nil {
		h.logger.WithError(err).Warn("Invalid bill ID")
		utils.BadRequestResponse(c, "Invalid bill ID", err)
		return
	}

	identity, _ := middleware.CurrentIdentity(c)
	bill, message, err := h.billService.MarkPaid(c.Request.Context(), identity, id)
	if err != nil {
		h.logger.WithError(err).WithField("id", id).Warn("Failed to mark bill paid")
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, message, gin.H{"bill": response.NewBillResponse(bill)})
}

// ResidentBills handles GET /api/v1/admin/maintenance/resident/:residentId
// @Summary Bills of a resident
// @Description Bill history with outstanding total, overdue count and bills paid this month
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Param residentId path string true "Resident ID"
// @Success 200 {object} utils.APIResponse{data=response.ResidentBillsResponse} "Bills fetched successfully"
// @Failure 403 {object} utils.APIResponse "Not the owner"
// @Failure 404 {object} utils.APIResponse "Resident not found"
// @Router /api/v1/admin/maintenance/resident/{residentId} [get]
func (h *BillHandler) ResidentBills(c *gin.Context) {
	residentID, err := utils.GetIDParam(c, "residentId")
	if err != nil {
		h.logger.WithError(err).Warn("Invalid resident ID")
		utils.BadRequestResponse(c, "Invalid resident ID", err)
		return
	}

	identity, _ := middleware.CurrentIdentity(c)
	resp, err := h.billService.ResidentBills(c.Request.Context(), identity, residentID)
	if err != nil {
		h.logger.WithError(err).WithField("resident_id", residentID).Warn("Failed to load resident bills")
		utils.ErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Bills fetched successfully", resp)
}

// ExportBills handles GET /api/v1/admin/maintenance/export
// @Summary Export bills to Excel
// @Description Exports the filtered bill list as an xlsx workbook
// @Tags maintenance
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param search query string false "Search term"
// @Param status query string false "pending, paid, overdue or cancelled"
// @Success 200 {file} file "Excel workbook"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/admin/maintenance/export [get]
func (h *BillHandler) ExportBills(c *gin.Context) {
	data, filename, err := h.billService.ExportBills(c.Request.Context(), billFilter(c))
	if err != nil {
		h.logger.WithError(err).Error("Failed to export bills")
		utils.ErrorResponse(c, err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"filename": filename,
		"size":     len(data),
	}).Info("Bills exported")

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
