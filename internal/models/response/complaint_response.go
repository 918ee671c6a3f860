package response

import (
	"time"

	"residence-be-svc/internal/models"
	"residence-be-svc/pkg/utils"
)

// ComplaintResponse is a complaint joined with its resident
type ComplaintResponse struct {
	ID            string                  `json:"id"`
	ResidentID    string                  `json:"residentId"`
	Resident      *models.ResidentSummary `json:"resident,omitempty"`
	Title         string                  `json:"title" example:"Water leakage"`
	Category      string                  `json:"category" example:"Plumbing"`
	Status        models.ComplaintStatus  `json:"status" example:"open"`
	Priority      models.Priority         `json:"priority" example:"medium"`
	Description   string                  `json:"description"`
	Images        []string                `json:"images"`
	AdminResponse *string                 `json:"adminResponse"`
	ResponseDate  *time.Time              `json:"responseDate"`
	CreatedAt     time.Time               `json:"createdAt"`
	UpdatedAt     time.Time               `json:"updatedAt"`
}

// NewComplaintResponse projects a complaint
func NewComplaintResponse(c *models.Complaint) *ComplaintResponse {
	resp := &ComplaintResponse{
		ID:            c.ID,
		ResidentID:    c.ResidentID,
		Title:         c.Title,
		Category:      c.Category,
		Status:        c.Status,
		Priority:      c.Priority,
		Description:   c.Description,
		Images:        c.Images,
		AdminResponse: c.AdminResponse,
		ResponseDate:  c.ResponseDate,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.Resident != nil {
		resp.Resident = c.Resident.Summary()
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	return resp
}

// ComplaintListResponse is one page of complaints plus totals per status
type ComplaintListResponse struct {
	Complaints []*ComplaintResponse `json:"complaints"`
	Pagination utils.Pagination     `json:"pagination"`
	Totals     map[string]int64     `json:"totals"`
}
