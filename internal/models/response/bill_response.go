package response

import (
	"time"

	"residence-be-svc/internal/models"
	"residence-be-svc/pkg/utils"
)

// BillResponse is a maintenance bill joined with its resident
type BillResponse struct {
	ID            string                  `json:"id" example:"4f1c2a9e-7d3b-4c55-9a61-0e2b7f0c1d11"`
	ResidentID    string                  `json:"residentId" example:"a3b1c2d4-0000-4000-8000-000000000001"`
	Resident      *models.ResidentSummary `json:"resident,omitempty"`
	Month         string                  `json:"month" example:"June"`
	Year          int                     `json:"year" example:"2024"`
	Amount        float64                 `json:"amount" example:"5000"`
	DueDate       time.Time               `json:"dueDate"`
	Status        models.BillStatus       `json:"status" example:"pending"`
	GeneratedDate time.Time               `json:"generatedDate"`
	PaidDate      *time.Time              `json:"paidDate"`
	Items         []models.BillItem       `json:"items"`
	CreatedAt     time.Time               `json:"createdAt"`
	UpdatedAt     time.Time               `json:"updatedAt"`
}

// NewBillResponse projects a bill, attaching the resident summary when it was loaded
func NewBillResponse(bill *models.MaintenanceBill) *BillResponse {
	resp := &BillResponse{
		ID:            bill.ID,
		ResidentID:    bill.ResidentID,
		Month:         bill.Month,
		Year:          bill.Year,
		Amount:        bill.Amount,
		DueDate:       bill.DueDate,
		Status:        bill.Status,
		GeneratedDate: bill.GeneratedDate,
		PaidDate:      bill.PaidDate,
		Items:         bill.Items,
		CreatedAt:     bill.CreatedAt,
		UpdatedAt:     bill.UpdatedAt,
	}
	if bill.Resident != nil {
		resp.Resident = bill.Resident.Summary()
	}
	if resp.Items == nil {
		resp.Items = []models.BillItem{}
	}
	return resp
}

// NewBillResponses projects a slice of bills
func NewBillResponses(bills []*models.MaintenanceBill) []*BillResponse {
	out := make([]*BillResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, NewBillResponse(b))
	}
	return out
}

// GenerateBillsResponse is the partial-success result of bill generation
type GenerateBillsResponse struct {
	Bills        []*BillResponse `json:"bills"`
	CreatedCount int             `json:"createdCount" example:"12"`
	SkippedCount int             `json:"skippedCount" example:"3"`
}

// BillListResponse is one page of bills
type BillListResponse struct {
	Bills      []*BillResponse  `json:"bills"`
	Pagination utils.Pagination `json:"pagination"`
}

// ResidentBillStatistics summarizes the bills of one resident
type ResidentBillStatistics struct {
	TotalOutstanding float64 `json:"totalOutstanding" example:"10000"`
	OverdueBills     int     `json:"overdueBills" example:"1"`
	PaidThisMonth    int     `json:"paidThisMonth" example:"0"`
	TotalBills       int     `json:"totalBills" example:"6"`
}

// ResidentBillsResponse is the bill history of one resident
type ResidentBillsResponse struct {
	Resident   *models.ResidentSummary `json:"resident"`
	Bills      []*BillResponse         `json:"bills"`
	Statistics ResidentBillStatistics  `json:"statistics"`
}
