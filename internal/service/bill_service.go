package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"residence-be-svc/internal/metrics"
	"residence-be-svc/internal/models"
	"residence-be-svc/internal/models/response"
	"residence-be-svc/internal/repository"
	"residence-be-svc/pkg/logger"
	"residence-be-svc/pkg/utils"
)

// BillItemInput is one line of a bill template. Amount is a pointer so a missing
// amount can be told apart from zero.
type BillItemInput struct {
	Description string   `json:"description" example:"Maintenance"`
	Amount      *float64 `json:"amount" example:"5000"`
}

// BillTemplate holds the fields shared by every bill of one generation run
type BillTemplate struct {
	Month   string          `json:"month" example:"June"`
	Year    *int            `json:"year" example:"2024"`
	Amount  *float64        `json:"amount" example:"5000"`
	DueDate string          `json:"dueDate" example:"2024-06-30"`
	Items   []BillItemInput `json:"items"`
}

// GenerateBillsRequest targets residentIds, or every billable resident when empty
type GenerateBillsRequest struct {
	ResidentIDs []string      `json:"residentIds"`
	BillData    *BillTemplate `json:"billData"`
}

// GenerateBillsResult splits a generation run into created bills and residents
// skipped because they were already billed for the period
type GenerateBillsResult struct {
	Bills        []*models.MaintenanceBill
	SkippedCount int
}

// UpdateBillStatusRequest is the admin status write. Both fields are optional but not both empty.
type UpdateBillStatusRequest struct {
	Status   string `json:"status" example:"paid"`
	PaidDate string `json:"paidDate" example:"2024-06-15"`
}

// BillService defines the interface for maintenance bill business operations
type BillService interface {
	GenerateBills(ctx context.Context, req *GenerateBillsRequest) (*GenerateBillsResult, error)
	ListBills(ctx context.Context, actor *models.Identity, filter repository.BillFilter) ([]*models.MaintenanceBill, int64, error)
	UpdateStatus(ctx context.Context, id string, req *UpdateBillStatusRequest) (*models.MaintenanceBill, error)
	MarkPaid(ctx context.Context, actor *models.Identity, id string) (*models.MaintenanceBill, string, error)
	ResidentBills(ctx context.Context, actor *models.Identity, residentID string) (*response.ResidentBillsResponse, error)
	ExportBills(ctx context.Context, filter repository.BillFilter) ([]byte, string, error)
	MarkOverdueBills(ctx context.Context) (int64, error)
}

// billService implements BillService
type billService struct {
	billRepo     repository.BillRepository
	residentRepo repository.ResidentRepository
	logger       *logger.Logger
	now          func() time.Time
}

// NewBillService creates a new instance of BillService
func NewBillService(billRepo repository.BillRepository, residentRepo repository.ResidentRepository, logger *logger.Logger) BillService {
	return &billService{
		billRepo:     billRepo,
		residentRepo: residentRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// GenerateBills creates one pending bill per billable resident for the template's period.
// When every target resident is already billed the result is returned together with
// an InvalidArgument error so callers can still report the skipped count.
func (s *billService) GenerateBills(ctx context.Context, req *GenerateBillsRequest) (*GenerateBillsResult, error) {
	if req == nil || req.BillData == nil {
		return nil, utils.InvalidArgument("Bill data is required")
	}

	month, year, dueDate, items, err := validateBillTemplate(req.BillData)
	if err != nil {
		return nil, err
	}

	ids, err := normalizeResidentIDs(req.ResidentIDs)
	if err != nil {
		return nil, err
	}

	residents, err := s.residentRepo.FindBillable(ctx, ids)
	if err != nil {
		s.logger.WithError(err).Error("Failed to resolve residents for bill generation")
		return nil, utils.Internal("Failed to generate bills", err)
	}
	if len(residents) == 0 {
		s.logger.WithField("requested", len(ids)).Warn("No billable residents for bill generation")
		return nil, utils.InvalidArgument("No active residents found to generate bills for")
	}

	targetIDs := make([]string, 0, len(residents))
	for _, r := range residents {
		targetIDs = append(targetIDs, r.ID)
	}

	billedIDs, err := s.billRepo.FindBilledResidentIDs(ctx, targetIDs, month, year)
	if err != nil {
		s.logger.WithError(err).Error("Failed to check existing bills")
		return nil, utils.Internal("Failed to generate bills", err)
	}
	billed := make(map[string]struct{}, len(billedIDs))
	for _, id := range billedIDs {
		billed[id] = struct{}{}
	}

	pending := make([]*models.MaintenanceBill, 0, len(residents))
	byResident := make(map[string]*models.Resident, len(residents))
	for _, r := range residents {
		if _, ok := billed[r.ID]; ok {
			continue
		}
		byResident[r.ID] = r
		pending = append(pending, &models.MaintenanceBill{
			ResidentID: r.ID,
			Month:      month,
			Year:       year,
			Amount:     *req.BillData.Amount,
			DueDate:    dueDate,
			Status:     models.BillPending,
			Items:      items,
		})
	}

	result := &GenerateBillsResult{SkippedCount: len(residents) - len(pending)}

	if len(pending) > 0 {
		created, err := s.billRepo.CreateBills(ctx, pending)
		if err != nil {
			s.logger.WithError(err).WithField("period", fmt.Sprintf("%s %d", month, year)).
				Error("Failed to create maintenance bills")
			return nil, utils.Internal("Failed to generate bills", err)
		}
		// rows lost to a concurrent run count as skipped
		result.SkippedCount += len(pending) - len(created)
		for _, b := range created {
			b.Resident = byResident[b.ResidentID]
		}
		result.Bills = created
	}

	metrics.BillsSkippedTotal.Add(float64(result.SkippedCount))

	if len(result.Bills) == 0 {
		s.logger.WithFields(map[string]interface{}{
			"month":   month,
			"year":    year,
			"skipped": result.SkippedCount,
		}).Warn("Every target resident is already billed for the period")
		return result, utils.InvalidArgument(fmt.Sprintf("Bills for %s %d already exist for all selected residents", month, year))
	}

	metrics.BillsGeneratedTotal.Add(float64(len(result.Bills)))
	s.logger.WithFields(map[string]interface{}{
		"month":   month,
		"year":    year,
		"created": len(result.Bills),
		"skipped": result.SkippedCount,
	}).Info("Maintenance bills generated")

	return result, nil
}

// validateBillTemplate reports the first violated rule, in the order the rules are documented
func validateBillTemplate(t *BillTemplate) (string, int, time.Time, []models.BillItem, error) {
	if strings.TrimSpace(t.Month) == "" || t.Year == nil || *t.Year == 0 || t.Amount == nil ||
		strings.TrimSpace(t.DueDate) == "" || t.Items == nil {
		return "", 0, time.Time{}, nil, utils.InvalidArgument("Missing required fields: month, year, amount, dueDate, and items are required")
	}

	if len(t.Items) == 0 {
		return "", 0, time.Time{}, nil, utils.InvalidArgument("At least one bill item is required")
	}

	items := make([]models.BillItem, 0, len(t.Items))
	for _, item := range t.Items {
		if strings.TrimSpace(item.Description) == "" || item.Amount == nil {
			return "", 0, time.Time{}, nil, utils.InvalidArgument("Each item must have description and amount")
		}
		if *item.Amount < 0 {
			return "", 0, time.Time{}, nil, utils.InvalidArgument("Item amount cannot be negative")
		}
		items = append(items, models.BillItem{
			Description: strings.TrimSpace(item.Description),
			Amount:      *item.Amount,
		})
	}

	if *t.Amount < 0 {
		return "", 0, time.Time{}, nil, utils.InvalidArgument("Bill amount cannot be negative")
	}

	dueDate, ok := parseDate(t.DueDate)
	if !ok {
		return "", 0, time.Time{}, nil, utils.InvalidArgument("Invalid due date format")
	}

	month, ok := canonicalMonth(t.Month)
	if !ok {
		return "", 0, time.Time{}, nil, utils.InvalidArgument("Invalid month")
	}

	if *t.Year < 1 {
		return "", 0, time.Time{}, nil, utils.InvalidArgument("Invalid year")
	}

	return month, *t.Year, dueDate, items, nil
}

// canonicalMonth accepts a month name, its three letter abbreviation or 1-12 and
// returns the full English name, so "june", "Jun" and "6" bill the same period.
func canonicalMonth(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return "", false
		}
		return time.Month(n).String(), true
	}
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return name, true
		}
	}
	return "", false
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func normalizeResidentIDs(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	ids := make([]string, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(strings.TrimSpace(r))
		if err != nil {
			return nil, utils.InvalidArgument(fmt.Sprintf("Invalid resident id %q", r))
		}
		if _, dup := seen[id.String()]; dup {
			continue
		}
		seen[id.String()] = struct{}{}
		ids = append(ids, id.String())
	}
	return ids, nil
}

// ListBills lists bills; residents only ever see their own
func (s *billService) ListBills(ctx context.Context, actor *models.Identity, filter repository.BillFilter) ([]*models.MaintenanceBill, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, utils.InvalidArgument("Status must be one of: pending, paid, overdue, cancelled")
	}
	if actor != nil && actor.Role == models.RoleResident {
		filter.ResidentID = actor.ID
	}

	bills, total, err := s.billRepo.List(ctx, filter)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch bills")
		return nil, 0, utils.Internal("Failed to fetch bills", err)
	}
	return bills, total, nil
}

// UpdateStatus writes any valid status. Setting paid stamps paidDate unless one is given.
func (s *billService) UpdateStatus(ctx context.Context, id string, req *UpdateBillStatusRequest) (*models.MaintenanceBill, error) {
	status := models.BillStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if status == "" && strings.TrimSpace(req.PaidDate) == "" {
		return nil, utils.InvalidArgument("Status or paidDate is required")
	}
	if status != "" && !status.Valid() {
		return nil, utils.InvalidArgument("Status must be one of: pending, paid, overdue, cancelled")
	}

	var paidDate *time.Time
	if strings.TrimSpace(req.PaidDate) != "" {
		t, ok := parseDate(req.PaidDate)
		if !ok {
			return nil, utils.InvalidArgument("Invalid paidDate format")
		}
		paidDate = &t
	}

	bill, err := s.findBill(ctx, id)
	if err != nil {
		return nil, err
	}

	if status != "" {
		bill.Status = status
		if status == models.BillPaid {
			now := s.now()
			bill.PaidDate = &now
		}
	}
	if paidDate != nil {
		bill.PaidDate = paidDate
	}

	if err := s.billRepo.Update(ctx, bill); err != nil {
		s.logger.WithError(err).WithField("bill_id", id).Error("Failed to update bill status")
		return nil, utils.Internal("Failed to update bill status", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"bill_id": bill.ID,
		"status":  bill.Status,
	}).Info("Bill status updated")

	return bill, nil
}

// MarkPaid settles a bill when an admin confirms it. A resident marking their own
// bill only notifies the admin; the bill is returned unchanged.
func (s *billService) MarkPaid(ctx context.Context, actor *models.Identity, id string) (*models.MaintenanceBill, string, error) {
	if actor == nil {
		return nil, "", utils.Forbidden("Access denied. Admin or Resident only.")
	}

	bill, err := s.findBill(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if actor.Role == models.RoleResident && bill.ResidentID != actor.ID {
		return nil, "", utils.Forbidden("You can only mark your own bills as paid")
	}
	if bill.Status == models.BillPaid {
		return nil, "", utils.InvalidArgument("This bill has already been marked as paid")
	}

	switch actor.Role {
	case models.RoleAdmin:
		now := s.now()
		bill.Status = models.BillPaid
		bill.PaidDate = &now
		if err := s.billRepo.Update(ctx, bill); err != nil {
			s.logger.WithError(err).WithField("bill_id", id).Error("Failed to mark bill as paid")
			return nil, "", utils.Internal("Failed to process payment", err)
		}
		s.logger.WithField("bill_id", bill.ID).Info("Bill marked as paid")
		return bill, "Bill marked as paid successfully", nil
	case models.RoleResident:
		s.logger.WithFields(map[string]interface{}{
			"bill_id":     bill.ID,
			"resident_id": actor.ID,
		}).Info("Resident submitted payment notification")
		return bill, "Payment notification sent to admin. Bill will be marked as paid once verified.", nil
	default:
		return nil, "", utils.Forbidden("Access denied. Admin or Resident only.")
	}
}

// ResidentBills returns a resident's bills with outstanding, overdue and paid-this-month figures
func (s *billService) ResidentBills(ctx context.Context, actor *models.Identity, residentID string) (*response.ResidentBillsResponse, error) {
	if actor != nil && actor.Role == models.RoleResident && actor.ID != residentID {
		return nil, utils.Forbidden("You can only view your own bills")
	}

	resident, err := s.residentRepo.FindByID(ctx, residentID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, utils.NotFound("Resident not found")
		}
		return nil, utils.Internal("Failed to fetch bills", err)
	}

	bills, err := s.billRepo.ListByResident(ctx, residentID)
	if err != nil {
		s.logger.WithError(err).WithField("resident_id", residentID).Error("Failed to fetch resident bills")
		return nil, utils.Internal("Failed to fetch bills", err)
	}

	for _, b := range bills {
		b.Resident = resident
	}

	return &response.ResidentBillsResponse{
		Resident:   resident.Summary(),
		Bills:      response.NewBillResponses(bills),
		Statistics: billStatistics(bills, s.now()),
	}, nil
}

func billStatistics(bills []*models.MaintenanceBill, now time.Time) response.ResidentBillStatistics {
	stats := response.ResidentBillStatistics{TotalBills: len(bills)}
	for _, b := range bills {
		switch b.Status {
		case models.BillPending:
			stats.TotalOutstanding += b.Amount
			if b.DueDate.Before(now) {
				stats.OverdueBills++
			}
		case models.BillOverdue:
			stats.TotalOutstanding += b.Amount
			stats.OverdueBills++
		case models.BillPaid:
			if b.PaidDate != nil && b.PaidDate.Year() == now.Year() && b.PaidDate.Month() == now.Month() {
				stats.PaidThisMonth++
			}
		}
	}
	return stats
}

// MarkOverdueBills flips every pending bill past its due date to overdue
func (s *billService) MarkOverdueBills(ctx context.Context) (int64, error) {
	n, err := s.billRepo.MarkOverdue(ctx, s.now())
	if err != nil {
		s.logger.WithError(err).Error("Failed to mark overdue bills")
		return 0, utils.Internal("Failed to mark overdue bills", err)
	}
	return n, nil
}

func (s *billService) findBill(ctx context.Context, id string) (*models.MaintenanceBill, error) {
	bill, err := s.billRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, utils.NotFound("Maintenance bill does not exist")
		}
		return nil, utils.Internal("Failed to fetch bill", err)
	}
	return bill, nil
}

// ExportBills writes the filtered bill list to an xlsx workbook
func (s *billService) ExportBills(ctx context.Context, filter repository.BillFilter) ([]byte, string, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, "", utils.InvalidArgument("Status must be one of: pending, paid, overdue, cancelled")
	}
	filter.Page, filter.Limit = 0, 0

	bills, _, err := s.billRepo.List(ctx, filter)
	if err != nil {
		return nil, "", utils.Internal("Failed to get bill data", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.WithError(err).Warn("Error closing Excel file")
		}
	}()

	sheetName := "Maintenance Bills"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", utils.Internal("Failed to create sheet", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"No", "Apartment", "Resident", "Email", "Month", "Year", "Amount", "Due Date", "Status", "Generated Date", "Paid Date", "Items"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#D3D3D3"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err == nil {
		lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)
	}

	for i, bill := range bills {
		row := i + 2

		var apartment, name, email string
		if bill.Resident != nil {
			apartment, name, email = bill.Resident.Apartment, bill.Resident.Name, bill.Resident.Email
		}
		paidDate := ""
		if bill.PaidDate != nil {
			paidDate = bill.PaidDate.Format("2006-01-02")
		}
		descriptions := make([]string, 0, len(bill.Items))
		for _, item := range bill.Items {
			descriptions = append(descriptions, fmt.Sprintf("%s (%.2f)", item.Description, item.Amount))
		}

		values := []interface{}{
			i + 1,
			apartment,
			name,
			email,
			bill.Month,
			bill.Year,
			bill.Amount,
			bill.DueDate.Format("2006-01-02"),
			string(bill.Status),
			bill.GeneratedDate.Format("2006-01-02"),
			paidDate,
			strings.Join(descriptions, "; "),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	for i := 1; i <= len(headers); i++ {
		col, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(sheetName, col, col, 15)
	}

	if f.GetSheetName(0) == "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	filename := fmt.Sprintf("maintenance_bills_%s.xlsx", s.now().Format("20060102_150405"))

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", utils.Internal("Failed to write Excel file", err)
	}

	return buffer.Bytes(), filename, nil
}
