package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"residence-be-svc/internal/mocks"
	"residence-be-svc/internal/models"
	"residence-be-svc/internal/repository"
	"residence-be-svc/pkg/logger"
	"residence-be-svc/pkg/utils"
)

const (
	residentOneID = "11111111-1111-1111-1111-111111111111"
	residentTwoID = "22222222-2222-2222-2222-222222222222"
)

var billClock = time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC)

type billFixture struct {
	service   *billService
	residents *mocks.ResidentRepository
	bills     *mocks.BillRepository
}

func newBillFixture() *billFixture {
	residents := mocks.NewResidentRepository(
		&models.Resident{ID: residentOneID, Name: "Ayesha", Apartment: "A-101", Email: "ayesha@example.com",
			Status: models.ResidentStatusActive, ApprovalStatus: models.ApprovalApproved},
		&models.Resident{ID: residentTwoID, Name: "Bilal", Apartment: "A-102", Email: "bilal@example.com",
			Status: models.ResidentStatusPending, ApprovalStatus: models.ApprovalPending},
	)
	bills := mocks.NewBillRepository(residents)

	s := NewBillService(bills, residents, logger.NewNopLogger()).(*billService)
	s.now = func() time.Time { return billClock }
	return &billFixture{service: s, residents: residents, bills: bills}
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func juneTemplate() *BillTemplate {
	return &BillTemplate{
		Month:   "June",
		Year:    intPtr(2024),
		Amount:  floatPtr(5000),
		DueDate: "2024-06-30",
		Items:   []BillItemInput{{Description: "Maintenance", Amount: floatPtr(5000)}},
	}
}

func TestGenerateBillsSkipsIneligibleAndBilledResidents(t *testing.T) {
	f := newBillFixture()
	ctx := context.Background()
	req := &GenerateBillsRequest{ResidentIDs: []string{residentOneID, residentTwoID}, BillData: juneTemplate()}

	result, err := f.service.GenerateBills(ctx, req)
	if err != nil {
		t.Fatalf("GenerateBills failed: %v", err)
	}
	if len(result.Bills) != 1 || result.SkippedCount != 0 {
		t.Fatalf("created=%d skipped=%d, want 1 and 0", len(result.Bills), result.SkippedCount)
	}

	bill := result.Bills[0]
	if bill.ResidentID != residentOneID || bill.Status != models.BillPending || bill.Amount != 5000 {
		t.Errorf("unexpected bill: %+v", bill)
	}
	if bill.Month != "June" || bill.Year != 2024 || len(bill.Items) != 1 {
		t.Errorf("unexpected period or items: %+v", bill)
	}
	if bill.Resident == nil || bill.Resident.Apartment != "A-101" {
		t.Error("created bill should carry its resident")
	}

	// same period again: nothing new, the billed resident is skipped
	result, err = f.service.GenerateBills(ctx, req)
	assertAppError(t, err, utils.KindInvalidArgument, "Bills for June 2024 already exist for all selected residents")
	if result == nil || result.SkippedCount != 1 || len(result.Bills) != 0 {
		t.Fatalf("expected result with skippedCount=1, got %+v", result)
	}
	if len(f.bills.Bills) != 1 {
		t.Errorf("expected exactly one stored bill, have %d", len(f.bills.Bills))
	}
}

func TestGenerateBillsMonthAliasesShareAPeriod(t *testing.T) {
	f := newBillFixture()
	ctx := context.Background()

	if _, err := f.service.GenerateBills(ctx, &GenerateBillsRequest{BillData: juneTemplate()}); err != nil {
		t.Fatalf("GenerateBills failed: %v", err)
	}

	tmpl := juneTemplate()
	tmpl.Month = "6"
	result, err := f.service.GenerateBills(ctx, &GenerateBillsRequest{BillData: tmpl})
	if utils.KindOf(err) != utils.KindInvalidArgument || result == nil || result.SkippedCount != 1 {
		t.Fatalf("month 6 should collide with June: result=%+v err=%v", result, err)
	}
}

func TestGenerateBillsNoEligibleResidents(t *testing.T) {
	f := newBillFixture()
	req := &GenerateBillsRequest{ResidentIDs: []string{residentTwoID}, BillData: juneTemplate()}

	result, err := f.service.GenerateBills(context.Background(), req)
	assertAppError(t, err, utils.KindInvalidArgument, "No active residents found to generate bills for")
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
}

func TestGenerateBillsValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BillTemplate)
		want   string
	}{
		{"missing month", func(b *BillTemplate) { b.Month = "" }, "Missing required fields: month, year, amount, dueDate, and items are required"},
		{"missing year", func(b *BillTemplate) { b.Year = nil }, "Missing required fields: month, year, amount, dueDate, and items are required"},
		{"missing amount", func(b *BillTemplate) { b.Amount = nil }, "Missing required fields: month, year, amount, dueDate, and items are required"},
		{"missing items", func(b *BillTemplate) { b.Items = nil }, "Missing required fields: month, year, amount, dueDate, and items are required"},
		{"empty items", func(b *BillTemplate) { b.Items = []BillItemInput{} }, "At least one bill item is required"},
		{"item without amount", func(b *BillTemplate) { b.Items[0].Amount = nil }, "Each item must have description and amount"},
		{"item without description", func(b *BillTemplate) { b.Items[0].Description = " " }, "Each item must have description and amount"},
		{"negative item", func(b *BillTemplate) { b.Items[0].Amount = floatPtr(-1) }, "Item amount cannot be negative"},
		{"negative amount", func(b *BillTemplate) { b.Amount = floatPtr(-10) }, "Bill amount cannot be negative"},
		{"bad due date", func(b *BillTemplate) { b.DueDate = "30/06/2024" }, "Invalid due date format"},
		{"bad month", func(b *BillTemplate) { b.Month = "Juneuary" }, "Invalid month"},
		{"month out of range", func(b *BillTemplate) { b.Month = "13" }, "Invalid month"},
		{"negative year", func(b *BillTemplate) { b.Year = intPtr(-2024) }, "Invalid year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBillFixture()
			tmpl := juneTemplate()
			tt.mutate(tmpl)

			_, err := f.service.GenerateBills(context.Background(), &GenerateBillsRequest{BillData: tmpl})
			assertAppError(t, err, utils.KindInvalidArgument, tt.want)
			if n := f.bills.Calls["CreateBills"]; n != 0 {
				t.Errorf("CreateBills called %d times on invalid input", n)
			}
		})
	}
}

func TestGenerateBillsRejectsBadResidentIDs(t *testing.T) {
	f := newBillFixture()
	req := &GenerateBillsRequest{ResidentIDs: []string{"not-a-uuid"}, BillData: juneTemplate()}

	_, err := f.service.GenerateBills(context.Background(), req)
	if utils.KindOf(err) != utils.KindInvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestCanonicalMonth(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"June", "June", true},
		{"june", "June", true},
		{" JUN ", "June", true},
		{"6", "June", true},
		{"12", "December", true},
		{"0", "", false},
		{"Smarch", "", false},
	}

	for _, tt := range tests {
		got, ok := canonicalMonth(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("canonicalMonth(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func seedBill(f *billFixture, residentID string, status models.BillStatus, amount float64, due time.Time) *models.MaintenanceBill {
	b := &models.MaintenanceBill{
		ResidentID: residentID, Month: due.Month().String(), Year: due.Year(),
		Amount: amount, DueDate: due, Status: status,
	}
	_, _ = f.bills.CreateBills(context.Background(), []*models.MaintenanceBill{b})
	return b
}

func TestGenerateBillsCountsConflictingInsertsAsSkipped(t *testing.T) {
	ctx := context.Background()

	t.Run("some rows lost", func(t *testing.T) {
		f := newBillFixture()
		two, _ := f.residents.FindByID(ctx, residentTwoID)
		two.Status = models.ResidentStatusActive
		two.ApprovalStatus = models.ApprovalApproved

		f.bills.BeforeCreateBills = func() {
			seedBill(f, residentTwoID, models.BillPending, 5000, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC))
		}

		result, err := f.service.GenerateBills(ctx, &GenerateBillsRequest{BillData: juneTemplate()})
		if err != nil {
			t.Fatalf("GenerateBills failed: %v", err)
		}
		if len(result.Bills) != 1 || result.Bills[0].ResidentID != residentOneID {
			t.Fatalf("expected only resident one billed, got %+v", result.Bills)
		}
		if result.SkippedCount != 1 {
			t.Errorf("skippedCount = %d, want 1 for the conflicting insert", result.SkippedCount)
		}
	})

	t.Run("every row lost", func(t *testing.T) {
		f := newBillFixture()
		f.bills.BeforeCreateBills = func() {
			seedBill(f, residentOneID, models.BillPending, 5000, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC))
		}

		result, err := f.service.GenerateBills(ctx, &GenerateBillsRequest{BillData: juneTemplate()})
		assertAppError(t, err, utils.KindInvalidArgument, "Bills for June 2024 already exist for all selected residents")
		if result == nil {
			t.Fatal("the result should accompany the error")
		}
		if result.SkippedCount != 1 || len(result.Bills) != 0 {
			t.Errorf("created=%d skipped=%d, want 0 and 1", len(result.Bills), result.SkippedCount)
		}
		if n := len(f.bills.Bills); n != 1 {
			t.Errorf("store holds %d bills, want only the concurrent one", n)
		}
	})
}

func TestMarkPaid(t *testing.T) {
	admin := &models.Identity{ID: "admin-1", Role: models.RoleAdmin}
	owner := &models.Identity{ID: residentOneID, Role: models.RoleResident}
	stranger := &models.Identity{ID: residentTwoID, Role: models.RoleResident}
	ctx := context.Background()

	t.Run("resident notifies", func(t *testing.T) {
		f := newBillFixture()
		b := seedBill(f, residentOneID, models.BillPending, 5000, billClock.AddDate(0, 0, 10))

		bill, msg, err := f.service.MarkPaid(ctx, owner, b.ID)
		if err != nil {
			t.Fatalf("MarkPaid failed: %v", err)
		}
		if msg != "Payment notification sent to admin. Bill will be marked as paid once verified." {
			t.Errorf("unexpected message %q", msg)
		}
		if bill.Status != models.BillPending || bill.PaidDate != nil {
			t.Errorf("resident notification must not settle the bill: %+v", bill)
		}
		if n := f.bills.Calls["Update"]; n != 0 {
			t.Errorf("Update called %d times on a notification", n)
		}
	})

	t.Run("other resident", func(t *testing.T) {
		f := newBillFixture()
		b := seedBill(f, residentOneID, models.BillPending, 5000, billClock)

		_, _, err := f.service.MarkPaid(ctx, stranger, b.ID)
		assertAppError(t, err, utils.KindForbidden, "You can only mark your own bills as paid")
	})

	t.Run("admin settles", func(t *testing.T) {
		f := newBillFixture()
		b := seedBill(f, residentOneID, models.BillOverdue, 5000, billClock.AddDate(0, -1, 0))

		bill, msg, err := f.service.MarkPaid(ctx, admin, b.ID)
		if err != nil {
			t.Fatalf("MarkPaid failed: %v", err)
		}
		if msg != "Bill marked as paid successfully" {
			t.Errorf("unexpected message %q", msg)
		}
		if bill.Status != models.BillPaid || bill.PaidDate == nil || !bill.PaidDate.Equal(billClock) {
			t.Errorf("bill not settled: %+v", bill)
		}

		_, _, err = f.service.MarkPaid(ctx, admin, b.ID)
		assertAppError(t, err, utils.KindInvalidArgument, "This bill has already been marked as paid")
	})

	t.Run("missing bill", func(t *testing.T) {
		f := newBillFixture()
		_, _, err := f.service.MarkPaid(ctx, admin, "33333333-3333-3333-3333-333333333333")
		assertAppError(t, err, utils.KindNotFound, "Maintenance bill does not exist")
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newBillFixture()
	b := seedBill(f, residentOneID, models.BillPending, 5000, billClock)

	_, err := f.service.UpdateStatus(ctx, b.ID, &UpdateBillStatusRequest{Status: "settled"})
	assertAppError(t, err, utils.KindInvalidArgument, "")

	bill, err := f.service.UpdateStatus(ctx, b.ID, &UpdateBillStatusRequest{Status: "paid"})
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if bill.Status != models.BillPaid || bill.PaidDate == nil || !bill.PaidDate.Equal(billClock) {
		t.Errorf("paid status should stamp paidDate: %+v", bill)
	}

	bill, err = f.service.UpdateStatus(ctx, b.ID, &UpdateBillStatusRequest{Status: "paid", PaidDate: "2024-06-01"})
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if want := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC); !bill.PaidDate.Equal(want) {
		t.Errorf("paidDate = %v, want %v", bill.PaidDate, want)
	}

	// status writes are not a state machine
	bill, err = f.service.UpdateStatus(ctx, b.ID, &UpdateBillStatusRequest{Status: "pending"})
	if err != nil || bill.Status != models.BillPending {
		t.Errorf("paid -> pending should be allowed: %+v %v", bill, err)
	}
}

func TestResidentBillsStatistics(t *testing.T) {
	ctx := context.Background()
	f := newBillFixture()
	paidAt := billClock.AddDate(0, 0, -3)

	seedBill(f, residentOneID, models.BillPending, 1000, billClock.AddDate(0, 0, 10))
	seedBill(f, residentOneID, models.BillPending, 2000, billClock.AddDate(0, -1, 0))
	seedBill(f, residentOneID, models.BillOverdue, 3000, billClock.AddDate(0, -2, 0))
	paid := seedBill(f, residentOneID, models.BillPaid, 4000, billClock.AddDate(0, -3, 0))
	paid.PaidDate = &paidAt

	resp, err := f.service.ResidentBills(ctx, &models.Identity{ID: residentOneID, Role: models.RoleResident}, residentOneID)
	if err != nil {
		t.Fatalf("ResidentBills failed: %v", err)
	}

	stats := resp.Statistics
	if stats.TotalBills != 4 {
		t.Errorf("TotalBills = %d, want 4", stats.TotalBills)
	}
	if stats.TotalOutstanding != 6000 {
		t.Errorf("TotalOutstanding = %v, want 6000", stats.TotalOutstanding)
	}
	if stats.OverdueBills != 2 {
		t.Errorf("OverdueBills = %d, want 2", stats.OverdueBills)
	}
	if stats.PaidThisMonth != 1 {
		t.Errorf("PaidThisMonth = %d, want 1", stats.PaidThisMonth)
	}
	if resp.Resident == nil || resp.Resident.Apartment != "A-101" {
		t.Errorf("unexpected resident summary: %+v", resp.Resident)
	}

	_, err = f.service.ResidentBills(ctx, &models.Identity{ID: residentTwoID, Role: models.RoleResident}, residentOneID)
	assertAppError(t, err, utils.KindForbidden, "")
}

func TestListBillsScopesResidents(t *testing.T) {
	ctx := context.Background()
	f := newBillFixture()
	f.residents.Residents[residentTwoID].Status = models.ResidentStatusActive
	seedBill(f, residentOneID, models.BillPending, 1000, billClock)
	seedBill(f, residentTwoID, models.BillPending, 1000, billClock)

	bills, total, err := f.service.ListBills(ctx, &models.Identity{ID: residentOneID, Role: models.RoleResident}, repository.BillFilter{})
	if err != nil {
		t.Fatalf("ListBills failed: %v", err)
	}
	if total != 1 || len(bills) != 1 || bills[0].ResidentID != residentOneID {
		t.Errorf("resident should only see own bills, got total=%d", total)
	}

	_, total, _ = f.service.ListBills(ctx, &models.Identity{ID: "admin", Role: models.RoleAdmin}, repository.BillFilter{})
	if total != 2 {
		t.Errorf("admin total = %d, want 2", total)
	}

	_, total, _ = f.service.ListBills(ctx, &models.Identity{Role: models.RoleAdmin}, repository.BillFilter{ListOptions: repository.ListOptions{Search: "A-102"}})
	if total != 1 {
		t.Errorf("search by apartment total = %d, want 1", total)
	}

	_, _, err = f.service.ListBills(ctx, nil, repository.BillFilter{Status: "settled"})
	assertAppError(t, err, utils.KindInvalidArgument, "")
}

func TestMarkOverdueBills(t *testing.T) {
	f := newBillFixture()
	past := seedBill(f, residentOneID, models.BillPending, 1000, billClock.AddDate(0, -1, 0))
	future := seedBill(f, residentOneID, models.BillPending, 1000, billClock.AddDate(0, 1, 0))

	n, err := f.service.MarkOverdueBills(context.Background())
	if err != nil {
		t.Fatalf("MarkOverdueBills failed: %v", err)
	}
	if n != 1 || past.Status != models.BillOverdue || future.Status != models.BillPending {
		t.Errorf("n=%d past=%s future=%s", n, past.Status, future.Status)
	}
}

func TestExportBills(t *testing.T) {
	f := newBillFixture()
	seedBill(f, residentOneID, models.BillPending, 1000, billClock)

	data, filename, err := f.service.ExportBills(context.Background(), repository.BillFilter{})
	if err != nil {
		t.Fatalf("ExportBills failed: %v", err)
	}
	if filename != "maintenance_bills_20240615_090000.xlsx" {
		t.Errorf("filename = %q", filename)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("export is not a valid workbook: %v", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows("Maintenance Bills")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header plus one bill", len(rows))
	}
}
