package scheduler

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"residence-be-svc/internal/config"
	"residence-be-svc/internal/mocks"
	"residence-be-svc/internal/models"
	"residence-be-svc/internal/service"
	"residence-be-svc/pkg/logger"
)

var schedulerClock = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

func testConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		BillingCronExpression: "0 0 0 1 * *",
		OverdueCronExpression: "0 30 0 * * *",
		AutoGenerate:          true,
		DefaultAmount:         5000,
		DefaultDescription:    "Monthly maintenance",
		DueDay:                10,
	}
}

func newTestScheduler(cfg config.SchedulerConfig) (*BillingScheduler, *mocks.BillRepository, *mocks.LogSchedulerRepository) {
	residents := mocks.NewResidentRepository(
		&models.Resident{ID: "11111111-1111-1111-1111-111111111111", Apartment: "A-101",
			Status: models.ResidentStatusActive, ApprovalStatus: models.ApprovalApproved},
		&models.Resident{ID: "22222222-2222-2222-2222-222222222222", Apartment: "A-102",
			Status: models.ResidentStatusPending, ApprovalStatus: models.ApprovalPending},
	)
	bills := mocks.NewBillRepository(residents)
	logs := &mocks.LogSchedulerRepository{}
	log := logger.NewNopLogger()

	s := NewBillingScheduler(service.NewBillService(bills, residents, log), logs, log, cfg)
	s.now = func() time.Time { return schedulerClock }
	return s, bills, logs
}

func TestMonthlyTemplate(t *testing.T) {
	s, _, _ := newTestScheduler(testConfig())

	tmpl := s.monthlyTemplate(schedulerClock)
	if tmpl.Month != "June" || *tmpl.Year != 2024 || *tmpl.Amount != 5000 {
		t.Errorf("unexpected template: %+v", tmpl)
	}
	if tmpl.DueDate != "2024-06-10" {
		t.Errorf("DueDate = %q, want 2024-06-10", tmpl.DueDate)
	}
	if len(tmpl.Items) != 1 || tmpl.Items[0].Description != "Monthly maintenance" {
		t.Errorf("unexpected items: %+v", tmpl.Items)
	}
}

func TestGenerateMonthlyBills(t *testing.T) {
	s, bills, logs := newTestScheduler(testConfig())

	s.generateMonthlyBills()

	if len(bills.Bills) != 1 {
		t.Fatalf("bills = %d, want 1 for the single billable resident", len(bills.Bills))
	}
	want := []string{statusStart, statusRunning, statusSuccess}
	if got := logs.Statuses(); !reflect.DeepEqual(got, want) {
		t.Errorf("log statuses = %v, want %v", got, want)
	}
	runID := logs.Entries[0].RunID
	for _, e := range logs.Entries {
		if e.RunID != runID || e.SchedulerCode != monthlyBillingCode {
			t.Errorf("entry does not belong to the run: %+v", e)
		}
	}

	// a second run in the same month creates nothing and still succeeds
	s.generateMonthlyBills()
	if len(bills.Bills) != 1 {
		t.Errorf("bills = %d after rerun, want 1", len(bills.Bills))
	}
	if got := logs.Statuses(); got[len(got)-1] != statusSuccess {
		t.Errorf("rerun should end in SUCCESS, got %v", got)
	}
}

func TestGenerateMonthlyBillsFailure(t *testing.T) {
	s, bills, logs := newTestScheduler(testConfig())
	bills.Err = errors.New("database unavailable")

	s.generateMonthlyBills()

	want := []string{statusStart, statusRunning, statusFailed}
	if got := logs.Statuses(); !reflect.DeepEqual(got, want) {
		t.Errorf("log statuses = %v, want %v", got, want)
	}
}

func TestMarkOverdueBillsJob(t *testing.T) {
	s, bills, logs := newTestScheduler(testConfig())
	bills.Bills["b1"] = &models.MaintenanceBill{
		ID: "b1", ResidentID: "11111111-1111-1111-1111-111111111111", Month: "January", Year: 2020,
		DueDate: time.Date(2020, time.January, 10, 0, 0, 0, 0, time.UTC), Status: models.BillPending,
	}

	s.markOverdueBills()

	if bills.Bills["b1"].Status != models.BillOverdue {
		t.Errorf("status = %s, want overdue", bills.Bills["b1"].Status)
	}
	want := []string{statusStart, statusSuccess}
	if got := logs.Statuses(); !reflect.DeepEqual(got, want) {
		t.Errorf("log statuses = %v, want %v", got, want)
	}
}

func TestStartRejectsBadCron(t *testing.T) {
	cfg := testConfig()
	cfg.OverdueCronExpression = "not a cron"
	s, _, _ := newTestScheduler(cfg)

	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("expected Start to fail on an invalid cron expression")
	}
}

func TestStartAndStop(t *testing.T) {
	cfg := testConfig()
	cfg.AutoGenerate = false
	s, _, _ := newTestScheduler(cfg)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if n := len(s.cron.Entries()); n != 1 {
		t.Errorf("entries = %d, want only the overdue job", n)
	}
	s.Stop()
}
