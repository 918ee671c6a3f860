package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"residence-be-svc/internal/config"
	"residence-be-svc/internal/metrics"
	"residence-be-svc/internal/models"
	"residence-be-svc/internal/repository"
	"residence-be-svc/internal/service"
	"residence-be-svc/pkg/logger"
)

const (
	monthlyBillingCode = "MONTHLY_MAINTENANCE_BILLING"
	overdueBillingCode = "OVERDUE_BILL_SWEEP"

	statusStart   = "START"
	statusRunning = "RUNNING"
	statusSuccess = "SUCCESS"
	statusFailed  = "FAILED"

	jobTimeout = 5 * time.Minute
)

// BillingScheduler handles scheduled billing operations
type BillingScheduler struct {
	billService      service.BillService
	logSchedulerRepo repository.LogSchedulerRepository
	logger           *logger.Logger
	cron             *cron.Cron
	cfg              config.SchedulerConfig
	now              func() time.Time
}

// NewBillingScheduler creates a new billing scheduler
func NewBillingScheduler(billService service.BillService, logSchedulerRepo repository.LogSchedulerRepository, logger *logger.Logger, cfg config.SchedulerConfig) *BillingScheduler {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &BillingScheduler{
		billService:      billService,
		logSchedulerRepo: logSchedulerRepo,
		logger:           logger,
		cron:             c,
		cfg:              cfg,
		now:              time.Now,
	}
}

// Start schedules the overdue sweep and, when enabled, the monthly bill run
func (s *BillingScheduler) Start() error {
	s.logger.Info("Starting billing scheduler...")

	// Cron format: "seconds minutes hours day-of-month month day-of-week"
	if s.cfg.AutoGenerate {
		s.logger.WithField("cron_expression", s.cfg.BillingCronExpression).Info("Scheduling monthly billing job")
		if _, err := s.cron.AddFunc(s.cfg.BillingCronExpression, s.generateMonthlyBills); err != nil {
			return fmt.Errorf("failed to schedule monthly billing job: %w", err)
		}
	} else {
		s.logger.Info("Automatic bill generation disabled")
	}

	s.logger.WithField("cron_expression", s.cfg.OverdueCronExpression).Info("Scheduling overdue bill job")
	if _, err := s.cron.AddFunc(s.cfg.OverdueCronExpression, s.markOverdueBills); err != nil {
		return fmt.Errorf("failed to schedule overdue bill job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Billing scheduler started successfully")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs
func (s *BillingScheduler) Stop() {
	s.logger.Info("Stopping billing scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Billing scheduler stopped successfully")
}

// monthlyTemplate builds the bill template for the period containing now
func (s *BillingScheduler) monthlyTemplate(now time.Time) *service.BillTemplate {
	year := now.Year()
	amount := s.cfg.DefaultAmount
	due := time.Date(year, now.Month(), s.cfg.DueDay, 0, 0, 0, 0, now.Location())

	return &service.BillTemplate{
		Month:   now.Month().String(),
		Year:    &year,
		Amount:  &amount,
		DueDate: due.Format("2006-01-02"),
		Items: []service.BillItemInput{
			{Description: s.cfg.DefaultDescription, Amount: &amount},
		},
	}
}

// generateMonthlyBills is the scheduled job that bills every active resident for the current month
func (s *BillingScheduler) generateMonthlyBills() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	now := s.now()
	runID := uuid.New().String()

	s.logScheduler(ctx, monthlyBillingCode, runID, "Starting scheduled monthly bill generation", statusStart)

	template := s.monthlyTemplate(now)
	s.logScheduler(ctx, monthlyBillingCode, runID,
		fmt.Sprintf("Generating maintenance bills for %s %d", template.Month, now.Year()), statusRunning)

	result, err := s.billService.GenerateBills(ctx, &service.GenerateBillsRequest{BillData: template})
	// every resident already billed for the period is not a failure of the run
	if err != nil && result == nil {
		s.logScheduler(ctx, monthlyBillingCode, runID, fmt.Sprintf("Failed to generate monthly bills: %v", err), statusFailed)
		s.logger.WithError(err).Error("Failed to generate monthly bills")
		metrics.SchedulerRunsTotal.WithLabelValues(monthlyBillingCode, statusFailed).Inc()
		return
	}

	summary, _ := json.Marshal(map[string]int{
		"createdCount": len(result.Bills),
		"skippedCount": result.SkippedCount,
	})
	s.logScheduler(ctx, monthlyBillingCode, runID, fmt.Sprintf("Monthly bills generated successfully: %s", summary), statusSuccess)
	metrics.SchedulerRunsTotal.WithLabelValues(monthlyBillingCode, statusSuccess).Inc()

	s.logger.WithFields(map[string]interface{}{
		"created": len(result.Bills),
		"skipped": result.SkippedCount,
	}).Info("Scheduled monthly bill generation completed")
}

// markOverdueBills flips pending bills past their due date to overdue
func (s *BillingScheduler) markOverdueBills() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	runID := uuid.New().String()
	s.logScheduler(ctx, overdueBillingCode, runID, "Starting overdue bill sweep", statusStart)

	count, err := s.billService.MarkOverdueBills(ctx)
	if err != nil {
		s.logScheduler(ctx, overdueBillingCode, runID, fmt.Sprintf("Failed to mark overdue bills: %v", err), statusFailed)
		s.logger.WithError(err).Error("Failed to mark overdue bills")
		metrics.SchedulerRunsTotal.WithLabelValues(overdueBillingCode, statusFailed).Inc()
		return
	}

	s.logScheduler(ctx, overdueBillingCode, runID, fmt.Sprintf("Marked %d bills as overdue", count), statusSuccess)
	metrics.SchedulerRunsTotal.WithLabelValues(overdueBillingCode, statusSuccess).Inc()
}

// logScheduler creates a new log entry in the database
func (s *BillingScheduler) logScheduler(ctx context.Context, code, runID, message, status string) {
	entry := &models.SchedulerLog{
		RunID:         runID,
		SchedulerCode: code,
		Message:       message,
		Status:        status,
		CreatedAt:     s.now(),
	}

	if err := s.logSchedulerRepo.CreateLogScheduler(ctx, entry); err != nil {
		s.logger.WithError(err).WithField("status", status).Error("Failed to create scheduler log entry")
		return
	}
	s.logger.WithField("status", status).WithField("run_id", runID).Debug("Scheduler log entry created")
}
