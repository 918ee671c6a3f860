package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"residence-be-svc/internal/models"
)

// BillFilter narrows a bill listing. An empty ResidentID lists every resident's bills.
type BillFilter struct {
	ListOptions
	ResidentID string
	Status     models.BillStatus
}

var billSortColumns = map[string]string{
	"month":         "maintenance_bills.month",
	"year":          "maintenance_bills.year",
	"amount":        "maintenance_bills.amount",
	"dueDate":       "maintenance_bills.due_date",
	"status":        "maintenance_bills.status",
	"generatedDate": "maintenance_bills.generated_date",
	"createdAt":     "maintenance_bills.created_at",
}

// BillRepository defines the interface for maintenance bill data operations
type BillRepository interface {
	FindByID(ctx context.Context, id string) (*models.MaintenanceBill, error)
	FindBilledResidentIDs(ctx context.Context, residentIDs []string, month string, year int) ([]string, error)
	CreateBills(ctx context.Context, bills []*models.MaintenanceBill) ([]*models.MaintenanceBill, error)
	Update(ctx context.Context, bill *models.MaintenanceBill) error
	List(ctx context.Context, filter BillFilter) ([]*models.MaintenanceBill, int64, error)
	ListByResident(ctx context.Context, residentID string) ([]*models.MaintenanceBill, error)
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

// billRepository implements BillRepository
type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new instance of BillRepository
func NewBillRepository(db *gorm.DB) BillRepository {
	return &billRepository{
		db: db,
	}
}

// FindByID retrieves a bill with its resident
func (r *billRepository) FindByID(ctx context.Context, id string) (*models.MaintenanceBill, error) {
	var bill models.MaintenanceBill
	if err := r.db.WithContext(ctx).Preload("Resident").Where("id = ?", id).First(&bill).Error; err != nil {
		return nil, translateError(err)
	}
	return &bill, nil
}

// FindBilledResidentIDs returns which of residentIDs already have a bill for the period
func (r *billRepository) FindBilledResidentIDs(ctx context.Context, residentIDs []string, month string, year int) ([]string, error) {
	var ids []string
	if len(residentIDs) == 0 {
		return ids, nil
	}

	err := r.db.WithContext(ctx).Model(&models.MaintenanceBill{}).
		Where("resident_id IN ? AND month = ? AND year = ?", residentIDs, month, year).
		Pluck("resident_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CreateBills inserts the bills in one transaction and returns the ones actually written.
// A bill that collides with an existing (resident, month, year) row is skipped, not failed.
func (r *billRepository) CreateBills(ctx context.Context, bills []*models.MaintenanceBill) ([]*models.MaintenanceBill, error) {
	created := make([]*models.MaintenanceBill, 0, len(bills))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, bill := range bills {
			result := tx.Omit(clause.Associations).
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(bill)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				created = append(created, bill)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Update saves the bill without touching its resident
func (r *billRepository) Update(ctx context.Context, bill *models.MaintenanceBill) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(bill).Error
}

// List retrieves bills with their residents. Search matches month, year and the
// resident's name, apartment, email or phone.
func (r *billRepository) List(ctx context.Context, filter BillFilter) ([]*models.MaintenanceBill, int64, error) {
	var bills []*models.MaintenanceBill
	var total int64

	query := r.db.WithContext(ctx).Model(&models.MaintenanceBill{}).
		Joins("JOIN residents ON residents.id = maintenance_bills.resident_id")
	if filter.ResidentID != "" {
		query = query.Where("maintenance_bills.resident_id = ?", filter.ResidentID)
	}
	if filter.Status != "" {
		query = query.Where("maintenance_bills.status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"maintenance_bills.month ILIKE ? OR CAST(maintenance_bills.year AS TEXT) ILIKE ? OR residents.name ILIKE ? OR residents.apartment ILIKE ? OR residents.email ILIKE ? OR residents.phone ILIKE ?",
			pattern, pattern, pattern, pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := filter.paginate(query.Order(filter.orderBy(billSortColumns, "maintenance_bills.created_at"))).
		Preload("Resident").
		Find(&bills).Error
	if err != nil {
		return nil, 0, err
	}

	return bills, total, nil
}

// ListByResident retrieves every bill of a resident, newest period first
func (r *billRepository) ListByResident(ctx context.Context, residentID string) ([]*models.MaintenanceBill, error) {
	var bills []*models.MaintenanceBill

	err := r.db.WithContext(ctx).
		Where("resident_id = ?", residentID).
		Order("year DESC").
		Order("due_date DESC").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

// MarkOverdue flips pending bills whose due date passed to overdue
func (r *billRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.MaintenanceBill{}).
		Where("status = ? AND due_date < ?", models.BillPending, now).
		Update("status", models.BillOverdue)
	return result.RowsAffected, result.Error
}
