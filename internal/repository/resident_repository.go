package repository

import (
	"context"

	"gorm.io/gorm"

	"residence-be-svc/internal/models"
)

// ResidentFilter narrows a resident listing
type ResidentFilter struct {
	ListOptions
	Status models.ResidentStatus
}

var residentSortColumns = map[string]string{
	"name":        "name",
	"apartment":   "apartment",
	"email":       "email",
	"status":      "status",
	"joinDate":    "join_date",
	"appliedDate": "applied_date",
	"createdAt":   "created_at",
}

// ResidentRepository defines the interface for resident data operations
type ResidentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Resident, error)
	FindByEmail(ctx context.Context, email string) (*models.Resident, error)
	FindByUsername(ctx context.Context, username string) (*models.Resident, error)
	FindByApartment(ctx context.Context, apartment string) (*models.Resident, error)
	FindBillable(ctx context.Context, ids []string) ([]*models.Resident, error)
	List(ctx context.Context, filter ResidentFilter) ([]*models.Resident, int64, error)
	Create(ctx context.Context, resident *models.Resident) error
	Update(ctx context.Context, resident *models.Resident) error
	Delete(ctx context.Context, id string) error
}

// residentRepository implements ResidentRepository
type residentRepository struct {
	db *gorm.DB
}

// NewResidentRepository creates a new instance of ResidentRepository
func NewResidentRepository(db *gorm.DB) ResidentRepository {
	return &residentRepository{
		db: db,
	}
}

func (r *residentRepository) findOne(ctx context.Context, column string, value interface{}) (*models.Resident, error) {
	var resident models.Resident
	if err := r.db.WithContext(ctx).Where(column+" = ?", value).First(&resident).Error; err != nil {
		return nil, translateError(err)
	}
	return &resident, nil
}

// FindByID retrieves a resident by ID
func (r *residentRepository) FindByID(ctx context.Context, id string) (*models.Resident, error) {
	return r.findOne(ctx, "id", id)
}

// FindByEmail retrieves a resident by email
func (r *residentRepository) FindByEmail(ctx context.Context, email string) (*models.Resident, error) {
	return r.findOne(ctx, "email", email)
}

// FindByUsername retrieves a resident by login username
func (r *residentRepository) FindByUsername(ctx context.Context, username string) (*models.Resident, error) {
	return r.findOne(ctx, "username", username)
}

// FindByApartment retrieves the resident of an apartment
func (r *residentRepository) FindByApartment(ctx context.Context, apartment string) (*models.Resident, error) {
	return r.findOne(ctx, "apartment", apartment)
}

// FindBillable returns the active, approved residents among ids, or all of them when ids is empty
func (r *residentRepository) FindBillable(ctx context.Context, ids []string) ([]*models.Resident, error) {
	var residents []*models.Resident

	query := r.db.WithContext(ctx).
		Where("status = ? AND approval_status = ?", models.ResidentStatusActive, models.ApprovalApproved)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}

	if err := query.Order("apartment ASC").Find(&residents).Error; err != nil {
		return nil, err
	}
	return residents, nil
}

// List retrieves residents with pagination, search and status filter
func (r *residentRepository) List(ctx context.Context, filter ResidentFilter) ([]*models.Resident, int64, error) {
	var residents []*models.Resident
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Resident{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("name ILIKE ? OR email ILIKE ? OR apartment ILIKE ? OR phone ILIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := filter.paginate(query.Order(filter.orderBy(residentSortColumns, "created_at"))).
		Find(&residents).Error
	if err != nil {
		return nil, 0, err
	}

	return residents, total, nil
}

// Create inserts a new resident
func (r *residentRepository) Create(ctx context.Context, resident *models.Resident) error {
	return r.db.WithContext(ctx).Create(resident).Error
}

// Update saves every column of the resident
func (r *residentRepository) Update(ctx context.Context, resident *models.Resident) error {
	return r.db.WithContext(ctx).Save(resident).Error
}

// Delete removes a resident; complaints and bills cascade at the database
func (r *residentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Resident{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
