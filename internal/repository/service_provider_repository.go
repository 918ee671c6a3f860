package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"residence-be-svc/internal/models"
)

// ServiceProviderFilter narrows a service provider listing
type ServiceProviderFilter struct {
	ListOptions
	Status   models.ServiceProviderStatus
	Category string
}

var serviceProviderSortColumns = map[string]string{
	"name":             "name",
	"serviceCategory":  "service_category",
	"rating":           "rating",
	"completedJobs":    "completed_jobs",
	"registrationDate": "registration_date",
	"createdAt":        "created_at",
}

// ServiceProviderRepository defines the interface for service provider data operations
type ServiceProviderRepository interface {
	FindByID(ctx context.Context, id string) (*models.ServiceProvider, error)
	FindByEmail(ctx context.Context, email string) (*models.ServiceProvider, error)
	FindByUsername(ctx context.Context, username string) (*models.ServiceProvider, error)
	List(ctx context.Context, filter ServiceProviderFilter) ([]*models.ServiceProvider, int64, error)
	CountByStatus(ctx context.Context) (map[models.ServiceProviderStatus]int64, error)
	RegisteredSince(ctx context.Context, since time.Time, limit int) ([]*models.ServiceProvider, error)
	Create(ctx context.Context, provider *models.ServiceProvider) error
	Update(ctx context.Context, provider *models.ServiceProvider) error
	Delete(ctx context.Context, id string) error
}

// serviceProviderRepository implements ServiceProviderRepository
type serviceProviderRepository struct {
	db *gorm.DB
}

// NewServiceProviderRepository creates a new instance of ServiceProviderRepository
func NewServiceProviderRepository(db *gorm.DB) ServiceProviderRepository {
	return &serviceProviderRepository{
		db: db,
	}
}

func (r *serviceProviderRepository) findOne(ctx context.Context, column, value string) (*models.ServiceProvider, error) {
	var provider models.ServiceProvider
	if err := r.db.WithContext(ctx).Where(column+" = ?", value).First(&provider).Error; err != nil {
		return nil, translateError(err)
	}
	return &provider, nil
}

// FindByID retrieves a service provider by ID
func (r *serviceProviderRepository) FindByID(ctx context.Context, id string) (*models.ServiceProvider, error) {
	return r.findOne(ctx, "id", id)
}

// FindByEmail retrieves a service provider by email
func (r *serviceProviderRepository) FindByEmail(ctx context.Context, email string) (*models.ServiceProvider, error) {
	return r.findOne(ctx, "email", email)
}

// FindByUsername retrieves a service provider by username
func (r *serviceProviderRepository) FindByUsername(ctx context.Context, username string) (*models.ServiceProvider, error) {
	return r.findOne(ctx, "username", username)
}

// List retrieves service providers with pagination, search, status and category filters
func (r *serviceProviderRepository) List(ctx context.Context, filter ServiceProviderFilter) ([]*models.ServiceProvider, int64, error) {
	var providers []*models.ServiceProvider
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ServiceProvider{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("name ILIKE ? OR email ILIKE ? OR service_category ILIKE ? OR keywords ILIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("service_category = ?", filter.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := filter.paginate(query.Order(filter.orderBy(serviceProviderSortColumns, "created_at"))).
		Find(&providers).Error
	if err != nil {
		return nil, 0, err
	}

	return providers, total, nil
}

// CountByStatus counts service providers grouped by status
func (r *serviceProviderRepository) CountByStatus(ctx context.Context) (map[models.ServiceProviderStatus]int64, error) {
	var rows []struct {
		Status models.ServiceProviderStatus
		Count  int64
	}

	err := r.db.WithContext(ctx).Model(&models.ServiceProvider{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.ServiceProviderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// RegisteredSince retrieves the newest registrations after since
func (r *serviceProviderRepository) RegisteredSince(ctx context.Context, since time.Time, limit int) ([]*models.ServiceProvider, error) {
	var providers []*models.ServiceProvider

	err := r.db.WithContext(ctx).
		Where("registration_date >= ?", since).
		Order("registration_date DESC").
		Limit(limit).
		Find(&providers).Error
	if err != nil {
		return nil, err
	}
	return providers, nil
}

// Create inserts a new service provider
func (r *serviceProviderRepository) Create(ctx context.Context, provider *models.ServiceProvider) error {
	return r.db.WithContext(ctx).Create(provider).Error
}

// Update saves every column of the service provider
func (r *serviceProviderRepository) Update(ctx context.Context, provider *models.ServiceProvider) error {
	return r.db.WithContext(ctx).Save(provider).Error
}

// Delete removes a service provider
func (r *serviceProviderRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ServiceProvider{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
