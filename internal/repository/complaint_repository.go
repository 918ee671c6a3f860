package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"residence-be-svc/internal/models"
)

// ComplaintFilter narrows a complaint listing. An empty ResidentID lists every resident's complaints.
type ComplaintFilter struct {
	ListOptions
	ResidentID string
	Status     models.ComplaintStatus
}

var complaintSortColumns = map[string]string{
	"title":     "complaints.title",
	"category":  "complaints.category",
	"status":    "complaints.status",
	"priority":  "complaints.priority",
	"createdAt": "complaints.created_at",
	"updatedAt": "complaints.updated_at",
}

// ComplaintRepository defines the interface for complaint data operations
type ComplaintRepository interface {
	FindByID(ctx context.Context, id string) (*models.Complaint, error)
	List(ctx context.Context, filter ComplaintFilter) ([]*models.Complaint, int64, error)
	CountByStatus(ctx context.Context, residentID string) (map[models.ComplaintStatus]int64, error)
	Create(ctx context.Context, complaint *models.Complaint) error
	Update(ctx context.Context, complaint *models.Complaint) error
}

// complaintRepository implements ComplaintRepository
type complaintRepository struct {
	db *gorm.DB
}

// NewComplaintRepository creates a new instance of ComplaintRepository
func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{
		db: db,
	}
}

// FindByID retrieves a complaint with its resident
func (r *complaintRepository) FindByID(ctx context.Context, id string) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := r.db.WithContext(ctx).Preload("Resident").Where("id = ?", id).First(&complaint).Error; err != nil {
		return nil, translateError(err)
	}
	return &complaint, nil
}

// List retrieves complaints with their residents, searching title, category, description and resident name
func (r *complaintRepository) List(ctx context.Context, filter ComplaintFilter) ([]*models.Complaint, int64, error) {
	var complaints []*models.Complaint
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Joins("JOIN residents ON residents.id = complaints.resident_id")
	if filter.ResidentID != "" {
		query = query.Where("complaints.resident_id = ?", filter.ResidentID)
	}
	if filter.Status != "" {
		query = query.Where("complaints.status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"complaints.title ILIKE ? OR complaints.category ILIKE ? OR complaints.description ILIKE ? OR residents.name ILIKE ? OR residents.apartment ILIKE ?",
			pattern, pattern, pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := filter.paginate(query.Order(filter.orderBy(complaintSortColumns, "complaints.created_at"))).
		Preload("Resident").
		Find(&complaints).Error
	if err != nil {
		return nil, 0, err
	}

	return complaints, total, nil
}

// CountByStatus counts complaints grouped by status, optionally for one resident
func (r *complaintRepository) CountByStatus(ctx context.Context, residentID string) (map[models.ComplaintStatus]int64, error) {
	var rows []struct {
		Status models.ComplaintStatus
		Count  int64
	}

	query := r.db.WithContext(ctx).Model(&models.Complaint{})
	if residentID != "" {
		query = query.Where("resident_id = ?", residentID)
	}
	if err := query.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.ComplaintStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Create inserts a new complaint
func (r *complaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(complaint).Error
}

// Update saves the complaint without touching its resident
func (r *complaintRepository) Update(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(complaint).Error
}
