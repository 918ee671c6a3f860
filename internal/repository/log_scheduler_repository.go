package repository

import (
	"context"

	"gorm.io/gorm"

	"residence-be-svc/internal/models"
)

// LogSchedulerRepository defines the interface for scheduler log data operations
type LogSchedulerRepository interface {
	CreateLogScheduler(ctx context.Context, log *models.SchedulerLog) error
}

// logSchedulerRepository implements LogSchedulerRepository
type logSchedulerRepository struct {
	db *gorm.DB
}

// NewLogSchedulerRepository creates a new instance of LogSchedulerRepository
func NewLogSchedulerRepository(db *gorm.DB) LogSchedulerRepository {
	return &logSchedulerRepository{
		db: db,
	}
}

// CreateLogScheduler creates a new scheduler log record
func (r *logSchedulerRepository) CreateLogScheduler(ctx context.Context, log *models.SchedulerLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}
