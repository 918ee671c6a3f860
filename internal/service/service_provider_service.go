package service

import (
	"context"
	"errors"
	"time"

	"residence-be-svc/internal/models"
	"residence-be-svc/internal/models/response"
	"residence-be-svc/internal/repository"
	"residence-be-svc/pkg/logger"
	"residence-be-svc/pkg/utils"
)

const (
	recentRegistrationWindow = 7 * 24 * time.Hour
	recentRegistrationLimit  = 5
)

// ServiceProviderService defines the interface for service provider administration
type ServiceProviderService interface {
	ListServiceProviders(ctx context.Context, filter repository.ServiceProviderFilter) ([]*models.ServiceProvider, int64, error)
	SetApproval(ctx context.Context, id string, status models.ServiceProviderStatus) (*models.ServiceProvider, error)
	DeleteServiceProvider(ctx context.Context, id string) error
	Stats(ctx context.Context) (*response.ServiceProviderStatsResponse, error)
}

// serviceProviderService implements ServiceProviderService
type serviceProviderService struct {
	providerRepo repository.ServiceProviderRepository
	logger       *logger.Logger
	now          func() time.Time
}

// NewServiceProviderService creates a new instance of ServiceProviderService
func NewServiceProviderService(providerRepo repository.ServiceProviderRepository, logger *logger.Logger) ServiceProviderService {
	return &serviceProviderService{
		providerRepo: providerRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// ListServiceProviders lists service providers with pagination
func (s *serviceProviderService) ListServiceProviders(ctx context.Context, filter repository.ServiceProviderFilter) ([]*models.ServiceProvider, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, utils.InvalidArgument("Status must be one of: pending, approved, rejected")
	}

	providers, total, err := s.providerRepo.List(ctx, filter)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch service providers")
		return nil, 0, utils.Internal("Failed to fetch service providers", err)
	}
	return providers, total, nil
}

// SetApproval approves or rejects a service provider
func (s *serviceProviderService) SetApproval(ctx context.Context, id string, status models.ServiceProviderStatus) (*models.ServiceProvider, error) {
	if status != models.ServiceProviderApproved && status != models.ServiceProviderRejected {
		return nil, utils.InvalidArgument("Status must be 'approved' or 'rejected'")
	}

	provider, err := s.providerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, utils.NotFound("Service provider not found")
		}
		return nil, utils.Internal("Failed to update approval status", err)
	}

	provider.Status = status
	if err := s.providerRepo.Update(ctx, provider); err != nil {
		s.logger.WithError(err).WithField("service_provider_id", id).Error("Failed to update approval status")
		return nil, utils.Internal("Failed to update approval status", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"service_provider_id": id,
		"status":              status,
	}).Info("Service provider approval updated")

	return provider, nil
}

// DeleteServiceProvider removes a service provider
func (s *serviceProviderService) DeleteServiceProvider(ctx context.Context, id string) error {
	if err := s.providerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return utils.NotFound("Service provider not found")
		}
		s.logger.WithError(err).WithField("service_provider_id", id).Error("Failed to delete service provider")
		return utils.Internal("Failed to delete service provider", err)
	}
	return nil
}

// Stats counts service providers per status and lists the latest registrations of the past week
func (s *serviceProviderService) Stats(ctx context.Context) (*response.ServiceProviderStatsResponse, error) {
	counts, err := s.providerRepo.CountByStatus(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to count service providers")
		return nil, utils.Internal("Failed to fetch statistics", err)
	}

	recent, err := s.providerRepo.RegisteredSince(ctx, s.now().Add(-recentRegistrationWindow), recentRegistrationLimit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch recent registrations")
		return nil, utils.Internal("Failed to fetch statistics", err)
	}
	if recent == nil {
		recent = []*models.ServiceProvider{}
	}

	stats := &response.ServiceProviderStatsResponse{
		Pending:             counts[models.ServiceProviderPending],
		Approved:            counts[models.ServiceProviderApproved],
		Rejected:            counts[models.ServiceProviderRejected],
		RecentRegistrations: recent,
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}
