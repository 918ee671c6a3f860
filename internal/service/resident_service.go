package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"residence-be-svc/internal/models"
	"residence-be-svc/internal/repository"
	"residence-be-svc/pkg/logger"
	"residence-be-svc/pkg/utils"
)

// CreateResidentRequest is an admin-created resident. Such residents are active
// and approved immediately and have no login until they self-register.
type CreateResidentRequest struct {
	Name                  string                `json:"name" binding:"required"`
	Apartment             string                `json:"apartment" binding:"required"`
	Phone                 string                `json:"phone" binding:"required"`
	Email                 string                `json:"email" binding:"required"`
	FamilyMembers         int                   `json:"familyMembers"`
	IDDocumentType        models.IDDocumentType `json:"idDocumentType"`
	CNICNumber            *string               `json:"cnicNumber"`
	OwnershipType         string                `json:"ownershipType"`
	EmergencyContact      *string               `json:"emergencyContact"`
	EmergencyContactPhone *string               `json:"emergencyContactPhone"`
	Occupation            *string               `json:"occupation"`
}

// ResidentService defines the interface for resident administration
type ResidentService interface {
	ListResidents(ctx context.Context, filter repository.ResidentFilter) ([]*models.Resident, int64, error)
	GetResident(ctx context.Context, id string) (*models.Resident, error)
	CreateResident(ctx context.Context, req *CreateResidentRequest) (*models.Resident, error)
	SetApproval(ctx context.Context, id string, approval models.ApprovalStatus) (*models.Resident, error)
	DeleteResident(ctx context.Context, id string) error
}

// residentService implements ResidentService
type residentService struct {
	residentRepo repository.ResidentRepository
	logger       *logger.Logger
}

// NewResidentService creates a new instance of ResidentService
func NewResidentService(residentRepo repository.ResidentRepository, logger *logger.Logger) ResidentService {
	return &residentService{
		residentRepo: residentRepo,
		logger:       logger,
	}
}

// ListResidents lists residents with pagination
func (s *residentService) ListResidents(ctx context.Context, filter repository.ResidentFilter) ([]*models.Resident, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, utils.InvalidArgument("Status must be one of: pending, active, inactive")
	}

	residents, total, err := s.residentRepo.List(ctx, filter)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch residents")
		return nil, 0, utils.Internal("Failed to fetch residents", err)
	}
	return residents, total, nil
}

// GetResident retrieves one resident
func (s *residentService) GetResident(ctx context.Context, id string) (*models.Resident, error) {
	resident, err := s.residentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, utils.NotFound("Resident not found")
		}
		return nil, utils.Internal("Failed to fetch resident", err)
	}
	return resident, nil
}

// CreateResident adds a resident on behalf of the admin
func (s *residentService) CreateResident(ctx context.Context, req *CreateResidentRequest) (*models.Resident, error) {
	email := normalizeEmail(req.Email)
	apartment := strings.TrimSpace(req.Apartment)

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, utils.InvalidArgument("Invalid email address")
	}
	if req.IDDocumentType != "" && !req.IDDocumentType.Valid() {
		return nil, utils.InvalidArgument("Invalid ID document type")
	}

	if taken, err := s.residentRepo.FindByEmail(ctx, email); err == nil && taken != nil {
		return nil, utils.InvalidArgument("Resident with this email already exists")
	} else if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, utils.Internal("Failed to create resident", err)
	}
	if taken, err := s.residentRepo.FindByApartment(ctx, apartment); err == nil && taken != nil {
		return nil, utils.InvalidArgument("Apartment is already registered")
	} else if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, utils.Internal("Failed to create resident", err)
	}

	resident := &models.Resident{
		Name:                  strings.TrimSpace(req.Name),
		Apartment:             apartment,
		Phone:                 strings.TrimSpace(req.Phone),
		Email:                 email,
		Status:                models.ResidentStatusActive,
		ApprovalStatus:        models.ApprovalApproved,
		FamilyMembers:         req.FamilyMembers,
		IDDocumentType:        models.IDDocumentCNIC,
		CNICNumber:            req.CNICNumber,
		OwnershipType:         models.OwnershipOwner,
		EmergencyContact:      req.EmergencyContact,
		EmergencyContactPhone: req.EmergencyContactPhone,
		Occupation:            req.Occupation,
	}
	if req.IDDocumentType != "" {
		resident.IDDocumentType = req.IDDocumentType
	}
	if req.OwnershipType != "" {
		resident.OwnershipType = req.OwnershipType
	}

	if err := s.residentRepo.Create(ctx, resident); err != nil {
		s.logger.WithError(err).Error("Failed to create resident")
		return nil, utils.Internal("Failed to create resident", err)
	}

	s.logger.WithField("resident_id", resident.ID).Info("Resident created by admin")
	return resident, nil
}

// SetApproval records the admin decision. Approval activates the resident,
// rejection deactivates it.
func (s *residentService) SetApproval(ctx context.Context, id string, approval models.ApprovalStatus) (*models.Resident, error) {
	var status models.ResidentStatus
	switch approval {
	case models.ApprovalApproved:
		status = models.ResidentStatusActive
	case models.ApprovalRejected:
		status = models.ResidentStatusInactive
	default:
		return nil, utils.InvalidArgument("Approval status must be approved or rejected")
	}

	resident, err := s.GetResident(ctx, id)
	if err != nil {
		return nil, err
	}

	resident.ApprovalStatus = approval
	resident.Status = status
	if err := s.residentRepo.Update(ctx, resident); err != nil {
		s.logger.WithError(err).WithField("resident_id", id).Error("Failed to update approval status")
		return nil, utils.Internal("Failed to update approval status", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"resident_id":     id,
		"approval_status": approval,
	}).Info("Resident approval updated")

	return resident, nil
}

// DeleteResident removes a resident together with their complaints and bills
func (s *residentService) DeleteResident(ctx context.Context, id string) error {
	if err := s.residentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return utils.NotFound("Resident not found")
		}
		s.logger.WithError(err).WithField("resident_id", id).Error("Failed to delete resident")
		return utils.Internal("Failed to delete resident", err)
	}
	s.logger.WithField("resident_id", id).Info("Resident deleted")
	return nil
}
