package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"residence-be-svc/internal/models"
	"residence-be-svc/internal/repository"
	"residence-be-svc/pkg/logger"
	"residence-be-svc/pkg/utils"
)

// CreateComplaintRequest files a complaint. ResidentID is only read when an admin files it.
type CreateComplaintRequest struct {
	ResidentID  string          `json:"residentId"`
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Priority    models.Priority `json:"priority"`
	Images      []string        `json:"images"`
}

// RespondComplaintRequest is the admin response to a complaint
type RespondComplaintRequest struct {
	Response string `json:"response"`
	Status   string `json:"status"`
}

// ComplaintTotals are the counts shown beside a complaint listing
type ComplaintTotals map[models.ComplaintStatus]int64

// ComplaintService defines the interface for complaint operations
type ComplaintService interface {
	ListComplaints(ctx context.Context, actor *models.Identity, filter repository.ComplaintFilter) ([]*models.Complaint, int64, ComplaintTotals, error)
	CreateComplaint(ctx context.Context, actor *models.Identity, req *CreateComplaintRequest) (*models.Complaint, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Complaint, error)
	Respond(ctx context.Context, id string, req *RespondComplaintRequest) (*models.Complaint, error)
}

// complaintService implements ComplaintService
type complaintService struct {
	complaintRepo repository.ComplaintRepository
	residentRepo  repository.ResidentRepository
	logger        *logger.Logger
	now           func() time.Time
}

// NewComplaintService creates a new instance of ComplaintService
func NewComplaintService(complaintRepo repository.ComplaintRepository, residentRepo repository.ResidentRepository, logger *logger.Logger) ComplaintService {
	return &complaintService{
		complaintRepo: complaintRepo,
		residentRepo:  residentRepo,
		logger:        logger,
		now:           time.Now,
	}
}

func invalidComplaintStatus() error {
	return utils.InvalidArgument("Status must be one of: open, in_progress, resolved, closed")
}

// ListComplaints lists complaints with per-status totals; residents only see their own
func (s *complaintService) ListComplaints(ctx context.Context, actor *models.Identity, filter repository.ComplaintFilter) ([]*models.Complaint, int64, ComplaintTotals, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, nil, invalidComplaintStatus()
	}
	if actor != nil && actor.Role == models.RoleResident {
		filter.ResidentID = actor.ID
	}

	complaints, total, err := s.complaintRepo.List(ctx, filter)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch complaints")
		return nil, 0, nil, utils.Internal("Failed to fetch complaints", err)
	}

	counts, err := s.complaintRepo.CountByStatus(ctx, filter.ResidentID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to count complaints")
		return nil, 0, nil, utils.Internal("Failed to fetch complaints", err)
	}

	totals := make(ComplaintTotals, len(models.ComplaintStatuses))
	for _, st := range models.ComplaintStatuses {
		totals[st] = counts[st]
	}

	return complaints, total, totals, nil
}

// CreateComplaint files a complaint as a resident, or for a resident as an admin
func (s *complaintService) CreateComplaint(ctx context.Context, actor *models.Identity, req *CreateComplaintRequest) (*models.Complaint, error) {
	if actor == nil {
		return nil, utils.Forbidden("Access denied. Admin or Resident only.")
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Category) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, utils.InvalidArgument("Title, category, and description are required")
	}

	priority := models.Priority(strings.ToLower(string(req.Priority)))
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, utils.InvalidArgument("Priority must be one of: low, medium, high, urgent")
	}

	var residentID string
	switch actor.Role {
	case models.RoleResident:
		residentID = actor.ID
	case models.RoleAdmin:
		residentID = strings.TrimSpace(req.ResidentID)
		if residentID == "" {
			return nil, utils.InvalidArgument("residentId is required when an admin files a complaint")
		}
		id, err := uuid.Parse(residentID)
		if err != nil {
			return nil, utils.InvalidArgument("Invalid residentId")
		}
		residentID = id.String()
	default:
		return nil, utils.Forbidden("Access denied. Admin or Resident only.")
	}

	resident, err := s.residentRepo.FindByID(ctx, residentID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, utils.NotFound("Resident not found")
		}
		return nil, utils.Internal("Failed to submit complaint", err)
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}

	complaint := &models.Complaint{
		ResidentID:  resident.ID,
		Title:       strings.TrimSpace(req.Title),
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		Priority:    priority,
		Status:      models.ComplaintOpen,
		Images:      images,
	}
	if err := s.complaintRepo.Create(ctx, complaint); err != nil {
		s.logger.WithError(err).Error("Failed to submit complaint")
		return nil, utils.Internal("Failed to submit complaint", err)
	}
	complaint.Resident = resident

	s.logger.WithFields(map[string]interface{}{
		"complaint_id": complaint.ID,
		"resident_id":  resident.ID,
		"filed_by":     actor.Role,
	}).Info("Complaint submitted")

	return complaint, nil
}

// UpdateStatus writes a validated complaint status
func (s *complaintService) UpdateStatus(ctx context.Context, id, status string) (*models.Complaint, error) {
	if strings.TrimSpace(status) == "" {
		return nil, utils.InvalidArgument("Status is required")
	}
	st := models.ComplaintStatus(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return nil, invalidComplaintStatus()
	}

	complaint, err := s.findComplaint(ctx, id)
	if err != nil {
		return nil, err
	}

	complaint.Status = st
	if err := s.complaintRepo.Update(ctx, complaint); err != nil {
		s.logger.WithError(err).WithField("complaint_id", id).Error("Failed to update complaint status")
		return nil, utils.Internal("Failed to update complaint status", err)
	}
	return complaint, nil
}

// Respond stores the admin response and stamps the response date
func (s *complaintService) Respond(ctx context.Context, id string, req *RespondComplaintRequest) (*models.Complaint, error) {
	text := strings.TrimSpace(req.Response)
	if text == "" {
		return nil, utils.InvalidArgument("Response is required")
	}

	var st models.ComplaintStatus
	if req.Status != "" {
		st = models.ComplaintStatus(strings.ToLower(strings.TrimSpace(req.Status)))
		if !st.Valid() {
			return nil, invalidComplaintStatus()
		}
	}

	complaint, err := s.findComplaint(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	complaint.AdminResponse = &text
	complaint.ResponseDate = &now
	if st != "" {
		complaint.Status = st
	}

	if err := s.complaintRepo.Update(ctx, complaint); err != nil {
		s.logger.WithError(err).WithField("complaint_id", id).Error("Failed to respond to complaint")
		return nil, utils.Internal("Failed to respond to complaint", err)
	}
	return complaint, nil
}

func (s *complaintService) findComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	complaint, err := s.complaintRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, utils.NotFound("Complaint not found")
		}
		return nil, utils.Internal("Failed to fetch complaint", err)
	}
	return complaint, nil
}
