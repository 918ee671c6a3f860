package service

import (
	"context"
	"testing"

	"residence-be-svc/internal/mocks"
	"residence-be-svc/internal/models"
	"residence-be-svc/internal/repository"
	"residence-be-svc/pkg/logger"
	"residence-be-svc/pkg/utils"
)

func TestCreateResident(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewResidentRepository()
	s := NewResidentService(repo, logger.NewNopLogger())

	r, err := s.CreateResident(ctx, &CreateResidentRequest{Name: "Sara", Apartment: "B-202", Phone: "0311", Email: "Sara@Example.com"})
	if err != nil {
		t.Fatalf("CreateResident failed: %v", err)
	}
	if !r.Billable() || r.HasCredentials() || r.Email != "sara@example.com" {
		t.Errorf("admin created residents are active, approved and without login: %+v", r)
	}

	_, err = s.CreateResident(ctx, &CreateResidentRequest{Name: "X", Apartment: "B-203", Phone: "1", Email: "sara@example.com"})
	assertAppError(t, err, utils.KindInvalidArgument, "Resident with this email already exists")

	_, err = s.CreateResident(ctx, &CreateResidentRequest{Name: "X", Apartment: "B-202", Phone: "1", Email: "x@example.com"})
	assertAppError(t, err, utils.KindInvalidArgument, "Apartment is already registered")
}

func TestResidentSetApproval(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewResidentRepository(&models.Resident{
		ID: residentOneID, Status: models.ResidentStatusPending, ApprovalStatus: models.ApprovalPending,
	})
	s := NewResidentService(repo, logger.NewNopLogger())

	r, err := s.SetApproval(ctx, residentOneID, models.ApprovalApproved)
	if err != nil {
		t.Fatalf("SetApproval failed: %v", err)
	}
	if r.Status != models.ResidentStatusActive || r.ApprovalStatus != models.ApprovalApproved {
		t.Errorf("approval should activate: %+v", r)
	}

	r, err = s.SetApproval(ctx, residentOneID, models.ApprovalRejected)
	if err != nil {
		t.Fatalf("SetApproval failed: %v", err)
	}
	if r.Status != models.ResidentStatusInactive || r.ApprovalStatus != models.ApprovalRejected {
		t.Errorf("rejection should deactivate: %+v", r)
	}

	_, err = s.SetApproval(ctx, residentOneID, models.ApprovalPending)
	assertAppError(t, err, utils.KindInvalidArgument, "Approval status must be approved or rejected")

	_, err = s.SetApproval(ctx, residentTwoID, models.ApprovalApproved)
	assertAppError(t, err, utils.KindNotFound, "")
}

func TestListAndDeleteResidents(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewResidentRepository(
		&models.Resident{ID: residentOneID, Name: "Ayesha", Apartment: "A-101", Status: models.ResidentStatusActive},
		&models.Resident{ID: residentTwoID, Name: "Bilal", Apartment: "A-102", Status: models.ResidentStatusPending},
	)
	s := NewResidentService(repo, logger.NewNopLogger())

	list, total, err := s.ListResidents(ctx, repository.ResidentFilter{Status: models.ResidentStatusActive})
	if err != nil || total != 1 || list[0].ID != residentOneID {
		t.Fatalf("ListResidents = %v, %d, %v", list, total, err)
	}

	_, _, err = s.ListResidents(ctx, repository.ResidentFilter{Status: "away"})
	assertAppError(t, err, utils.KindInvalidArgument, "")

	if err := s.DeleteResident(ctx, residentOneID); err != nil {
		t.Fatalf("DeleteResident failed: %v", err)
	}
	err = s.DeleteResident(ctx, residentOneID)
	assertAppError(t, err, utils.KindNotFound, "Resident not found")
}
