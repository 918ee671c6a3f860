package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResidentStatus is the account status of a resident
type ResidentStatus string

const (
	ResidentStatusPending  ResidentStatus = "pending"
	ResidentStatusActive   ResidentStatus = "active"
	ResidentStatusInactive ResidentStatus = "inactive"
)

// Valid reports whether s is a known resident status
func (s ResidentStatus) Valid() bool {
	switch s {
	case ResidentStatusPending, ResidentStatusActive, ResidentStatusInactive:
		return true
	}
	return false
}

// ApprovalStatus is the admin decision on a registration
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// IDDocumentType is the kind of identity document given for KYC
type IDDocumentType string

const (
	IDDocumentCNIC          IDDocumentType = "CNIC"
	IDDocumentPassport      IDDocumentType = "PASSPORT"
	IDDocumentDriverLicense IDDocumentType = "DRIVER_LICENSE"
)

// Valid reports whether t is a known document type
func (t IDDocumentType) Valid() bool {
	switch t {
	case IDDocumentCNIC, IDDocumentPassport, IDDocumentDriverLicense:
		return true
	}
	return false
}

const (
	OwnershipOwner  = "owner"
	OwnershipTenant = "tenant"
	OwnershipRented = "rented"
)

// Resident represents the residents table. Username and Password stay nil
// until the resident registers credentials.
type Resident struct {
	ID             string         `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string         `json:"name" gorm:"type:varchar(100);not null"`
	Apartment      string         `json:"apartment" gorm:"type:varchar(50);uniqueIndex;not null"`
	Phone          string         `json:"phone" gorm:"type:varchar(30);not null"`
	Email          string         `json:"email" gorm:"type:varchar(150);uniqueIndex;not null"`
	Status         ResidentStatus `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	ApprovalStatus ApprovalStatus `json:"approvalStatus" gorm:"type:varchar(20);not null;default:pending;index"`
	Username       *string        `json:"username" gorm:"type:varchar(100);uniqueIndex"`
	Password       *string        `json:"-"`
	JoinDate       time.Time      `json:"joinDate"`
	AppliedDate    time.Time      `json:"appliedDate"`
	FamilyMembers  int            `json:"familyMembers" gorm:"not null;default:1"`

	// KYC
	IDDocumentType        IDDocumentType `json:"idDocumentType" gorm:"type:varchar(20);default:CNIC"`
	CNICNumber            *string        `json:"cnicNumber"`
	PassportNumber        *string        `json:"passportNumber"`
	DriverLicenseNumber   *string        `json:"driverLicenseNumber"`
	OwnershipType         string         `json:"ownershipType" gorm:"type:varchar(20);default:owner"`
	EmergencyContact      *string        `json:"emergencyContact"`
	EmergencyContactPhone *string        `json:"emergencyContactPhone"`
	Occupation            *string        `json:"occupation"`
	WorkAddress           *string        `json:"workAddress"`
	MonthlyIncome         *float64       `json:"monthlyIncome"`
	PreviousAddress       *string        `json:"previousAddress"`
	AdditionalNotes       *string        `json:"additionalNotes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName sets the insert table name for Resident
func (Resident) TableName() string {
	return "residents"
}

// BeforeCreate fills the id and the registration dates
func (r *Resident) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now()
	if r.JoinDate.IsZero() {
		r.JoinDate = now
	}
	if r.AppliedDate.IsZero() {
		r.AppliedDate = now
	}
	if r.FamilyMembers < 1 {
		r.FamilyMembers = 1
	}
	return nil
}

// Billable reports whether maintenance bills may be generated for the resident
func (r *Resident) Billable() bool {
	return r.Status == ResidentStatusActive && r.ApprovalStatus == ApprovalApproved
}

// HasCredentials reports whether the resident registered a password
func (r *Resident) HasCredentials() bool {
	return r.Password != nil && *r.Password != ""
}

// Summary returns the minimal resident projection joined onto bills and complaints
func (r *Resident) Summary() *ResidentSummary {
	return &ResidentSummary{ID: r.ID, Name: r.Name, Apartment: r.Apartment}
}

func (r *Resident) AccountID() string { return r.ID }

func (r *Resident) AccountRole() Role { return RoleResident }

func (r *Resident) Identity() Identity {
	return Identity{
		ID:             r.ID,
		Role:           RoleResident,
		Email:          r.Email,
		Name:           r.Name,
		Apartment:      r.Apartment,
		Status:         string(r.Status),
		ApprovalStatus: string(r.ApprovalStatus),
	}
}

func (r *Resident) sealedAccount() {}

// ResidentSummary is the minimal resident identity attached to other entities
type ResidentSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Apartment string `json:"apartment"`
}
