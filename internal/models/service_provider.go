package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceProviderStatus is the onboarding state of a service provider
type ServiceProviderStatus string

const (
	ServiceProviderPending  ServiceProviderStatus = "pending"
	ServiceProviderApproved ServiceProviderStatus = "approved"
	ServiceProviderRejected ServiceProviderStatus = "rejected"
)

// Valid reports whether s is a known service provider status
func (s ServiceProviderStatus) Valid() bool {
	switch s {
	case ServiceProviderPending, ServiceProviderApproved, ServiceProviderRejected:
		return true
	}
	return false
}

// ServiceProvider represents the service_providers table
type ServiceProvider struct {
	ID       string `json:"id" gorm:"type:uuid;primaryKey"`
	Name     string `json:"name" gorm:"type:varchar(100);not null"`
	Username string `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Email    string `json:"email" gorm:"type:varchar(150);uniqueIndex;not null"`
	Phone    string `json:"phone" gorm:"type:varchar(30);not null"`
	Password string `json:"-" gorm:"not null"`

	// KYC
	IDDocumentType      IDDocumentType `json:"idDocumentType" gorm:"type:varchar(20);default:CNIC"`
	CNICNumber          *string        `json:"cnicNumber"`
	PassportNumber      *string        `json:"passportNumber"`
	DriverLicenseNumber *string        `json:"driverLicenseNumber"`

	// Service info
	ServiceCategory string  `json:"serviceCategory" gorm:"type:varchar(100);not null;index"`
	Keywords        string  `json:"keywords"`
	ShortIntro      string  `json:"shortIntro"`
	Experience      string  `json:"experience"`
	PreviousWork    string  `json:"previousWork"`
	Certifications  string  `json:"certifications"`
	Availability    string  `json:"availability"`
	ServiceArea     string  `json:"serviceArea" gorm:"type:varchar(150)"`
	AdditionalNotes string  `json:"additionalNotes"`
	ProfilePhoto    *string `json:"profilePhoto"`

	// Stats
	RegistrationDate time.Time             `json:"registrationDate"`
	Status           ServiceProviderStatus `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	Rating           float64               `json:"rating" gorm:"not null;default:0"`
	TotalReviews     int                   `json:"totalReviews" gorm:"not null;default:0"`
	CompletedJobs    int                   `json:"completedJobs" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName sets the insert table name for ServiceProvider
func (ServiceProvider) TableName() string {
	return "service_providers"
}

// BeforeCreate fills the id and the registration date
func (p *ServiceProvider) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.RegistrationDate.IsZero() {
		p.RegistrationDate = time.Now()
	}
	return nil
}

func (p *ServiceProvider) AccountID() string { return p.ID }

func (p *ServiceProvider) AccountRole() Role { return RoleServiceProvider }

func (p *ServiceProvider) Identity() Identity {
	return Identity{
		ID:       p.ID,
		Role:     RoleServiceProvider,
		Email:    p.Email,
		Username: p.Username,
		Name:     p.Name,
		Status:   string(p.Status),
	}
}

func (p *ServiceProvider) sealedAccount() {}
