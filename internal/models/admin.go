package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminStatus is the active flag of an admin account
type AdminStatus string

const (
	AdminStatusActive   AdminStatus = "active"
	AdminStatusInactive AdminStatus = "inactive"
)

// Admin represents the admins table
type Admin struct {
	ID           string      `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string      `json:"name" gorm:"type:varchar(100);not null"`
	Email        string      `json:"email" gorm:"type:varchar(150);uniqueIndex;not null"`
	Username     string      `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password     string      `json:"-" gorm:"not null"`
	Img          *string     `json:"img"`
	Status       AdminStatus `json:"status" gorm:"type:varchar(20);not null;default:active"`
	IsSuperAdmin bool        `json:"isSuperAdmin" gorm:"not null;default:false"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// TableName sets the insert table name for Admin
func (Admin) TableName() string {
	return "admins"
}

// BeforeCreate assigns a uuid when the caller did not
func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

func (a *Admin) AccountID() string { return a.ID }

func (a *Admin) AccountRole() Role { return RoleAdmin }

func (a *Admin) Identity() Identity {
	return Identity{
		ID:           a.ID,
		Role:         RoleAdmin,
		Email:        a.Email,
		Username:     a.Username,
		IsSuperAdmin: a.IsSuperAdmin,
	}
}

func (a *Admin) sealedAccount() {}
