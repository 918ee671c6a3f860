package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComplaintStatus is the handling state of a complaint
type ComplaintStatus string

const (
	ComplaintOpen       ComplaintStatus = "open"
	ComplaintInProgress ComplaintStatus = "in_progress"
	ComplaintResolved   ComplaintStatus = "resolved"
	ComplaintClosed     ComplaintStatus = "closed"
)

// ComplaintStatuses lists every complaint status in workflow order
var ComplaintStatuses = []ComplaintStatus{ComplaintOpen, ComplaintInProgress, ComplaintResolved, ComplaintClosed}

// Valid reports whether s is a known complaint status
func (s ComplaintStatus) Valid() bool {
	for _, v := range ComplaintStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Priority is the urgency of a complaint
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Complaint represents the complaints table
type Complaint struct {
	ID            string          `json:"id" gorm:"type:uuid;primaryKey"`
	ResidentID    string          `json:"residentId" gorm:"type:uuid;not null;index"`
	Resident      *Resident       `json:"-" gorm:"foreignKey:ResidentID;constraint:OnDelete:CASCADE"`
	Title         string          `json:"title" gorm:"type:varchar(200);not null"`
	Category      string          `json:"category" gorm:"type:varchar(100);not null"`
	Status        ComplaintStatus `json:"status" gorm:"type:varchar(20);not null;default:open;index"`
	Priority      Priority        `json:"priority" gorm:"type:varchar(20);not null;default:medium"`
	Description   string          `json:"description" gorm:"type:text;not null"`
	Images        []string        `json:"images" gorm:"serializer:json"`
	AdminResponse *string         `json:"adminResponse"`
	ResponseDate  *time.Time      `json:"responseDate"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// TableName sets the insert table name for Complaint
func (Complaint) TableName() string {
	return "complaints"
}

// BeforeCreate assigns a uuid when the caller did not
func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
