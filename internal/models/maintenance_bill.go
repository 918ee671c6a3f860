package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BillStatus is the payment state of a maintenance bill
type BillStatus string

const (
	BillPending   BillStatus = "pending"
	BillPaid      BillStatus = "paid"
	BillOverdue   BillStatus = "overdue"
	BillCancelled BillStatus = "cancelled"
)

// BillStatuses lists every bill status
var BillStatuses = []BillStatus{BillPending, BillPaid, BillOverdue, BillCancelled}

// Valid reports whether s is a known bill status
func (s BillStatus) Valid() bool {
	for _, v := range BillStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// BillItem is one line of a maintenance bill
type BillItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// MaintenanceBill represents the maintenance_bills table.
// A resident has at most one bill per (month, year); idx_bill_resident_period enforces it.
type MaintenanceBill struct {
	ID            string     `json:"id" gorm:"type:uuid;primaryKey"`
	ResidentID    string     `json:"residentId" gorm:"type:uuid;not null;uniqueIndex:idx_bill_resident_period,priority:1"`
	Resident      *Resident  `json:"-" gorm:"foreignKey:ResidentID;constraint:OnDelete:CASCADE"`
	Month         string     `json:"month" gorm:"type:varchar(20);not null;uniqueIndex:idx_bill_resident_period,priority:2"`
	Year          int        `json:"year" gorm:"not null;uniqueIndex:idx_bill_resident_period,priority:3"`
	Amount        float64    `json:"amount" gorm:"not null"`
	DueDate       time.Time  `json:"dueDate" gorm:"not null;index"`
	Status        BillStatus `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	GeneratedDate time.Time  `json:"generatedDate"`
	PaidDate      *time.Time `json:"paidDate"`
	Items         []BillItem `json:"items" gorm:"serializer:json"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// TableName sets the insert table name for MaintenanceBill
func (MaintenanceBill) TableName() string {
	return "maintenance_bills"
}

// BeforeCreate fills the id and the generation timestamp
func (b *MaintenanceBill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.GeneratedDate.IsZero() {
		b.GeneratedDate = time.Now()
	}
	return nil
}
