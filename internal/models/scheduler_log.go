package models

import (
	"time"
)

// SchedulerLog represents the scheduler_logs table
type SchedulerLog struct {
	ID            uint      `json:"id" gorm:"primarykey"`
	RunID         string    `json:"runId" gorm:"type:uuid;index"`
	SchedulerCode string    `json:"schedulerCode" gorm:"type:varchar(64);not null"`
	Message       string    `json:"message" gorm:"type:text"`
	Status        string    `json:"status" gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TableName sets the insert table name for SchedulerLog
func (SchedulerLog) TableName() string {
	return "scheduler_logs"
}
