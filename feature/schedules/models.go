package schedules

import (
	"time"

	"tablediff/core/compare"
	"tablediff/core/schedule"
)

// Last run outcomes.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Task is a comparison repeated on a schedule.
type Task struct {
	ID          string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string `gorm:"type:varchar(200)" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	Request       compare.Request `gorm:"serializer:json" json:"request"`
	ScheduleType  schedule.Type   `gorm:"type:varchar(16)" json:"schedule_type"`
	ScheduleValue string          `gorm:"type:varchar(200)" json:"schedule_value"`
	Active        bool            `json:"active"`

	NextRunAt      *time.Time `gorm:"index" json:"next_run_at,omitempty"`
	LastRunAt      *time.Time `json:"last_run_at,omitempty"`
	LastRunID      string     `gorm:"type:varchar(36)" json:"last_run_id,omitempty"`
	LastRunStatus  string     `gorm:"type:varchar(16)" json:"last_run_status,omitempty"`
	LastRunMessage string     `gorm:"type:text" json:"last_run_message,omitempty"`

	TotalRuns      int `json:"total_runs"`
	SuccessfulRuns int `json:"successful_runs"`
	FailedRuns     int `json:"failed_runs"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the GORM table name.
func (Task) TableName() string { return "scheduled_tasks" }

// Input is the writable part of a task.
type Input struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Request       compare.Request `json:"request"`
	ScheduleType  schedule.Type   `json:"schedule_type"`
	ScheduleValue string          `json:"schedule_value"`
	// Active defaults to true when omitted.
	Active *bool `json:"active,omitempty"`
}
