package results

import (
	"time"

	"tablediff/core/diff"
	"tablediff/core/keymap"
	"tablediff/core/reconcile"
)

// Status is the lifecycle state of a comparison run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether s is completed or failed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Run is one execution of a comparison.
type Run struct {
	ID        string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ProjectID string `gorm:"index;type:varchar(64)" json:"project_id,omitempty"`

	SourceConnection string `gorm:"type:varchar(64)" json:"source_connection"`
	SourceTable      string `gorm:"type:varchar(255)" json:"source_table"`
	TargetConnection string `gorm:"type:varchar(64)" json:"target_connection"`
	TargetTable      string `gorm:"type:varchar(255)" json:"target_table"`

	KeyMapping        []keymap.Pair `gorm:"serializer:json" json:"key_mapping"`
	DroppedKeyColumns []string      `gorm:"serializer:json" json:"dropped_key_columns,omitempty"`
	CompareFields     []keymap.Pair `gorm:"serializer:json" json:"compare_fields,omitempty"`

	Status        Status `gorm:"index;type:varchar(16)" json:"status"`
	FailureKind   string `gorm:"type:varchar(32)" json:"failure_kind,omitempty"`
	FailureReason string `gorm:"type:text" json:"failure_reason,omitempty"`

	TotalDifferences int64           `json:"total_differences"`
	Warnings         int             `json:"warnings"`
	Stats            reconcile.Stats `gorm:"serializer:json" json:"stats"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `gorm:"index" json:"completed_at,omitempty"`
}

// TableName overrides the GORM table name.
func (Run) TableName() string { return "comparison_runs" }

// DiffRecord is a persisted difference record.
type DiffRecord struct {
	ID          uint            `gorm:"primaryKey"`
	RunID       string          `gorm:"type:varchar(36);index:idx_diff_run_seq,priority:1"`
	Seq         int64           `gorm:"index:idx_diff_run_seq,priority:2"`
	RecordID    string          `gorm:"type:text"`
	FieldName   string          `gorm:"type:varchar(255);index"`
	SourceValue *string         `gorm:"type:text"`
	TargetValue *string         `gorm:"type:text"`
	ChangeType  diff.ChangeType `gorm:"type:varchar(16);index"`
}

// TableName overrides the GORM table name.
func (DiffRecord) TableName() string { return "diff_records" }

// Record converts the persisted row back into a diff.Record.
func (r DiffRecord) Record() diff.Record {
	return diff.Record{
		RecordID:    r.RecordID,
		FieldName:   r.FieldName,
		SourceValue: r.SourceValue,
		TargetValue: r.TargetValue,
		ChangeType:  r.ChangeType,
	}
}

// Selector restricts aggregate and listing queries to a set of runs. The zero value
// selects every run.
type Selector struct {
	ProjectID string   `json:"project_id,omitempty"`
	RunIDs    []string `json:"run_ids,omitempty"`
}
