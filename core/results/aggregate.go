package results

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tablediff/core/diff"
)

// ChangesOverTime maps a UTC calendar date (YYYY-MM-DD) to the number of records per
// change type. Change types with no records are absent.
type ChangesOverTime map[string]map[diff.ChangeType]int64

// FieldCount is the number of records reported for one field name.
type FieldCount struct {
	Field string `json:"field"`
	Count int64  `json:"count"`
}

// Summary reports totals over the selected runs.
type Summary struct {
	TotalRuns              int64 `json:"total_runs"`
	CompletedRuns          int64 `json:"completed_runs"`
	TotalDifferences       int64 `json:"total_differences"`
	DistinctModifiedFields int64 `json:"distinct_modified_fields"`
}

// runTypeCount is the number of records of one change type in one run.
type runTypeCount struct {
	RunID       string
	CompletedAt time.Time
	ChangeType  diff.ChangeType
	Count       int64
}

// ChangesOverTime buckets the records of completed runs by the date their run
// completed. start and end, when non-nil, bound the completion time inclusively.
func (s *Store) ChangesOverTime(ctx context.Context, sel Selector, start, end *time.Time) (ChangesOverTime, error) {
	var counts []runTypeCount
	q := s.db.WithContext(ctx).Table("diff_records").
		Select("comparison_runs.id AS run_id, comparison_runs.completed_at AS completed_at, diff_records.change_type AS change_type, COUNT(*) AS count").
		Joins("JOIN comparison_runs ON comparison_runs.id = diff_records.run_id").
		Where("comparison_runs.status = ?", StatusCompleted).
		Group("comparison_runs.id, comparison_runs.completed_at, diff_records.change_type")
	if err := s.scope(q, sel).Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate changes over time: %w", err)
	}

	out := make(ChangesOverTime)
	for _, c := range counts {
		at := c.CompletedAt.UTC()
		if start != nil && at.Before(*start) {
			continue
		}
		if end != nil && at.After(*end) {
			continue
		}
		if c.Count == 0 {
			continue
		}
		day := at.Format(time.DateOnly)
		if out[day] == nil {
			out[day] = make(map[diff.ChangeType]int64)
		}
		out[day][c.ChangeType] += c.Count
	}
	return out, nil
}

// FieldFrequency counts the records of completed runs per field name, sorted by count
// descending and then by field name ascending.
func (s *Store) FieldFrequency(ctx context.Context, sel Selector) ([]FieldCount, error) {
	var counts []FieldCount
	q := s.db.WithContext(ctx).Table("diff_records").
		Select("diff_records.field_name AS field, COUNT(*) AS count").
		Joins("JOIN comparison_runs ON comparison_runs.id = diff_records.run_id").
		Where("comparison_runs.status = ?", StatusCompleted).
		Group("diff_records.field_name")
	if err := s.scope(q, sel).Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate field frequency: %w", err)
	}

	// Sorted here so ties follow byte order whatever the database collation.
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Field < counts[j].Field
	})
	if counts == nil {
		counts = []FieldCount{}
	}
	return counts, nil
}

// Summary computes run and difference totals over the selected runs.
func (s *Store) Summary(ctx context.Context, sel Selector) (*Summary, error) {
	var sum Summary
	db := s.db.WithContext(ctx)

	if err := s.scope(db.Model(&Run{}), sel).Count(&sum.TotalRuns).Error; err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}
	if err := s.scope(db.Model(&Run{}), sel).Where("status = ?", StatusCompleted).Count(&sum.CompletedRuns).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed runs: %w", err)
	}

	var total struct{ Total int64 }
	if err := s.scope(db.Model(&Run{}), sel).
		Select("COALESCE(SUM(total_differences), 0) AS total").
		Where("status = ?", StatusCompleted).
		Scan(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to sum differences: %w", err)
	}
	sum.TotalDifferences = total.Total

	q := db.Table("diff_records").
		Joins("JOIN comparison_runs ON comparison_runs.id = diff_records.run_id").
		Where("comparison_runs.status = ? AND diff_records.change_type = ?", StatusCompleted, diff.Modified).
		Distinct("diff_records.field_name")
	if err := s.scope(q, sel).Count(&sum.DistinctModifiedFields).Error; err != nil {
		return nil, fmt.Errorf("failed to count modified fields: %w", err)
	}
	return &sum, nil
}
