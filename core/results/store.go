package results

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tablediff/core/diff"
	"tablediff/core/errs"
	"tablediff/core/keymap"
	"tablediff/core/reconcile"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultBatchSize = 500

// Store persists runs and difference records through GORM.
type Store struct {
	db        *gorm.DB
	batchSize int
	now       func() time.Time
}

// NewStore returns a store backed by db. Call Migrate before first use.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, batchSize: defaultBatchSize, now: time.Now}
}

// WithClock replaces the clock used for run timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Migrate creates or updates the result tables.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Run{}, &DiffRecord{})
}

// Create stores a new pending run. An empty ID is replaced by a fresh UUID.
func (s *Store) Create(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	run.Status = StatusPending
	run.CreatedAt = s.now().UTC()

	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// Start moves a pending run to running.
func (s *Store) Start(ctx context.Context, id string) error {
	now := s.now().UTC()
	res := s.db.WithContext(ctx).Model(&Run{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{"status": StatusRunning, "started_at": now})
	if res.Error != nil {
		return fmt.Errorf("failed to start run %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return s.transitionErr(ctx, id, StatusRunning)
	}
	return nil
}

// SetKeyMapping records the key mapping a running run resolved.
func (s *Store) SetKeyMapping(ctx context.Context, id string, m keymap.Mapping) error {
	res := s.db.WithContext(ctx).Model(&Run{}).
		Where("id = ? AND status = ?", id, StatusRunning).
		Select("key_mapping", "dropped_key_columns").
		Updates(&Run{KeyMapping: m.Pairs, DroppedKeyColumns: m.Dropped()})
	if res.Error != nil {
		return fmt.Errorf("failed to record key mapping of run %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return s.transitionErr(ctx, id, StatusRunning)
	}
	return nil
}

// Completion carries the final counters of a successful run.
type Completion struct {
	TotalDifferences int64
	Warnings         int
	Stats            reconcile.Stats
}

// Complete moves a running run to completed. Its records must already be flushed.
func (s *Store) Complete(ctx context.Context, id string, c Completion) error {
	now := s.now().UTC()
	res := s.db.WithContext(ctx).Model(&Run{}).
		Where("id = ? AND status = ?", id, StatusRunning).
		Select("status", "completed_at", "total_differences", "warnings", "stats").
		Updates(&Run{
			Status:           StatusCompleted,
			CompletedAt:      &now,
			TotalDifferences: c.TotalDifferences,
			Warnings:         c.Warnings,
			Stats:            c.Stats,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to complete run %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return s.transitionErr(ctx, id, StatusCompleted)
	}
	return nil
}

// Fail moves a pending or running run to failed and discards its records. Failing a
// run that is already terminal is a no-op.
func (s *Store) Fail(ctx context.Context, id, kind, reason string) error {
	now := s.now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Run{}).
			Where("id = ? AND status IN ?", id, []string{string(StatusPending), string(StatusRunning)}).
			Updates(map[string]any{
				"status":         StatusFailed,
				"failure_kind":   kind,
				"failure_reason": reason,
				"completed_at":   now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to fail run %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			if _, err := s.get(tx, id); err != nil {
				return err
			}
			return nil
		}
		if err := tx.Where("run_id = ?", id).Delete(&DiffRecord{}).Error; err != nil {
			return fmt.Errorf("failed to discard records of run %s: %w", id, err)
		}
		return nil
	})
}

func (s *Store) transitionErr(ctx context.Context, id string, to Status) error {
	run, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("run %s cannot move from %s to %s", id, run.Status, to)
}

// Get returns a run by id, or errs.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	return s.get(s.db.WithContext(ctx), id)
}

func (s *Store) get(db *gorm.DB, id string) (*Run, error) {
	var run Run
	err := db.Where("id = ?", id).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: run %s", errs.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return &run, nil
}

// Records returns the records of a completed run in emission order. Runs that are not
// completed have no visible records.
func (s *Store) Records(ctx context.Context, id string) ([]diff.Record, error) {
	run, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Status != StatusCompleted {
		return []diff.Record{}, nil
	}

	var rows []DiffRecord
	if err := s.db.WithContext(ctx).Where("run_id = ?", id).Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load records of run %s: %w", id, err)
	}

	out := make([]diff.Record, len(rows))
	for i, r := range rows {
		out[i] = r.Record()
	}
	return out, nil
}

// List returns the runs matching sel, newest first.
func (s *Store) List(ctx context.Context, sel Selector) ([]Run, error) {
	var runs []Run
	err := s.scope(s.db.WithContext(ctx).Model(&Run{}), sel).
		Order("created_at DESC").Order("id").
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// scope restricts a query on comparison_runs to the runs matching sel.
func (s *Store) scope(db *gorm.DB, sel Selector) *gorm.DB {
	if sel.ProjectID != "" {
		db = db.Where("comparison_runs.project_id = ?", sel.ProjectID)
	}
	if len(sel.RunIDs) > 0 {
		db = db.Where("comparison_runs.id IN ?", sel.RunIDs)
	}
	return db
}

// RecordWriter appends the records of one run in batches.
type RecordWriter struct {
	store *Store
	runID string
	buf   []DiffRecord
	seq   int64
}

// Writer returns a writer appending records to run id.
func (s *Store) Writer(id string) *RecordWriter {
	return &RecordWriter{store: s, runID: id, buf: make([]DiffRecord, 0, s.batchSize)}
}

// Add buffers rec, flushing when the batch is full.
func (w *RecordWriter) Add(ctx context.Context, rec diff.Record) error {
	w.seq++
	w.buf = append(w.buf, DiffRecord{
		RunID:       w.runID,
		Seq:         w.seq,
		RecordID:    rec.RecordID,
		FieldName:   rec.FieldName,
		SourceValue: rec.SourceValue,
		TargetValue: rec.TargetValue,
		ChangeType:  rec.ChangeType,
	})
	if len(w.buf) >= w.store.batchSize {
		return w.Flush(ctx)
	}
	return nil
}

// Flush writes buffered records.
func (w *RecordWriter) Flush(ctx context.Context) error {
	if len(w.buf) == 0 {
		return nil
	}
	if err := w.store.db.WithContext(ctx).CreateInBatches(w.buf, w.store.batchSize).Error; err != nil {
		return fmt.Errorf("failed to write records of run %s: %w", w.runID, err)
	}
	w.buf = w.buf[:0]
	return nil
}

// Count returns how many records were added.
func (w *RecordWriter) Count() int64 { return w.seq }
