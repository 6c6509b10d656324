package schedules

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tablediff/core/compare"
	"tablediff/core/errs"
	"tablediff/core/results"
	"tablediff/core/schedule"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrInvalid is returned for tasks with a missing name, request or schedule.
	ErrInvalid = errors.New("invalid scheduled task")
	// ErrAlreadyRunning is returned when a task's previous run has not finished.
	ErrAlreadyRunning = errors.New("task is already running")
)

// maxMessage bounds the stored last run message.
const maxMessage = 500

// Runner executes one comparison and waits for its terminal state.
type Runner interface {
	Run(ctx context.Context, req compare.Request) (*results.Run, error)
}

// Service stores scheduled tasks and executes the ones that are due. A task never
// runs twice at once; a due task whose previous run is still executing is skipped.
type Service struct {
	db     *gorm.DB
	runner Runner
	logger *zap.Logger
	now    func() time.Time

	base context.Context
	stop context.CancelFunc

	mu      sync.Mutex
	running map[string]bool
	wg      sync.WaitGroup
}

// NewService creates a scheduler service.
func NewService(db *gorm.DB, runner Runner, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	base, stop := context.WithCancel(context.Background())
	return &Service{
		db:      db,
		runner:  runner,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		base:    base,
		stop:    stop,
		running: make(map[string]bool),
	}
}

// WithClock replaces the clock used for due checks and next run times.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Migrate creates the scheduled tasks table.
func (s *Service) Migrate() error {
	return s.db.AutoMigrate(&Task{})
}

func (s *Service) validate(in Input) (schedule.Schedule, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if err := in.Request.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	sched, err := schedule.Parse(in.ScheduleType, in.ScheduleValue)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return sched, nil
}

func (s *Service) apply(t *Task, in Input, sched schedule.Schedule) {
	t.Name = in.Name
	t.Description = in.Description
	t.Request = in.Request
	t.ScheduleType = in.ScheduleType
	t.ScheduleValue = in.ScheduleValue
	t.Active = in.Active == nil || *in.Active
	next := sched.Next(s.now())
	t.NextRunAt = &next
}

// Create stores a task and computes its first run time.
func (s *Service) Create(ctx context.Context, in Input) (*Task, error) {
	sched, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	t := &Task{ID: uuid.NewString()}
	s.apply(t, in, sched)
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, fmt.Errorf("failed to create scheduled task: %w", err)
	}
	s.logger.Info("Scheduled task created",
		zap.String("task_id", t.ID),
		zap.String("schedule_type", string(t.ScheduleType)),
		zap.String("schedule_value", t.ScheduleValue),
		zap.Timep("next_run_at", t.NextRunAt),
	)
	return t, nil
}

// Update replaces the definition of task id and recomputes its next run time. Run
// counters are kept.
func (s *Service) Update(ctx context.Context, id string, in Input) (*Task, error) {
	sched, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.apply(t, in, sched)
	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return nil, fmt.Errorf("failed to update scheduled task %s: %w", id, err)
	}
	return t, nil
}

// Get returns task id.
func (s *Service) Get(ctx context.Context, id string) (*Task, error) {
	var t Task
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: scheduled task %s", errs.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduled task %s: %w", id, err)
	}
	return &t, nil
}

// List returns every task ordered by name.
func (s *Service) List(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := s.db.WithContext(ctx).Order("name").Order("id").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list scheduled tasks: %w", err)
	}
	return tasks, nil
}

// Delete removes task id. A run already started by the task is not cancelled.
func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Task{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete scheduled task %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: scheduled task %s", errs.ErrNotFound, id)
	}
	s.logger.Info("Scheduled task removed", zap.String("task_id", id))
	return nil
}

// Due returns the active tasks whose next run time is not after now, earliest first.
func (s *Service) Due(ctx context.Context, now time.Time) ([]Task, error) {
	var active []Task
	err := s.db.WithContext(ctx).
		Where("active = ? AND next_run_at IS NOT NULL", true).
		Order("next_run_at").
		Find(&active).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load due tasks: %w", err)
	}

	// Compared in Go so sqlite and mysql agree on stored time formats.
	due := active[:0]
	for _, t := range active {
		if !t.NextRunAt.After(now) {
			due = append(due, t)
		}
	}
	return due, nil
}

// Tick launches every due task that is not already running.
func (s *Service) Tick(ctx context.Context) error {
	tasks, err := s.Due(ctx, s.now())
	if err != nil {
		return err
	}
	for _, t := range tasks {
		if err := s.launch(t); errors.Is(err, ErrAlreadyRunning) {
			s.logger.Info("Scheduled task still running, skipping", zap.String("task_id", t.ID))
		}
	}
	return nil
}

// RunNow launches task id immediately, whether or not it is due or active.
func (s *Service) RunNow(ctx context.Context, id string) (*Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.launch(*t); err != nil {
		return nil, err
	}
	return t, nil
}

// Start runs Tick every interval until Stop is called.
func (s *Service) Start(interval time.Duration) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if err := s.Tick(s.base); err != nil && s.base.Err() == nil {
				s.logger.Error("Scheduler tick failed", zap.Error(err))
			}
			select {
			case <-s.base.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	s.logger.Info("Scheduler started", zap.Duration("tick", interval))
}

// Stop ends the loop and waits for launched tasks to record their outcome.
func (s *Service) Stop(ctx context.Context) error {
	s.stop()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether task id has a run in flight.
func (s *Service) Running(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running[id]
}

func (s *Service) launch(t Task) error {
	s.mu.Lock()
	if s.running[t.ID] {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, t.ID)
	}
	s.running[t.ID] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.running, t.ID)
			s.mu.Unlock()
		}()
		s.execute(s.base, t)
	}()
	return nil
}

// execute runs t once and records the outcome and the next run time.
func (s *Service) execute(ctx context.Context, t Task) {
	log := s.logger.With(zap.String("task_id", t.ID), zap.String("task", t.Name))
	wctx := context.WithoutCancel(ctx)
	record := func(values map[string]any) error {
		return s.db.WithContext(wctx).Model(&Task{}).Where("id = ?", t.ID).Updates(values).Error
	}

	started := s.now()
	if err := record(map[string]any{
		"last_run_at":     started,
		"last_run_status": StatusRunning,
		"total_runs":      gorm.Expr("total_runs + 1"),
	}).Error; err != nil {
		log.Error("Failed to mark scheduled task running", zap.Error(err))
		return
	}
	log.Info("Scheduled task started")

	run, err := s.runner.Run(ctx, t.Request)

	updates := map[string]any{}
	switch {
	case err != nil:
		updates["last_run_status"] = StatusFailed
		updates["last_run_message"] = truncate(err.Error())
		updates["failed_runs"] = gorm.Expr("failed_runs + 1")
	case run.Status == results.StatusCompleted:
		updates["last_run_id"] = run.ID
		updates["last_run_status"] = StatusSuccess
		updates["last_run_message"] = fmt.Sprintf("Comparison completed with %d differences", run.TotalDifferences)
		updates["successful_runs"] = gorm.Expr("successful_runs + 1")
	default:
		updates["last_run_id"] = run.ID
		updates["last_run_status"] = StatusFailed
		updates["last_run_message"] = truncate(run.FailureReason)
		updates["failed_runs"] = gorm.Expr("failed_runs + 1")
	}

	next, nerr := schedule.Next(t.ScheduleType, t.ScheduleValue, s.now())
	if nerr != nil {
		log.Warn("Scheduled task has an unusable schedule, deactivating", zap.Error(nerr))
		updates["active"] = false
		updates["next_run_at"] = nil
	} else {
		updates["next_run_at"] = next
	}

	if err := record(updates); err != nil {
		log.Error("Failed to record scheduled task outcome", zap.Error(err))
		return
	}
	log.Info("Scheduled task finished",
		zap.Any("status", updates["last_run_status"]),
		zap.Time("next_run_at", next),
	)
}

func truncate(msg string) string {
	if len(msg) <= maxMessage {
		return msg
	}
	return msg[:maxMessage]
}
