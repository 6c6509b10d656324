package comparison

import (
	"context"
	"errors"
	"fmt"

	"tablediff/core/compare"
	"tablediff/core/diff"
	"tablediff/core/dispatch"
	"tablediff/core/export"
	"tablediff/core/results"

	"go.uber.org/zap"
)

var (
	// ErrNotCompleted is returned when exporting or dispatching a run that has not completed.
	ErrNotCompleted = errors.New("run is not completed")
	// ErrPublishingDisabled is returned when no object storage is configured.
	ErrPublishingDisabled = errors.New("export publishing is disabled")
)

// SinkFactory opens the sink a dispatch forwards to.
type SinkFactory func(ctx context.Context) (dispatch.Sink, error)

// Service exposes comparison runs and their results.
type Service struct {
	runner    *compare.Runner
	store     *results.Store
	publisher *export.Publisher
	sinks     SinkFactory
	logger    *zap.Logger
}

// NewService creates a new comparison service. publisher may be nil when publishing is
// disabled.
func NewService(runner *compare.Runner, store *results.Store, publisher *export.Publisher, sinks SinkFactory, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{runner: runner, store: store, publisher: publisher, sinks: sinks, logger: logger}
}

// Start begins a comparison in the background.
func (s *Service) Start(ctx context.Context, req compare.Request) (*results.Run, error) {
	return s.runner.Start(ctx, req)
}

// Run executes a comparison and waits for its terminal state.
func (s *Service) Run(ctx context.Context, req compare.Request) (*results.Run, error) {
	return s.runner.Run(ctx, req)
}

// Cancel stops an executing run.
func (s *Service) Cancel(ctx context.Context, id string) error {
	return s.runner.Cancel(ctx, id)
}

// Get returns run metadata.
func (s *Service) Get(ctx context.Context, id string) (*results.Run, error) {
	return s.store.Get(ctx, id)
}

// List returns the runs matching sel, newest first.
func (s *Service) List(ctx context.Context, sel results.Selector) ([]results.Run, error) {
	return s.store.List(ctx, sel)
}

// Results returns a run and its records in emission order. Runs that are not
// completed have no records.
func (s *Service) Results(ctx context.Context, id string) (*results.Run, []diff.Record, error) {
	run, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.store.Records(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return run, records, nil
}

// completed loads a run and its records, failing unless the run completed.
func (s *Service) completed(ctx context.Context, id string) (*results.Run, []diff.Record, error) {
	run, records, err := s.Results(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if run.Status != results.StatusCompleted {
		return nil, nil, fmt.Errorf("%w: run %s is %s", ErrNotCompleted, id, run.Status)
	}
	return run, records, nil
}

// Export renders a completed run.
func (s *Service) Export(ctx context.Context, id string, format export.Format) (*export.Artifact, error) {
	if _, err := export.GetFormatter(format); err != nil {
		return nil, err
	}
	run, records, err := s.completed(ctx, id)
	if err != nil {
		return nil, err
	}
	return export.Export(run, records, format)
}

// Publish renders a completed run and uploads it to object storage.
func (s *Service) Publish(ctx context.Context, id string, format export.Format) (*export.Published, error) {
	if s.publisher == nil {
		return nil, ErrPublishingDisabled
	}
	artifact, err := s.Export(ctx, id, format)
	if err != nil {
		return nil, err
	}
	published, err := s.publisher.Publish(ctx, id, artifact)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Export published", zap.String("run_id", id), zap.String("key", published.Key))
	return published, nil
}

// Published lists the artifacts uploaded for a run.
func (s *Service) Published(ctx context.Context, id string) ([]export.Published, error) {
	if s.publisher == nil {
		return nil, ErrPublishingDisabled
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.publisher.List(ctx, id)
}

// Dispatch forwards every record of a completed run to the configured sink.
func (s *Service) Dispatch(ctx context.Context, id string) (*dispatch.Result, error) {
	run, records, err := s.completed(ctx, id)
	if err != nil {
		return nil, err
	}

	sink, err := s.sinks(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := sink.Close(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("Failed to close dispatch sink", zap.Error(err))
		}
	}()

	return dispatch.New(sink, s.logger).Dispatch(ctx, run, records)
}
