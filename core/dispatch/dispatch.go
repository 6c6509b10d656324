package dispatch

import (
	"context"
	"fmt"
	"time"

	"tablediff/core/diff"
	"tablediff/core/errs"
	"tablediff/core/results"

	"go.uber.org/zap"
)

// Sink accepts forwarded differences one at a time.
type Sink interface {
	// Send forwards one difference. Errors are per-record and never retried.
	Send(ctx context.Context, p Payload) error
	// Close releases the sink's resources.
	Close(ctx context.Context) error
}

// Failure is a record the sink refused.
type Failure struct {
	RecordID  string `json:"record_id"`
	FieldName string `json:"field_name"`
	Error     string `json:"error"`
}

// Result lists the record ids accepted and refused by the sink, in record order.
type Result struct {
	Success []string  `json:"success"`
	Failed  []Failure `json:"failed"`
}

// Dispatcher forwards the differences of a run to a sink.
type Dispatcher struct {
	sink   Sink
	logger *zap.Logger
}

// New creates a dispatcher over sink.
func New(sink Sink, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{sink: sink, logger: logger}
}

// Dispatch sends every record of run to the sink in order. A refused record is added
// to Failed and the remaining records are still attempted. Dispatch only stops early
// when ctx is cancelled, returning the partial result with ErrCancelled.
func (d *Dispatcher) Dispatch(ctx context.Context, run *results.Run, records []diff.Record) (*Result, error) {
	res := &Result{Success: []string{}, Failed: []Failure{}}

	detectedAt := run.CreatedAt
	if run.CompletedAt != nil {
		detectedAt = *run.CompletedAt
	}

	start := time.Now()
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("%w: dispatch interrupted after %d records", errs.ErrCancelled, len(res.Success)+len(res.Failed))
		}

		err := d.sink.Send(ctx, Payload{Run: run, Record: r, DetectedAt: detectedAt})
		if err != nil {
			d.logger.Warn("Failed to dispatch difference",
				zap.String("run_id", run.ID),
				zap.String("record_id", r.RecordID),
				zap.String("field", r.FieldName),
				zap.Error(err),
			)
			res.Failed = append(res.Failed, Failure{RecordID: r.RecordID, FieldName: r.FieldName, Error: err.Error()})
			continue
		}
		res.Success = append(res.Success, r.RecordID)
	}

	d.logger.Info("Dispatch finished",
		zap.String("run_id", run.ID),
		zap.Int("success", len(res.Success)),
		zap.Int("failed", len(res.Failed)),
		zap.Duration("duration", time.Since(start)),
	)
	return res, nil
}

// Open builds the sink selected by cfg.
func Open(ctx context.Context, cfg Config) (Sink, error) {
	switch cfg.Sink {
	case "", "webhook":
		return NewWebhookSink(cfg.Webhook, nil)
	case "mongo":
		return NewMongoSink(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unsupported dispatch sink %q", cfg.Sink)
	}
}
