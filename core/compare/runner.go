package compare

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tablediff/core/diff"
	"tablediff/core/endpoint"
	"tablediff/core/errs"
	"tablediff/core/keymap"
	"tablediff/core/reconcile"
	"tablediff/core/results"

	"go.uber.org/zap"
)

var (
	// ErrInvalidRequest is returned for requests missing a table reference.
	ErrInvalidRequest = errors.New("invalid comparison request")
	// ErrNotRunning is returned when cancelling a run that is not executing.
	ErrNotRunning = errors.New("run is not executing")
)

// ConnectionResolver looks up registered connections.
type ConnectionResolver interface {
	// GetConnection returns the connection with id, or errs.ErrNotFound.
	GetConnection(ctx context.Context, id string) (endpoint.Connection, error)
}

// Opener connects to an endpoint.
type Opener func(ctx context.Context, conn endpoint.Connection, opts endpoint.Options) (endpoint.Adapter, error)

// TableRef names a table on a registered connection.
type TableRef struct {
	ConnectionID string `json:"connection_id"`
	Table        string `json:"table"`
}

// Request describes a comparison. When both key selections are empty the primary keys
// of the two tables are used. When Fields is empty every non-key column present on
// both sides is compared.
type Request struct {
	ProjectID  string        `json:"project_id,omitempty"`
	Source     TableRef      `json:"source"`
	Target     TableRef      `json:"target"`
	SourceKeys []string      `json:"source_keys,omitempty"`
	TargetKeys []string      `json:"target_keys,omitempty"`
	Fields     []keymap.Pair `json:"fields,omitempty"`
}

// Validate checks that both tables are named and that every field pair names a
// column on each side.
func (r Request) Validate() error {
	if r.Source.ConnectionID == "" || r.Source.Table == "" {
		return fmt.Errorf("%w: source connection and table are required", ErrInvalidRequest)
	}
	if r.Target.ConnectionID == "" || r.Target.Table == "" {
		return fmt.Errorf("%w: target connection and table are required", ErrInvalidRequest)
	}
	for i, f := range r.Fields {
		if f.Source == "" || f.Target == "" {
			return fmt.Errorf("%w: field pair %d needs a source and a target column", ErrInvalidRequest, i)
		}
	}
	return nil
}

// plan is a request with its connections snapshotted.
type plan struct {
	source  endpoint.Connection
	target  endpoint.Connection
	req     Request
	mapping *keymap.Mapping
}

type active struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Runner executes comparison runs and records them in a results.Store.
type Runner struct {
	store    *results.Store
	resolver ConnectionResolver
	open     Opener
	cache    *reconcile.SchemaCache
	cfg      Config
	logger   *zap.Logger

	slots chan struct{}
	base  context.Context
	stop  context.CancelFunc

	mu     sync.Mutex
	active map[string]*active
	wg     sync.WaitGroup
}

// NewRunner creates a runner. Adapters are opened with endpoint.Open.
func NewRunner(store *results.Store, resolver ConnectionResolver, cfg Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxConcurrentRuns <= 0 {
		cfg.MaxConcurrentRuns = 1
	}
	base, stop := context.WithCancel(context.Background())
	return &Runner{
		store:    store,
		resolver: resolver,
		open:     endpoint.Open,
		cache:    reconcile.NewSchemaCache(cfg.SchemaCacheTTL()),
		cfg:      cfg,
		logger:   logger,
		slots:    make(chan struct{}, cfg.MaxConcurrentRuns),
		base:     base,
		stop:     stop,
		active:   make(map[string]*active),
	}
}

// WithOpener replaces the function used to connect to endpoints.
func (r *Runner) WithOpener(open Opener) *Runner {
	r.open = open
	return r
}

// WithCache replaces the schema cache, letting a connection registry share it.
func (r *Runner) WithCache(cache *reconcile.SchemaCache) *Runner {
	r.cache = cache
	return r
}

// Cache returns the schema cache shared by all runs.
func (r *Runner) Cache() *reconcile.SchemaCache { return r.cache }

// Start records a pending run and executes it in the background. Invalid requests,
// unknown connections and explicit key selections that map to nothing are rejected
// before a run is created.
func (r *Runner) Start(ctx context.Context, req Request) (*results.Run, error) {
	p, err := r.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	run := newRun(p)
	if err := r.store.Create(ctx, run); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(r.base)
	a := &active{cancel: cancel, done: make(chan struct{})}
	r.mu.Lock()
	r.active[run.ID] = a
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			cancel()
			r.mu.Lock()
			delete(r.active, run.ID)
			r.mu.Unlock()
			close(a.done)
		}()
		r.execute(runCtx, run.ID, p)
	}()

	return run, nil
}

// Run executes a comparison and waits for it to reach a terminal state. The returned
// run is failed, not an error, when the comparison itself fails.
func (r *Runner) Run(ctx context.Context, req Request) (*results.Run, error) {
	run, err := r.Start(ctx, req)
	if err != nil {
		return nil, err
	}
	return r.Wait(ctx, run.ID)
}

// Wait blocks until run id is no longer executing and returns its stored state.
func (r *Runner) Wait(ctx context.Context, id string) (*results.Run, error) {
	r.mu.Lock()
	a, ok := r.active[id]
	r.mu.Unlock()

	if ok {
		select {
		case <-a.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return r.store.Get(context.WithoutCancel(ctx), id)
}

// Cancel stops an executing run. The run ends failed with kind cancelled.
func (r *Runner) Cancel(ctx context.Context, id string) error {
	r.mu.Lock()
	a, ok := r.active[id]
	r.mu.Unlock()

	if ok {
		a.cancel()
		return nil
	}

	run, err := r.store.Get(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: run %s is %s", ErrNotRunning, id, run.Status)
}

// Shutdown cancels every executing run and waits for them to be recorded as failed.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.stop()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) prepare(ctx context.Context, req Request) (plan, error) {
	if err := req.Validate(); err != nil {
		return plan{}, err
	}

	source, err := r.resolver.GetConnection(ctx, req.Source.ConnectionID)
	if err != nil {
		return plan{}, err
	}
	target, err := r.resolver.GetConnection(ctx, req.Target.ConnectionID)
	if err != nil {
		return plan{}, err
	}

	p := plan{source: source.Snapshot(), target: target.Snapshot(), req: req}
	if len(req.SourceKeys) > 0 || len(req.TargetKeys) > 0 {
		m, err := keymap.Resolve(req.SourceKeys, req.TargetKeys)
		if err != nil {
			return plan{}, err
		}
		p.mapping = &m
	}
	return p, nil
}

func newRun(p plan) *results.Run {
	run := &results.Run{
		ProjectID:        p.req.ProjectID,
		SourceConnection: p.source.ID,
		SourceTable:      p.req.Source.Table,
		TargetConnection: p.target.ID,
		TargetTable:      p.req.Target.Table,
		CompareFields:    p.req.Fields,
	}
	if p.mapping != nil {
		run.KeyMapping = p.mapping.Pairs
		run.DroppedKeyColumns = p.mapping.Dropped()
	}
	return run
}

// execute drives run id to a terminal state.
func (r *Runner) execute(ctx context.Context, id string, p plan) {
	log := r.logger.With(zap.String("run_id", id))
	store := context.WithoutCancel(ctx)

	select {
	case r.slots <- struct{}{}:
		defer func() { <-r.slots }()
	case <-ctx.Done():
		r.fail(store, log, id, fmt.Errorf("%w: cancelled while queued", errs.ErrCancelled))
		return
	}

	if err := r.store.Start(store, id); err != nil {
		r.fail(store, log, id, err)
		return
	}
	log.Info("Comparison started",
		zap.String("status", string(results.StatusRunning)),
		zap.String("source", p.source.ID+"/"+p.req.Source.Table),
		zap.String("target", p.target.ID+"/"+p.req.Target.Table),
	)

	start := time.Now()
	c, err := r.compare(ctx, store, id, p, log)
	if err != nil {
		r.fail(store, log, id, err)
		return
	}

	if err := r.store.Complete(store, id, c); err != nil {
		r.fail(store, log, id, err)
		return
	}
	log.Info("Comparison completed",
		zap.String("status", string(results.StatusCompleted)),
		zap.Int64("differences", c.TotalDifferences),
		zap.Int64("matched", c.Stats.Matched),
		zap.Int64("source_only", c.Stats.SourceOnly),
		zap.Int64("target_only", c.Stats.TargetOnly),
		zap.Int("warnings", c.Warnings),
		zap.Duration("duration", time.Since(start)),
	)
}

func (r *Runner) fail(ctx context.Context, log *zap.Logger, id string, cause error) {
	kind := errs.KindOf(cause)
	if err := r.store.Fail(ctx, id, kind, cause.Error()); err != nil {
		log.Error("Failed to record run failure", zap.Error(err), zap.NamedError("cause", cause))
		return
	}
	log.Warn("Comparison failed",
		zap.String("status", string(results.StatusFailed)),
		zap.String("kind", kind),
		zap.Error(cause),
	)
}

// compare runs the pipeline and returns the counters of a successful run. Store
// writes use storeCtx so a cancelled run can still be recorded.
func (r *Runner) compare(ctx, storeCtx context.Context, id string, p plan, log *zap.Logger) (results.Completion, error) {
	var none results.Completion
	opts := r.cfg.EndpointOptions()

	src, err := r.openEndpoint(ctx, p.source, opts)
	if err != nil {
		return none, err
	}
	defer src.Close()

	tgt, err := r.openEndpoint(ctx, p.target, opts)
	if err != nil {
		return none, err
	}
	defer tgt.Close()

	srcSchema, err := r.describe(ctx, p.source.ID, src, p.req.Source.Table)
	if err != nil {
		return none, err
	}
	tgtSchema, err := r.describe(ctx, p.target.ID, tgt, p.req.Target.Table)
	if err != nil {
		return none, err
	}

	mapping, err := resolveMapping(p, srcSchema, tgtSchema)
	if err != nil {
		return none, err
	}
	if p.mapping == nil {
		if err := r.store.SetKeyMapping(storeCtx, id, mapping); err != nil {
			return none, err
		}
	}
	if dropped := mapping.Dropped(); len(dropped) > 0 {
		log.Warn("Key columns left unmapped", zap.Strings("dropped", dropped))
	}
	if err := checkKeys(srcSchema, mapping.SourceColumns()); err != nil {
		return none, err
	}
	if err := checkKeys(tgtSchema, mapping.TargetColumns()); err != nil {
		return none, err
	}

	// Rows come from live cursors, so the compared columns follow the cursors and
	// not the cached schema.
	var classifier *diff.Classifier
	writer := r.store.Writer(id)

	stats, err := reconcile.Reconcile(ctx, reconcile.Spec{
		Source:    reconcile.Stream{Adapter: src, Table: p.req.Source.Table, Keys: mapping.SourceColumns()},
		Target:    reconcile.Stream{Adapter: tgt, Table: p.req.Target.Table, Keys: mapping.TargetColumns()},
		QueueSize: r.cfg.QueueSize,
		OpTimeout: r.cfg.OpTimeout(),
		Columns: func(source, target []endpoint.Column) error {
			r.refresh(p.source.ID, p.req.Source.Table, srcSchema, source, log)
			r.refresh(p.target.ID, p.req.Target.Table, tgtSchema, target, log)
			c, err := diff.NewWithFields(source, target, mapping, p.req.Fields)
			if err != nil {
				return err
			}
			classifier = c
			return nil
		},
	}, func(res reconcile.Result) error {
		return classifier.Classify(res, func(rec diff.Record) error {
			return writer.Add(storeCtx, rec)
		})
	})
	if err != nil {
		return none, err
	}
	if err := writer.Flush(storeCtx); err != nil {
		return none, err
	}
	if stats.DuplicateKeys > 0 {
		log.Warn("Duplicate keys encountered", zap.Int64("duplicates", stats.DuplicateKeys))
	}
	if n := classifier.Warnings(); n > 0 {
		log.Debug("Compared coerced values", zap.Int("comparisons", n))
	}

	return results.Completion{
		TotalDifferences: writer.Count(),
		Warnings:         stats.Warnings,
		Stats:            stats,
	}, nil
}

func (r *Runner) openEndpoint(ctx context.Context, conn endpoint.Connection, opts endpoint.Options) (endpoint.Adapter, error) {
	octx, cancel := r.opContext(ctx)
	defer cancel()

	a, err := r.open(octx, conn, opts)
	if err != nil {
		return nil, classifyCtx(octx, ctx, err)
	}
	return a, nil
}

func (r *Runner) describe(ctx context.Context, connID string, a endpoint.Adapter, table string) (*endpoint.TableSchema, error) {
	dctx, cancel := r.opContext(ctx)
	defer cancel()

	s, err := r.cache.Describe(dctx, connID, a, table)
	if err != nil {
		return nil, classifyCtx(dctx, ctx, err)
	}
	return s, nil
}

// refresh drops the cached schema of a table whose cursor reported other columns.
func (r *Runner) refresh(connID, table string, cached *endpoint.TableSchema, live []endpoint.Column, log *zap.Logger) {
	if sameColumns(cached.Columns, live) {
		return
	}
	r.cache.Invalidate(connID, table)
	log.Info("Table columns changed since describe",
		zap.String("connection_id", connID),
		zap.String("table", table),
	)
}

func sameColumns(a, b []endpoint.Column) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}

func (r *Runner) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if t := r.cfg.OpTimeout(); t > 0 {
		return context.WithTimeout(ctx, t)
	}
	return context.WithCancel(ctx)
}

// classifyCtx attributes an error to the run's cancellation or to the operation
// deadline when the adapter returned a plain error after either fired.
func classifyCtx(op, run context.Context, err error) error {
	switch {
	case run.Err() != nil && !errors.Is(err, errs.ErrCancelled):
		return fmt.Errorf("%w: %v", errs.ErrCancelled, err)
	case op.Err() == context.DeadlineExceeded && !errors.Is(err, errs.ErrTimeout):
		return fmt.Errorf("%w: %v", errs.ErrTimeout, err)
	default:
		return err
	}
}

// resolveMapping returns the explicit mapping of p, or pairs the primary keys of the
// two tables.
func resolveMapping(p plan, source, target *endpoint.TableSchema) (keymap.Mapping, error) {
	if p.mapping != nil {
		return *p.mapping, nil
	}
	if len(source.PrimaryKeys) == 0 && len(target.PrimaryKeys) == 0 {
		return keymap.Mapping{}, fmt.Errorf("%w: no key columns given and neither %s nor %s has a primary key",
			errs.ErrEmptyMapping, source.Table, target.Table)
	}
	return keymap.Resolve(source.PrimaryKeys, target.PrimaryKeys)
}

func checkKeys(s *endpoint.TableSchema, keys []string) error {
	for _, k := range keys {
		if _, ok := s.Column(k); !ok {
			return fmt.Errorf("%w: key column %q not found in table %s", errs.ErrSchema, k, s.Table)
		}
	}
	return nil
}
