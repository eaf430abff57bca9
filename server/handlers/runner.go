package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lazharichir/pokerodds/cache"
	"github.com/lazharichir/pokerodds/events"
	"github.com/lazharichir/pokerodds/odds"
	"github.com/lazharichir/pokerodds/server/api"
)

var (
	// ErrUnknownRun is returned when cancelling a run that is not active.
	ErrUnknownRun = errors.New("unknown run")
	// ErrRunExists is returned when starting a run under an active ID.
	ErrRunExists = errors.New("run already active")
)

// Runner executes equity runs and publishes their lifecycle events.
type Runner struct {
	calc    *odds.Calculator
	cache   cache.ResultCache
	publish func(events.Event)
	logger  *slog.Logger

	active map[string]context.CancelFunc
	mutex  sync.Mutex
	wg     sync.WaitGroup
}

// NewRunner creates a runner. resultCache may be nil.
func NewRunner(calc *odds.Calculator, resultCache cache.ResultCache, publish func(events.Event), logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		calc:    calc,
		cache:   resultCache,
		publish: publish,
		logger:  logger,
		active:  make(map[string]context.CancelFunc),
	}
}

// Run validates and executes a run synchronously. Cancelling ctx returns the
// partial report.
func (r *Runner) Run(ctx context.Context, runID string, req api.EquityRequest) (api.EquityResponse, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	in, err := r.claim(runID, cancel, req)
	if err != nil {
		return api.EquityResponse{}, err
	}
	return r.execute(ctx, runID, in, req)
}

// Start validates a run and executes it in the background. Validation
// errors are returned and published as RUN_FAILED.
func (r *Runner) Start(runID string, req api.EquityRequest) error {
	ctx, cancel := context.WithCancel(context.Background())
	in, err := r.claim(runID, cancel, req)
	if err != nil {
		cancel()
		return err
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		_, _ = r.execute(ctx, runID, in, req)
	}()
	return nil
}

// Cancel stops an active run. Its partial report is published as
// RUN_CANCELLED.
func (r *Runner) Cancel(runID string) error {
	r.mutex.Lock()
	cancel, ok := r.active[runID]
	r.mutex.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}
	cancel()
	return nil
}

// CancelAll stops every active run.
func (r *Runner) CancelAll() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, cancel := range r.active {
		cancel()
	}
}

// Wait blocks until every background run has published its final event.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Active reports whether a run is in progress.
func (r *Runner) Active(runID string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	_, ok := r.active[runID]
	return ok
}

// claim reserves runID and validates the request. RUN_FAILED is only
// published for a run ID the runner holds.
func (r *Runner) claim(runID string, cancel context.CancelFunc, req api.EquityRequest) (api.EquityInput, error) {
	if err := r.track(runID, cancel); err != nil {
		return api.EquityInput{}, err
	}
	in, err := req.Parse()
	if err != nil {
		r.publish(events.RunFailed{RunID: runID, Error: err.Error()})
		r.untrack(runID)
		return in, err
	}
	return in, nil
}

func (r *Runner) track(runID string, cancel context.CancelFunc) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, exists := r.active[runID]; exists {
		return fmt.Errorf("%w: %s", ErrRunExists, runID)
	}
	r.active[runID] = cancel
	return nil
}

func (r *Runner) untrack(runID string) {
	r.mutex.Lock()
	delete(r.active, runID)
	r.mutex.Unlock()
}

func (r *Runner) execute(ctx context.Context, runID string, in api.EquityInput, req api.EquityRequest) (api.EquityResponse, error) {
	defer r.untrack(runID)

	cfg := req.Configure(r.calc.Config())
	calc := r.calc.With(cfg)
	key := in.CacheKey(calc.Config())
	begin := time.Now()

	kind := "equity"
	if in.Opponents > 0 {
		kind = "random"
	}
	r.publish(events.RunStarted{
		RunID:     runID,
		Kind:      kind,
		Players:   in.Labels(),
		Board:     in.Board.String(),
		Dead:      in.Dead.String(),
		Opponents: in.Opponents,
		StartedAt: begin,
	})

	if r.cache != nil {
		report, ok, err := r.cache.Get(ctx, key)
		if err != nil {
			r.logger.Warn("result cache read failed", "runId", runID, "error", err)
		}
		if ok {
			r.publish(events.RunFinished{RunID: runID, Report: report, Cached: true, Elapsed: time.Since(begin)})
			r.logger.Info("run served from cache", "runId", runID)
			return api.NewEquityResponse(runID, in.Labels(), report, true), nil
		}
	}

	report, err := in.Run(ctx, calc)
	if err != nil {
		r.publish(events.RunFailed{RunID: runID, Error: err.Error()})
		r.logger.Error("run failed", "runId", runID, "error", err)
		return api.EquityResponse{}, err
	}
	elapsed := time.Since(begin)

	if report.Partial {
		r.publish(events.RunCancelled{RunID: runID, Report: report, Elapsed: elapsed})
		r.logger.Info("run cancelled", "runId", runID, "completed", report.Completed, "requested", report.Requested)
		return api.NewEquityResponse(runID, in.Labels(), report, false), nil
	}

	if r.cache != nil && cache.Cacheable(report, calc.Config()) {
		if err := r.cache.Set(context.WithoutCancel(ctx), key, report); err != nil {
			r.logger.Warn("result cache write failed", "runId", runID, "error", err)
		}
	}
	r.publish(events.RunFinished{RunID: runID, Report: report, Elapsed: elapsed})
	r.logger.Info("run finished", "runId", runID, "mode", report.Mode, "completed", report.Completed, "elapsed", elapsed)
	return api.NewEquityResponse(runID, in.Labels(), report, false), nil
}
