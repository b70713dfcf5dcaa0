package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/stacpopulator/catalog"
	"github.com/poiesic/stacpopulator/core"
	"github.com/poiesic/stacpopulator/source"
)

// Orchestrator runs records from a source through a pipeline and publishes them to a catalog.
type Orchestrator struct {
	client           catalog.Client
	pipeline         *Pipeline
	strict           bool
	workers          int
	progressWriter   io.Writer
	progressInterval time.Duration
	logger           *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithStrict makes the run stop at the first failed record.
// Default is false: failures are recorded and the run continues.
func WithStrict(strict bool) Option {
	return func(o *Orchestrator) error {
		o.strict = strict
		return nil
	}
}

// WithConcurrency sets how many records are processed at once.
// Default is 1, which processes records strictly in source order.
func WithConcurrency(workers int) Option {
	return func(o *Orchestrator) error {
		if workers < 1 {
			workers = 1
		}
		o.workers = workers
		return nil
	}
}

// WithProgress writes a progress line to w at most once per interval.
func WithProgress(w io.Writer, interval time.Duration) Option {
	return func(o *Orchestrator) error {
		o.progressWriter = w
		o.progressInterval = interval
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates an orchestrator publishing pipeline output to client.
func NewOrchestrator(client catalog.Client, pipeline *Pipeline, opts ...Option) (*Orchestrator, error) {
	if client == nil {
		return nil, ErrCatalogRequired
	}
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}

	o := &Orchestrator{
		client:   client,
		pipeline: pipeline,
		workers:  1,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Ingest processes every record of src. Existing items are replaced when update is true
// and skipped otherwise.
//
// The summary is returned even when err is non-nil. err is non-nil when the source fails,
// the context ends, or a strict run aborts (ErrAborted).
func (o *Orchestrator) Ingest(ctx context.Context, src source.Source, update bool) (*Summary, error) {
	summary := &Summary{}
	if src == nil {
		return summary, ErrSourceRequired
	}

	var progress *progressTracker
	if o.progressWriter != nil {
		progress = newProgressTracker(o.progressWriter, o.progressInterval)
		progress.Start()
		defer progress.Finish()
	}

	o.logger.Info("ingestion started",
		"collection", o.pipeline.Collection(),
		"stages", o.pipeline.StageNames(),
		"update", update,
		"workers", o.workers,
		"strict", o.strict)

	var err error
	if o.workers > 1 {
		err = o.ingestConcurrent(ctx, src, update, summary, progress)
	} else {
		err = o.ingestSequential(ctx, src, update, summary, progress)
	}

	o.logger.Info("ingestion finished",
		"created", summary.Created,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
		"failed", summary.Failed)

	if err != nil && !errors.Is(err, ErrAborted) {
		err = fmt.Errorf("data source: %w", err)
	}
	return summary, err
}

func (o *Orchestrator) ingestSequential(ctx context.Context, src source.Source, update bool, summary *Summary, progress *progressTracker) error {
	return src.ForEach(ctx, func(raw *core.RawRecord) error {
		failure := o.process(ctx, raw, update, summary)
		if progress != nil {
			progress.Increment()
		}
		if failure != nil && o.strict {
			return abortError(failure)
		}
		return nil
	})
}

func (o *Orchestrator) ingestConcurrent(ctx context.Context, src source.Source, update bool, summary *Summary, progress *progressTracker) error {
	pool, err := ants.NewPool(o.workers)
	if err != nil {
		return err
	}
	defer pool.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		abortErr error
	)
	aborted := func() error {
		mu.Lock()
		defer mu.Unlock()
		return abortErr
	}

	err = src.ForEach(ctx, func(raw *core.RawRecord) error {
		if err := aborted(); err != nil {
			return err
		}
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			failure := o.process(ctx, raw, update, summary)
			if progress != nil {
				progress.Increment()
			}
			if failure != nil && o.strict {
				mu.Lock()
				if abortErr == nil {
					abortErr = abortError(failure)
					cancel()
				}
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			return submitErr
		}
		return nil
	})
	wg.Wait()

	if abortErr := aborted(); abortErr != nil {
		return abortErr
	}
	return err
}

// process takes one record to a final state. It returns the failure, if any,
// after recording it in the summary. A record interrupted because ctx ended is
// neither counted nor returned.
func (o *Orchestrator) process(ctx context.Context, raw *core.RawRecord, update bool, summary *Summary) *Failure {
	logger := o.logger.With("record", raw.Name)
	logger.Debug("record state", "state", core.StateFetched)

	fail := func(itemID string, err error) *Failure {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			logger.Debug("record interrupted", "item", itemID, "err", err)
			return nil
		}
		var sf *StageFailure
		if !errors.As(err, &sf) {
			sf = &StageFailure{Stage: StagePublish, Cause: err}
		}
		f := Failure{Record: raw.Name, ItemID: itemID, Stage: sf.Stage, Err: sf}
		summary.recordFailure(f)
		logger.Warn("record failed", "item", itemID, "stage", sf.Stage, "state", core.StateFailed, "err", sf.Cause)
		return &f
	}

	itemID, err := o.pipeline.Identify(raw)
	if err != nil {
		return fail("", err)
	}
	logger = logger.With("item", itemID)

	exists, err := o.client.ItemExists(ctx, o.pipeline.Collection(), itemID)
	if err != nil {
		return fail(itemID, &StageFailure{Stage: StageLookup, Cause: err})
	}

	decision := core.Decide(exists, update)
	if decision == core.DecisionSkip {
		summary.recordSkipped()
		logger.Info("item exists, skipping", "state", core.StateSkipped)
		return nil
	}

	draft, err := o.pipeline.Build(ctx, raw)
	if err != nil {
		var sf *StageFailure
		if !errors.As(err, &sf) {
			// context ended mid-build
			err = &StageFailure{Stage: "build", Cause: err}
		}
		return fail(itemID, err)
	}
	logger.Debug("record state", "state", core.StateValidated)

	item := draft.Item()
	switch decision {
	case core.DecisionUpdate:
		err = o.client.ReplaceItem(ctx, o.pipeline.Collection(), itemID, item)
	default:
		err = o.client.CreateItem(ctx, o.pipeline.Collection(), item)
	}
	if err != nil {
		return fail(itemID, &StageFailure{Stage: StagePublish, Cause: err})
	}

	summary.recordPublished(decision)
	logger.Info("item published", "decision", decision, "state", core.StatePublished)
	return nil
}

func abortError(f *Failure) error {
	return fmt.Errorf("%w: record %q: %w", ErrAborted, f.Record, f.Err)
}
