package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vvka-141/aipx/pkg/aipx"
)

// IngestOutcome is the result of converting and storing one package.
type IngestOutcome struct {
	Path     string
	Result   aipx.Result
	Err      error
	Duration time.Duration
}

// IngestService converts packages and hands the results to an item store.
// Packages are independent: one failing package does not stop the others.
type IngestService struct {
	processor aipx.CollectionProcessor
	store     aipx.ItemStore
	logger    aipx.Logger
	jobs      int

	// OnOutcome, when set, is called once per package as it finishes.
	// Calls are serialized.
	OnOutcome func(IngestOutcome)
}

// NewIngestService creates an IngestService running at most jobs packages
// at once. Panics on nil dependencies.
func NewIngestService(processor aipx.CollectionProcessor, store aipx.ItemStore, logger aipx.Logger, jobs int) *IngestService {
	if processor == nil {
		panic("processor cannot be nil")
	}
	if store == nil {
		panic("store cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if jobs < 1 {
		jobs = aipx.DefaultJobs
	}
	return &IngestService{processor: processor, store: store, logger: logger, jobs: jobs}
}

// Ingest processes and stores every package. Outcomes are returned in the
// order of paths; the error joins the failures of all packages.
func (s *IngestService) Ingest(ctx context.Context, paths []string, profile aipx.Profile) ([]IngestOutcome, error) {
	outcomes := make([]IngestOutcome, len(paths))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)

	for i, path := range paths {
		g.Go(func() error {
			outcome := s.ingestOne(gctx, path, profile)
			outcomes[i] = outcome

			mu.Lock()
			defer mu.Unlock()
			if outcome.Err != nil {
				s.logger.Error("%v", outcome.Err)
			} else {
				s.logger.Verbose("stored %s (%d items) in %s", outcome.Result.Root.ID, len(outcome.Result.Items), outcome.Duration.Round(time.Millisecond))
			}
			if s.OnOutcome != nil {
				s.OnOutcome(outcome)
			}
			// Only cancellation stops the batch.
			if errors.Is(outcome.Err, context.Canceled) || errors.Is(outcome.Err, context.DeadlineExceeded) {
				return outcome.Err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}

	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return outcomes, errors.Join(errs...)
}

func (s *IngestService) ingestOne(ctx context.Context, path string, profile aipx.Profile) IngestOutcome {
	start := time.Now()
	outcome := IngestOutcome{Path: path}

	result, err := s.processor.Process(ctx, path, profile)
	if err != nil {
		outcome.Err = err
		outcome.Duration = time.Since(start)
		return outcome
	}
	outcome.Result = result

	if err := s.store.Store(ctx, result); err != nil {
		outcome.Err = &aipx.CollectionError{Path: path, Err: fmt.Errorf("%w: %w", aipx.ErrStoreFailed, err)}
	}
	outcome.Duration = time.Since(start)
	return outcome
}
