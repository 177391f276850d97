// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/pdiddy/confcorpus/pkg/types"
)

// WorkFunc processes one reference to its terminal outcome. Implementations
// should return failures as outcomes rather than panic; the scheduler still
// coerces panics as a last line of defense (R4.4).
type WorkFunc func(ctx context.Context, ref types.ArtifactRef) types.Outcome

// Run fans refs out across goroutines under a weighted-semaphore cap. Every
// reference is scheduled eagerly; each goroutine acquires one slot before
// its work function runs and releases it when the work returns, so at most
// concurrency work functions are in flight at any instant (R4.1). The slot
// is held per task, not around the batch; wrapping the whole wait in one
// acquisition would bound nothing.
//
// Outcomes flow over a channel to the collector loop below, which owns the
// summary and is the only caller of observe; no shared counters, no locks
// (R5.2). Exactly one outcome reaches the tally per reference: failures,
// panics, and cancellation all fold in rather than dropping the reference
// or aborting the batch (R4.2-R4.4). Collection order is completion order;
// attribution rides on Outcome.Ref.
func Run(ctx context.Context, refs []types.ArtifactRef, concurrency int, work WorkFunc, observe func(types.Outcome)) types.RunSummary {
	if concurrency < 1 {
		concurrency = 1
	}

	sem := semaphore.NewWeighted(int64(concurrency))
	outcomes := make(chan types.Outcome, len(refs))
	var wg sync.WaitGroup

	for _, ref := range refs {
		wg.Add(1)
		go func(ref types.ArtifactRef) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				outcomes <- types.Outcome{
					Ref:      ref,
					Status:   types.StatusFailed,
					FailKind: types.FailInternal,
					Reason:   fmt.Sprintf("run cancelled: %v", err),
				}
				return
			}
			defer sem.Release(1)
			outcomes <- runOne(ctx, ref, work)
		}(ref)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var summary types.RunSummary
	for o := range outcomes {
		summary.Add(o)
		if observe != nil {
			observe(o)
		}
	}
	return summary
}

// runOne invokes work with a panic guard: a panicking task becomes a Failed
// outcome carrying the panic value (R4.4).
func runOne(ctx context.Context, ref types.ArtifactRef, work WorkFunc) (out types.Outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = types.Outcome{
				Ref:      ref,
				Status:   types.StatusFailed,
				FailKind: types.FailInternal,
				Reason:   fmt.Sprintf("panic: %v", r),
				Elapsed:  time.Since(start),
			}
		}
	}()
	return work(ctx, ref)
}
