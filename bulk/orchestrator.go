package bulk

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/kbukum/sportkit/logger"
	"github.com/kbukum/sportkit/util"
)

// ErrAborted is returned when a run with ContinueOnError disabled hits a
// failing item. In-flight work is drained before the error is returned.
var ErrAborted = errors.New("bulk: run aborted")

// Operation processes one item.
type Operation[T, R any] func(ctx context.Context, item T) (R, error)

// Run executes op for every item with at most min(MaxConcurrency,
// HardConcurrencyCap) operations in flight. Options are validated before
// any item is dispatched.
//
// Results carry the successful outcomes in completion order, which is
// unspecified. With ContinueOnError set, failures are recorded in the
// final Progress and the successes are still returned; otherwise the
// first failure cancels the remaining items and Run returns an error
// wrapping ErrAborted with no partial results.
func Run[T, R any](ctx context.Context, opType string, items []T, op Operation[T, R], opts Options, sink ProgressSink) ([]R, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	tr := newTracker(opType, len(items), opts.CollectMetrics)
	log := logger.WithComponent("bulk").WithFields(map[string]interface{}{
		logger.FieldRunID:     tr.id,
		logger.FieldOperation: opType,
	})

	if len(items) == 0 {
		tr.toState(StateCompleted)
		push(tr, opts, sink, true)
		return []R{}, nil
	}

	tr.toState(StateRunning)
	log.Info("bulk run started", logger.Fields(
		logger.FieldItems, len(items),
		"concurrency", opts.concurrency(),
	))
	started := time.Now()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := semaphore.NewWeighted(int64(opts.concurrency()))

	var (
		wg        sync.WaitGroup
		resultsMu sync.Mutex
		results   = make([]R, 0, len(items))
		abortOnce sync.Once
		abortErr  error
	)

	for i, item := range items {
		// Stop dispatching once the run is cancelled or aborted.
		if err := sem.Acquire(runCtx, 1); err != nil {
			break
		}

		wg.Add(1)
		go func(idx int, it T) {
			defer wg.Done()
			defer sem.Release(1)

			label := fmt.Sprintf("item %d", idx+1)
			tr.setCurrent(label)

			res, err := runWithRetry(runCtx, it, op, opts)
			if err != nil {
				tr.itemFailed(label, err)
				if opts.CollectMetrics && opts.Observer != nil {
					opts.Observer.RecordBulkItem(runCtx, opType, false)
				}
				if !opts.ContinueOnError {
					abortOnce.Do(func() {
						abortErr = fmt.Errorf("%w: %s: %w", ErrAborted, label, err)
						cancel()
					})
				}
			} else {
				tr.itemDone()
				if opts.CollectMetrics && opts.Observer != nil {
					opts.Observer.RecordBulkItem(runCtx, opType, true)
				}
				resultsMu.Lock()
				results = append(results, res)
				resultsMu.Unlock()
			}

			if opts.ReportProgress && sink != nil && tr.shouldPush(opts.ProgressInterval) {
				sink(tr.snapshot(false))
			}

			reclaimMemory(opts.MaxMemoryThreshold, log)
		}(i, item)
	}

	wg.Wait()

	if opts.CollectMetrics && opts.Observer != nil {
		opts.Observer.RecordBulkRun(ctx, opType, time.Since(started))
	}

	switch {
	case abortErr != nil:
		tr.toState(StateAborted)
		push(tr, opts, sink, true)
		log.Error("bulk run aborted", logger.Fields(logger.FieldError, abortErr.Error()))
		return nil, abortErr
	case ctx.Err() != nil:
		tr.toState(StateAborted)
		push(tr, opts, sink, true)
		return nil, ctx.Err()
	default:
		tr.toState(StateCompleted)
		final := push(tr, opts, sink, true)
		log.Info("bulk run completed", logger.Fields(
			logger.FieldItems, final.Completed,
			"failed", final.Failed,
			logger.FieldDuration, time.Since(started).Milliseconds(),
		))
		return results, nil
	}
}

// runWithRetry attempts op up to 1+MaxRetries times with a fixed delay
// between attempts.
func runWithRetry[T, R any](ctx context.Context, item T, op Operation[T, R], opts Options) (R, error) {
	var zero R
	var lastErr error

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 && opts.RetryDelay > 0 {
			timer := time.NewTimer(opts.RetryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
		}

		res, err := op(ctx, item)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, lastErr
		}
	}

	return zero, lastErr
}

// push always delivers terminal snapshots; interim snapshots go through
// the interval throttle at the call sites.
func push(tr *tracker, opts Options, sink ProgressSink, terminal bool) Progress {
	snap := tr.snapshot(terminal)
	if opts.ReportProgress && sink != nil {
		sink(snap)
	}
	return snap
}

// reclaimMemory samples the heap after an item and forces a collection
// when it sits above the threshold. A nudge, not a hard limit: new work
// is never blocked on it.
func reclaimMemory(threshold uint64, log *logger.Logger) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	if ms.HeapAlloc <= threshold {
		return
	}

	log.Debug("heap above threshold, forcing reclamation", logger.Fields(
		"heap", util.FormatMemory(int64(ms.HeapAlloc)),
		"threshold", util.FormatMemory(int64(threshold)),
	))
	runtime.GC()
}
