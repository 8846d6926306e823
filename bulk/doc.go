// Package bulk runs collections of independent operations under a bounded
// concurrency budget with progress tracking, per-item retries, a memory
// backpressure check, and a configurable partial-failure policy.
//
// Run executes one operation per item; RunBatches partitions the items
// into fixed-size batches and applies the same machinery per batch.
// Options are validated before any work is dispatched, so a bad
// configuration never produces partial side effects.
//
//	results, err := bulk.Run(ctx, "GetBoxScore", gameIDs,
//	    func(ctx context.Context, id int) (BoxScore, error) {
//	        return fetchBoxScore(ctx, id)
//	    }, bulk.DefaultOptions(), func(p bulk.Progress) {
//	        log.Printf("%d/%d done", p.Completed, p.Total)
//	    })
//
// With ContinueOnError set, failing items are counted and recorded in the
// final Progress while the rest of the run proceeds; without it, the first
// failure cancels the remaining items, waits for in-flight work to unwind,
// and returns an error with no partial results.
package bulk
