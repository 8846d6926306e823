package bulk

import "context"

// BatchOperation processes a fixed-size slice of items in one call.
type BatchOperation[T, R any] func(ctx context.Context, batch []T) ([]R, error)

// RunBatches partitions items into ceil(len(items)/BatchSize) batches and
// runs op once per batch through the same bounded-concurrency machinery as
// Run. Progress counts batches, not items. Useful when per-call overhead
// dominates single-item work.
func RunBatches[T, R any](ctx context.Context, opType string, items []T, op BatchOperation[T, R], opts Options, sink ProgressSink) ([]R, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	batches := partition(items, opts.BatchSize)

	nested, err := Run(ctx, opType, batches, func(ctx context.Context, batch []T) ([]R, error) {
		return op(ctx, batch)
	}, opts, sink)
	if err != nil {
		return nil, err
	}

	out := make([]R, 0, len(items))
	for _, rs := range nested {
		out = append(out, rs...)
	}
	return out, nil
}

// partition splits items into consecutive slices of at most size elements.
// The returned slices alias the input.
func partition[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}

	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}
