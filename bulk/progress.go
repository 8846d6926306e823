package bulk

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle stage of a bulk run.
type State int32

const (
	StateNotStarted State = iota
	StateRunning
	StateCompleted
	StateAborted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// RunMetrics carries optional per-snapshot measurements.
type RunMetrics struct {
	// ItemsPerSecond is the completion throughput since the run started.
	ItemsPerSecond float64
	// HeapBytes is the heap allocation at snapshot time.
	HeapBytes uint64
}

// Progress is an immutable snapshot of a bulk run handed to the sink.
type Progress struct {
	OperationID   string
	OperationType string
	State         State
	Total         int
	Completed     int
	Failed        int
	CurrentItem   string
	StartedAt     time.Time
	LastUpdatedAt time.Time
	// ETA estimates the remaining duration from throughput so far. Zero
	// when nothing has completed yet or the run is done.
	ETA     time.Duration
	Metrics *RunMetrics
	Errors  []string
	// IsCompleted is set on the terminal snapshot of a run, whether it
	// completed or aborted.
	IsCompleted bool
}

// ProgressSink receives snapshots during a run. The orchestrator never
// waits on a sink for its own correctness, but it does call sinks inline;
// slow sinks slow their worker.
type ProgressSink func(Progress)

// tracker owns the mutable state of one run. Workers update it through
// atomic counters and a mutex-guarded section; every value leaving the
// tracker is a copy.
type tracker struct {
	id             string
	opType         string
	total          int
	startedAt      time.Time
	collectMetrics bool

	completed atomic.Int64
	failed    atomic.Int64
	state     atomic.Int32
	lastPush  atomic.Int64 // unix nanos of the last snapshot push

	mu      sync.Mutex
	current string
	errors  []string
}

func newTracker(opType string, total int, collectMetrics bool) *tracker {
	return &tracker{
		id:             uuid.New().String(),
		opType:         opType,
		total:          total,
		startedAt:      time.Now(),
		collectMetrics: collectMetrics,
	}
}

func (t *tracker) toState(s State) {
	t.state.Store(int32(s))
}

func (t *tracker) setCurrent(item string) {
	t.mu.Lock()
	t.current = item
	t.mu.Unlock()
}

func (t *tracker) itemDone() {
	t.completed.Add(1)
}

func (t *tracker) itemFailed(item string, err error) {
	t.failed.Add(1)
	t.mu.Lock()
	t.errors = append(t.errors, fmt.Sprintf("%s: %v", item, err))
	t.mu.Unlock()
}

// shouldPush reports whether enough time has passed since the last pushed
// snapshot, and claims the push slot when it has.
func (t *tracker) shouldPush(interval time.Duration) bool {
	if interval <= 0 {
		return true
	}
	now := time.Now().UnixNano()
	last := t.lastPush.Load()
	if now-last < int64(interval) {
		return false
	}
	return t.lastPush.CompareAndSwap(last, now)
}

// snapshot builds an immutable Progress. terminal marks the final snapshot
// of the run.
func (t *tracker) snapshot(terminal bool) Progress {
	completed := int(t.completed.Load())
	failed := int(t.failed.Load())

	t.mu.Lock()
	current := t.current
	errs := make([]string, len(t.errors))
	copy(errs, t.errors)
	t.mu.Unlock()

	now := time.Now()
	p := Progress{
		OperationID:   t.id,
		OperationType: t.opType,
		State:         State(t.state.Load()),
		Total:         t.total,
		Completed:     completed,
		Failed:        failed,
		CurrentItem:   current,
		StartedAt:     t.startedAt,
		LastUpdatedAt: now,
		Errors:        errs,
		IsCompleted:   terminal,
	}

	// Failed items get no further work, so they count against remaining
	// even though throughput is measured on successes only.
	done := completed + failed
	if !terminal && completed > 0 && done < t.total {
		elapsed := now.Sub(t.startedAt)
		p.ETA = time.Duration(float64(elapsed) / float64(completed) * float64(t.total-done))
	}

	if t.collectMetrics {
		m := &RunMetrics{}
		if elapsed := now.Sub(t.startedAt).Seconds(); elapsed > 0 {
			m.ItemsPerSecond = float64(completed) / elapsed
		}
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		m.HeapBytes = ms.HeapAlloc
		p.Metrics = m
	}

	return p
}
