package bulk

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/sportkit/observability"
	"github.com/kbukum/sportkit/util"
)

// HardConcurrencyCap is the ceiling applied to MaxConcurrency at run time,
// so a misconfigured caller cannot overwhelm the upstream rate limiter.
const HardConcurrencyCap = 32

// ErrInvalidOptions is returned when option validation rejects a run
// before any work starts.
var ErrInvalidOptions = errors.New("bulk: invalid options")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Options configures a bulk run.
type Options struct {
	// MaxConcurrency is the requested number of simultaneous workers.
	// Values above HardConcurrencyCap are clamped at run time.
	MaxConcurrency int `yaml:"max_concurrency" mapstructure:"max_concurrency" validate:"gt=0"`

	// BatchSize is the number of items per batch for RunBatches.
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size" validate:"gt=0"`

	// MaxRetries is the number of extra attempts per item after the first.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0"`

	// RetryDelay is the fixed pause between per-item attempts.
	RetryDelay time.Duration `yaml:"retry_delay" mapstructure:"retry_delay" validate:"gte=0"`

	// MaxMemoryThreshold is the heap size in bytes above which a
	// reclamation pass is triggered between items.
	MaxMemoryThreshold uint64 `yaml:"max_memory_threshold" mapstructure:"max_memory_threshold" validate:"gt=0"`

	// ContinueOnError keeps the run going past failing items. When false,
	// the first failure aborts the run.
	ContinueOnError bool `yaml:"continue_on_error" mapstructure:"continue_on_error"`

	// ReportProgress pushes snapshots to the progress sink after items
	// complete.
	ReportProgress bool `yaml:"report_progress" mapstructure:"report_progress"`

	// CollectMetrics attaches throughput and heap measurements to each
	// snapshot and records run metrics to the observer when one is set.
	CollectMetrics bool `yaml:"collect_metrics" mapstructure:"collect_metrics"`

	// ProgressInterval throttles snapshot pushes; zero pushes after every
	// item. The terminal snapshot is always pushed.
	ProgressInterval time.Duration `yaml:"progress_interval" mapstructure:"progress_interval" validate:"gte=0"`

	// Observer receives OTel measurements for items and whole runs.
	// Optional; ignored unless CollectMetrics is set.
	Observer *observability.Metrics `yaml:"-" mapstructure:"-"`
}

// DefaultOptions returns a conservative configuration: 5 workers, batches
// of 10, two retries a second apart, 500 MiB memory threshold, and
// continue-on-error with progress reporting enabled.
func DefaultOptions() Options {
	return Options{
		MaxConcurrency:     5,
		BatchSize:          10,
		MaxRetries:         2,
		RetryDelay:         time.Second,
		MaxMemoryThreshold: 500 << 20,
		ContinueOnError:    true,
		ReportProgress:     true,
	}
}

// ApplyDefaults fills in zero-value numeric fields. Booleans are left
// as given.
func (o *Options) ApplyDefaults() {
	def := DefaultOptions()
	if o.MaxConcurrency == 0 {
		o.MaxConcurrency = def.MaxConcurrency
	}
	if o.BatchSize == 0 {
		o.BatchSize = def.BatchSize
	}
	if o.RetryDelay == 0 && o.MaxRetries > 0 {
		o.RetryDelay = def.RetryDelay
	}
	if o.MaxMemoryThreshold == 0 {
		o.MaxMemoryThreshold = def.MaxMemoryThreshold
	}
}

// Validate checks the options against their struct tags and wraps any
// violations in ErrInvalidOptions.
func (o *Options) Validate() error {
	err := getValidator().Struct(o)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s violates %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(msgs, "; "))
}

// SetMemoryThreshold sets MaxMemoryThreshold from a human-readable size
// such as "500mi" or "2gi".
func (o *Options) SetMemoryThreshold(s string) error {
	n, err := util.ParseMemory(s)
	if err != nil {
		return err
	}
	o.MaxMemoryThreshold = uint64(n)
	return nil
}

// concurrency returns the effective worker budget.
func (o *Options) concurrency() int {
	if o.MaxConcurrency > HardConcurrencyCap {
		return HardConcurrencyCap
	}
	return o.MaxConcurrency
}
