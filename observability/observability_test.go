package observability

import (
	"context"
	"testing"
	"time"
)

func TestNewMetrics_CreatesInstruments(t *testing.T) {
	m, err := NewMetrics(Meter("test"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if m == nil {
		t.Fatal("expected metrics instance")
	}

	ctx := context.Background()
	m.RecordFetchStart(ctx)
	m.RecordFetch(ctx, "/teams", "ok", 50*time.Millisecond)
	m.RecordCacheLookup(ctx, true)
	m.RecordCacheLookup(ctx, false)
	m.RecordBulkItem(ctx, "boxscores", true)
	m.RecordBulkRun(ctx, "boxscores", time.Second)
}

func TestMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	// Metrics are optional; a nil bundle must be a no-op everywhere.
	m.RecordFetchStart(ctx)
	m.RecordFetch(ctx, "/teams", "error", time.Millisecond)
	m.RecordCacheLookup(ctx, false)
	m.RecordBulkItem(ctx, "rosters", false)
	m.RecordBulkRun(ctx, "rosters", time.Millisecond)
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("sportkit")

	if cfg.ServiceName != "sportkit" {
		t.Errorf("expected service name sportkit, got %s", cfg.ServiceName)
	}
	if cfg.Endpoint == "" {
		t.Error("expected a default endpoint")
	}
	if cfg.Interval <= 0 {
		t.Error("expected a positive export interval")
	}
}
