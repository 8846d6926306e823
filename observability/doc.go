// Package observability provides OpenTelemetry metrics integration for the
// acquisition pipeline.
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("sportkit"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("sportkit"))
//	metrics.RecordFetch(ctx, "/teams", "ok", duration)
package observability
