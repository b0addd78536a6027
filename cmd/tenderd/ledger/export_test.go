package ledger

import "go.opentelemetry.io/otel/metric"

// BindMetrics records the metrics of l in meter.
func BindMetrics(l *Ledger, meter metric.MeterMust) {
	l.bindMetrics(meter)
}
