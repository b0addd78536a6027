package metrics

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
)

// Prefix is the prefix of every tenderd metric name.
const Prefix = "tenderd"

// Meter is the tenderd meter.
var Meter = metric.Must(global.Meter(Prefix))
