package metrics

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// AttrOK is a metric tag to indicate a successful operation.
	AttrOK = attribute.Key("status").String("ok")
	// AttrRejected is a metric tag to indicate an operation refused because of its input.
	AttrRejected = attribute.Key("status").String("rejected")
	// AttrError is a metric tag to indicate a failed operation.
	AttrError = attribute.Key("status").String("error")
)

// MetricIncrCounter increments the specified Int64Counter by 1. It uses AttrOK
// if err is nil, AttrRejected if err matches one of rejections, or AttrError
// otherwise. This method is a helper for deferring in methods.
func MetricIncrCounter(
	ctx context.Context,
	err error,
	m metric.Int64Counter,
	rejections []error,
	labels ...attribute.KeyValue) {
	m.Add(ctx, 1, append(labels, StatusAttr(err, rejections))...)
}

// StatusAttr returns the status tag for err.
func StatusAttr(err error, rejections []error) attribute.KeyValue {
	if err == nil {
		return AttrOK
	}
	for _, r := range rejections {
		if errors.Is(err, r) {
			return AttrRejected
		}
	}
	return AttrError
}
