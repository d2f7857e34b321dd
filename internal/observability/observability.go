// Package observability wires OpenTelemetry spans and counters around
// catalog store calls. Without an SDK installed the global providers are
// noops, so this costs nothing in the CLI.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies storefront's tracer and meter.
const InstrumentationName = "github.com/jacksmith/storefront"

// Attribute keys.
const (
	AttrKey       = "storefront.key"
	AttrOperation = "storefront.operation"
	AttrRecords   = "storefront.records"
)

// Store operations recorded on spans.
const (
	OpLoad   = "load"
	OpSave   = "save"
	OpSeed   = "seed"
	OpMutate = "mutate"
	OpCAS    = "compare_and_swap"
)

// Instruments holds the tracer and counters used by the store.
type Instruments struct {
	tracer      trace.Tracer
	writes      metric.Int64Counter
	corruptions metric.Int64Counter
	conflicts   metric.Int64Counter
}

// New creates Instruments from the given providers. Nil providers fall back
// to the otel globals.
func New(tp trace.TracerProvider, mp metric.MeterProvider) *Instruments {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	meter := mp.Meter(InstrumentationName)
	in := &Instruments{tracer: tp.Tracer(InstrumentationName)}

	var err error
	in.writes, err = meter.Int64Counter(
		"storefront.store.writes",
		metric.WithDescription("Whole-collection writes to the key-value store"),
		metric.WithUnit("{write}"),
	)
	if err != nil {
		in.writes, _ = meter.Int64Counter("storefront.store.writes")
	}

	in.corruptions, err = meter.Int64Counter(
		"storefront.store.corruptions",
		metric.WithDescription("Stored collections that failed to decode"),
		metric.WithUnit("{collection}"),
	)
	if err != nil {
		in.corruptions, _ = meter.Int64Counter("storefront.store.corruptions")
	}

	in.conflicts, err = meter.Int64Counter(
		"storefront.store.conflicts",
		metric.WithDescription("Compare-and-swap writes rejected for a stale version"),
		metric.WithUnit("{write}"),
	)
	if err != nil {
		in.conflicts, _ = meter.Int64Counter("storefront.store.conflicts")
	}

	return in
}

// StartStoreOp starts a span for a store operation on key.
func (in *Instruments) StartStoreOp(ctx context.Context, op, key string) (context.Context, trace.Span) {
	return in.tracer.Start(ctx, "storefront.store."+op, trace.WithAttributes(
		attribute.String(AttrOperation, op),
		attribute.String(AttrKey, key),
	))
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// RecordWrite counts a whole-collection write of n records.
func (in *Instruments) RecordWrite(ctx context.Context, key string, n int) {
	in.writes.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrKey, key)))
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int(AttrRecords, n))
}

// RecordCorruption counts a collection that failed to decode.
func (in *Instruments) RecordCorruption(ctx context.Context, key string) {
	in.corruptions.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrKey, key)))
}

// RecordConflict counts a rejected compare-and-swap.
func (in *Instruments) RecordConflict(ctx context.Context, key string) {
	in.conflicts.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrKey, key)))
}
