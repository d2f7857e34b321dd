package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func TestNewWithGlobals(t *testing.T) {
	in := New(nil, nil)
	require.NotNil(t, in)

	ctx, span := in.StartStoreOp(context.Background(), OpSave, "categories")
	require.NotNil(t, span)
	in.RecordWrite(ctx, "categories", 3)
	in.RecordCorruption(ctx, "categories")
	in.RecordConflict(ctx, "categories")
	EndSpan(span, nil)
}

func TestNoopProviders(t *testing.T) {
	in := New(tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider())

	ctx, span := in.StartStoreOp(context.Background(), OpLoad, "products")
	assert.False(t, span.SpanContext().IsValid(), "noop spans carry no context")
	assert.NotNil(t, ctx)

	// Ending with an error must not panic on a noop span.
	EndSpan(span, errors.New("boom"))
}
