// Copyright © 2025 The movan authors

package sema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestFullVisitorSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	t.Cleanup(func() {
		assert.NoError(t, tp.Shutdown(context.Background()))
	})
	otel.SetTracerProvider(tp)

	p, _ := coinProject()
	require.NoError(t, p.RunFullVisitor(&recorder{}))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "full-visit", spans[0].Name)
	attrs := spans[0].Attributes
	require.NotEmpty(t, attrs)
	assert.Equal(t, "packages", string(attrs[0].Key))
	assert.Equal(t, int64(1), attrs[0].Value.AsInt64())
}
