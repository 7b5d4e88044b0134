//go:build otel

package metrics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func TestOTelEnabled(t *testing.T) {
	assert.True(t, OTelEnabled())
}

func TestOTelTracerGlobalProvider(t *testing.T) {
	tr := NewOTelTracer("pke-test")
	ctx, end := tr.StartSpan(context.Background(), SpanDecrypt,
		WithSpanKind(SpanKindServer),
		WithAttributes(SpanAttributes{KEM: "ML-KEM-768"}.ToMap()))
	require.NotNil(t, ctx)
	assert.NotPanics(t, func() { end(errors.New("decryption failed")) })
}

func TestOTelAttributesSortedAndTyped(t *testing.T) {
	got := otelAttributes(map[string]interface{}{
		"z.str":   "v",
		"a.int":   7,
		"m.big":   uint64(math.MaxUint64),
		"m.small": uint64(9),
		"b.bool":  true,
		"f.float": 1.5,
		"o.other": []int{1},
	})

	require.Len(t, got, 7)
	assert.Equal(t, attribute.Int("a.int", 7), got[0])
	assert.Equal(t, attribute.Bool("b.bool", true), got[1])
	assert.Equal(t, attribute.Float64("f.float", 1.5), got[2])
	assert.Equal(t, attribute.String("m.big", "18446744073709551615"), got[3])
	assert.Equal(t, attribute.Int64("m.small", 9), got[4])
	assert.Equal(t, attribute.String("o.other", "[1]"), got[5])
	assert.Equal(t, attribute.String("z.str", "v"), got[6])
}

func TestOTelTracerRecordsSpans(t *testing.T) {
	rec := withRecorder(t)
	tr := NewOTelTracer("")

	_, end := tr.StartSpan(context.Background(), SpanEncrypt,
		WithAttributes(SpanAttributes{KEM: "CH-KEM", InputBytes: 12}.ToMap()))
	end(nil)
	_, end = tr.StartSpan(context.Background(), SpanDecrypt, WithSpanKind(SpanKindServer))
	end(errors.New("decryption failed"))

	spans := rec.Ended()
	require.Len(t, spans, 2)

	enc := spans[0]
	assert.Equal(t, SpanEncrypt, enc.Name())
	assert.Equal(t, codes.Ok, enc.Status().Code)
	assert.Equal(t, "quantum-pke", enc.InstrumentationScope().Name)
	assert.Equal(t, []attribute.KeyValue{attribute.Int("pke.input_bytes", 12), attribute.String("pke.kem", "CH-KEM")}, enc.Attributes())

	dec := spans[1]
	assert.Equal(t, SpanDecrypt, dec.Name())
	assert.Equal(t, trace.SpanKindServer, dec.SpanKind())
	assert.Equal(t, codes.Error, dec.Status().Code)
	assert.Equal(t, "decryption failed", dec.Status().Description)
	require.Len(t, dec.Events(), 1)
	assert.Equal(t, "exception", dec.Events()[0].Name)
}
