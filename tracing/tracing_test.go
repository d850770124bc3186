package tracing

import (
	"context"
	"io/fs"
	"testing"

	"github.com/hairyhenderson/go-webasset"
	"github.com/hairyhenderson/go-webasset/internal/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTracing(t *testing.T) (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	return exporter, tp
}

func attribmap(kvs []attribute.KeyValue) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs))

	for _, attr := range kvs {
		m[string(attr.Key)] = attr.Value.AsInterface()
	}

	return m
}

func setupProvider() *tests.Provider {
	return tests.NewProvider(map[string][]byte{
		"foo/bar": []byte("hello"),
		"baz":     []byte("world"),
	})
}

func TestTraceProvider_Load(t *testing.T) {
	exporter, tp := setupTracing(t)
	ctx := context.Background()

	p := New(ctx, setupProvider(), WithTracerProvider(tp))

	b, err := p.Load(ctx, "foo/bar")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), b)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	assert.Equal(t, "provider.Load", spans[0].Name)
	assert.Equal(t, map[string]interface{}{
		"asset.path":    "foo/bar",
		"asset.kind":    "local",
		"asset.size":    int64(5),
		"provider.type": "*tests.Provider",
	}, attribmap(spans[0].Attributes))

	exporter.Reset()

	_, err = p.Load(ctx, "missing")
	require.ErrorIs(t, err, fs.ErrNotExist)

	spans = exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, map[string]interface{}{
		"exception.message": "load missing: file does not exist",
		"exception.type":    "*fs.PathError",
	}, attribmap(spans[0].Events[0].Attributes))
}

func TestTraceProvider_Facade(t *testing.T) {
	exporter, tp := setupTracing(t)
	ctx := context.Background()

	local := setupProvider()
	fetcher := webasset.FetcherFunc(func(_ context.Context, _ string) ([]byte, error) {
		return []byte{1, 2, 3}, nil
	})

	// instrument both the facade and the provider it wraps
	traced := New(ctx, local, WithTracerProvider(tp))
	p := New(ctx, webasset.New(traced, fetcher, webasset.WithOrigin(webasset.StaticOrigin("https://host.test"))),
		WithTracerProvider(tp))

	b, err := p.Load(ctx, "{origin}/x.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b)

	b, err = p.Load(ctx, "baz")
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), b)

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)

	// a remote asset never reaches the wrapped provider
	assert.Equal(t, "remote-origin-relative", attribmap(spans[0].Attributes)["asset.kind"])
	assert.Equal(t, "*webasset.FS", attribmap(spans[0].Attributes)["provider.type"])

	// the inner span ends first, and is a child of the outer span
	assert.Equal(t, "*tests.Provider", attribmap(spans[1].Attributes)["provider.type"])
	assert.Equal(t, "*webasset.FS", attribmap(spans[2].Attributes)["provider.type"])
	assert.Equal(t, spans[2].SpanContext.SpanID(), spans[1].Parent.SpanID())
}

func TestTraceProvider_ReadDir(t *testing.T) {
	exporter, tp := setupTracing(t)

	p := New(context.Background(), setupProvider(), WithTracerProvider(tp))

	names, err := p.ReadDir(".")
	require.NoError(t, err)
	assert.Equal(t, []string{"baz", "foo"}, names)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	assert.Equal(t, "provider.ReadDir", spans[0].Name)
	assert.Equal(t, map[string]interface{}{
		"asset.path":    ".",
		"asset.kind":    "local",
		"dir.entries":   int64(2),
		"provider.type": "*tests.Provider",
	}, attribmap(spans[0].Attributes))
}

func TestTraceProvider_IsDir(t *testing.T) {
	exporter, tp := setupTracing(t)

	p := New(context.Background(), setupProvider(), WithTracerProvider(tp))

	assert.True(t, p.IsDir("foo"))
	assert.False(t, p.IsDir("https://example.com/foo"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	assert.Equal(t, "provider.IsDir", spans[0].Name)
	assert.Equal(t, true, attribmap(spans[0].Attributes)["asset.is_dir"])
	assert.Equal(t, "remote-absolute", attribmap(spans[1].Attributes)["asset.kind"])
	assert.Equal(t, false, attribmap(spans[1].Attributes)["asset.is_dir"])
}

func TestTraceProvider_Watch(t *testing.T) {
	exporter, tp := setupTracing(t)

	local := setupProvider()
	local.WatchErr = webasset.ErrWatchUnsupported

	p := New(context.Background(), local, WithTracerProvider(tp))

	assert.ErrorIs(t, p.WatchPath("baz"), webasset.ErrWatchUnsupported)
	assert.ErrorIs(t, p.Watch(), webasset.ErrWatchUnsupported)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	assert.Equal(t, "provider.WatchPath", spans[0].Name)
	assert.Equal(t, "provider.Watch", spans[1].Name)
	assert.Equal(t, map[string]interface{}{
		"provider.type": "*tests.Provider",
	}, attribmap(spans[1].Attributes))
	assert.Len(t, spans[1].Events, 1)
}
