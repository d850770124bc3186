// Package tracing instruments a [webasset.Provider] for distributed tracing.
// The OpenTelemetry API is supported.
//
// # Usage
//
// To use this package, call [New] with the provider to instrument. This can be
// the [webasset.FS] itself, the provider it wraps, or both. Every operation on
// the returned provider is recorded as a span, annotated with the asset name
// and how that name was classified.
//
// In order to report traces, an OTel [trace.TracerProvider] must first be set
// up. The details of this are outside the scope of this module, but see the
// assetcli example in this repository's examples directory for one approach.
//
// A [trace.TracerProvider] can optionally be passed to [New] using
// [WithTracerProvider].
package tracing

import (
	"context"
	"fmt"

	"github.com/hairyhenderson/go-webasset"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type traceProvider struct {
	ctx    context.Context
	p      webasset.Provider
	tracer trace.Tracer
}

const tracerName = "github.com/hairyhenderson/go-webasset/tracing"

var _ webasset.Provider = (*traceProvider)(nil)

// New returns a provider that instruments p, adding a trace span for each
// operation. Load spans are children of the span in the context given to Load;
// the given ctx is the parent for all other operations, since they don't take
// a context.
func New(ctx context.Context, p webasset.Provider, opts ...Option) webasset.Provider {
	cfg := config{}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.tp == nil {
		cfg.tp = otel.GetTracerProvider()
	}

	return &traceProvider{
		ctx:    ctx,
		p:      p,
		tracer: cfg.tp.Tracer(tracerName),
	}
}

func attribs(p webasset.Provider, name string) trace.SpanStartEventOption {
	return trace.WithAttributes(
		Path(name),
		Kind(webasset.Classify(name).Kind.String()),
		Type(fmt.Sprintf("%T", p)),
	)
}

func (t *traceProvider) Load(ctx context.Context, name string) ([]byte, error) {
	ctx, span := t.tracer.Start(ctx, "provider.Load", attribs(t.p, name))
	defer span.End()

	b, err := t.p.Load(ctx, name)

	span.SetAttributes(AssetSize(len(b)))

	return b, recordError(span, err)
}

func (t *traceProvider) ReadDir(name string) ([]string, error) {
	_, span := t.tracer.Start(t.ctx, "provider.ReadDir", attribs(t.p, name))
	defer span.End()

	names, err := t.p.ReadDir(name)

	span.SetAttributes(DirEntries(len(names)))

	return names, recordError(span, err)
}

func (t *traceProvider) WatchPath(name string) error {
	_, span := t.tracer.Start(t.ctx, "provider.WatchPath", attribs(t.p, name))
	defer span.End()

	return recordError(span, t.p.WatchPath(name))
}

func (t *traceProvider) Watch() error {
	_, span := t.tracer.Start(t.ctx, "provider.Watch",
		trace.WithAttributes(Type(fmt.Sprintf("%T", t.p))))
	defer span.End()

	return recordError(span, t.p.Watch())
}

func (t *traceProvider) IsDir(name string) bool {
	_, span := t.tracer.Start(t.ctx, "provider.IsDir", attribs(t.p, name))
	defer span.End()

	isDir := t.p.IsDir(name)

	span.SetAttributes(IsDir(isDir))

	return isDir
}

// recordError records the given error on the span, and returns it. It does not
// set the span's status to error.
func recordError(span trace.Span, err error) error {
	span.RecordError(err)

	return err
}
