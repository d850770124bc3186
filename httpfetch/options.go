package httpfetch

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Fetcher.
type Option interface {
	apply(*config)
}

type config struct {
	client      *http.Client
	headers     http.Header
	log         logrus.FieldLogger
	tp          trace.TracerProvider
	propagators propagation.TextMapPropagator
}

type optionFunc func(*config)

func (o optionFunc) apply(c *config) {
	o(c)
}

// WithHTTPClient sets the client used for requests. This is useful for custom
// transports, timeouts, or redirect policies.
func WithHTTPClient(client *http.Client) Option {
	return optionFunc(func(cfg *config) {
		if client != nil {
			cfg.client = client
		}
	})
}

// WithHeader adds headers to send with every request (e.g. a User-Agent or
// Authorization header).
func WithHeader(headers http.Header) Option {
	return optionFunc(func(cfg *config) {
		if cfg.headers == nil {
			cfg.headers = http.Header{}
		}

		for k, vs := range headers {
			for _, v := range vs {
				cfg.headers.Add(k, v)
			}
		}
	})
}

// WithTracerProvider enables tracing of outgoing requests with the given
// provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return optionFunc(func(cfg *config) {
		cfg.tp = provider
	})
}

// WithPropagators sets the propagators used to inject trace context into
// outgoing requests. Only used when tracing is enabled. If none are specified,
// global ones will be used.
func WithPropagators(propagators propagation.TextMapPropagator) Option {
	return optionFunc(func(cfg *config) {
		if propagators != nil {
			cfg.propagators = propagators
		}
	})
}

// WithLogger sets the logger for debug output.
func WithLogger(log logrus.FieldLogger) Option {
	return optionFunc(func(cfg *config) {
		if log != nil {
			cfg.log = log
		}
	})
}
