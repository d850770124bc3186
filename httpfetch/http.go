package httpfetch

import (
	"context"
	"io"
	"net/http"

	"github.com/hairyhenderson/go-webasset"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Fetcher fetches assets with plain HTTP GET requests. It holds no per-request
// state, so any number of fetches may run concurrently.
type Fetcher struct {
	client  *http.Client
	headers http.Header
	log     logrus.FieldLogger
}

var _ webasset.Fetcher = (*Fetcher)(nil)

// New returns a Fetcher. By default, Go's http.DefaultClient is used, no extra
// headers are sent, and requests are not traced.
func New(opts ...Option) *Fetcher {
	cfg := config{}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.client == nil {
		cfg.client = http.DefaultClient
	}

	if cfg.headers == nil {
		cfg.headers = http.Header{}
	}

	if cfg.log == nil {
		cfg.log = logrus.StandardLogger()
	}

	if cfg.tp != nil {
		cfg.client = instrument(cfg.client, cfg)
	}

	return &Fetcher{
		client:  cfg.client,
		headers: cfg.headers,
		log:     cfg.log,
	}
}

// instrument returns a copy of client whose transport emits a span for each
// request.
func instrument(client *http.Client, cfg config) *http.Client {
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	otelOpts := []otelhttp.Option{otelhttp.WithTracerProvider(cfg.tp)}
	if cfg.propagators != nil {
		otelOpts = append(otelOpts, otelhttp.WithPropagators(cfg.propagators))
	}

	c := *client
	c.Transport = otelhttp.NewTransport(base, otelOpts...)

	return &c
}

// WithHeader returns a copy of the fetcher that also sends the given headers.
// Used by webasset.WithHeaderFetcher.
func (f *Fetcher) WithHeader(headers http.Header) webasset.Fetcher {
	if headers == nil {
		return f
	}

	fetcher := *f
	fetcher.headers = f.headers.Clone()

	for k, vs := range headers {
		for _, v := range vs {
			fetcher.headers.Add(k, v)
		}
	}

	return &fetcher
}

// WithHTTPClient returns a copy of the fetcher that uses the given client.
// Used by webasset.WithHTTPClientFetcher.
func (f *Fetcher) WithHTTPClient(client *http.Client) webasset.Fetcher {
	if client == nil {
		return f
	}

	fetcher := *f
	fetcher.client = client

	return &fetcher
}

// Fetch performs a single GET request for rawURL and returns the whole
// response body. Transport failures, non-2xx responses, and body read errors
// are all returned as a *webasset.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	log := f.log.WithField("url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &webasset.FetchError{URL: rawURL, Err: err}
	}

	req.Header = f.headers.Clone()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &webasset.FetchError{URL: rawURL, Err: err}
	}

	// The body is always fully buffered, so it can be closed on return
	defer resp.Body.Close()

	log = log.WithField("status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug("unexpected response status")

		return nil, &webasset.FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &webasset.FetchError{URL: rawURL, StatusCode: resp.StatusCode, Err: err}
	}

	log.WithField("bytes", len(b)).Debug("read response body")

	return b, nil
}
