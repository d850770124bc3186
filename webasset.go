package webasset

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// FS routes asset requests either to a Fetcher (for remote names) or to the
// wrapped Provider (for everything else). An FS holds no state beyond its
// wrapped provider and is safe for concurrent use to the extent that the
// wrapped provider is.
type FS struct {
	wrapped Provider
	fetcher Fetcher
	origin  OriginResolver
	log     logrus.FieldLogger
}

var _ Provider = (*FS)(nil)

// New returns an FS wrapping the given provider, which serves every name that
// isn't remote. Remote names are fetched with fetcher.
//
// By default origin-relative names can't be resolved - use WithOrigin to
// supply a resolver. A nil fetcher makes every remote load fail with a
// *NotFoundError.
func New(wrapped Provider, fetcher Fetcher, opts ...Option) *FS {
	cfg := config{}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.origin == nil {
		cfg.origin = NoOrigin
	}

	if cfg.log == nil {
		cfg.log = logrus.StandardLogger()
	}

	if fetcher == nil {
		fetcher = noFetcher{}
	}

	return &FS{
		wrapped: wrapped,
		fetcher: fetcher,
		origin:  cfg.origin,
		log:     cfg.log,
	}
}

// Wrapped returns the provider that serves local names.
func (f *FS) Wrapped() Provider {
	return f.wrapped
}

// Load returns the contents of the named asset. Remote assets are fetched
// with a single request; any failure is returned as a *NotFoundError
// referencing name. Local assets are loaded by the wrapped provider.
func (f *FS) Load(ctx context.Context, name string) ([]byte, error) {
	c := Classify(name)
	if !c.IsRemote() {
		return f.wrapped.Load(ctx, name)
	}

	log := f.log.WithFields(logrus.Fields{"path": name, "kind": c.Kind.String()})

	u := c.Target
	if c.Kind == RemoteOriginRelative {
		var err error

		u, err = resolveOrigin(f.origin, c.Target)
		if err != nil {
			return nil, fmt.Errorf("load %q: %w", name, err)
		}
	}

	log = log.WithField("url", u)
	log.Debug("fetching remote asset")

	b, err := f.fetcher.Fetch(ctx, u)
	if err != nil {
		log.WithError(err).Debug("fetch failed")

		return nil, &NotFoundError{Path: name, Err: err}
	}

	log.WithField("bytes", len(b)).Debug("fetched remote asset")

	return b, nil
}

// ReadDir is always delegated - there are no remote directories.
func (f *FS) ReadDir(name string) ([]string, error) {
	return f.wrapped.ReadDir(name)
}

// WatchPath succeeds without doing anything for absolute URLs, since remote
// assets are never polled. Other names are delegated.
func (f *FS) WatchPath(name string) error {
	if isHTTP(name) {
		f.log.WithField("path", name).Debug("ignoring watch on remote asset")

		return nil
	}

	return f.wrapped.WatchPath(name)
}

// Watch is always delegated.
func (f *FS) Watch() error {
	return f.wrapped.Watch()
}

// IsDir is false for every absolute URL. Other names are delegated.
func (f *FS) IsDir(name string) bool {
	if isHTTP(name) {
		return false
	}

	return f.wrapped.IsDir(name)
}

type noFetcher struct{}

func (noFetcher) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	return nil, &FetchError{URL: rawURL, Err: ErrNoFetcher}
}
