package webasset

import "context"

// Provider is the capability contract shared by the FS and the providers it
// wraps.
type Provider interface {
	// Load returns the full contents of the named asset.
	Load(ctx context.Context, name string) ([]byte, error)

	// ReadDir returns the paths of the entries in the named directory. Each
	// path includes the directory name.
	ReadDir(name string) ([]string, error)

	// WatchPath registers interest in changes to the named asset.
	WatchPath(name string) error

	// Watch registers interest in changes to all assets.
	Watch() error

	// IsDir reports whether the name refers to a directory.
	IsDir(name string) bool
}

// Fetcher retrieves the bytes at an absolute URL. Exactly one attempt is
// made; the whole body is buffered.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// FetcherFunc adapts an ordinary function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, rawURL string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	return f(ctx, rawURL)
}
