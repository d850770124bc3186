package webasset

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
)

var (
	// ErrOriginUnsupported is returned when an origin-relative name is loaded
	// in an environment with no document origin. It indicates a build or
	// configuration mistake rather than a missing asset.
	ErrOriginUnsupported = errors.New("origin-relative assets are not supported without a document origin")

	// ErrWatchUnsupported is returned by providers that can't report changes.
	ErrWatchUnsupported = errors.New("watching for changes is not supported")

	// ErrNoFetcher is the cause of remote load failures for an FS created
	// without a Fetcher.
	ErrNoFetcher = errors.New("no fetcher configured")
)

// NotFoundError is returned when a remote asset could not be fetched, for any
// reason. Path is the name that was requested, not the resolved URL.
type NotFoundError struct {
	Err  error
	Path string
}

func (e *NotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("asset not found: %s", e.Path)
	}

	return fmt.Sprintf("asset not found: %s: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Is allows NotFoundError to match fs.ErrNotExist.
func (e *NotFoundError) Is(target error) bool {
	return target == fs.ErrNotExist
}

// FetchError describes a failed fetch. StatusCode is 0 when no response was
// received.
type FetchError struct {
	Err        error
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	default:
		return fmt.Sprintf("fetch %s failed", e.URL)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
