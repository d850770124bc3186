package webasset

import "net/http"

type withHeaderer interface {
	WithHeader(headers http.Header) Fetcher
}

// WithHeaderFetcher returns a copy of f which sends the given headers with
// every request, if the fetcher supports it (i.e. has a WithHeader method).
// Otherwise f is returned unchanged.
func WithHeaderFetcher(headers http.Header, f Fetcher) Fetcher {
	if hf, ok := f.(withHeaderer); ok {
		return hf.WithHeader(headers)
	}

	return f
}

type withHTTPClienter interface {
	WithHTTPClient(client *http.Client) Fetcher
}

// WithHTTPClientFetcher returns a copy of f which uses the given client, if
// the fetcher supports it (i.e. has a WithHTTPClient method). Otherwise f is
// returned unchanged.
func WithHTTPClientFetcher(client *http.Client, f Fetcher) Fetcher {
	if cf, ok := f.(withHTTPClienter); ok {
		return cf.WithHTTPClient(client)
	}

	return f
}
