// Package webasset resolves named assets either from a remote HTTP server or
// from a wrapped local provider.
//
// The [FS] type wraps an existing [Provider]. Every request is classified by
// its textual prefix (see [Classify]):
//
//   - names beginning with "http://" or "https://" are fetched as-is
//   - names beginning with "{origin}" are fetched relative to the current
//     document origin, which only exists in a browser (see [OriginResolver])
//   - everything else is handed to the wrapped provider untouched
//
// Fetching is done by a [Fetcher], chosen when the FS is constructed. The
// httpfetch package provides a net/http implementation for native programs,
// and the jsfetch package provides one using the browser's fetch API for
// js/wasm builds.
//
// # Usage
//
//	u, _ := url.Parse("file:///srv/assets")
//	local, _ := localfs.New(u)
//
//	assets := webasset.New(local, httpfetch.New())
//
//	b, err := assets.Load(ctx, "https://example.com/logo.png")
//
// Remote failures are reported as [*NotFoundError], carrying the name that was
// requested rather than the URL that was fetched.
package webasset
