// Package jsfetch provides a [webasset.Fetcher] and [webasset.OriginResolver]
// for programs compiled to WebAssembly and running in a browser
// (GOOS=js GOARCH=wasm), either on a page or in a Web Worker. On other
// platforms this package is empty.
//
// Fetches go through the browser's fetch API, so the browser's own rules
// (CORS, caching, credentials) apply. A fetch suspends twice: once waiting
// for the response, and once waiting for its body. Failed or rejected
// fetches, and responses without an "ok" status, are returned as
// [*webasset.FetchError] values.
//
// # Usage
//
//	assets := webasset.New(local, jsfetch.New(),
//		webasset.WithOrigin(jsfetch.Origin{}))
//
//	b, err := assets.Load(ctx, "{origin}/models/ship.glb")
package jsfetch
