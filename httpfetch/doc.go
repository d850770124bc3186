// Package httpfetch provides a [webasset.Fetcher] for native (non-browser)
// programs, using Go's net/http client.
//
// Each fetch is a single GET request; the full body is read into memory.
// Redirects are followed according to the client's policy, and no retries are
// made. Any response with a non-2xx status is treated as a failure.
//
// # Usage
//
//	assets := webasset.New(local, httpfetch.New())
//
// # Adding custom HTTP headers
//
// Headers can be set when constructing the fetcher with [WithHeader], or added
// to an existing fetcher with the [webasset.WithHeaderFetcher] extension.
//
// For example, to set the user-agent to "my-app":
//
//	f := httpfetch.New(httpfetch.WithHeader(http.Header{
//		"User-Agent": []string{"my-app"},
//	}))
//
// # Using your own HTTP client
//
// By default, this fetcher uses Go's [net/http.DefaultClient], but sometimes
// you may want to use a different HTTP client, for example to set a timeout.
// Use [WithHTTPClient], or the [webasset.WithHTTPClientFetcher] extension.
//
//	f := httpfetch.New(httpfetch.WithHTTPClient(&http.Client{
//		Timeout: 10 * time.Second,
//	}))
//
// # Tracing
//
// Outgoing requests can be traced with OpenTelemetry by passing a
// [trace.TracerProvider] to [WithTracerProvider].
package httpfetch
