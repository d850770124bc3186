//go:build js && wasm

package jsfetch

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"

	"github.com/hairyhenderson/go-webasset"
)

// Fetcher fetches assets with the fetch API of the JavaScript global scope.
// That scope is a window in a page, or the worker's global scope in a Web
// Worker.
type Fetcher struct {
	global js.Value
}

var _ webasset.Fetcher = (*Fetcher)(nil)

// New returns a Fetcher.
func New() *Fetcher {
	return &Fetcher{global: js.Global()}
}

// Fetch requests rawURL with the global fetch function and copies the
// response body into a new byte slice.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	global := f.global
	if global.IsUndefined() {
		global = js.Global()
	}

	if global.Get("fetch").Type() != js.TypeFunction {
		return nil, &webasset.FetchError{URL: rawURL, Err: errors.New("fetch API unavailable")}
	}

	resp, err := await(ctx, global.Call("fetch", rawURL))
	if err != nil {
		return nil, &webasset.FetchError{URL: rawURL, Err: err}
	}

	status := resp.Get("status").Int()
	if !resp.Get("ok").Bool() {
		return nil, &webasset.FetchError{URL: rawURL, StatusCode: status}
	}

	buf, err := await(ctx, resp.Call("arrayBuffer"))
	if err != nil {
		return nil, &webasset.FetchError{URL: rawURL, StatusCode: status, Err: err}
	}

	data := js.Global().Get("Uint8Array").New(buf)
	b := make([]byte, data.Get("length").Int())
	js.CopyBytesToGo(b, data)

	return b, nil
}

// await blocks the calling goroutine until the promise settles, yielding to
// the browser's event loop in the meantime.
func await(ctx context.Context, promise js.Value) (js.Value, error) {
	type settled struct {
		v   js.Value
		err error
	}

	ch := make(chan settled, 1)

	onFulfilled := js.FuncOf(func(_ js.Value, args []js.Value) any {
		ch <- settled{v: args[0]}

		return nil
	})

	onRejected := js.FuncOf(func(_ js.Value, args []js.Value) any {
		ch <- settled{err: jsError(args[0])}

		return nil
	})

	// the callbacks can only be released once the promise has settled
	release := func() {
		onFulfilled.Release()
		onRejected.Release()
	}

	promise.Call("then", onFulfilled, onRejected)

	select {
	case s := <-ch:
		release()

		return s.v, s.err
	case <-ctx.Done():
		go func() {
			<-ch
			release()
		}()

		return js.Undefined(), ctx.Err()
	}
}

func jsError(v js.Value) error {
	if v.Type() == js.TypeObject && v.Get("message").Type() == js.TypeString {
		return errors.New(v.Get("message").String())
	}

	return errors.New(v.String())
}

// Origin resolves the document origin from location.origin in the global
// scope. The zero value uses the real global scope.
type Origin struct {
	global js.Value
}

var _ webasset.OriginResolver = Origin{}

func (o Origin) Origin() (string, error) {
	global := o.global
	if global.IsUndefined() {
		global = js.Global()
	}

	location := global.Get("location")
	if !location.Truthy() {
		return "", fmt.Errorf("no location object: %w", webasset.ErrOriginUnsupported)
	}

	origin := location.Get("origin")
	if origin.Type() != js.TypeString {
		return "", fmt.Errorf("location.origin unavailable: %w", webasset.ErrOriginUnsupported)
	}

	return origin.String(), nil
}
