package tests

import (
	"context"
	"io/fs"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"
)

func MustURL(s string) *url.URL {
	u, err := url.Parse(s)
	if err != nil {
		panic(err)
	}

	return u
}

// Call is a single recorded call to a Provider.
type Call struct {
	Op   string
	Name string
}

// Provider is an in-memory provider that records every call made to it.
type Provider struct {
	Files    map[string][]byte
	WatchErr error

	mu    sync.Mutex
	calls []Call
}

// NewProvider returns a Provider holding the given files. Every parent
// directory of each file is implied.
func NewProvider(files map[string][]byte) *Provider {
	return &Provider{Files: files}
}

func (p *Provider) record(op, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, Call{Op: op, Name: name})
}

// Calls returns the calls made so far.
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]Call(nil), p.calls...)
}

func (p *Provider) Load(_ context.Context, name string) ([]byte, error) {
	p.record("Load", name)

	b, ok := p.Files[name]
	if !ok {
		return nil, &fs.PathError{Op: "load", Path: name, Err: fs.ErrNotExist}
	}

	return b, nil
}

func (p *Provider) ReadDir(name string) ([]string, error) {
	p.record("ReadDir", name)

	if !p.isDir(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	seen := map[string]struct{}{}

	for f := range p.Files {
		rest, ok := strings.CutPrefix(f, name+"/")
		if name == "." {
			rest, ok = f, true
		}

		if !ok {
			continue
		}

		entry, _, _ := strings.Cut(rest, "/")
		seen[path.Join(name, entry)] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}

	sort.Strings(names)

	return names, nil
}

func (p *Provider) WatchPath(name string) error {
	p.record("WatchPath", name)

	return p.WatchErr
}

func (p *Provider) Watch() error {
	p.record("Watch", "")

	return p.WatchErr
}

func (p *Provider) IsDir(name string) bool {
	p.record("IsDir", name)

	return p.isDir(name)
}

func (p *Provider) isDir(name string) bool {
	if name == "." {
		return true
	}

	for f := range p.Files {
		if strings.HasPrefix(f, name+"/") {
			return true
		}
	}

	return false
}
