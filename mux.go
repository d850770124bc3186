package webasset

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// ProviderOpener opens the providers for a set of URL schemes.
type ProviderOpener interface {
	// Schemes lists the URL schemes this opener handles.
	Schemes() []string

	// New opens a provider for the store located by u.
	New(u *url.URL) (Provider, error)
}

// ProviderOpenerFunc makes a ProviderOpener for the given schemes from a
// constructor.
func ProviderOpenerFunc(newFunc func(*url.URL) (Provider, error), schemes ...string) ProviderOpener {
	return &openerFunc{newFunc: newFunc, schemes: schemes}
}

type openerFunc struct {
	newFunc func(*url.URL) (Provider, error)
	schemes []string
}

func (o *openerFunc) Schemes() []string { return o.schemes }

func (o *openerFunc) New(u *url.URL) (Provider, error) { return o.newFunc(u) }

// ProviderMux opens the provider an FS wraps from a store location given in
// configuration, such as "file:///srv/assets", "s3://bucket?region=us-east-1"
// or "git+https://example.com/game-assets.git". Each scheme is handled by a
// registered ProviderOpener.
//
// A ProviderMux is itself a ProviderOpener for the union of its schemes.
type ProviderMux struct {
	openers       map[string]ProviderOpener
	defaultScheme string
}

var _ ProviderOpener = (*ProviderMux)(nil)

// MuxOption configures a ProviderMux.
type MuxOption func(*ProviderMux)

// WithDefaultScheme makes the mux treat locations without a scheme (plain
// paths like "assets" or "/srv/assets") as URLs with the given scheme.
// Without it, such locations fail to open.
func WithDefaultScheme(scheme string) MuxOption {
	return func(m *ProviderMux) {
		m.defaultScheme = scheme
	}
}

// NewMux returns an empty ProviderMux.
func NewMux(opts ...MuxOption) *ProviderMux {
	m := &ProviderMux{openers: map[string]ProviderOpener{}}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Add registers openers for their schemes. A later opener replaces an earlier
// one for the same scheme.
func (m *ProviderMux) Add(openers ...ProviderOpener) {
	for _, o := range openers {
		for _, scheme := range o.Schemes() {
			m.openers[scheme] = o
		}
	}
}

// Lookup opens the provider for the given store location.
func (m *ProviderMux) Lookup(location string) (Provider, error) {
	u, err := m.parse(location)
	if err != nil {
		return nil, err
	}

	return m.New(u)
}

func (m *ProviderMux) parse(location string) (*url.URL, error) {
	if m.defaultScheme != "" && isDrivePath(location) {
		// "C:\assets" would otherwise parse with the scheme "c"
		return &url.URL{
			Scheme: m.defaultScheme,
			Path:   "/" + strings.ReplaceAll(location, `\`, "/"),
		}, nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("parse store location %q: %w", location, err)
	}

	if u.Scheme == "" && m.defaultScheme != "" {
		u.Scheme = m.defaultScheme
	}

	return u, nil
}

func isDrivePath(location string) bool {
	if len(location) < 3 || location[1] != ':' || (location[2] != '\\' && location[2] != '/') {
		return false
	}

	c := location[0] | 0x20

	return c >= 'a' && c <= 'z'
}

// Schemes returns every registered scheme, sorted.
func (m *ProviderMux) Schemes() []string {
	schemes := make([]string, 0, len(m.openers))
	for scheme := range m.openers {
		schemes = append(schemes, scheme)
	}

	sort.Strings(schemes)

	return schemes
}

// New opens a provider with the opener registered for u's scheme.
func (m *ProviderMux) New(u *url.URL) (Provider, error) {
	o, ok := m.openers[u.Scheme]
	if !ok {
		return nil, fmt.Errorf("no provider registered for scheme %q", u.Scheme)
	}

	return o.New(u)
}
