package webasset

import "strings"

// OriginResolver provides the origin (scheme, host and port) of the current
// document, e.g. "https://example.com:8443".
type OriginResolver interface {
	Origin() (string, error)
}

// NoOrigin is the resolver for environments without a document, such as
// native programs. It always fails with ErrOriginUnsupported.
//
//nolint:gochecknoglobals
var NoOrigin OriginResolver = noOrigin{}

type noOrigin struct{}

func (noOrigin) Origin() (string, error) {
	return "", ErrOriginUnsupported
}

// StaticOrigin returns a resolver that always answers with the given origin.
// A trailing slash is removed.
func StaticOrigin(origin string) OriginResolver {
	return staticOrigin(strings.TrimSuffix(origin, "/"))
}

type staticOrigin string

func (o staticOrigin) Origin() (string, error) {
	return string(o), nil
}

// resolveOrigin joins the current origin and the suffix that followed the
// origin marker.
func resolveOrigin(r OriginResolver, suffix string) (string, error) {
	origin, err := r.Origin()
	if err != nil {
		return "", err
	}

	return origin + suffix, nil
}
