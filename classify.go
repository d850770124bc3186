package webasset

import "strings"

// OriginMarker is the prefix that marks a name as relative to the current
// document origin.
const OriginMarker = "{origin}"

// Kind identifies where an asset is loaded from.
type Kind int

const (
	// Local assets are loaded by the wrapped provider.
	Local Kind = iota
	// RemoteAbsolute assets are complete http or https URLs.
	RemoteAbsolute
	// RemoteOriginRelative assets are resolved against the document origin.
	RemoteOriginRelative
)

func (k Kind) String() string {
	switch k {
	case Local:
		return "local"
	case RemoteAbsolute:
		return "remote-absolute"
	case RemoteOriginRelative:
		return "remote-origin-relative"
	default:
		return "unknown"
	}
}

// Classification is the result of classifying an asset name.
//
// Target holds the URL for RemoteAbsolute names, the suffix following the
// marker for RemoteOriginRelative names, and the unmodified name otherwise.
type Classification struct {
	Target string
	Kind   Kind
}

// IsRemote reports whether the asset must be fetched over the network.
func (c Classification) IsRemote() bool {
	return c.Kind == RemoteAbsolute || c.Kind == RemoteOriginRelative
}

// Classify decides where the named asset lives. Only the raw text of the name
// is considered - it is not parsed or normalized, so a local file literally
// named "http://..." is treated as remote.
func Classify(name string) Classification {
	switch {
	case isHTTP(name):
		return Classification{Kind: RemoteAbsolute, Target: name}
	case strings.HasPrefix(name, OriginMarker):
		return Classification{Kind: RemoteOriginRelative, Target: strings.TrimPrefix(name, OriginMarker)}
	default:
		return Classification{Kind: Local, Target: name}
	}
}

func isHTTP(name string) bool {
	return strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://")
}
