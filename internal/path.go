package internal

import (
	"io/fs"
	"strings"
)

// ValidPath reports whether name is a valid asset path for local providers.
// It's stricter than fs.ValidPath, rejecting backslashes so that names are
// interpreted identically on every platform.
func ValidPath(name string) bool {
	if strings.Contains(name, "\\") {
		return false
	}

	return fs.ValidPath(name)
}
