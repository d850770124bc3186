// Package env contains functions that retrieve configuration from the
// environment
package env

import (
	"io/fs"
	"os"
	"strings"
)

// GetenvFS retrieves the value of the environment variable named by the key.
// If the variable is unset, but the same variable ending in `_FILE` is set, the
// referenced file (resolved from the given filesystem) will be read into the
// value. Otherwise the provided default (or an empty string) is returned.
func GetenvFS(fsys fs.FS, key string, def ...string) string {
	val, ok := LookupFS(fsys, key)
	if !ok && len(def) > 0 {
		return def[0]
	}

	return val
}

// Getenv is GetenvFS with files resolved from the root of the local
// filesystem.
func Getenv(key string, def ...string) string {
	return GetenvFS(os.DirFS("/"), key, def...)
}

// LookupFS is like GetenvFS, but reports whether a non-empty value was found
// instead of falling back to a default.
func LookupFS(fsys fs.FS, key string) (string, bool) {
	if val := os.Getenv(key); val != "" {
		return val, true
	}

	p := os.Getenv(key + "_FILE")
	if p == "" {
		return "", false
	}

	b, err := fs.ReadFile(fsys, strings.TrimPrefix(p, "/"))
	if err != nil {
		return "", false
	}

	val := strings.TrimSpace(string(b))

	return val, val != ""
}
