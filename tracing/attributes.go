package tracing

import (
	"go.opentelemetry.io/otel/attribute"
)

const (
	typeKey = attribute.Key("provider.type")
	pathKey = attribute.Key("asset.path")
	kindKey = attribute.Key("asset.kind")

	sizeKey   = attribute.Key("asset.size")
	isDirKey  = attribute.Key("asset.is_dir")
	direntKey = attribute.Key("dir.entries")
)

// The type of provider being operated on.
//
// Type: string
// Required: No
// Examples: "*webasset.FS", "*localfs.FS", "*blobstore.Store"
func Type(name string) attribute.KeyValue {
	return typeKey.String(name)
}

// The asset name being operated on.
//
// Type: string
// Required: Yes
// Examples: "textures/ship.png", "https://example.com/a.bin", "{origin}/x.bin"
func Path(name string) attribute.KeyValue {
	return pathKey.String(name)
}

// Where the asset is loaded from, as classified by its name.
//
// Type: string
// Required: Yes
// Examples: "local", "remote-absolute", "remote-origin-relative"
func Kind(kind string) attribute.KeyValue {
	return kindKey.String(kind)
}

// The number of bytes loaded.
//
// Type: int
// Required: No
// Examples: 1024, 0
func AssetSize(n int) attribute.KeyValue {
	return sizeKey.Int(n)
}

// Whether the name refers to a directory.
//
// Type: bool
// Required: No
func IsDir(isDir bool) attribute.KeyValue {
	return isDirKey.Bool(isDir)
}

// The number of entries in a directory.
//
// Type: int
// Required: No
// Examples: 3, 0
func DirEntries(n int) attribute.KeyValue {
	return direntKey.Int(n)
}
