package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/hairyhenderson/go-webasset"
	"github.com/hairyhenderson/go-webasset/internal"
	"github.com/hairyhenderson/go-webasset/internal/env"
	"gocloud.dev/blob"
	"gocloud.dev/blob/azureblob"
	"gocloud.dev/blob/gcsblob"
	"gocloud.dev/blob/memblob"
	"gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"
)

// Store serves assets from a blob storage bucket. Keys are asset names, with
// "/" separating directory levels.
type Store struct {
	ctx    context.Context
	bucket *blob.Bucket
}

var _ webasset.Provider = (*Store)(nil)

// New opens the bucket referenced by u and returns a Store for it. Supported
// schemes are "s3", "gs", "azblob" and "mem". A path on the URL scopes the
// store to keys under that prefix.
//
// See https://gocloud.dev/howto/blob/ for the URL parameters each scheme
// understands. For S3, the region and endpoint can also be set with the
// AWS_REGION (or AWS_DEFAULT_REGION) and AWS_S3_ENDPOINT environment
// variables.
func New(ctx context.Context, u *url.URL) (*Store, error) {
	switch u.Scheme {
	case s3blob.Scheme, gcsblob.Scheme, azureblob.Scheme, memblob.Scheme:
	default:
		return nil, fmt.Errorf("invalid URL scheme %q", u.Scheme)
	}

	prefix := strings.Trim(u.Path, "/")

	cu := cleanCdkURL(*u, os.DirFS("/"))
	cu.Path = ""

	bucket, err := blob.OpenBucket(ctx, cu.String())
	if err != nil {
		return nil, fmt.Errorf("open bucket: %w", err)
	}

	if prefix != "" {
		bucket = blob.PrefixedBucket(bucket, prefix+"/")
	}

	return NewBucket(bucket), nil
}

// NewBucket returns a Store for an already-open bucket.
func NewBucket(bucket *blob.Bucket) *Store {
	return &Store{ctx: context.Background(), bucket: bucket}
}

// Opener is used to register this provider with a webasset.ProviderMux
//
//nolint:gochecknoglobals
var Opener = webasset.ProviderOpenerFunc(func(u *url.URL) (webasset.Provider, error) {
	s, err := New(context.Background(), u)
	if err != nil {
		return nil, err
	}

	return s, nil
}, s3blob.Scheme, gcsblob.Scheme, azureblob.Scheme, memblob.Scheme)

// WithContext returns a copy of the store that uses ctx for the operations
// that aren't given one (ReadDir and IsDir).
func (s *Store) WithContext(ctx context.Context) *Store {
	if ctx == nil {
		return s
	}

	store := *s
	store.ctx = ctx

	return &store
}

// Close closes the underlying bucket.
func (s *Store) Close() error {
	return s.bucket.Close()
}

func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	if !internal.ValidPath(name) || name == "." {
		return nil, &fs.PathError{Op: "load", Path: name, Err: fs.ErrInvalid}
	}

	b, err := s.bucket.ReadAll(ctx, name)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, &fs.PathError{Op: "load", Path: name, Err: fs.ErrNotExist}
	}

	if err != nil {
		return nil, &fs.PathError{Op: "load", Path: name, Err: err}
	}

	return b, nil
}

func dirPrefix(name string) string {
	if name == "." {
		return ""
	}

	return name + "/"
}

func (s *Store) ReadDir(name string) ([]string, error) {
	if !internal.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}

	prefix := dirPrefix(name)
	iter := s.bucket.List(&blob.ListOptions{Prefix: prefix, Delimiter: "/"})

	names := []string{}

	for {
		obj, err := iter.Next(s.ctx)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
		}

		entry := strings.TrimSuffix(strings.TrimPrefix(obj.Key, prefix), "/")
		if entry == "" {
			// a placeholder object for the directory itself
			continue
		}

		names = append(names, path.Join(name, entry))
	}

	if len(names) == 0 && name != "." {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	return names, nil
}

// IsDir reports whether any keys exist under the name.
func (s *Store) IsDir(name string) bool {
	if name == "." {
		return true
	}

	if !internal.ValidPath(name) {
		return false
	}

	list, _, err := s.bucket.ListPage(s.ctx, blob.FirstPageToken, 1, &blob.ListOptions{Prefix: dirPrefix(name)})

	return err == nil && len(list) > 0
}

// WatchPath is not supported - buckets provide no change notification.
func (s *Store) WatchPath(string) error {
	return webasset.ErrWatchUnsupported
}

// Watch is not supported - buckets provide no change notification.
func (s *Store) Watch() error {
	return webasset.ErrWatchUnsupported
}

// copy/sanitize the URL for the Go CDK - it doesn't like params it can't parse
func cleanCdkURL(u url.URL, envfs fs.FS) url.URL {
	switch u.Scheme {
	case s3blob.Scheme:
		return cleanS3URL(u, envfs)
	case gcsblob.Scheme:
		return keepParams(u, "access_id", "private_key_path", "anonymous")
	case azureblob.Scheme:
		return keepParams(u, "domain", "protocol", "localemu")
	default:
		return u
	}
}

func keepParams(u url.URL, params ...string) url.URL {
	q := u.Query()

	for param := range q {
		keep := false

		for _, p := range params {
			if param == p {
				keep = true

				break
			}
		}

		if !keep {
			q.Del(param)
		}
	}

	u.RawQuery = q.Encode()

	return u
}

func cleanS3URL(u url.URL, envfs fs.FS) url.URL {
	u = keepParams(u, "region", "endpoint", "disableSSL", "s3ForcePathStyle", "awssdk", "anonymous")
	q := u.Query()

	if q.Get("endpoint") == "" {
		endpoint := env.GetenvFS(envfs, "AWS_S3_ENDPOINT")
		if endpoint != "" {
			q.Set("endpoint", endpoint)
		}
	}

	if q.Get("region") == "" {
		region := env.GetenvFS(envfs, "AWS_REGION", env.GetenvFS(envfs, "AWS_DEFAULT_REGION"))
		if region != "" {
			q.Set("region", region)
		}
	}

	u.RawQuery = q.Encode()

	return u
}
