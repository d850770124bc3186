// Package localfs provides a [webasset.Provider] for assets stored on the local
// filesystem, with change notification.
//
// Most programs will use [New] with a file: URL, or [NewDir] with a
// directory. Any other [fs.FS] (such as an [embed.FS]) can be served with
// [NewFS], though such providers can't watch for changes.
//
// Changes are watched with fsnotify. After [FS.WatchPath] or [FS.Watch] has
// been called, the relative paths of changed assets are delivered on the
// channel returned by [FS.Changes]. Call [FS.Close] to stop watching.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/hairyhenderson/go-webasset"
	"github.com/hairyhenderson/go-webasset/internal"
	"github.com/sirupsen/logrus"
)

// changeBuffer is the number of change notifications held for a slow reader
// before further notifications are dropped.
const changeBuffer = 64

// FS serves assets from a local directory tree.
type FS struct {
	fsys fs.FS
	log  logrus.FieldLogger

	// root is the OS path of the directory, or empty when fsys isn't backed by
	// a directory
	root string

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	watchAll bool
	closed   bool
	changes  chan string
	done     chan struct{}
}

// Option configures an FS.
type Option func(*FS)

// WithLogger sets the logger used for watch diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(f *FS) {
		if log != nil {
			f.log = log
		}
	}
}

// New returns a provider for the tree of files rooted at the directory
// referenced by the file: URL u. Windows paths and UNC shares are supported.
func New(u *url.URL, opts ...Option) (*FS, error) {
	if u.Scheme != "file" && u.Scheme != "" {
		return nil, fmt.Errorf("invalid URL scheme %q", u.Scheme)
	}

	root := pathForDirFS(u)
	if root == "" {
		return nil, fmt.Errorf("no directory in URL %q", u.String())
	}

	return NewDir(root, opts...), nil
}

// NewDir returns a provider for the tree of files rooted at the directory
// root.
func NewDir(root string, opts ...Option) *FS {
	f := newFS(os.DirFS(root), opts...)
	f.root = root

	return f
}

// NewFS returns a provider serving the given filesystem. Watching is not
// supported.
func NewFS(fsys fs.FS, opts ...Option) *FS {
	return newFS(fsys, opts...)
}

func newFS(fsys fs.FS, opts ...Option) *FS {
	f := &FS{
		fsys:    fsys,
		log:     logrus.StandardLogger(),
		changes: make(chan string, changeBuffer),
		done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Opener is used to register this provider with a webasset.ProviderMux
//
//nolint:gochecknoglobals
var Opener = webasset.ProviderOpenerFunc(func(u *url.URL) (webasset.Provider, error) {
	f, err := New(u)
	if err != nil {
		return nil, err
	}

	return f, nil
}, "file")

// FSOpener returns an opener that serves fsys (typically an [embed.FS]) for
// the given schemes. The URL's path selects a directory within fsys, so with
// the scheme "embed", "embed:///assets" serves the assets directory.
func FSOpener(fsys fs.FS, schemes ...string) webasset.ProviderOpener {
	return webasset.ProviderOpenerFunc(func(u *url.URL) (webasset.Provider, error) {
		dir := strings.Trim(u.Path, "/")
		if dir == "" || dir == "." {
			return NewFS(fsys), nil
		}

		if !internal.ValidPath(dir) {
			return nil, &fs.PathError{Op: "open", Path: u.Path, Err: fs.ErrInvalid}
		}

		sub, err := fs.Sub(fsys, dir)
		if err != nil {
			return nil, err
		}

		return NewFS(sub), nil
	}, schemes...)
}

// return the correct filesystem path for the given URL. Supports Windows paths
// and UNCs as well
func pathForDirFS(u *url.URL) string {
	if u.Path == "" {
		return ""
	}

	rootPath := u.Path
	if len(rootPath) >= 3 {
		if rootPath[0] == '/' && rootPath[2] == ':' {
			rootPath = rootPath[1:]
		}
	}

	// a file:// URL with a host part should be interpreted as a UNC
	switch u.Host {
	case ".":
		rootPath = "//./" + rootPath
	case "":
		// nothin'
	default:
		rootPath = "//" + u.Host + rootPath
	}

	return rootPath
}

var _ webasset.Provider = (*FS)(nil)

func (f *FS) Load(ctx context.Context, name string) ([]byte, error) {
	if !internal.ValidPath(name) {
		return nil, &fs.PathError{Op: "load", Path: name, Err: fs.ErrInvalid}
	}

	if err := ctx.Err(); err != nil {
		return nil, &fs.PathError{Op: "load", Path: name, Err: err}
	}

	return fs.ReadFile(f.fsys, name)
}

func (f *FS) ReadDir(name string) ([]string, error) {
	des, err := fs.ReadDir(f.fsys, name)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(des))
	for i, de := range des {
		names[i] = path.Join(name, de.Name())
	}

	return names, nil
}

func (f *FS) IsDir(name string) bool {
	fi, err := fs.Stat(f.fsys, name)

	return err == nil && fi.IsDir()
}

// WatchPath starts watching the named file or directory (but not its
// subdirectories) for changes.
func (f *FS) WatchPath(name string) error {
	if !internal.ValidPath(name) {
		return &fs.PathError{Op: "watch", Path: name, Err: fs.ErrInvalid}
	}

	w, err := f.ensureWatcher()
	if err != nil {
		return err
	}

	if err := w.Add(f.osPath(name)); err != nil {
		return &fs.PathError{Op: "watch", Path: name, Err: err}
	}

	return nil
}

// Watch starts watching every directory in the tree for changes. Directories
// created later are watched as they appear.
func (f *FS) Watch() error {
	w, err := f.ensureWatcher()
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.watchAll = true
	f.mu.Unlock()

	return f.addTree(w, ".")
}

// addTree watches dir and all directories below it.
func (f *FS) addTree(w *fsnotify.Watcher, dir string) error {
	return fs.WalkDir(f.fsys, dir, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if err := w.Add(f.osPath(name)); err != nil {
			return &fs.PathError{Op: "watch", Path: name, Err: err}
		}

		return nil
	})
}

// Changes returns the channel on which changed asset paths are delivered. The
// channel is closed by Close.
func (f *FS) Changes() <-chan string {
	return f.changes
}

// Close stops watching for changes.
func (f *FS) Close() error {
	f.mu.Lock()

	if f.closed {
		f.mu.Unlock()

		return nil
	}

	f.closed = true
	close(f.done)

	w := f.watcher
	f.mu.Unlock()

	if w == nil {
		close(f.changes)

		return nil
	}

	// the event loop closes the changes channel once the watcher stops
	return w.Close()
}

func (f *FS) osPath(name string) string {
	return filepath.Join(f.root, filepath.FromSlash(name))
}

func (f *FS) ensureWatcher() (*fsnotify.Watcher, error) {
	if f.root == "" {
		return nil, webasset.ErrWatchUnsupported
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, errors.New("provider closed")
	}

	if f.watcher != nil {
		return f.watcher, nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("new watcher: %w", err)
	}

	f.watcher = w

	go f.loop(w)

	return w, nil
}

func (f *FS) loop(w *fsnotify.Watcher) {
	defer close(f.changes)

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}

			f.handle(w, ev)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}

			f.log.WithError(err).Warn("watch error")
		}
	}
}

func (f *FS) handle(w *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}

	rel, err := filepath.Rel(f.root, ev.Name)
	if err != nil {
		f.log.WithError(err).WithField("event", ev.String()).Warn("change outside of root")

		return
	}

	name := filepath.ToSlash(rel)

	f.mu.Lock()
	watchAll := f.watchAll
	f.mu.Unlock()

	if watchAll && ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := f.addTree(w, name); err != nil {
				f.log.WithError(err).WithField("path", name).Warn("couldn't watch new directory")
			}
		}
	}

	select {
	case f.changes <- name:
	case <-f.done:
	default:
		f.log.WithField("path", name).Warn("dropping change notification")
	}
}
