package gitstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"path"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/hairyhenderson/go-git/v5"
	"github.com/hairyhenderson/go-git/v5/plumbing"
	"github.com/hairyhenderson/go-git/v5/plumbing/transport"
	"github.com/hairyhenderson/go-git/v5/plumbing/transport/client"
	"github.com/hairyhenderson/go-git/v5/storage/memory"
	"github.com/hairyhenderson/go-webasset"
	"github.com/hairyhenderson/go-webasset/internal"
	"github.com/sirupsen/logrus"
)

//nolint:gochecknoglobals
var schemes = []string{"git", "git+file", "git+http", "git+https", "git+ssh"}

var errIsDir = errors.New("is a directory")

// Store serves the assets in one ref of a git repository.
type Store struct {
	ctx  context.Context
	log  logrus.FieldLogger
	auth Authenticator

	// repo is the transport URL of the repository itself
	repo url.URL
	// root is the directory within the repository that the store serves
	root string

	mu   sync.Mutex
	tree billy.Filesystem
}

var _ webasset.Provider = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithAuthenticator sets how the store authenticates to the remote. The
// default is AutoAuthenticator.
func WithAuthenticator(auth Authenticator) Option {
	return func(s *Store) {
		if auth != nil {
			s.auth = auth
		}
	}
}

// WithLogger sets the logger used to report clones.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithContext sets the context for a clone started by ReadDir or IsDir, which
// aren't given one. Load clones with its own context.
func WithContext(ctx context.Context) Option {
	return func(s *Store) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// New returns a store for the repository, ref and directory described by u.
// Nothing is cloned until the store is first used.
func New(u *url.URL, opts ...Option) (*Store, error) {
	if !slices.Contains(schemes, u.Scheme) {
		return nil, fmt.Errorf("invalid URL scheme %q", u.Scheme)
	}

	s := &Store{
		ctx:  context.Background(),
		log:  logrus.StandardLogger(),
		auth: AutoAuthenticator(),
		repo: *u,
	}

	s.repo.Scheme = strings.TrimPrefix(u.Scheme, "git+")
	s.repo.Path, s.root = splitRepoPath(u.Path)

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Opener is used to register this provider with a webasset.ProviderMux
//
//nolint:gochecknoglobals
var Opener = webasset.ProviderOpenerFunc(func(u *url.URL) (webasset.Provider, error) {
	s, err := New(u)
	if err != nil {
		return nil, err
	}

	return s, nil
}, schemes...)

func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	if !internal.ValidPath(name) {
		return nil, &fs.PathError{Op: "load", Path: name, Err: fs.ErrInvalid}
	}

	tree, err := s.checkout(ctx)
	if err != nil {
		return nil, &fs.PathError{Op: "load", Path: name, Err: err}
	}

	fi, err := tree.Stat(name)
	if err != nil {
		return nil, pathError("load", name, err)
	}

	if fi.IsDir() {
		return nil, &fs.PathError{Op: "load", Path: name, Err: errIsDir}
	}

	f, err := tree.Open(name)
	if err != nil {
		return nil, pathError("load", name, err)
	}
	defer f.Close()

	return io.ReadAll(f)
}

func (s *Store) ReadDir(name string) ([]string, error) {
	if !internal.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}

	tree, err := s.checkout(s.ctx)
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
	}

	infos, err := tree.ReadDir(name)
	if err != nil {
		return nil, pathError("readdir", name, err)
	}

	names := make([]string, len(infos))
	for i, fi := range infos {
		names[i] = path.Join(name, fi.Name())
	}

	sort.Strings(names)

	return names, nil
}

func (s *Store) IsDir(name string) bool {
	if !internal.ValidPath(name) {
		return false
	}

	tree, err := s.checkout(s.ctx)
	if err != nil {
		s.log.WithError(err).WithField("path", name).Debug("clone failed")

		return false
	}

	fi, err := tree.Stat(name)

	return err == nil && fi.IsDir()
}

func (s *Store) WatchPath(string) error {
	return webasset.ErrWatchUnsupported
}

func (s *Store) Watch() error {
	return webasset.ErrWatchUnsupported
}

func pathError(op, name string, err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return &fs.PathError{Op: op, Path: name, Err: pe.Err}
	}

	return &fs.PathError{Op: op, Path: name, Err: err}
}

// checkout clones the repository the first time it's needed. A failed clone
// is retried on the next call.
func (s *Store) checkout(ctx context.Context) (billy.Filesystem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tree != nil {
		return s.tree, nil
	}

	depth := 1
	if s.repo.Scheme == "file" {
		// local transports can't make shallow clones
		depth = 0
	}

	bfs, _, err := s.clone(ctx, s.repo, depth)
	if err != nil {
		return nil, err
	}

	fi, err := bfs.Stat(s.root)
	if err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("directory %q not found in %s: %w", s.root, s.repo.Redacted(), fs.ErrNotExist)
	}

	tree, err := bfs.Chroot(s.root)
	if err != nil {
		return nil, err
	}

	s.tree = tree

	return tree, nil
}

// clone makes an in-memory clone of the repository at repoURL, which must not
// include a directory within the repository.
func (s *Store) clone(ctx context.Context, repoURL url.URL, depth int) (billy.Filesystem, *git.Repository, error) {
	u := repoURL

	authMethod, err := s.auth.Authenticate(&u)
	if err != nil {
		return nil, nil, err
	}

	ref := refFromURL(u)
	u.Fragment = ""
	u.RawQuery = ""

	if ref == "" {
		// go-git would otherwise assume 'master'
		ref, err = s.remoteHead(ctx, &u, authMethod)
		if err != nil {
			s.log.WithError(err).WithField("url", u.Redacted()).Debug("couldn't read remote HEAD, using default branch")
		}
	}

	log := s.log.WithFields(logrus.Fields{"url": u.Redacted(), "ref": ref.String(), "depth": depth})
	log.Debug("cloning repository")

	bfs := memfs.New()

	repo, err := git.CloneContext(ctx, memory.NewStorage(), bfs, &git.CloneOptions{
		URL:           u.String(),
		Auth:          authMethod,
		Depth:         depth,
		ReferenceName: ref,
		SingleBranch:  true,
		Tags:          git.NoTags,
	})

	if u.Scheme == "file" && errors.Is(err, transport.ErrRepositoryNotFound) && !strings.HasSuffix(u.Path, ".git") {
		// a work tree, rather than a bare repository
		repoURL.Path = path.Join(repoURL.Path, ".git")

		return s.clone(ctx, repoURL, depth)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("clone %s: %w", repoURL.Redacted(), err)
	}

	log.Debug("cloned repository")

	return bfs, repo, nil
}

// remoteHead finds the branch the remote's HEAD points to.
func (s *Store) remoteHead(ctx context.Context, u *url.URL, authMethod AuthMethod) (plumbing.ReferenceName, error) {
	e, err := transport.NewEndpoint(u.String())
	if err != nil {
		return "", err
	}

	cli, err := client.NewClient(e)
	if err != nil {
		return "", err
	}

	sess, err := cli.NewUploadPackSession(e, authMethod)
	if err != nil {
		return "", err
	}
	defer sess.Close()

	info, err := sess.AdvertisedReferencesContext(ctx)
	if err != nil {
		return "", err
	}

	refs, err := info.AllReferences()
	if err != nil {
		return "", err
	}

	head, ok := refs[plumbing.HEAD]
	if !ok {
		return "", errors.New("remote has no HEAD")
	}

	return head.Target(), nil
}

// splitRepoPath separates the repository path from the directory within the
// repository, at the first "//".
func splitRepoPath(p string) (repo, dir string) {
	repo, dir, _ = strings.Cut(p, "//")

	return repo, "/" + strings.TrimSuffix(dir, "/")
}

// refFromURL reads the branch or tag named by the URL fragment.
func refFromURL(u url.URL) plumbing.ReferenceName {
	switch {
	case u.Fragment == "":
		return ""
	case strings.HasPrefix(u.Fragment, "refs/"):
		return plumbing.ReferenceName(u.Fragment)
	default:
		return plumbing.NewBranchReferenceName(u.Fragment)
	}
}
