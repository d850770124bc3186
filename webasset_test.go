package webasset

import (
	"context"
	"errors"
	"io/fs"
	"sync/atomic"
	"testing"

	"github.com/hairyhenderson/go-webasset/internal/tests"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFetcher serves fixed content per URL, and records the URLs requested.
type mockFetcher struct {
	content map[string][]byte
	calls   atomic.Int32
	last    atomic.Value
}

func (m *mockFetcher) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	m.calls.Add(1)
	m.last.Store(rawURL)

	b, ok := m.content[rawURL]
	if !ok {
		return nil, &FetchError{URL: rawURL, StatusCode: 404}
	}

	return b, nil
}

func setupFS(t *testing.T, opts ...Option) (*FS, *tests.Provider, *mockFetcher) {
	t.Helper()

	local := tests.NewProvider(map[string][]byte{
		"hello.txt":            []byte("hello world"),
		"textures/a.png":       {0x89, 'P', 'N', 'G'},
		"textures/sub/b.png":   {0x89, 'P', 'N', 'G'},
		"http:/not-a-url.txt":  []byte("local"),
		"{origin}/x.bin":       []byte("local origin file"),
		"models/{origin}/y.gl": []byte("gltf"),
	})

	fetcher := &mockFetcher{content: map[string][]byte{
		"https://example.com/a.bin": {1, 2, 3},
		"http://example.com/b.bin":  {4, 5, 6},
		"https://host.test/x.bin":   {7, 8, 9},
	}}

	return New(local, fetcher, opts...), local, fetcher
}

func TestFS_Load_Remote(t *testing.T) {
	ctx := context.Background()
	fsys, local, fetcher := setupFS(t)

	b, err := fsys.Load(ctx, "https://example.com/a.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b)

	b, err = fsys.Load(ctx, "http://example.com/b.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 5, 6}, b)

	assert.Equal(t, int32(2), fetcher.calls.Load())
	assert.Empty(t, local.Calls())
}

func TestFS_Load_RemoteFailure(t *testing.T) {
	fsys, local, _ := setupFS(t)

	_, err := fsys.Load(context.Background(), "https://example.com/missing.bin")
	require.Error(t, err)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "https://example.com/missing.bin", nf.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 404, fe.StatusCode)

	assert.Empty(t, local.Calls())
}

func TestFS_Load_OriginRelative(t *testing.T) {
	fsys, local, fetcher := setupFS(t, WithOrigin(StaticOrigin("https://host.test")))

	b, err := fsys.Load(context.Background(), "{origin}/x.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 8, 9}, b)
	assert.Equal(t, "https://host.test/x.bin", fetcher.last.Load())
	assert.Empty(t, local.Calls())

	t.Run("failure references the requested name", func(t *testing.T) {
		_, err := fsys.Load(context.Background(), "{origin}/nope.bin")

		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "{origin}/nope.bin", nf.Path)
		assert.Equal(t, "https://host.test/nope.bin", fetcher.last.Load())
	})
}

func TestFS_Load_OriginUnsupported(t *testing.T) {
	fsys, local, fetcher := setupFS(t)

	_, err := fsys.Load(context.Background(), "{origin}/x.bin")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOriginUnsupported)
	assert.NotErrorIs(t, err, fs.ErrNotExist)

	var nf *NotFoundError
	assert.False(t, errors.As(err, &nf))

	assert.Equal(t, int32(0), fetcher.calls.Load())
	assert.Empty(t, local.Calls())
}

func TestFS_Load_Local(t *testing.T) {
	ctx := context.Background()
	fsys, local, fetcher := setupFS(t)

	for _, name := range []string{"hello.txt", "textures/a.png", "http:/not-a-url.txt", "missing.txt"} {
		expected, expectedErr := local.Load(ctx, name)
		actual, err := fsys.Load(ctx, name)

		assert.Equal(t, expected, actual, name)
		assert.Equal(t, expectedErr, err, name)
	}

	assert.Equal(t, int32(0), fetcher.calls.Load())
}

func TestFS_ReadDir(t *testing.T) {
	fsys, local, _ := setupFS(t)

	for _, name := range []string{".", "textures", "missing", "https://example.com/", "{origin}"} {
		expected, expectedErr := local.ReadDir(name)
		actual, err := fsys.ReadDir(name)

		assert.Equal(t, expected, actual, name)
		assert.Equal(t, expectedErr, err, name)
	}

	des, err := fsys.ReadDir("textures")
	require.NoError(t, err)
	assert.Equal(t, []string{"textures/a.png", "textures/sub"}, des)
}

func TestFS_WatchPath(t *testing.T) {
	fsys, local, _ := setupFS(t)

	require.NoError(t, fsys.WatchPath("https://example.com/a.bin"))
	require.NoError(t, fsys.WatchPath("http://example.com/b.bin"))
	assert.Empty(t, local.Calls())

	require.NoError(t, fsys.WatchPath("hello.txt"))
	require.NoError(t, fsys.WatchPath("{origin}/x.bin"))
	assert.Equal(t, []tests.Call{
		{Op: "WatchPath", Name: "hello.txt"},
		{Op: "WatchPath", Name: "{origin}/x.bin"},
	}, local.Calls())

	local.WatchErr = ErrWatchUnsupported

	assert.ErrorIs(t, fsys.WatchPath("hello.txt"), ErrWatchUnsupported)
	assert.NoError(t, fsys.WatchPath("https://example.com/a.bin"))
}

func TestFS_Watch(t *testing.T) {
	fsys, local, _ := setupFS(t)

	require.NoError(t, fsys.Watch())
	assert.Equal(t, []tests.Call{{Op: "Watch"}}, local.Calls())

	local.WatchErr = ErrWatchUnsupported
	assert.ErrorIs(t, fsys.Watch(), ErrWatchUnsupported)
}

func TestFS_IsDir(t *testing.T) {
	fsys, local, _ := setupFS(t)

	assert.False(t, fsys.IsDir("https://example.com/"))
	assert.False(t, fsys.IsDir("http://example.com/dir/"))
	assert.Empty(t, local.Calls())

	for _, name := range []string{".", "textures", "textures/sub", "hello.txt", "missing", "models/{origin}", "{origin}"} {
		assert.Equal(t, local.IsDir(name), fsys.IsDir(name), name)
	}

	assert.True(t, fsys.IsDir("textures"))
	assert.False(t, fsys.IsDir("hello.txt"))
}

func TestFS_Wrapped(t *testing.T) {
	fsys, local, _ := setupFS(t)

	assert.Same(t, local, fsys.Wrapped())
}

func TestFS_Logging(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	fsys, _, _ := setupFS(t, WithLogger(logger))

	_, err := fsys.Load(context.Background(), "https://example.com/a.bin")
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "fetched remote asset", entry.Message)
	assert.Equal(t, "https://example.com/a.bin", entry.Data["url"])
	assert.Equal(t, 3, entry.Data["bytes"])
	assert.Equal(t, "remote-absolute", entry.Data["kind"])
}

func TestFS_LoadAsync(t *testing.T) {
	fsys, _, _ := setupFS(t)
	ctx := context.Background()

	ch1 := fsys.LoadAsync(ctx, "https://example.com/a.bin")
	ch2 := fsys.LoadAsync(ctx, "hello.txt")
	ch3 := fsys.LoadAsync(ctx, "https://example.com/missing")

	r := <-ch1
	require.NoError(t, r.Err)
	assert.Equal(t, []byte{1, 2, 3}, r.Data)
	assert.Equal(t, "https://example.com/a.bin", r.Name)

	r = <-ch2
	require.NoError(t, r.Err)
	assert.Equal(t, "hello world", string(r.Data))

	r = <-ch3
	assert.ErrorIs(t, r.Err, fs.ErrNotExist)

	// the channel is closed after the one result
	_, ok := <-ch1
	assert.False(t, ok)
}

func TestFS_LoadAll(t *testing.T) {
	fsys, _, _ := setupFS(t)

	results := fsys.LoadAll(context.Background(),
		"https://example.com/a.bin",
		"missing.txt",
		"hello.txt",
		"{origin}/x.bin",
	)
	require.Len(t, results, 4)

	assert.Equal(t, []byte{1, 2, 3}, results[0].Data)
	assert.NoError(t, results[0].Err)

	assert.Equal(t, "missing.txt", results[1].Name)
	assert.ErrorIs(t, results[1].Err, fs.ErrNotExist)

	assert.Equal(t, "hello world", string(results[2].Data))

	assert.ErrorIs(t, results[3].Err, ErrOriginUnsupported)
}

func TestStaticOrigin(t *testing.T) {
	o, err := StaticOrigin("https://host.test/").Origin()
	require.NoError(t, err)
	assert.Equal(t, "https://host.test", o)

	_, err = NoOrigin.Origin()
	assert.ErrorIs(t, err, ErrOriginUnsupported)
}

func TestWithOrigin_Nil(t *testing.T) {
	fsys, _, _ := setupFS(t, WithOrigin(nil), WithLogger(nil))

	assert.Equal(t, NoOrigin, fsys.origin)
	assert.NotNil(t, fsys.log)
}

func TestNew_NilFetcher(t *testing.T) {
	local := tests.NewProvider(map[string][]byte{"hello.txt": []byte("hi")})
	fsys := New(local, nil, WithOrigin(StaticOrigin("https://host.test")))

	ctx := context.Background()

	for _, name := range []string{"https://example.com/a.bin", "{origin}/x.bin"} {
		_, err := fsys.Load(ctx, name)
		require.ErrorIs(t, err, fs.ErrNotExist)
		require.ErrorIs(t, err, ErrNoFetcher)

		var nf *NotFoundError

		require.ErrorAs(t, err, &nf)
		assert.Equal(t, name, nf.Path)
	}

	b, err := fsys.Load(ctx, "hello.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), b)
}
