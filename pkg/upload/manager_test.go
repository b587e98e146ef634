package upload

import (
	"bytes"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := New(t.TempDir(), "http://test.local/uploads/client_images", zap.NewNop())
	require.NoError(t, err)
	return m
}

func TestStoreAndDelete(t *testing.T) {
	m := newTestManager(t)

	url, err := m.Store(strings.NewReader("content"), "photo.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://test.local/uploads/client_images/"))
	assert.True(t, strings.HasSuffix(url, ".png"))
	assert.True(t, m.Exists(url))

	data, err := os.ReadFile(filepath.Join(m.root, path.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	m.Delete(url)
	assert.False(t, m.Exists(url))

	// deleting again is a no-op
	m.Delete(url)
}

func TestStoreDefaultsExtension(t *testing.T) {
	m := newTestManager(t)

	url, err := m.Store(strings.NewReader("x"), "no-extension")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".jpg"))
}

func TestStoreNamesNeverCollide(t *testing.T) {
	m := newTestManager(t)

	a, err := m.Store(strings.NewReader("a"), "same.jpg")
	require.NoError(t, err)
	b, err := m.Store(strings.NewReader("b"), "same.jpg")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.True(t, m.Exists(a))
	assert.True(t, m.Exists(b))
}

func TestReplaceLeavesSingleBlob(t *testing.T) {
	m := newTestManager(t)

	oldURL, err := m.Store(strings.NewReader("old"), "old.jpg")
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	w, err := mw.CreateFormFile("file", "new.png")
	require.NoError(t, err)
	_, err = w.Write([]byte("new"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	reader := multipart.NewReader(buf, mw.Boundary())
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)
	fh := form.File["file"][0]

	newURL, err := m.Replace(oldURL, fh)
	require.NoError(t, err)
	assert.NotEqual(t, oldURL, newURL)
	assert.False(t, m.Exists(oldURL), "superseded blob must be gone")
	assert.True(t, m.Exists(newURL))

	entries, err := os.ReadDir(m.root)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReconcile(t *testing.T) {
	m := newTestManager(t)

	a, err := m.Store(strings.NewReader("a"), "a.jpg")
	require.NoError(t, err)
	b, err := m.Store(strings.NewReader("b"), "b.jpg")
	require.NoError(t, err)
	cc, err := m.Store(strings.NewReader("c"), "c.jpg")
	require.NoError(t, err)
	d, err := m.Store(strings.NewReader("d"), "d.jpg")
	require.NoError(t, err)

	final, removed := m.Reconcile([]string{a, b, cc}, []string{a, cc}, []string{d})

	assert.Equal(t, []string{a, cc, d}, final)
	assert.Equal(t, []string{b}, removed)

	// computation only: the dropped blob stays on disk until the caller
	// confirms the row committed
	assert.True(t, m.Exists(b))

	m.DeleteAll(removed)
	assert.True(t, m.Exists(a))
	assert.False(t, m.Exists(b))
	assert.True(t, m.Exists(cc))
	assert.True(t, m.Exists(d))
}

func TestReconcileKeepMatchesByFilename(t *testing.T) {
	m := newTestManager(t)

	a, err := m.Store(strings.NewReader("a"), "a.jpg")
	require.NoError(t, err)

	// a keep list written under another origin still protects the blob
	moved := "https://old-deploy.example.com/uploads/client_images/" + path.Base(a)
	final, removed := m.Reconcile([]string{a}, []string{moved}, nil)

	assert.Equal(t, []string{moved}, final)
	assert.Empty(t, removed)
	assert.True(t, m.Exists(a))
}

func TestRebase(t *testing.T) {
	m := newTestManager(t)

	got := m.Rebase("https://old-deploy.example.com/uploads/client_images/abc.jpg")
	assert.Equal(t, "http://test.local/uploads/client_images/abc.jpg", got)

	assert.Equal(t, "", m.Rebase(""))

	urls := m.RebaseAll([]string{
		"https://old.example.com/x/one.jpg",
		"http://test.local/uploads/client_images/two.png",
	})
	assert.Equal(t, []string{
		"http://test.local/uploads/client_images/one.jpg",
		"http://test.local/uploads/client_images/two.png",
	}, urls)
}
