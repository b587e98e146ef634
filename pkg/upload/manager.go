// Package upload owns the stored-blob lifecycle: content-addressed-by-random-id
// filenames under a single content root, absolute URL materialization against
// the configured public origin, and best-effort cleanup of superseded blobs.
package upload

import (
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const thumbSuffix = "_thumb"

// Manager writes and removes blobs under a content root and builds the URLs
// stored in database rows. Filenames are fresh uuids, so concurrent stores
// never collide and the original filename carries no meaning on disk.
type Manager struct {
	root    string
	baseURL string
	log     *zap.Logger
}

// New creates the content root if needed. baseURL is the public prefix under
// which the root is served, e.g. "http://host:8000/uploads/client_images".
func New(root, baseURL string, log *zap.Logger) (*Manager, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create content root %s: %w", root, err)
	}
	return &Manager{root: root, baseURL: strings.TrimRight(baseURL, "/"), log: log}, nil
}

// Store writes the stream under a fresh random name, preserving the original
// extension (".jpg" when absent), and returns the blob's absolute URL.
// Nothing is written to the database here; callers must store first and
// commit rows only after Store succeeds.
func (m *Manager) Store(r io.Reader, originalName string) (string, error) {
	name := uuid.NewString() + extension(originalName)
	full := filepath.Join(m.root, name)
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create blob %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("write blob %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("close blob %s: %w", name, err)
	}
	return m.baseURL + "/" + name, nil
}

// StoreMultipart stores one part of a multipart form.
func (m *Manager) StoreMultipart(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()
	return m.Store(src, fh.Filename)
}

// StoreWithThumb stores an image and, when it decodes, a 256px JPEG
// thumbnail next to it named <id>_thumb.jpg. Non-decodable files are kept
// without a thumbnail. The thumbnail shares the blob's lifecycle: Delete on
// the returned URL removes both.
func (m *Manager) StoreWithThumb(fh *multipart.FileHeader) (string, error) {
	url, err := m.StoreMultipart(fh)
	if err != nil {
		return "", err
	}
	full := filepath.Join(m.root, path.Base(url))
	img, err := imaging.Open(full)
	if err != nil {
		m.log.Debug("no thumbnail generated", zap.String("blob", path.Base(url)), zap.Error(err))
		return url, nil
	}
	thumb := imaging.Fit(img, 256, 256, imaging.Lanczos)
	if err := m.saveThumb(full, thumb); err != nil {
		m.log.Warn("thumbnail write failed", zap.String("blob", path.Base(url)), zap.Error(err))
	}
	return url, nil
}

func (m *Manager) saveThumb(full string, thumb image.Image) error {
	return imaging.Save(thumb, thumbPath(full), imaging.JPEGQuality(85))
}

// Replace stores the new file first; only after that write succeeds is the
// old blob removed. Old-blob deletion failure is logged, never fatal: the
// new URL is authoritative regardless.
func (m *Manager) Replace(oldURL string, fh *multipart.FileHeader) (string, error) {
	url, err := m.StoreMultipart(fh)
	if err != nil {
		return "", err
	}
	m.Delete(oldURL)
	return url, nil
}

// Delete removes the blob a URL points at, plus its thumbnail when one
// exists. Idempotent: a missing blob is not an error.
func (m *Manager) Delete(url string) {
	if url == "" {
		return
	}
	name := path.Base(url)
	full := filepath.Join(m.root, filepath.Base(name))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		m.log.Warn("blob delete failed", zap.String("blob", name), zap.Error(err))
	}
	if err := os.Remove(thumbPath(full)); err != nil && !os.IsNotExist(err) {
		m.log.Warn("thumbnail delete failed", zap.String("blob", name), zap.Error(err))
	}
}

// DeleteAll deletes every blob in the list.
func (m *Manager) DeleteAll(urls []string) {
	for _, u := range urls {
		m.Delete(u)
	}
}

// Reconcile computes a keep-subset edit to an ordered URL list: the final
// list is keep followed by the freshly stored URLs, and removed holds every
// current blob that fell out of keep (matched by filename). Nothing is
// deleted here. Callers delete removed only after the row carrying the
// final list has committed, and delete added instead when the commit fails,
// so a committed row never references a missing blob.
func (m *Manager) Reconcile(current, keep, added []string) (final, removed []string) {
	kept := make(map[string]bool, len(keep))
	for _, u := range keep {
		kept[path.Base(u)] = true
	}
	for _, u := range current {
		if !kept[path.Base(u)] {
			removed = append(removed, u)
		}
	}
	final = make([]string, 0, len(keep)+len(added))
	final = append(final, keep...)
	return append(final, added...), removed
}

// Rebase rewrites a stored URL onto the currently configured origin. Records
// written under an old deployment origin keep resolving after a move: only
// the trailing filename is trusted.
func (m *Manager) Rebase(url string) string {
	if url == "" {
		return ""
	}
	return m.baseURL + "/" + path.Base(url)
}

// RebaseAll rebases every URL in a list, preserving order.
func (m *Manager) RebaseAll(urls []string) []string {
	out := make([]string, len(urls))
	for i, u := range urls {
		out[i] = m.Rebase(u)
	}
	return out
}

// Exists reports whether the blob behind a URL is present on disk.
func (m *Manager) Exists(url string) bool {
	_, err := os.Stat(filepath.Join(m.root, filepath.Base(path.Base(url))))
	return err == nil
}

func extension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = ".jpg"
	}
	return ext
}

func thumbPath(full string) string {
	ext := filepath.Ext(full)
	return strings.TrimSuffix(full, ext) + thumbSuffix + ".jpg"
}
