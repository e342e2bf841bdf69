// Package blob hands out object URLs for local audio and releases the
// backing content exactly once.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// URLPrefix is the path under which object URLs are served.
const URLPrefix = "/blobs/"

// ErrNotFound is returned for unknown or released objects.
var ErrNotFound = errors.New("blob not found")

// Content is an opened object ready for range serving.
type Content struct {
	Body        io.ReadSeekCloser
	Name        string
	ContentType string
	Size        int64
	ModTime     time.Time
}

// Backend stores uploaded content.
type Backend interface {
	Put(ctx context.Context, id string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, id string) (Content, error)
	Remove(ctx context.Context, id string) error
	Close() error
}

type entry struct {
	name        string
	contentType string
	open        func(ctx context.Context) (Content, error)
	remove      func(ctx context.Context) error
}

// Registry maps object URL ids to content.
type Registry struct {
	mu      sync.Mutex
	backend Backend
	entries map[string]*entry
	newID   func() string
}

// NewRegistry creates a registry storing uploads in backend.
func NewRegistry(backend Backend) *Registry {
	return &Registry{
		backend: backend,
		entries: make(map[string]*entry),
		newID:   uuid.NewString,
	}
}

// Handle is one live object URL.
type Handle struct {
	reg *Registry
	id  string
}

// ID returns the object id.
func (h *Handle) ID() string { return h.id }

// URL returns the object URL path.
func (h *Handle) URL() string { return URLPrefix + h.id }

// Release drops the object. Releasing twice is a no-op.
func (h *Handle) Release() error {
	_, err := h.reg.Release(context.Background(), h.id)
	return err
}

// Upload copies r into the backend and returns a handle to it.
func (r *Registry) Upload(ctx context.Context, name, contentType string, size int64, body io.Reader) (*Handle, error) {
	id := r.newID()
	if err := r.backend.Put(ctx, id, body, size, contentType); err != nil {
		return nil, fmt.Errorf("store %s: %w", name, err)
	}
	r.add(id, &entry{
		name:        name,
		contentType: contentType,
		open: func(ctx context.Context) (Content, error) {
			c, err := r.backend.Open(ctx, id)
			if err != nil {
				return Content{}, err
			}
			c.Name = name
			if c.ContentType == "" {
				c.ContentType = contentType
			}
			return c, nil
		},
		remove: func(ctx context.Context) error { return r.backend.Remove(ctx, id) },
	})
	return &Handle{reg: r, id: id}, nil
}

// Alias exposes a file under root without copying it. Releasing the handle
// drops only the URL, never the file.
func (r *Registry) Alias(root, rel, contentType string) (*Handle, error) {
	native := filepath.FromSlash(rel)
	f, err := os.OpenInRoot(root, native)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	f.Close()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", rel)
	}

	id := r.newID()
	name := filepath.Base(native)
	r.add(id, &entry{
		name:        name,
		contentType: contentType,
		open: func(context.Context) (Content, error) {
			f, err := os.OpenInRoot(root, native)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return Content{}, ErrNotFound
				}
				return Content{}, err
			}
			info, err := f.Stat()
			if err != nil {
				f.Close()
				return Content{}, err
			}
			return Content{Body: f, Name: name, ContentType: contentType, Size: info.Size(), ModTime: info.ModTime()}, nil
		},
	})
	return &Handle{reg: r, id: id}, nil
}

func (r *Registry) add(id string, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = e
}

// Open opens the content behind id.
func (r *Registry) Open(ctx context.Context, id string) (Content, error) {
	r.mu.Lock()
	e, ok := r.entries[id]
	r.mu.Unlock()
	if !ok {
		return Content{}, ErrNotFound
	}
	return e.open(ctx)
}

// IDFromURL extracts the object id from an object URL.
func IDFromURL(u string) (string, bool) {
	id, ok := strings.CutPrefix(u, URLPrefix)
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// Release drops id and its stored content. It reports false when id was
// unknown or already released.
func (r *Registry) Release(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()
	if !ok {
		return false, nil
	}
	if e.remove == nil {
		return true, nil
	}
	if err := e.remove(ctx); err != nil && !errors.Is(err, ErrNotFound) {
		return true, fmt.Errorf("remove %s: %w", e.name, err)
	}
	return true, nil
}

// Len returns the number of live objects.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close releases every live object and closes the backend.
func (r *Registry) Close() error {
	r.mu.Lock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	var errs []error
	for _, id := range ids {
		if _, err := r.Release(context.Background(), id); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, r.backend.Close())
	return errors.Join(errs...)
}
