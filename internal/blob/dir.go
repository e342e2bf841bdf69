package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// DirBackend keeps uploads as files in a directory.
type DirBackend struct {
	dir   string
	owned bool
}

// NewDirBackend stores files in dir, creating it if needed. An empty dir
// uses a fresh temporary directory that Close removes.
func NewDirBackend(dir string) (*DirBackend, error) {
	if dir == "" {
		tmp, err := os.MkdirTemp("", "musicsite-blobs-*")
		if err != nil {
			return nil, fmt.Errorf("create blob dir: %w", err)
		}
		return &DirBackend{dir: tmp, owned: true}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &DirBackend{dir: dir}, nil
}

// Dir returns the storage directory.
func (d *DirBackend) Dir() string { return d.dir }

func (d *DirBackend) path(id string) string {
	return filepath.Join(d.dir, filepath.Base(id))
}

func (d *DirBackend) Put(_ context.Context, id string, r io.Reader, _ int64, _ string) error {
	f, err := os.CreateTemp(d.dir, ".upload-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, d.path(id))
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (d *DirBackend) Open(_ context.Context, id string) (Content, error) {
	f, err := os.Open(d.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return Content{}, ErrNotFound
	}
	if err != nil {
		return Content{}, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return Content{}, err
	}
	return Content{Body: f, Size: info.Size(), ModTime: info.ModTime()}, nil
}

func (d *DirBackend) Remove(_ context.Context, id string) error {
	err := os.Remove(d.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

// Close removes the directory when it was created by NewDirBackend.
func (d *DirBackend) Close() error {
	if !d.owned {
		return nil
	}
	return os.RemoveAll(d.dir)
}
