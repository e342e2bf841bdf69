package importer

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ScanDir lists the audio files directly inside dir, a slash-separated
// path under root. Subdirectories are not descended into and nothing
// outside root is reachable.
func ScanDir(root, dir string) ([]Item, error) {
	r, err := os.OpenRoot(root)
	if err != nil {
		return nil, fmt.Errorf("open media root: %w", err)
	}
	defer r.Close()

	dir = cleanRel(dir)
	entries, err := fs.ReadDir(r.FS(), dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var items []Item
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		rel := path.Join(dir, e.Name())
		items = append(items, Item{
			Name: e.Name(),
			Size: info.Size(),
			MIME: MIMEFor(e.Name()),
			Path: rel,
			Open: func() (io.ReadSeekCloser, error) {
				return os.OpenInRoot(root, filepath.FromSlash(rel))
			},
		})
	}
	return Filter(items), nil
}

// cleanRel turns user input like "/albums/x/" into "albums/x".
func cleanRel(dir string) string {
	dir = path.Clean("/" + strings.ReplaceAll(dir, "\\", "/"))
	dir = strings.TrimPrefix(dir, "/")
	if dir == "" {
		return "."
	}
	return dir
}
