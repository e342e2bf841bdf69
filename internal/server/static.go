package server

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// mimeTypes maps file extensions to the Content-Type served for them.
var mimeTypes = map[string]string{
	".html":        "text/html; charset=utf-8",
	".css":         "text/css; charset=utf-8",
	".js":          "text/javascript; charset=utf-8",
	".json":        "application/json; charset=utf-8",
	".png":         "image/png",
	".jpg":         "image/jpeg",
	".jpeg":        "image/jpeg",
	".svg":         "image/svg+xml",
	".webmanifest": "application/manifest+json",
	".mp3":         "audio/mpeg",
	".ogg":         "audio/ogg",
	".wav":         "audio/wav",
	".flac":        "audio/flac",
	".lrc":         "text/plain; charset=utf-8",
}

const defaultMIME = "application/octet-stream"

// contentTypeFor returns the Content-Type for a file name.
func contentTypeFor(name string) string {
	if t, ok := mimeTypes[strings.ToLower(path.Ext(name))]; ok {
		return t
	}
	return defaultMIME
}

// noCache lists assets that must be revalidated on every load so a new
// service worker cache version reaches the page.
var noCache = map[string]bool{
	"/sw.js": true,
}

var rangeHeader = regexp.MustCompile(`^bytes=(\d+)-(\d+)?`)

// staticHandler serves files below a root directory with single byte-range
// support: 206 with Content-Range for "bytes=start-end", 200 otherwise,
// 404 for missing files and directories, 403 for paths leaving the root.
type staticHandler struct {
	root *os.Root
}

func newStaticHandler(dir string) (*staticHandler, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open web root: %w", err)
	}
	return &staticHandler{root: root}, nil
}

func (h *staticHandler) Close() error {
	return h.root.Close()
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reqPath := r.URL.Path
	if reqPath == "/" || reqPath == "" {
		reqPath = "/index.html"
	}
	rel := filepath.FromSlash(strings.TrimPrefix(reqPath, "/"))
	if !filepath.IsLocal(rel) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	f, err := h.root.Open(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		// Symlinks out of the root and unreadable files.
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", contentTypeFor(reqPath))
	hdr.Set("Accept-Ranges", "bytes")
	if noCache[reqPath] {
		hdr.Set("Cache-Control", "no-cache")
	}

	size := info.Size()
	start, end, partial, ok := parseRange(r.Header.Get("Range"), size)
	if !ok {
		hdr.Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, "Range not satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return
	}
	if !partial {
		hdr.Set("Content-Length", strconv.FormatInt(size, 10))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = io.Copy(w, f)
		}
		return
	}

	length := end - start + 1
	hdr.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
	hdr.Set("Content-Length", strconv.FormatInt(length, 10))
	w.WriteHeader(http.StatusPartialContent)
	if r.Method == http.MethodGet {
		_, _ = io.Copy(w, io.NewSectionReader(f, start, length))
	}
}

// parseRange interprets a Range header against a file size. Headers that
// do not look like "bytes=start-end" are ignored (partial is false). The
// end is clamped to the last byte; a start past the end of the file or
// after the requested end is not satisfiable (ok is false).
func parseRange(header string, size int64) (start, end int64, partial, ok bool) {
	m := rangeHeader.FindStringSubmatch(header)
	if m == nil {
		return 0, size - 1, false, true
	}
	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, 0, false, false
	}
	end = size - 1
	if m[2] != "" {
		e, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return 0, 0, false, false
		}
		end = min(e, size-1)
		if e < start {
			return 0, 0, false, false
		}
	}
	if start >= size || start > end {
		return 0, 0, false, false
	}
	return start, end, true, true
}
