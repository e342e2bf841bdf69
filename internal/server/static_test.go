package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStatic(t *testing.T) (*staticHandler, string) {
	t.Helper()
	parent := t.TempDir()
	web := filepath.Join(parent, "web")
	require.NoError(t, os.MkdirAll(filepath.Join(web, "music", "album"), 0o755))
	files := map[string]string{
		"index.html":      "<!doctype html>",
		"sw.js":           "const CACHE = 'v2';",
		"app.css":         "body{}",
		"music/track.mp3": "0123456789",
		"data.bin":        "xyz",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(web, filepath.FromSlash(name)), []byte(body), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("leak"), 0o644))

	h, err := newStaticHandler(web)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h, parent
}

func TestStatic(t *testing.T) {
	h, _ := newTestStatic(t)

	tests := []struct {
		name        string
		path        string
		rangeHdr    string
		wantStatus  int
		wantBody    string
		wantType    string
		wantRange   string
		wantNoCache bool
	}{
		{name: "root serves index", path: "/", wantStatus: 200, wantBody: "<!doctype html>", wantType: "text/html; charset=utf-8"},
		{name: "css", path: "/app.css", wantStatus: 200, wantBody: "body{}", wantType: "text/css; charset=utf-8"},
		{name: "unknown extension", path: "/data.bin", wantStatus: 200, wantType: "application/octet-stream"},
		{name: "service worker revalidates", path: "/sw.js", wantStatus: 200, wantNoCache: true},
		{name: "full audio", path: "/music/track.mp3", wantStatus: 200, wantBody: "0123456789", wantType: "audio/mpeg"},
		{name: "range", path: "/music/track.mp3", rangeHdr: "bytes=2-5", wantStatus: 206, wantBody: "2345", wantRange: "bytes 2-5/10"},
		{name: "open range", path: "/music/track.mp3", rangeHdr: "bytes=7-", wantStatus: 206, wantBody: "789", wantRange: "bytes 7-9/10"},
		{name: "range end clamped", path: "/music/track.mp3", rangeHdr: "bytes=8-100", wantStatus: 206, wantBody: "89", wantRange: "bytes 8-9/10"},
		{name: "start past end", path: "/music/track.mp3", rangeHdr: "bytes=10-", wantStatus: 416, wantRange: "bytes */10"},
		{name: "start after end", path: "/music/track.mp3", rangeHdr: "bytes=5-2", wantStatus: 416},
		{name: "unparsable range", path: "/music/track.mp3", rangeHdr: "items=0-1", wantStatus: 200, wantBody: "0123456789"},
		{name: "missing", path: "/nope.js", wantStatus: 404},
		{name: "directory", path: "/music/album", wantStatus: 404},
		{name: "traversal", path: "/../secret.txt", wantStatus: 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.URL.Path = tt.path
			if tt.rangeHdr != "" {
				req.Header.Set("Range", tt.rangeHdr)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
			}
			if tt.wantRange != "" {
				assert.Equal(t, tt.wantRange, rec.Header().Get("Content-Range"))
			}
			if tt.wantNoCache {
				assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
			}
			if rec.Code < 300 {
				assert.Equal(t, "bytes", rec.Header().Get("Accept-Ranges"))
			}
		})
	}
}

func TestStatic_SymlinkOutOfRoot(t *testing.T) {
	h, parent := newTestStatic(t)
	link := filepath.Join(parent, "web", "escape.txt")
	if err := os.Symlink(filepath.Join(parent, "secret.txt"), link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/escape.txt", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "leak")
}

func TestStatic_HeadHasNoBody(t *testing.T) {
	h, _ := newTestStatic(t)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/music/track.mp3", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "10", rec.Header().Get("Content-Length"))
	body, _ := io.ReadAll(rec.Body)
	assert.Empty(t, body)
}

func TestStatic_MethodNotAllowed(t *testing.T) {
	h, _ := newTestStatic(t)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/index.html", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		header      string
		size        int64
		start, end  int64
		partial, ok bool
	}{
		{"", 10, 0, 9, false, true},
		{"bytes=0-0", 10, 0, 0, true, true},
		{"bytes=3-", 10, 3, 9, true, true},
		{"bytes=3-99", 10, 3, 9, true, true},
		{"bytes=9-9", 10, 9, 9, true, true},
		{"bytes=10-", 10, 0, 0, false, false},
		{"bytes=4-3", 10, 0, 0, false, false},
		{"bytes=-5", 10, 0, 9, false, true},
		{"bytes=0-1, 4-5", 10, 0, 1, true, true},
	}
	for _, tt := range tests {
		start, end, partial, ok := parseRange(tt.header, tt.size)
		if ok != tt.ok || partial != tt.partial {
			t.Errorf("parseRange(%q, %d) partial=%v ok=%v, want partial=%v ok=%v",
				tt.header, tt.size, partial, ok, tt.partial, tt.ok)
			continue
		}
		if ok && (start != tt.start || end != tt.end) {
			t.Errorf("parseRange(%q, %d) = %d-%d, want %d-%d", tt.header, tt.size, start, end, tt.start, tt.end)
		}
	}
}

func TestContentTypeFor(t *testing.T) {
	tests := map[string]string{
		"a.HTML":               "text/html; charset=utf-8",
		"manifest.webmanifest": "application/manifest+json",
		"song.flac":            "audio/flac",
		"noext":                "application/octet-stream",
	}
	for name, want := range tests {
		if got := contentTypeFor(name); got != want {
			t.Errorf("contentTypeFor(%q) = %q, want %q", name, got, want)
		}
	}
}
