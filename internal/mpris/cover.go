package mpris

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// coverNames lists common album art filenames in priority order.
var coverNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"album.jpg", "album.png", "album.jpeg",
	"front.jpg", "front.png", "front.jpeg",
}

// fallbackArt is the page icon shown when a track has no cover.
var fallbackArt = []string{"icons/icon-512.png", "icons/icon-192.png"}

// FindAlbumArt looks for album art next to a track served from the web
// root, falling back to the page icon. It returns an absolute file path,
// or an empty string when nothing was found or the URL is not served from
// webRoot.
func FindAlbumArt(webRoot, trackURL string) string {
	if webRoot == "" {
		return ""
	}
	root, err := filepath.Abs(webRoot)
	if err != nil {
		return ""
	}
	var candidates []string
	if dir, ok := localDir(trackURL); ok {
		for _, name := range coverNames {
			candidates = append(candidates, path.Join(dir, name))
		}
	}
	candidates = append(candidates, fallbackArt...)
	for _, rel := range candidates {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

// localDir returns the web-root-relative directory of an absolute-path
// URL such as /music/album/track.mp3.
func localDir(trackURL string) (string, bool) {
	if !strings.HasPrefix(trackURL, "/") || strings.HasPrefix(trackURL, "//") {
		return "", false
	}
	u, err := url.Parse(trackURL)
	if err != nil {
		return "", false
	}
	dir := strings.TrimPrefix(path.Dir(u.Path), "/")
	if dir == "" || dir == "." {
		return ".", true
	}
	if !filepath.IsLocal(filepath.FromSlash(dir)) {
		return "", false
	}
	return dir, true
}
