package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/musicsite/internal/config"
	"github.com/llehouerou/musicsite/internal/state"
)

// run executes the command line with args and returns its output.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// storeArgs points commands at a fresh sqlite file and an empty config.
func storeArgs(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgFile, nil, 0o644))
	return []string{
		"--config", cfgFile,
		"--env-file", filepath.Join(dir, "missing.env"),
		"--store-path", filepath.Join(dir, "state.db"),
	}
}

func TestOverrides(t *testing.T) {
	cmd := newServeCmd()
	cmd.Flags().AddFlagSet(NewRootCmd().PersistentFlags())
	require.NoError(t, cmd.ParseFlags([]string{"--addr", ":9000", "--lrclib", "--max-upload-mb", "64", "--log-level", "debug", "--notify"}))

	got := overrides(cmd.Flags())

	assert.Equal(t, map[string]any{
		"server.addr":          ":9000",
		"lyrics.lrclib":        true,
		"server.max_upload_mb": int64(64),
		"log.level":            "debug",
		"server.notify":        true,
	}, got)
}

func TestOverrides_UnsetFlagsKeepConfig(t *testing.T) {
	cmd := newServeCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	assert.Empty(t, overrides(cmd.Flags()))
}

func TestFormatTimestamp(t *testing.T) {
	tests := map[float64]string{
		0:       "00:00.00",
		1.5:     "00:01.50",
		61.239:  "01:01.24",
		3599.99: "59:59.99",
		3600:    "60:00.00",
	}
	for in, want := range tests {
		if got := formatTimestamp(in); got != want {
			t.Errorf("formatTimestamp(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestLyricsCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.lrc")
	require.NoError(t, os.WriteFile(path, []byte("[ar:Band]\n[00:02.50]second\n[00:01]first\n"), 0o644))

	out, err := run(t, "", "lyrics", path)

	require.NoError(t, err)
	assert.Equal(t, "artist: Band\nstatus: ok, 2 lines\n[00:01.00] first\n[00:02.50] second\n", out)
}

func TestLyricsCmd_MissingFile(t *testing.T) {
	_, err := run(t, "", "lyrics", filepath.Join(t.TempDir(), "nope.lrc"))

	require.Error(t, err)
}

func TestStateImportExport(t *testing.T) {
	args := storeArgs(t)

	out, err := run(t, `{"music-theme":"light","music-volume":"{\"volume\":0.5,\"muted\":false}"}`,
		append([]string{"state", "import", "-"}, args...)...)
	require.NoError(t, err)
	assert.Equal(t, "imported 2 values\n", out)

	out, err = run(t, "", append([]string{"state", "export"}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, out, `"music-theme": "light"`)
	assert.NotContains(t, out, state.KeyHistory)
}

func TestStateImport_RejectsUnknownKeys(t *testing.T) {
	_, err := run(t, `{"music-themes":"light"}`, append([]string{"state", "import", "-"}, storeArgs(t)...)...)

	require.ErrorContains(t, err, `unknown key "music-themes"`)
}

func TestHistoryCmd(t *testing.T) {
	args := storeArgs(t)
	entries := `[{"title":"Song","url":"https://x.test/song.mp3","t":1700000000000}]`
	_, err := run(t, `{"music-history-v1":`+strconv.Quote(entries)+`}`, append([]string{"state", "import", "-"}, args...)...)
	require.NoError(t, err)

	out, err := run(t, "", append([]string{"history"}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Song")
	assert.Contains(t, out, "https://x.test/song.mp3")

	_, err = run(t, "", append([]string{"history", "clear"}, args...)...)
	require.NoError(t, err)

	out, err = run(t, "", append([]string{"history"}, args...)...)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestOpenStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{Store: config.StoreConfig{Backend: "redis", RedisAddr: mr.Addr(), RedisPrefix: "t:"}}

	st, err := openStore(context.Background(), cfg)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, state.SetTheme(context.Background(), st, state.ThemeLight))
	got, err := mr.Get("t:" + state.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "light", got)
}

func TestOpenStore_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	st, err := openStore(context.Background(), &config.Config{Store: config.StoreConfig{Backend: "redis", RedisAddr: addr}})

	require.Error(t, err)
	assert.Nil(t, st)
}

func TestOpenBlobs_Dir(t *testing.T) {
	dir := t.TempDir()

	reg, err := openBlobs(context.Background(), &config.Config{Blobs: config.BlobsConfig{Backend: "dir", Dir: dir}})
	require.NoError(t, err)
	defer reg.Close()

	h, err := reg.Upload(context.Background(), "a.mp3", "audio/mpeg", 3, strings.NewReader("abc"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, h.ID()))
}

func TestNewPlaylist_BadCollation(t *testing.T) {
	_, err := newPlaylist(&config.Config{Playlist: config.PlaylistConfig{Collation: "not a tag!"}})

	require.Error(t, err)
}
