// Package config loads settings from defaults, TOML files, the environment
// and command-line overrides, in that order of priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides; "__" separates sections, so
// MUSICSITE_SERVER__ADDR sets server.addr.
const EnvPrefix = "MUSICSITE_"

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Blobs    BlobsConfig    `koanf:"blobs"`
	Lyrics   LyricsConfig   `koanf:"lyrics"`
	Log      LogConfig      `koanf:"log"`
	Playlist PlaylistConfig `koanf:"playlist"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	WebRoot         string        `koanf:"web_root"`   // page assets
	MediaRoot       string        `koanf:"media_root"` // directory imports; empty disables them
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MaxUploadMB     int64         `koanf:"max_upload_mb"`
	MPRIS           bool          `koanf:"mpris"`  // expose media controls on the session bus
	Notify          bool          `koanf:"notify"` // desktop notifications for track changes and notices
}

// StoreConfig selects and configures the preference store.
type StoreConfig struct {
	Backend       string `koanf:"backend"` // "sqlite" or "redis"
	Path          string `koanf:"path"`    // sqlite file; empty uses the XDG data dir
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisPrefix   string `koanf:"redis_prefix"`
}

// BlobsConfig selects where uploaded audio lives while it is in the playlist.
type BlobsConfig struct {
	Backend        string `koanf:"backend"` // "dir" or "minio"
	Dir            string `koanf:"dir"`     // empty uses a fresh temp dir
	MinioEndpoint  string `koanf:"minio_endpoint"`
	MinioAccessKey string `koanf:"minio_access_key"`
	MinioSecretKey string `koanf:"minio_secret_key"`
	MinioBucket    string `koanf:"minio_bucket"`
	MinioUseSSL    bool   `koanf:"minio_use_ssl"`
}

// LyricsConfig holds lyric discovery settings.
type LyricsConfig struct {
	FetchTimeout  time.Duration `koanf:"fetch_timeout"`
	LRCLib        bool          `koanf:"lrclib"` // fall back to lrclib.net
	LRCLibBaseURL string        `koanf:"lrclib_base_url"`
	CacheDir      string        `koanf:"cache_dir"`
	Watch         bool          `koanf:"watch"` // pick up .lrc files dropped next to tracks
}

// LogConfig mirrors logger.Config.
type LogConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// PlaylistConfig holds playlist settings.
type PlaylistConfig struct {
	Collation string `koanf:"collation"` // BCP 47 tag for title sorting
}

// Defaults returns the built-in configuration as flat koanf keys.
func Defaults() map[string]any {
	return map[string]any{
		"server.addr":             ":8080",
		"server.web_root":         "web",
		"server.read_timeout":     "15s",
		"server.write_timeout":    "0s", // audio streams can be long
		"server.shutdown_timeout": "10s",
		"server.max_upload_mb":    int64(512),
		"server.mpris":            false,
		"server.notify":           false,
		"store.backend":           "sqlite",
		"store.redis_addr":        "localhost:6379",
		"store.redis_prefix":      "musicsite:",
		"blobs.backend":           "dir",
		"blobs.minio_bucket":      "musicsite",
		"lyrics.fetch_timeout":    "10s",
		"lyrics.lrclib":           false,
		"lyrics.watch":            true,
		"log.level":               "info",
		"log.format":              "console",
		"log.max_size_mb":         100,
		"log.max_backups":         3,
		"log.max_age_days":        28,
		"playlist.collation":      "und",
	}
}

// LoadOptions controls Load.
type LoadOptions struct {
	// File, when set, replaces the default search paths and must exist.
	File string
	// EnvFile is a dotenv file loaded before reading the environment.
	// Missing files are ignored.
	EnvFile string
	// Overrides are flat koanf keys applied last, typically from flags.
	Overrides map[string]any
}

func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, err
	}

	if opts.File != "" {
		if err := k.Load(file.Provider(opts.File), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", opts.File, err)
		}
	} else {
		// Try config files in order of priority (last wins)
		for _, path := range getConfigPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
					return nil, fmt.Errorf("load %s: %w", path, err)
				}
			}
		}
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", opts.EnvFile, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps MUSICSITE_STORE__REDIS_ADDR to store.redis_addr.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) normalize() error {
	c.Server.WebRoot = expandPath(c.Server.WebRoot)
	c.Server.MediaRoot = expandPath(c.Server.MediaRoot)
	c.Store.Path = expandPath(c.Store.Path)
	c.Blobs.Dir = expandPath(c.Blobs.Dir)
	c.Lyrics.CacheDir = expandPath(c.Lyrics.CacheDir)
	c.Log.File = expandPath(c.Log.File)
	c.Lyrics.LRCLibBaseURL = strings.TrimSuffix(c.Lyrics.LRCLibBaseURL, "/")

	switch c.Store.Backend {
	case "sqlite", "redis":
	default:
		return fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}
	switch c.Blobs.Backend {
	case "dir":
	case "minio":
		if !c.HasMinioConfig() {
			return errors.New("blobs.backend minio needs minio_endpoint, minio_access_key and minio_secret_key")
		}
	default:
		return fmt.Errorf("blobs.backend: unknown backend %q", c.Blobs.Backend)
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = 512
	}
	return nil
}

// HasMinioConfig returns true if MinIO credentials are configured.
func (c *Config) HasMinioConfig() bool {
	return c.Blobs.MinioEndpoint != "" && c.Blobs.MinioAccessKey != "" && c.Blobs.MinioSecretKey != ""
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/musicsite/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "musicsite", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
