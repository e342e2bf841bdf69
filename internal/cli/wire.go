package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/llehouerou/musicsite/internal/blob"
	"github.com/llehouerou/musicsite/internal/config"
	"github.com/llehouerou/musicsite/internal/logger"
	"github.com/llehouerou/musicsite/internal/lrclib"
	"github.com/llehouerou/musicsite/internal/lyrics"
	"github.com/llehouerou/musicsite/internal/playlist"
	"github.com/llehouerou/musicsite/internal/state"
)

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
}

// openStore opens the configured preference store.
func openStore(ctx context.Context, cfg *config.Config) (state.Interface, error) {
	switch cfg.Store.Backend {
	case "redis":
		r, err := state.OpenRedis(ctx, state.RedisOptions{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
			Prefix:   cfg.Store.RedisPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return r, nil
	default:
		m, err := state.Open(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return m, nil
	}
}

// openBlobs creates the registry behind object URLs.
func openBlobs(ctx context.Context, cfg *config.Config) (*blob.Registry, error) {
	var (
		backend blob.Backend
		err     error
	)
	switch cfg.Blobs.Backend {
	case "minio":
		backend, err = blob.NewMinioBackend(ctx, blob.MinioOptions{
			Endpoint:  cfg.Blobs.MinioEndpoint,
			AccessKey: cfg.Blobs.MinioAccessKey,
			SecretKey: cfg.Blobs.MinioSecretKey,
			Bucket:    cfg.Blobs.MinioBucket,
			UseSSL:    cfg.Blobs.MinioUseSSL,
		})
	default:
		backend, err = blob.NewDirBackend(cfg.Blobs.Dir)
	}
	if err != nil {
		return nil, err
	}
	return blob.NewRegistry(backend), nil
}

func newPlaylist(cfg *config.Config) (*playlist.Playlist, error) {
	tag, err := language.Parse(cfg.Playlist.Collation)
	if err != nil {
		return nil, fmt.Errorf("playlist.collation: %w", err)
	}
	return playlist.New(playlist.WithCollation(tag)), nil
}

// newLyricsSource builds sibling discovery over the web and media roots,
// with the lrclib fallback when enabled.
func newLyricsSource(cfg *config.Config, fetcher lyrics.Fetcher) *lyrics.Source {
	opts := []lyrics.SourceOption{
		lyrics.WithWebRoot(cfg.Server.WebRoot),
		lyrics.WithMediaRoot(cfg.Server.MediaRoot),
	}
	if cfg.Lyrics.CacheDir != "" {
		opts = append(opts, lyrics.WithCacheDir(cfg.Lyrics.CacheDir))
	}
	if cfg.Lyrics.LRCLib {
		clientOpts := []lrclib.Option{lrclib.WithTimeout(cfg.Lyrics.FetchTimeout)}
		if cfg.Lyrics.LRCLibBaseURL != "" {
			clientOpts = append(clientOpts, lrclib.WithBaseURL(cfg.Lyrics.LRCLibBaseURL))
		}
		opts = append(opts, lyrics.WithLRCLib(lrclib.New(clientOpts...)))
	}
	return lyrics.NewSource(fetcher, opts...)
}
