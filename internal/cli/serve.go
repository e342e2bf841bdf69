package cli

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/musicsite/internal/config"
	"github.com/llehouerou/musicsite/internal/history"
	"github.com/llehouerou/musicsite/internal/logger"
	"github.com/llehouerou/musicsite/internal/lyrics"
	"github.com/llehouerou/musicsite/internal/mpris"
	"github.com/llehouerou/musicsite/internal/notify"
	"github.com/llehouerou/musicsite/internal/playback"
	"github.com/llehouerou/musicsite/internal/player"
	"github.com/llehouerou/musicsite/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the player page and its API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	f := cmd.Flags()
	f.String("addr", "", "listen address")
	f.String("web-root", "", "directory holding the page assets")
	f.String("media-root", "", "directory offered for folder imports")
	f.String("blobs", "", "upload storage: dir or minio")
	f.Bool("lrclib", false, "look up missing lyrics on lrclib.net")
	f.Bool("watch", true, "reload lyrics when .lrc files change")
	f.Int64("max-upload-mb", 0, "largest accepted upload")
	f.Bool("mpris", false, "expose media controls on the session bus")
	f.Bool("notify", false, "show desktop notifications for track changes")
	return cmd
}

// serve runs the server until ctx is done and then tears everything down
// in reverse order.
func serve(ctx context.Context, cfg *config.Config) error {
	log, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Warn("close store", zap.Error(cerr))
		}
	}()

	blobs, err := openBlobs(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := blobs.Close(); cerr != nil {
			log.Warn("close blobs", zap.Error(cerr))
		}
	}()

	pl, err := newPlaylist(cfg)
	if err != nil {
		return err
	}
	fetcher := lyrics.NewHTTPFetcher(cfg.Lyrics.FetchTimeout)
	svc := playback.New(player.NewRemote(),
		playback.WithPlaylist(pl),
		playback.WithHistory(history.New(store)),
		playback.WithStore(store),
		playback.WithFetcher(fetcher),
		playback.WithLyricsSource(newLyricsSource(cfg, fetcher)),
		playback.WithBlobs(blobs, cfg.Server.MediaRoot),
		playback.WithLogger(log.Named("playback")),
	)
	defer func() {
		if cerr := svc.Close(); cerr != nil {
			log.Warn("close playback", zap.Error(cerr))
		}
	}()
	if err := svc.Load(ctx); err != nil {
		log.Warn("restore preferences", zap.Error(err))
	}

	srv, err := server.New(server.Options{
		Addr:            cfg.Server.Addr,
		WebRoot:         cfg.Server.WebRoot,
		MaxUploadBytes:  cfg.Server.MaxUploadMB << 20,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          log.Named("http"),
	}, svc, store, blobs)
	if err != nil {
		return err
	}
	defer srv.Close()

	if cfg.Server.MPRIS {
		adapter, err := mpris.New(svc, cfg.Server.WebRoot, log.Named("mpris"))
		if err != nil {
			log.Warn("mpris disabled", zap.Error(err))
		} else {
			defer adapter.Close()
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()
	if cfg.Server.Notify {
		startNotifications(ctx, &wg, cfg.Server.WebRoot, svc, log)
	}
	if cfg.Lyrics.Watch {
		for _, root := range []string{cfg.Server.WebRoot, cfg.Server.MediaRoot} {
			if root == "" {
				continue
			}
			watchLyrics(ctx, &wg, root, svc, log)
		}
	}

	return srv.Run(ctx)
}

// watchLyrics forwards .lrc changes under root to the coordinator until
// ctx is done. A root that cannot be watched is logged and skipped.
func watchLyrics(ctx context.Context, wg *sync.WaitGroup, root string, svc playback.Service, log *zap.Logger) {
	w, err := lyrics.NewWatcher(root, log.Named("watch"))
	if err != nil {
		log.Warn("lyrics watcher disabled", zap.String("root", root), zap.Error(err))
		return
	}
	wg.Go(func() {
		defer w.Close()
		err := w.Run(ctx, func(rel string) {
			if svc.LyricsFileChanged(rel) {
				log.Info("lyrics file changed", zap.String("path", rel))
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("lyrics watcher stopped", zap.Error(err))
		}
	})
}

// startNotifications relays coordinator events to the desktop until ctx
// is done.
func startNotifications(ctx context.Context, wg *sync.WaitGroup, webRoot string, svc playback.Service, log *zap.Logger) {
	n, err := notify.New()
	if err != nil {
		log.Warn("notifications disabled", zap.Error(err))
		return
	}
	icon := func(trackURL string) string { return mpris.FindAlbumArt(webRoot, trackURL) }
	relay := notify.NewRelay(n, icon, log.Named("notify"))
	sub := svc.Subscribe()
	wg.Go(func() { relay.Run(ctx, sub) })
}
