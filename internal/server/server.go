// Package server exposes the playback coordinator over HTTP: a JSON API,
// a websocket event stream, object URLs and the page's static files.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/llehouerou/musicsite/internal/blob"
	"github.com/llehouerou/musicsite/internal/playback"
	"github.com/llehouerou/musicsite/internal/state"
)

// Options configures a Server.
type Options struct {
	Addr            string
	WebRoot         string
	MaxUploadBytes  int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Logger          *zap.Logger
}

// Server wires the HTTP surface to the coordinator and stores.
type Server struct {
	opts   Options
	svc    playback.Service
	store  state.Interface
	blobs  *blob.Registry
	static *staticHandler
	hub    *Hub
	log    *zap.Logger

	router *mux.Router
}

// message is one websocket frame.
type message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// New creates a server. The web root must exist.
func New(opts Options, svc playback.Service, store state.Interface, blobs *blob.Registry) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 512 << 20
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	static, err := newStaticHandler(opts.WebRoot)
	if err != nil {
		return nil, err
	}
	s := &Server{
		opts:   opts,
		svc:    svc,
		store:  store,
		blobs:  blobs,
		static: static,
		hub:    NewHub(opts.Logger.Named("hub")),
		log:    opts.Logger,
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the websocket hub and the coordinator event pump until ctx
// is done. Run calls it; tests using Handler directly call it themselves.
func (s *Server) Start(ctx context.Context) {
	go s.hub.Run(ctx)
	go s.pump(ctx)
}

// Run serves HTTP until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.Start(ctx)

	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.opts.ReadTimeout,
		WriteTimeout:      s.opts.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.opts.Addr), zap.String("web_root", s.opts.WebRoot))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the web root.
func (s *Server) Close() error {
	return s.static.Close()
}

// pump forwards coordinator events to every connected page.
func (s *Server) pump(ctx context.Context) {
	sub := s.svc.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case <-sub.Changed:
			s.broadcastSnapshot(ctx)
		case n := <-sub.Notices:
			s.broadcast(message{Type: "notice", Data: n})
		case p := <-sub.PositionChanged:
			s.broadcast(message{Type: "lyric", Data: p})
		}
	}
}

func (s *Server) broadcastSnapshot(ctx context.Context) {
	s.broadcast(message{Type: "snapshot", Data: s.snapshot(ctx)})
}

func (s *Server) broadcast(m message) {
	data, err := json.Marshal(m)
	if err != nil {
		s.log.Error("encode event", zap.String("type", m.Type), zap.Error(err))
		return
	}
	s.hub.Broadcast(data)
}

// stateResponse is the coordinator snapshot plus the page preferences
// kept outside the coordinator.
type stateResponse struct {
	playback.Snapshot
	Theme state.Theme `json:"theme"`
}

func (s *Server) snapshot(ctx context.Context) stateResponse {
	resp := stateResponse{Snapshot: s.svc.Snapshot(), Theme: state.ThemeDark}
	if s.store != nil {
		theme, err := state.GetTheme(ctx, s.store)
		if err != nil {
			s.log.Warn("read theme", zap.Error(err))
		}
		resp.Theme = theme
	}
	return resp
}
