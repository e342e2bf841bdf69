package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/llehouerou/musicsite/internal/blob"
	"github.com/llehouerou/musicsite/internal/eq"
)

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	// Static paths are checked against the web root, not rewritten.
	r.SkipClean(true)
	r.Use(logRequests(s.log), recoverPanics(s.log))

	r.HandleFunc("/blobs/{id}", s.handleBlob).Methods(http.MethodGet, http.MethodHead)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/view", s.handleView).Methods(http.MethodGet)
	api.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)

	api.HandleFunc("/playlist", s.handleClearPlaylist).Methods(http.MethodDelete)
	api.HandleFunc("/playlist/files", s.handleAddFiles).Methods(http.MethodPost)
	api.HandleFunc("/playlist/urls", s.handleAddURLs).Methods(http.MethodPost)
	api.HandleFunc("/playlist/dir", s.handleAddDir).Methods(http.MethodPost)
	api.HandleFunc("/playlist/move", s.handleMove).Methods(http.MethodPost)
	api.HandleFunc("/playlist/{index:[0-9]+}", s.handleRemove).Methods(http.MethodDelete)
	api.HandleFunc("/playlist/{index:[0-9]+}/play", s.handlePlayIndex).Methods(http.MethodPost)

	api.HandleFunc("/playback/position", s.handlePosition).Methods(http.MethodPost)
	api.HandleFunc("/playback/duration", s.handleDuration).Methods(http.MethodPost)
	api.HandleFunc("/playback/modes", s.handleModes).Methods(http.MethodPut)
	api.HandleFunc("/playback/volume", s.handleVolume).Methods(http.MethodPut)
	api.HandleFunc("/playback/{action:toggle|play|pause|next|prev|ended}", s.handleTransport).Methods(http.MethodPost)

	api.HandleFunc("/lyrics", s.handleLoadLyricsText).Methods(http.MethodPost)
	api.HandleFunc("/lyrics", s.handleClearLyrics).Methods(http.MethodDelete)
	api.HandleFunc("/lyrics/url", s.handleLoadLyricsURL).Methods(http.MethodPost)
	api.HandleFunc("/lyrics/active", s.handleActiveLyric).Methods(http.MethodGet)

	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleClearHistory).Methods(http.MethodDelete)
	api.HandleFunc("/history/replay", s.handleReplay).Methods(http.MethodPost)

	api.HandleFunc("/theme", s.handleTheme).Methods(http.MethodGet)
	api.HandleFunc("/theme", s.handleSetTheme).Methods(http.MethodPut)
	api.HandleFunc("/theme/toggle", s.handleToggleTheme).Methods(http.MethodPost)

	api.HandleFunc("/eq", s.handleEQ).Methods(http.MethodGet)
	api.HandleFunc("/eq", s.handleSetEQ).Methods(http.MethodPut)
	api.HandleFunc("/eq", s.handleResetEQ).Methods(http.MethodDelete)

	api.HandleFunc("/visualizer/bars", s.handleBars).Methods(http.MethodPost)

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	r.PathPrefix("/").Handler(s.static)
	return r
}

func (s *Server) handleBlob(w http.ResponseWriter, r *http.Request) {
	if s.blobs == nil {
		http.NotFound(w, r)
		return
	}
	c, err := s.blobs.Open(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, blob.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.log.Error("open blob", zap.String("id", mux.Vars(r)["id"]), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer c.Body.Close()

	if c.ContentType != "" {
		w.Header().Set("Content-Type", c.ContentType)
	}
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, r, c.Name, c.ModTime, c.Body)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshot(r.Context()))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	welcome, err := json.Marshal(message{Type: "snapshot", Data: s.snapshot(r.Context())})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.hub.serve(w, r, welcome)
}

// maxBars bounds the bar count a page may ask for.
const maxBars = eq.FFTSize / 2

// handleBars turns the analyser's byte frequency data into bar heights.
func (s *Server) handleBars(w http.ResponseWriter, r *http.Request) {
	count := eq.MainBars
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxBars {
			writeError(w, http.StatusBadRequest, "count must be between 1 and "+strconv.Itoa(maxBars))
			return
		}
		count = n
	}
	data, err := readBody(w, r, maxJSONBody)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bars": eq.Bars(data, count)})
}
