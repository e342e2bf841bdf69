package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/llehouerou/musicsite/internal/importer"
	"github.com/llehouerou/musicsite/internal/playback"
	"github.com/llehouerou/musicsite/internal/playlist"
)

// multipartMemory is how much of an upload is kept in memory before
// spilling to temp files.
const multipartMemory = 32 << 20

type tracksResponse struct {
	Added []playback.Track `json:"added"`
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, s.svc.View(q.Get("q"), playlist.ParseSortPolicy(q.Get("sort"))))
}

func (s *Server) handleAddFiles(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	items := make([]importer.Item, 0, len(headers))
	for _, fh := range headers {
		items = append(items, uploadItem(fh))
	}

	added, err := s.svc.AddFiles(r.Context(), items)
	s.writeAdded(w, added, err)
}

// writeAdded answers with the tracks that made it into the playlist. Item
// failures already went out as notices, so they fail the request only when
// nothing was added.
func (s *Server) writeAdded(w http.ResponseWriter, added []playback.Track, err error) {
	if err != nil && len(added) == 0 {
		writeServiceError(w, err)
		return
	}
	if err != nil {
		s.log.Warn("partial import", zap.Int("added", len(added)), zap.Error(err))
	}
	writeJSON(w, http.StatusOK, tracksResponse{Added: added})
}

func uploadItem(fh *multipart.FileHeader) importer.Item {
	return importer.Item{
		Name: fh.Filename,
		Size: fh.Size,
		MIME: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadSeekCloser, error) {
			return fh.Open()
		},
	}
}

type addURLsRequest struct {
	URL  string   `json:"url"`
	URLs []string `json:"urls"`
}

func (s *Server) handleAddURLs(w http.ResponseWriter, r *http.Request) {
	var req addURLsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	urls := req.URLs
	if req.URL != "" {
		urls = append(urls, req.URL)
	}
	writeJSON(w, http.StatusOK, tracksResponse{Added: s.svc.AddURLs(urls...)})
}

type addDirRequest struct {
	Dir string `json:"dir"`
}

func (s *Server) handleAddDir(w http.ResponseWriter, r *http.Request) {
	var req addDirRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	added, err := s.svc.AddDir(r.Context(), req.Dir)
	s.writeAdded(w, added, err)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	index, ok := indexVar(w, r)
	if !ok {
		return
	}
	if !s.svc.Remove(index) {
		writeError(w, http.StatusConflict, "no track at index "+strconv.Itoa(index))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearPlaylist(w http.ResponseWriter, _ *http.Request) {
	if err := s.svc.Clear(); err != nil {
		// The playlist is empty either way; only some releases failed.
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type moveRequest struct {
	From   int    `json:"from"`
	To     int    `json:"to"`
	Filter string `json:"filter"`
	Sort   string `json:"sort"`
}

// handleMove reorders the logical playlist. The page sends the view it
// dragged in; reordering is refused unless that view shows the logical
// order.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.svc.View(req.Filter, playlist.ParseSortPolicy(req.Sort)).ReorderEligible {
		writeError(w, http.StatusConflict, "reordering needs the unfiltered added order")
		return
	}
	if !s.svc.Move(req.From, req.To) {
		writeError(w, http.StatusConflict, "invalid move")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlayIndex(w http.ResponseWriter, r *http.Request) {
	index, ok := indexVar(w, r)
	if !ok {
		return
	}
	if !s.svc.PlayIndex(index) {
		writeError(w, http.StatusConflict, "no track at index "+strconv.Itoa(index))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func indexVar(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid index")
		return 0, false
	}
	return index, true
}

// writeServiceError maps coordinator errors to status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, playback.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, playback.ErrNoBlobs):
		writeError(w, http.StatusNotImplemented, err.Error())
	case errors.Is(err, playback.ErrNoTrack), errors.Is(err, playback.ErrStale):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
