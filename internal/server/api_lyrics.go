package server

import (
	"net/http"
	"strconv"
	"strings"
)

func (s *Server) handleLoadLyricsText(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r, maxJSONBody)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.svc.LoadLyricsText(string(raw)))
}

type lyricsURLRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleLoadLyricsURL(w http.ResponseWriter, r *http.Request) {
	var req lyricsURLRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	info, err := s.svc.LoadLyricsURL(r.Context(), req.URL)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleClearLyrics(w http.ResponseWriter, _ *http.Request) {
	s.svc.ClearLyrics()
	w.WriteHeader(http.StatusNoContent)
}

type activeLyricResponse struct {
	Index int     `json:"index"`
	Time  float64 `json:"time,omitempty"`
	Text  string  `json:"text,omitempty"`
}

// handleActiveLyric resolves a position without moving the highlight.
// Index is -1 when no line is active.
func (s *Server) handleActiveLyric(w http.ResponseWriter, r *http.Request) {
	pos, err := strconv.ParseFloat(r.URL.Query().Get("pos"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "pos must be a number")
		return
	}
	line, idx, ok := s.svc.ActiveLyric(pos)
	if !ok {
		writeJSON(w, http.StatusOK, activeLyricResponse{Index: -1})
		return
	}
	writeJSON(w, http.StatusOK, activeLyricResponse{Index: idx, Time: line.Time, Text: line.Text})
}
