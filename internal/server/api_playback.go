package server

import (
	"errors"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type transportResponse struct {
	Moved bool `json:"moved"`
}

// handleTransport runs one transport control. Moves that find nothing to
// move to answer with moved=false rather than an error.
func (s *Server) handleTransport(w http.ResponseWriter, r *http.Request) {
	var moved bool
	switch mux.Vars(r)["action"] {
	case "toggle":
		if err := s.svc.Toggle(); err != nil {
			writeServiceError(w, err)
			return
		}
		moved = true
	case "play":
		if err := s.svc.Play(); err != nil {
			writeServiceError(w, err)
			return
		}
		moved = true
	case "pause":
		s.svc.Pause()
		moved = true
	case "next":
		moved = s.svc.Next()
	case "prev":
		moved = s.svc.Prev()
	case "ended":
		moved = s.svc.Ended()
	}
	writeJSON(w, http.StatusOK, transportResponse{Moved: moved})
}

type positionRequest struct {
	Position float64 `json:"position"`
}

type positionResponse struct {
	Line    int  `json:"line"`
	Changed bool `json:"changed"`
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	line, changed := s.svc.UpdatePosition(req.Position)
	writeJSON(w, http.StatusOK, positionResponse{Line: line, Changed: changed})
}

type durationRequest struct {
	Duration float64 `json:"duration"`
}

func (s *Server) handleDuration(w http.ResponseWriter, r *http.Request) {
	var req durationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Duration < 0 || math.IsInf(req.Duration, 0) {
		writeError(w, http.StatusBadRequest, "duration must be a finite, non-negative number")
		return
	}
	s.svc.SetDuration(req.Duration)
	w.WriteHeader(http.StatusNoContent)
}

// modesRequest carries optional flags; absent ones are left alone.
type modesRequest struct {
	Shuffle *bool `json:"shuffle"`
	Loop    *bool `json:"loop"`
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	var req modesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Shuffle != nil {
		s.svc.SetShuffle(*req.Shuffle)
	}
	if req.Loop != nil {
		s.svc.SetLoop(*req.Loop)
	}
	snap := s.svc.Snapshot()
	writeJSON(w, http.StatusOK, map[string]bool{"shuffle": snap.Shuffle, "loop": snap.Loop})
}

type volumeRequest struct {
	Volume *float64 `json:"volume"`
	Muted  *bool    `json:"muted"`
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	var req volumeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var errs []error
	if req.Volume != nil {
		errs = append(errs, s.svc.SetVolume(r.Context(), *req.Volume))
	}
	if req.Muted != nil {
		errs = append(errs, s.svc.SetMuted(r.Context(), *req.Muted))
	}
	// The level applies even when saving it fails; the page gets a notice.
	if err := errors.Join(errs...); err != nil {
		s.log.Warn("save volume", zap.Error(err))
	}
	snap := s.svc.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{"volume": snap.Volume, "muted": snap.Muted})
}
