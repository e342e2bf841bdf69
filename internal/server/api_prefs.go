package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/llehouerou/musicsite/internal/errmsg"
	"github.com/llehouerou/musicsite/internal/state"
)

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.History())
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ClearHistory(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type replayRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	var req replayRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.svc.ReplayHistory(req.URL) {
		writeError(w, http.StatusNotFound, "not in history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type themeBody struct {
	Theme state.Theme `json:"theme"`
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themeBody{Theme: s.snapshot(r.Context()).Theme})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, "no preference store configured")
		return
	}
	var req struct {
		Theme string `json:"theme"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	theme, err := state.ParseTheme(req.Theme)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := state.SetTheme(r.Context(), s.store, theme); err != nil {
		s.themeSaveFailed(w, err)
		return
	}
	s.broadcastSnapshot(r.Context())
	writeJSON(w, http.StatusOK, themeBody{Theme: theme})
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, "no preference store configured")
		return
	}
	theme, err := state.ToggleTheme(r.Context(), s.store)
	if err != nil {
		s.themeSaveFailed(w, err)
		return
	}
	s.broadcastSnapshot(r.Context())
	writeJSON(w, http.StatusOK, themeBody{Theme: theme})
}

func (s *Server) themeSaveFailed(w http.ResponseWriter, err error) {
	msg := errmsg.Format(errmsg.OpThemeSave, err)
	s.log.Warn(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, msg)
}

func (s *Server) handleEQ(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.EQ())
}

type eqRequest struct {
	Band int     `json:"band"`
	Gain float64 `json:"gain"`
}

func (s *Server) handleSetEQ(w http.ResponseWriter, r *http.Request) {
	var req eqRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.svc.SetEQGain(req.Band, req.Gain) {
		writeError(w, http.StatusBadRequest, "unknown band")
		return
	}
	writeJSON(w, http.StatusOK, s.svc.EQ())
}

func (s *Server) handleResetEQ(w http.ResponseWriter, _ *http.Request) {
	s.svc.ResetEQ()
	writeJSON(w, http.StatusOK, s.svc.EQ())
}
