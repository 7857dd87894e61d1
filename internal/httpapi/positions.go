package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/avely/fintrack/internal/fintrack"
)

func (s *Server) postInstrument(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	var in fintrack.Instrument
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	out, err := s.tracking.CreateInstrument(r.Context(), in)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, out)
}

func (s *Server) listInstruments(w http.ResponseWriter, r *http.Request) {
	instruments, err := s.tracking.ListInstruments(r.Context())
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, items(instruments))
}

func (s *Server) deleteInstrument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.tracking.DeleteInstrument(r.Context(), id); err != nil {
		serviceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) postPosition(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	var p fintrack.Position
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	out, err := s.tracking.CreatePosition(r.Context(), p)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, out)
}

func (s *Server) listPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := s.tracking.ListPositions(r.Context())
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, items(positions))
}

func (s *Server) putPosition(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p fintrack.Position
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	p.ID = id
	out, err := s.tracking.UpdatePosition(r.Context(), p)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) deletePosition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.tracking.DeletePosition(r.Context(), id); err != nil {
		serviceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
