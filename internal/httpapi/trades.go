package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/avely/fintrack/internal/fintrack"
)

func (s *Server) postTrade(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	var t fintrack.Trade
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	out, err := s.tracking.CreateTrade(r.Context(), t)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, out)
}

func (s *Server) listTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := s.tracking.ListTrades(r.Context())
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, items(trades))
}

func (s *Server) putTrade(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var t fintrack.Trade
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	t.ID = id
	out, err := s.tracking.UpdateTrade(r.Context(), t)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) deleteTrade(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.tracking.DeleteTrade(r.Context(), id); err != nil {
		serviceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
