package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/avely/fintrack/internal/fintrack"
)

// postDebt handles POST /v1/debts. Confidence defaults when omitted, so the
// request type keeps it as a pointer.
func (s *Server) postDebt(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	var req postDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	out, err := s.tracking.CreateDebt(r.Context(), req.input())
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, out)
}

func (s *Server) listDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.tracking.ListDebts(r.Context())
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, items(debts))
}

// putDebt handles PUT /v1/debts/{id}, re-applying the stored-form rules.
// Closing, disputing or writing off a debt is just a status overwrite.
func (s *Server) putDebt(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var d fintrack.Debt
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	d.ID = id
	out, err := s.tracking.UpdateDebt(r.Context(), d)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) deleteDebt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.tracking.DeleteDebt(r.Context(), id); err != nil {
		serviceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
