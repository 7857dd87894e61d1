package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/avely/fintrack/internal/fintrack"
)

// postAccount handles POST /v1/accounts.
func (s *Server) postAccount(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	var a fintrack.Account
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	out, err := s.ledger.CreateAccount(r.Context(), a)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, out)
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.ledger.ListAccounts(r.Context())
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, items(accounts))
}

// putAccount handles PUT /v1/accounts/{id}: a whole-record overwrite, last
// write wins.
func (s *Server) putAccount(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var a fintrack.Account
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	a.ID = id
	out, err := s.ledger.UpdateAccount(r.Context(), a)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.ledger.DeleteAccount(r.Context(), id); err != nil {
		serviceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
