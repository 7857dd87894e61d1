package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/avely/fintrack/internal/fintrack"
	"github.com/avely/fintrack/internal/service/ledger"
)

// postTransaction handles POST /v1/transactions. An omitted type defaults to
// a normal transaction.
func (s *Server) postTransaction(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	var t fintrack.Transaction
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	out, err := s.ledger.CreateTransaction(r.Context(), t)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, out)
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, items(transactions))
}

func (s *Server) putTransaction(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var t fintrack.Transaction
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	t.ID = id
	out, err := s.ledger.UpdateTransaction(r.Context(), t)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		serviceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// postTransfer handles POST /v1/transactions/transfer and returns both legs.
func (s *Server) postTransfer(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	legs, err := s.ledger.CreateTransfer(r.Context(), ledger.TransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Date:          req.Date,
		Amount:        req.Amount,
		Description:   req.Description,
	})
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, items(legs))
}

// postImport handles POST /v1/transactions/import: bulk ingest of raw rows
// into one account with hash-based duplicate skipping.
func (s *Server) postImport(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	res, err := s.ledger.ImportTransactions(r.Context(), req.AccountID, req.Rows)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, res)
}
