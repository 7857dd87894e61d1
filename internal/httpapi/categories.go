package httpapi

import (
	"encoding/json"
	"net/http"
)

// postCategory handles POST /v1/categories. Names are deduplicated by slug;
// a second create with an equivalent name conflicts.
func (s *Server) postCategory(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	out, err := s.ledger.CreateCategory(r.Context(), payload.Name)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, out)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.ledger.ListCategories(r.Context())
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, items(categories))
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.ledger.DeleteCategory(r.Context(), id); err != nil {
		serviceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
