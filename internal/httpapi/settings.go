package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/avely/fintrack/internal/dictionary"
	"github.com/avely/fintrack/internal/fintrack"
)

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.Settings(r.Context())
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, settings)
}

// putSettings overwrites the settings singleton. The seeded flag is managed
// by the startup path and carried through unchanged.
func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	current, err := s.store.Settings(r.Context())
	if err != nil {
		serviceErr(w, err)
		return
	}
	var payload fintrack.Settings
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	payload.BaseCurrency = strings.ToUpper(strings.TrimSpace(payload.BaseCurrency))
	if payload.BaseCurrency == "" {
		badRequest(w, "base_currency is required")
		return
	}
	payload.Seeded = current.Seeded
	if err := s.store.SaveSettings(r.Context(), payload); err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, payload)
}

func (s *Server) dictionaryCategories(w http.ResponseWriter, r *http.Request) {
	toJSON(w, http.StatusOK, items(dictionary.DefaultCategories))
}

func (s *Server) dictionaryGoalTypes(w http.ResponseWriter, r *http.Request) {
	toJSON(w, http.StatusOK, items(dictionary.GoalTypes))
}
