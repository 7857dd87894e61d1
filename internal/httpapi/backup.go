package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/avely/fintrack/internal/service/backup"
)

// backupExport handles GET /v1/backup/export: the whole store as one dump.
func (s *Server) backupExport(w http.ResponseWriter, r *http.Request) {
	dump, err := s.backup.Export(r.Context())
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, dump)
}

// backupImport handles POST /v1/backup/import: validate, then replace every
// collection with the dump's contents.
func (s *Server) backupImport(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	var dump backup.Dump
	if err := json.NewDecoder(r.Body).Decode(&dump); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if err := s.backup.Import(r.Context(), dump); err != nil {
		serviceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
