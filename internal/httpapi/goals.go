package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/avely/fintrack/internal/fintrack"
)

func (s *Server) postGoal(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	var g fintrack.Goal
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	out, err := s.tracking.CreateGoal(r.Context(), g)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, out)
}

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.tracking.ListGoals(r.Context())
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, items(goals))
}

// goalAlerts handles GET /v1/goals/alerts: at most three qualifying goals in
// storage order.
func (s *Server) goalAlerts(w http.ResponseWriter, r *http.Request) {
	cfg, ok := queryConfig(w, r)
	if !ok {
		return
	}
	today, ok := queryDate(w, r)
	if !ok {
		return
	}
	alerts, err := s.report.Alerts(r.Context(), cfg, today)
	if err != nil {
		serviceErr(w, err)
		return
	}
	out := make([]alertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, alertResponse{Goal: a.Goal, Progress: a.Progress, Severity: a.Severity})
	}
	toJSON(w, http.StatusOK, items(out))
}

func (s *Server) putGoal(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var g fintrack.Goal
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	g.ID = id
	out, err := s.tracking.UpdateGoal(r.Context(), g)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) deleteGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.tracking.DeleteGoal(r.Context(), id); err != nil {
		serviceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
