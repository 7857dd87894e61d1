package httpapi

import "net/http"

// reportBalances handles GET /v1/reports/balances. Optional query
// parameters: date, horizon_days, min_confidence.
func (s *Server) reportBalances(w http.ResponseWriter, r *http.Request) {
	cfg, ok := queryConfig(w, r)
	if !ok {
		return
	}
	today, ok := queryDate(w, r)
	if !ok {
		return
	}
	rep, err := s.report.ComputeBalances(r.Context(), cfg, today)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, balancesResponse{
		Date:                 today,
		HorizonDays:          cfg.HorizonDays,
		MinConfidence:        cfg.MinConfidence,
		AccountBalances:      rep.AccountBalances,
		ActualCash:           rep.ActualCash,
		CashInBank:           rep.CashInBank,
		ExpectedCash:         rep.ExpectedCash,
		RiskAdjustedCash:     rep.RiskAdjustedCash,
		InvestmentsCurrent:   rep.InvestmentsCurrent,
		InvestmentsCost:      rep.InvestmentsCost,
		OpenReceivablesTotal: rep.OpenReceivablesTotal,
		OpenPayablesTotal:    rep.OpenPayablesTotal,
		DebtTotal:            rep.DebtTotal,
		NetWorth:             rep.NetWorth,
	})
}

// reportMonthly handles GET /v1/reports/monthly for the calendar month
// containing the (optional) date parameter.
func (s *Server) reportMonthly(w http.ResponseWriter, r *http.Request) {
	today, ok := queryDate(w, r)
	if !ok {
		return
	}
	pnl, err := s.report.ComputeMonthlyPnL(r.Context(), today)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, monthlyResponse{
		PeriodStart: pnl.PeriodStart,
		PeriodEnd:   pnl.PeriodEnd,
		Income:      pnl.Income,
		Expense:     pnl.Expense,
		Net:         pnl.Net,
	})
}

// reportTrades handles GET /v1/reports/trades for the calendar month
// containing the (optional) date parameter.
func (s *Server) reportTrades(w http.ResponseWriter, r *http.Request) {
	today, ok := queryDate(w, r)
	if !ok {
		return
	}
	st, err := s.report.ComputeTradeStats(r.Context(), today)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, tradeStatsResponse{
		Total:        st.Total,
		Wins:         st.Wins,
		Losses:       st.Losses,
		BreakEvens:   st.BreakEvens,
		TotalR:       st.TotalR,
		WinRate:      st.WinRate,
		MaxDrawdownR: st.MaxDrawdownR,
	})
}

func (s *Server) listSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := s.store.ListSnapshots(r.Context())
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, items(snapshots))
}

// postSnapshot handles POST /v1/snapshots: recompute the headline metrics
// and persist them as of the given date.
func (s *Server) postSnapshot(w http.ResponseWriter, r *http.Request) {
	cfg, ok := queryConfig(w, r)
	if !ok {
		return
	}
	today, ok := queryDate(w, r)
	if !ok {
		return
	}
	snap, err := s.report.CaptureSnapshot(r.Context(), cfg, today)
	if err != nil {
		serviceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, snap)
}

func (s *Server) deleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteSnapshot(r.Context(), id); err != nil {
		serviceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
