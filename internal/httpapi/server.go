// Package httpapi wires the HTTP surface of the tracker. Handlers stay
// thin and delegate every rule to the service layer.
package httpapi

import (
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/avely/fintrack/internal/service/backup"
	"github.com/avely/fintrack/internal/service/ledger"
	"github.com/avely/fintrack/internal/service/report"
	"github.com/avely/fintrack/internal/service/tracking"
)

// Server composes the services over one store and exposes the router.
type Server struct {
	store    Store
	ledger   ledger.Service
	tracking tracking.Service
	report   report.Service
	backup   backup.Service
	log      *slog.Logger
	rt       *chi.Mux
}

// New constructs the HTTP server with routes and middleware.
func New(store Store, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{
		store:    store,
		ledger:   ledger.New(store, store),
		tracking: tracking.New(store, store),
		report:   report.New(store, store),
		backup:   backup.New(store, store),
		log:      logger,
		rt:       r,
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints.
func (s *Server) routes() {
	// Accounts
	s.rt.Post("/v1/accounts", s.postAccount)
	s.rt.Get("/v1/accounts", s.listAccounts)
	s.rt.Put("/v1/accounts/{id}", s.putAccount)
	s.rt.Delete("/v1/accounts/{id}", s.deleteAccount)
	// Categories
	s.rt.Post("/v1/categories", s.postCategory)
	s.rt.Get("/v1/categories", s.listCategories)
	s.rt.Delete("/v1/categories/{id}", s.deleteCategory)
	// Transactions
	s.rt.Post("/v1/transactions", s.postTransaction)
	s.rt.Get("/v1/transactions", s.listTransactions)
	s.rt.Put("/v1/transactions/{id}", s.putTransaction)
	s.rt.Delete("/v1/transactions/{id}", s.deleteTransaction)
	s.rt.Post("/v1/transactions/transfer", s.postTransfer)
	s.rt.Post("/v1/transactions/import", s.postImport)
	// Instruments and positions
	s.rt.Post("/v1/instruments", s.postInstrument)
	s.rt.Get("/v1/instruments", s.listInstruments)
	s.rt.Delete("/v1/instruments/{id}", s.deleteInstrument)
	s.rt.Post("/v1/positions", s.postPosition)
	s.rt.Get("/v1/positions", s.listPositions)
	s.rt.Put("/v1/positions/{id}", s.putPosition)
	s.rt.Delete("/v1/positions/{id}", s.deletePosition)
	// Debts
	s.rt.Post("/v1/debts", s.postDebt)
	s.rt.Get("/v1/debts", s.listDebts)
	s.rt.Put("/v1/debts/{id}", s.putDebt)
	s.rt.Delete("/v1/debts/{id}", s.deleteDebt)
	// Trades
	s.rt.Post("/v1/trades", s.postTrade)
	s.rt.Get("/v1/trades", s.listTrades)
	s.rt.Put("/v1/trades/{id}", s.putTrade)
	s.rt.Delete("/v1/trades/{id}", s.deleteTrade)
	// Goals
	s.rt.Post("/v1/goals", s.postGoal)
	s.rt.Get("/v1/goals", s.listGoals)
	s.rt.Get("/v1/goals/alerts", s.goalAlerts)
	s.rt.Put("/v1/goals/{id}", s.putGoal)
	s.rt.Delete("/v1/goals/{id}", s.deleteGoal)
	// Reports
	s.rt.Get("/v1/reports/balances", s.reportBalances)
	s.rt.Get("/v1/reports/monthly", s.reportMonthly)
	s.rt.Get("/v1/reports/trades", s.reportTrades)
	// Snapshots
	s.rt.Get("/v1/snapshots", s.listSnapshots)
	s.rt.Post("/v1/snapshots", s.postSnapshot)
	s.rt.Delete("/v1/snapshots/{id}", s.deleteSnapshot)
	// Backup
	s.rt.Get("/v1/backup/export", s.backupExport)
	s.rt.Post("/v1/backup/import", s.backupImport)
	// Settings and dictionaries
	s.rt.Get("/v1/settings", s.getSettings)
	s.rt.Put("/v1/settings", s.putSettings)
	s.rt.Get("/v1/dictionary/categories", s.dictionaryCategories)
	s.rt.Get("/v1/dictionary/goal-types", s.dictionaryGoalTypes)
	// Health and metrics (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Method(http.MethodGet, "/metrics", metricsHandler())
}
