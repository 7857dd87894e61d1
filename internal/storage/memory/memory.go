// Package memory provides the in-memory record store used for development
// and tests. It mirrors the durable store's semantics: upsert puts,
// idempotent deletes, and listing in insertion order.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/avely/fintrack/internal/errs"
	"github.com/avely/fintrack/internal/fintrack"
)

// col is one named collection: records by id plus insertion order.
type col[T any] struct {
	items map[uuid.UUID]T
	order []uuid.UUID
}

func newCol[T any]() *col[T] {
	return &col[T]{items: make(map[uuid.UUID]T)}
}

func (c *col[T]) put(id uuid.UUID, v T) {
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = v
}

func (c *col[T]) get(id uuid.UUID) (T, bool) {
	v, ok := c.items[id]
	return v, ok
}

func (c *col[T]) del(id uuid.UUID) {
	if _, ok := c.items[id]; !ok {
		return
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *col[T]) list() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

func (c *col[T]) clear() {
	c.items = make(map[uuid.UUID]T)
	c.order = nil
}

// Store keeps every collection behind one RWMutex. Records are plain values,
// so results handed to callers never alias stored state.
type Store struct {
	mu           sync.RWMutex
	accounts     *col[fintrack.Account]
	transactions *col[fintrack.Transaction]
	categories   *col[fintrack.Category]
	instruments  *col[fintrack.Instrument]
	positions    *col[fintrack.Position]
	debts        *col[fintrack.Debt]
	trades       *col[fintrack.Trade]
	goals        *col[fintrack.Goal]
	snapshots    *col[fintrack.Snapshot]
	settings     fintrack.Settings
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{
		accounts:     newCol[fintrack.Account](),
		transactions: newCol[fintrack.Transaction](),
		categories:   newCol[fintrack.Category](),
		instruments:  newCol[fintrack.Instrument](),
		positions:    newCol[fintrack.Position](),
		debts:        newCol[fintrack.Debt](),
		trades:       newCol[fintrack.Trade](),
		goals:        newCol[fintrack.Goal](),
		snapshots:    newCol[fintrack.Snapshot](),
	}
}

// Ready implements the readiness contract; an in-memory store is always ready.
func (s *Store) Ready(context.Context) error { return nil }

func listOf[T any](s *Store, c *col[T]) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return c.list()
}

func getOf[T any](s *Store, c *col[T], id uuid.UUID) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := c.get(id)
	if !ok {
		var zero T
		return zero, errs.ErrNotFound
	}
	return v, nil
}

func putOf[T any](s *Store, c *col[T], id uuid.UUID, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.put(id, v)
}

func delOf[T any](s *Store, c *col[T], id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.del(id)
}

func clearOf[T any](s *Store, c *col[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.clear()
}

// Accounts

func (s *Store) ListAccounts(context.Context) ([]fintrack.Account, error) {
	return listOf(s, s.accounts), nil
}

func (s *Store) GetAccount(_ context.Context, id uuid.UUID) (fintrack.Account, error) {
	return getOf(s, s.accounts, id)
}

func (s *Store) SaveAccount(_ context.Context, a fintrack.Account) error {
	putOf(s, s.accounts, a.ID, a)
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, id uuid.UUID) error {
	delOf(s, s.accounts, id)
	return nil
}

func (s *Store) ClearAccounts(context.Context) error {
	clearOf(s, s.accounts)
	return nil
}

// Transactions

func (s *Store) ListTransactions(context.Context) ([]fintrack.Transaction, error) {
	return listOf(s, s.transactions), nil
}

func (s *Store) GetTransaction(_ context.Context, id uuid.UUID) (fintrack.Transaction, error) {
	return getOf(s, s.transactions, id)
}

func (s *Store) SaveTransaction(_ context.Context, t fintrack.Transaction) error {
	putOf(s, s.transactions, t.ID, t)
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	delOf(s, s.transactions, id)
	return nil
}

func (s *Store) ClearTransactions(context.Context) error {
	clearOf(s, s.transactions)
	return nil
}

// Categories

func (s *Store) ListCategories(context.Context) ([]fintrack.Category, error) {
	return listOf(s, s.categories), nil
}

func (s *Store) GetCategory(_ context.Context, id uuid.UUID) (fintrack.Category, error) {
	return getOf(s, s.categories, id)
}

func (s *Store) SaveCategory(_ context.Context, c fintrack.Category) error {
	putOf(s, s.categories, c.ID, c)
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id uuid.UUID) error {
	delOf(s, s.categories, id)
	return nil
}

func (s *Store) ClearCategories(context.Context) error {
	clearOf(s, s.categories)
	return nil
}

// Instruments

func (s *Store) ListInstruments(context.Context) ([]fintrack.Instrument, error) {
	return listOf(s, s.instruments), nil
}

func (s *Store) GetInstrument(_ context.Context, id uuid.UUID) (fintrack.Instrument, error) {
	return getOf(s, s.instruments, id)
}

func (s *Store) SaveInstrument(_ context.Context, i fintrack.Instrument) error {
	putOf(s, s.instruments, i.ID, i)
	return nil
}

func (s *Store) DeleteInstrument(_ context.Context, id uuid.UUID) error {
	delOf(s, s.instruments, id)
	return nil
}

func (s *Store) ClearInstruments(context.Context) error {
	clearOf(s, s.instruments)
	return nil
}

// Positions

func (s *Store) ListPositions(context.Context) ([]fintrack.Position, error) {
	return listOf(s, s.positions), nil
}

func (s *Store) GetPosition(_ context.Context, id uuid.UUID) (fintrack.Position, error) {
	return getOf(s, s.positions, id)
}

func (s *Store) SavePosition(_ context.Context, p fintrack.Position) error {
	putOf(s, s.positions, p.ID, p)
	return nil
}

func (s *Store) DeletePosition(_ context.Context, id uuid.UUID) error {
	delOf(s, s.positions, id)
	return nil
}

func (s *Store) ClearPositions(context.Context) error {
	clearOf(s, s.positions)
	return nil
}

// Debts

func (s *Store) ListDebts(context.Context) ([]fintrack.Debt, error) {
	return listOf(s, s.debts), nil
}

func (s *Store) GetDebt(_ context.Context, id uuid.UUID) (fintrack.Debt, error) {
	return getOf(s, s.debts, id)
}

func (s *Store) SaveDebt(_ context.Context, d fintrack.Debt) error {
	putOf(s, s.debts, d.ID, d)
	return nil
}

func (s *Store) DeleteDebt(_ context.Context, id uuid.UUID) error {
	delOf(s, s.debts, id)
	return nil
}

func (s *Store) ClearDebts(context.Context) error {
	clearOf(s, s.debts)
	return nil
}

// Trades

func (s *Store) ListTrades(context.Context) ([]fintrack.Trade, error) {
	return listOf(s, s.trades), nil
}

func (s *Store) GetTrade(_ context.Context, id uuid.UUID) (fintrack.Trade, error) {
	return getOf(s, s.trades, id)
}

func (s *Store) SaveTrade(_ context.Context, t fintrack.Trade) error {
	putOf(s, s.trades, t.ID, t)
	return nil
}

func (s *Store) DeleteTrade(_ context.Context, id uuid.UUID) error {
	delOf(s, s.trades, id)
	return nil
}

func (s *Store) ClearTrades(context.Context) error {
	clearOf(s, s.trades)
	return nil
}

// Goals

func (s *Store) ListGoals(context.Context) ([]fintrack.Goal, error) {
	return listOf(s, s.goals), nil
}

func (s *Store) GetGoal(_ context.Context, id uuid.UUID) (fintrack.Goal, error) {
	return getOf(s, s.goals, id)
}

func (s *Store) SaveGoal(_ context.Context, g fintrack.Goal) error {
	putOf(s, s.goals, g.ID, g)
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, id uuid.UUID) error {
	delOf(s, s.goals, id)
	return nil
}

func (s *Store) ClearGoals(context.Context) error {
	clearOf(s, s.goals)
	return nil
}

// Snapshots

func (s *Store) ListSnapshots(context.Context) ([]fintrack.Snapshot, error) {
	return listOf(s, s.snapshots), nil
}

func (s *Store) GetSnapshot(_ context.Context, id uuid.UUID) (fintrack.Snapshot, error) {
	return getOf(s, s.snapshots, id)
}

func (s *Store) SaveSnapshot(_ context.Context, sn fintrack.Snapshot) error {
	putOf(s, s.snapshots, sn.ID, sn)
	return nil
}

func (s *Store) DeleteSnapshot(_ context.Context, id uuid.UUID) error {
	delOf(s, s.snapshots, id)
	return nil
}

func (s *Store) ClearSnapshots(context.Context) error {
	clearOf(s, s.snapshots)
	return nil
}

// Settings (singleton meta record)

func (s *Store) Settings(context.Context) (fintrack.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *Store) SaveSettings(_ context.Context, set fintrack.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = set
	return nil
}
