// Package bolt implements the durable record store on an embedded bbolt
// database: one bucket per collection, JSON-encoded records keyed by id.
// Listing returns records in insertion order via a per-record sequence
// number, matching the in-memory store.
package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	bbolt "go.etcd.io/bbolt"

	"github.com/avely/fintrack/internal/errs"
	"github.com/avely/fintrack/internal/fintrack"
)

var (
	bucketAccounts     = []byte("accounts")
	bucketTransactions = []byte("transactions")
	bucketCategories   = []byte("categories")
	bucketInstruments  = []byte("instruments")
	bucketPositions    = []byte("positions")
	bucketDebts        = []byte("debts")
	bucketTrades       = []byte("trades")
	bucketGoals        = []byte("goals")
	bucketSnapshots    = []byte("snapshots")
	bucketMeta         = []byte("meta")
)

var allBuckets = [][]byte{
	bucketAccounts, bucketTransactions, bucketCategories, bucketInstruments,
	bucketPositions, bucketDebts, bucketTrades, bucketGoals, bucketSnapshots,
	bucketMeta,
}

// settingsKey is the fixed key of the singleton settings record in meta.
var settingsKey = []byte("settings")

// envelope wraps a stored record with its insertion sequence. The sequence
// survives upserts so last-write-wins updates keep their original position.
type envelope struct {
	Seq    uint64          `json:"seq"`
	Record json.RawMessage `json:"record"`
}

// Store is the bbolt-backed record store.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the database file and ensures every collection
// bucket exists.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, unavailable("open "+path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, unavailable("init buckets", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error { return s.db.Close() }

// Ready reports whether the database can serve a read transaction.
func (s *Store) Ready(context.Context) error {
	err := s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketMeta) == nil {
			return fmt.Errorf("meta bucket missing")
		}
		return nil
	})
	if err != nil {
		return unavailable("ready", err)
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("bolt: %s: %v: %w", op, err, errs.ErrStorageUnavailable)
}

func listIn[T any](s *Store, bucket []byte) ([]T, error) {
	type row struct {
		seq uint64
		rec T
	}
	var rows []row
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var env envelope
			if err := json.Unmarshal(v, &env); err != nil {
				return fmt.Errorf("decode envelope in %s: %w", bucket, err)
			}
			var rec T
			if err := json.Unmarshal(env.Record, &rec); err != nil {
				return fmt.Errorf("decode record in %s: %w", bucket, err)
			}
			rows = append(rows, row{seq: env.Seq, rec: rec})
			return nil
		})
	})
	if err != nil {
		return nil, unavailable("list "+string(bucket), err)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.rec)
	}
	return out, nil
}

func getIn[T any](s *Store, bucket []byte, id uuid.UUID) (T, error) {
	var zero T
	var rec T
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return errs.ErrNotFound
		}
		v := b.Get(id[:])
		if v == nil {
			return errs.ErrNotFound
		}
		var env envelope
		if err := json.Unmarshal(v, &env); err != nil {
			return fmt.Errorf("decode envelope in %s: %w", bucket, err)
		}
		return json.Unmarshal(env.Record, &rec)
	})
	if err != nil {
		// Absence is its own condition, not a store failure.
		if errors.Is(err, errs.ErrNotFound) {
			return zero, err
		}
		return zero, unavailable("get "+string(bucket), err)
	}
	return rec, nil
}

func putIn[T any](s *Store, bucket []byte, id uuid.UUID, rec T) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record for %s: %w", bucket, err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		env := envelope{Record: raw}
		if prev := b.Get(id[:]); prev != nil {
			var old envelope
			if err := json.Unmarshal(prev, &old); err == nil {
				env.Seq = old.Seq
			}
		}
		if env.Seq == 0 {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			env.Seq = seq
		}
		buf, err := json.Marshal(env)
		if err != nil {
			return err
		}
		return b.Put(id[:], buf)
	})
	if err != nil {
		return unavailable("put "+string(bucket), err)
	}
	return nil
}

func delIn(s *Store, bucket []byte, id uuid.UUID) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Delete(id[:])
	})
	if err != nil {
		return unavailable("delete "+string(bucket), err)
	}
	return nil
}

func clearIn(s *Store, bucket []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucket)
		return err
	})
	if err != nil {
		return unavailable("clear "+string(bucket), err)
	}
	return nil
}

// Accounts

func (s *Store) ListAccounts(context.Context) ([]fintrack.Account, error) {
	return listIn[fintrack.Account](s, bucketAccounts)
}

func (s *Store) GetAccount(_ context.Context, id uuid.UUID) (fintrack.Account, error) {
	return getIn[fintrack.Account](s, bucketAccounts, id)
}

func (s *Store) SaveAccount(_ context.Context, a fintrack.Account) error {
	return putIn(s, bucketAccounts, a.ID, a)
}

func (s *Store) DeleteAccount(_ context.Context, id uuid.UUID) error {
	return delIn(s, bucketAccounts, id)
}

func (s *Store) ClearAccounts(context.Context) error {
	return clearIn(s, bucketAccounts)
}

// Transactions

func (s *Store) ListTransactions(context.Context) ([]fintrack.Transaction, error) {
	return listIn[fintrack.Transaction](s, bucketTransactions)
}

func (s *Store) GetTransaction(_ context.Context, id uuid.UUID) (fintrack.Transaction, error) {
	return getIn[fintrack.Transaction](s, bucketTransactions, id)
}

func (s *Store) SaveTransaction(_ context.Context, t fintrack.Transaction) error {
	return putIn(s, bucketTransactions, t.ID, t)
}

func (s *Store) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	return delIn(s, bucketTransactions, id)
}

func (s *Store) ClearTransactions(context.Context) error {
	return clearIn(s, bucketTransactions)
}

// Categories

func (s *Store) ListCategories(context.Context) ([]fintrack.Category, error) {
	return listIn[fintrack.Category](s, bucketCategories)
}

func (s *Store) GetCategory(_ context.Context, id uuid.UUID) (fintrack.Category, error) {
	return getIn[fintrack.Category](s, bucketCategories, id)
}

func (s *Store) SaveCategory(_ context.Context, c fintrack.Category) error {
	return putIn(s, bucketCategories, c.ID, c)
}

func (s *Store) DeleteCategory(_ context.Context, id uuid.UUID) error {
	return delIn(s, bucketCategories, id)
}

func (s *Store) ClearCategories(context.Context) error {
	return clearIn(s, bucketCategories)
}

// Instruments

func (s *Store) ListInstruments(context.Context) ([]fintrack.Instrument, error) {
	return listIn[fintrack.Instrument](s, bucketInstruments)
}

func (s *Store) GetInstrument(_ context.Context, id uuid.UUID) (fintrack.Instrument, error) {
	return getIn[fintrack.Instrument](s, bucketInstruments, id)
}

func (s *Store) SaveInstrument(_ context.Context, i fintrack.Instrument) error {
	return putIn(s, bucketInstruments, i.ID, i)
}

func (s *Store) DeleteInstrument(_ context.Context, id uuid.UUID) error {
	return delIn(s, bucketInstruments, id)
}

func (s *Store) ClearInstruments(context.Context) error {
	return clearIn(s, bucketInstruments)
}

// Positions

func (s *Store) ListPositions(context.Context) ([]fintrack.Position, error) {
	return listIn[fintrack.Position](s, bucketPositions)
}

func (s *Store) GetPosition(_ context.Context, id uuid.UUID) (fintrack.Position, error) {
	return getIn[fintrack.Position](s, bucketPositions, id)
}

func (s *Store) SavePosition(_ context.Context, p fintrack.Position) error {
	return putIn(s, bucketPositions, p.ID, p)
}

func (s *Store) DeletePosition(_ context.Context, id uuid.UUID) error {
	return delIn(s, bucketPositions, id)
}

func (s *Store) ClearPositions(context.Context) error {
	return clearIn(s, bucketPositions)
}

// Debts

func (s *Store) ListDebts(context.Context) ([]fintrack.Debt, error) {
	return listIn[fintrack.Debt](s, bucketDebts)
}

func (s *Store) GetDebt(_ context.Context, id uuid.UUID) (fintrack.Debt, error) {
	return getIn[fintrack.Debt](s, bucketDebts, id)
}

func (s *Store) SaveDebt(_ context.Context, d fintrack.Debt) error {
	return putIn(s, bucketDebts, d.ID, d)
}

func (s *Store) DeleteDebt(_ context.Context, id uuid.UUID) error {
	return delIn(s, bucketDebts, id)
}

func (s *Store) ClearDebts(context.Context) error {
	return clearIn(s, bucketDebts)
}

// Trades

func (s *Store) ListTrades(context.Context) ([]fintrack.Trade, error) {
	return listIn[fintrack.Trade](s, bucketTrades)
}

func (s *Store) GetTrade(_ context.Context, id uuid.UUID) (fintrack.Trade, error) {
	return getIn[fintrack.Trade](s, bucketTrades, id)
}

func (s *Store) SaveTrade(_ context.Context, t fintrack.Trade) error {
	return putIn(s, bucketTrades, t.ID, t)
}

func (s *Store) DeleteTrade(_ context.Context, id uuid.UUID) error {
	return delIn(s, bucketTrades, id)
}

func (s *Store) ClearTrades(context.Context) error {
	return clearIn(s, bucketTrades)
}

// Goals

func (s *Store) ListGoals(context.Context) ([]fintrack.Goal, error) {
	return listIn[fintrack.Goal](s, bucketGoals)
}

func (s *Store) GetGoal(_ context.Context, id uuid.UUID) (fintrack.Goal, error) {
	return getIn[fintrack.Goal](s, bucketGoals, id)
}

func (s *Store) SaveGoal(_ context.Context, g fintrack.Goal) error {
	return putIn(s, bucketGoals, g.ID, g)
}

func (s *Store) DeleteGoal(_ context.Context, id uuid.UUID) error {
	return delIn(s, bucketGoals, id)
}

func (s *Store) ClearGoals(context.Context) error {
	return clearIn(s, bucketGoals)
}

// Snapshots

func (s *Store) ListSnapshots(context.Context) ([]fintrack.Snapshot, error) {
	return listIn[fintrack.Snapshot](s, bucketSnapshots)
}

func (s *Store) GetSnapshot(_ context.Context, id uuid.UUID) (fintrack.Snapshot, error) {
	return getIn[fintrack.Snapshot](s, bucketSnapshots, id)
}

func (s *Store) SaveSnapshot(_ context.Context, sn fintrack.Snapshot) error {
	return putIn(s, bucketSnapshots, sn.ID, sn)
}

func (s *Store) DeleteSnapshot(_ context.Context, id uuid.UUID) error {
	return delIn(s, bucketSnapshots, id)
}

func (s *Store) ClearSnapshots(context.Context) error {
	return clearIn(s, bucketSnapshots)
}

// Settings (singleton meta record)

func (s *Store) Settings(context.Context) (fintrack.Settings, error) {
	var set fintrack.Settings
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketMeta).Get(settingsKey)
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &set)
	})
	if err != nil {
		return fintrack.Settings{}, unavailable("settings", err)
	}
	return set, nil
}

func (s *Store) SaveSettings(_ context.Context, set fintrack.Settings) error {
	buf, err := json.Marshal(set)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(settingsKey, buf)
	})
	if err != nil {
		return unavailable("save settings", err)
	}
	return nil
}
