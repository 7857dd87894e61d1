package httpapi

import (
	"context"

	"github.com/google/uuid"

	"github.com/avely/fintrack/internal/service/backup"
	"github.com/avely/fintrack/internal/service/ledger"
	"github.com/avely/fintrack/internal/service/report"
	"github.com/avely/fintrack/internal/service/tracking"
)

// Store is the full record-store contract the API consumes. It is the union
// of the consumer-side interfaces declared by the services, plus the
// snapshot and settings reads the handlers use directly. Both the memory
// and the bolt store satisfy it.
type Store interface {
	ledger.Repo
	ledger.Writer
	tracking.Repo
	tracking.Writer
	report.Repo
	report.Writer
	backup.Repo
	backup.Writer

	DeleteSnapshot(ctx context.Context, id uuid.UUID) error
}

// ReadyChecker is optionally implemented by stores to indicate readiness.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}
