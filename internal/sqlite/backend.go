// Package sqlite implements the SQLite case store.
//
// A Backend owns one database file in the data directory. Attach opens it,
// creates any missing tables, and runs the idempotent migration; the typed
// tables returned by Cases, Suspects, and the other accessors share the
// backend's single connection so all access is serialized.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

// DatabaseFile is the name of the store file inside the data directory.
const DatabaseFile = "casefile.db"

// dsnPragmas are applied by the driver to every new connection. Foreign
// keys must be on for cascading deletes.
const dsnPragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

var _ types.Store = (*Backend)(nil)

// Backend implements types.Store on a local SQLite file.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sqlx.DB
	logger   *zap.Logger
	metrics  *storeMetrics
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{logger: zap.NewNop()}
}

// Attach opens (or creates) DataDir/casefile.db, creates missing tables and
// indexes, and migrates older layouts in place. Existing data is kept.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Metrics are registered once, on the first Attach.
	if b.metrics == nil {
		reg := config.Registerer
		if reg == nil {
			reg = prometheus.NewRegistry()
		}
		b.metrics = newStoreMetrics(reg)
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)
	db, err := sqlx.Open("sqlite", "file:"+dbPath+dsnPragmas)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := initialize(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("initializing schema: %w", err)
	}
	if err := migrate(ctx, db, logger); err != nil {
		db.Close()
		return fmt.Errorf("migrating schema: %w", err)
	}

	b.db = db
	b.config = config
	b.logger = logger
	b.attached = true

	logger.Debug("store attached", zap.String("path", dbPath))
	return nil
}

// Detach closes the database. After Detach, table operations return
// ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
		b.db = nil
	}

	b.attached = false
	b.logger.Debug("store detached")
	return nil
}

// Cases returns the case table.
func (b *Backend) Cases() types.CaseTable { return &casesTable{backend: b} }

// Suspects returns the suspect table, including criminal history.
func (b *Backend) Suspects() types.SuspectTable { return &suspectsTable{backend: b} }

// SuspectLinks returns the suspect-to-case link table.
func (b *Backend) SuspectLinks() types.SuspectLinkTable { return &suspectLinksTable{backend: b} }

// CaseLinks returns the case-to-case link table.
func (b *Backend) CaseLinks() types.CaseLinkTable { return &caseLinksTable{backend: b} }

// Timeline returns the timeline event table.
func (b *Backend) Timeline() types.TimelineTable { return &timelineTable{backend: b} }

// Projects returns the project table.
func (b *Backend) Projects() types.ProjectTable { return &projectsTable{backend: b} }

// Reports returns the composite read models.
func (b *Backend) Reports() types.ReportTable { return &reportsTable{backend: b} }

// SchemaVersion returns the version recorded in PRAGMA user_version.
func (b *Backend) SchemaVersion(ctx context.Context) (int, error) {
	db, err := b.handle()
	if err != nil {
		return 0, err
	}
	var v int
	if err := db.GetContext(ctx, &v, "PRAGMA user_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// handle returns the open database, or ErrStoreDetached.
func (b *Backend) handle() (*sqlx.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.db, nil
}

// withTx runs fn in a transaction, committing when fn returns nil.
func (b *Backend) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	db, err := b.handle()
	if err != nil {
		return err
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// track records the outcome of one store operation. Call it deferred with
// the address of the named error result.
func (b *Backend) track(op string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	if b.metrics != nil {
		b.metrics.observe(op, time.Since(start), err)
	}
	if err != nil && err != types.ErrStoreDetached {
		b.logger.Warn("store operation failed", zap.String("operation", op), zap.Error(err))
	}
}
