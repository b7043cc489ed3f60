package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/marshallshelly/pebble-news/pkg/runtime"
)

// DefaultLockID is the advisory lock key serialising migration runs.
const DefaultLockID int64 = 7301126

// conn is the session a migration run holds for its whole duration, so the
// session-level advisory lock is released on the connection that took it.
type conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Executor executes and tracks database migrations.
type Executor struct {
	pool   *pgxpool.Pool
	lockID int64
	log    logrus.FieldLogger
}

// NewExecutor creates a new migration executor.
func NewExecutor(pool *pgxpool.Pool, log logrus.FieldLogger) *Executor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Executor{
		pool:   pool,
		lockID: DefaultLockID,
		log:    log,
	}
}

// WithLockID sets a custom advisory lock ID.
func (e *Executor) WithLockID(lockID int64) *Executor {
	e.lockID = lockID
	return e
}

// session acquires a connection, ensures the tracking table exists and runs
// fn under the advisory lock.
func (e *Executor) session(ctx context.Context, fn func(c conn) error) error {
	pc, err := e.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer pc.Release()

	if err := initialize(ctx, pc); err != nil {
		return err
	}

	if _, err := pc.Exec(ctx, "SELECT pg_advisory_lock($1)", e.lockID); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() {
		if _, err := pc.Exec(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", e.lockID); err != nil {
			e.log.WithError(err).Warn("failed to release migration lock")
		}
	}()

	return fn(pc)
}

// initialize creates the schema_migrations table if it doesn't exist.
func initialize(ctx context.Context, c conn) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(14) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			applied_at TIMESTAMP,
			error TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`
	if _, err := c.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

func records(ctx context.Context, c conn) (map[string]MigrationRecord, error) {
	rows, err := c.Query(ctx, `
		SELECT version, name, status, applied_at, error
		FROM schema_migrations
		ORDER BY version ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (MigrationRecord, error) {
		var r MigrationRecord
		err := row.Scan(&r.Version, &r.Name, &r.Status, &r.AppliedAt, &r.Error)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan migration record: %w", err)
	}

	byVersion := make(map[string]MigrationRecord, len(list))
	for _, r := range list {
		byVersion[r.Version] = r
	}
	return byVersion, nil
}

// Up applies every pending migration in version order and returns the ones
// applied (or, with dryRun, the ones that would be).
func (e *Executor) Up(ctx context.Context, migrations []Migration, dryRun bool) ([]Migration, error) {
	var done []Migration
	err := e.session(ctx, func(c conn) error {
		existing, err := records(ctx, c)
		if err != nil {
			return err
		}
		for _, m := range migrations {
			if existing[m.Version].Status == StatusApplied {
				continue
			}
			if !dryRun {
				if err := e.apply(ctx, c, m); err != nil {
					return err
				}
			}
			e.logStep(m, dryRun, "migration applied", "migration pending")
			done = append(done, m)
		}
		return nil
	})
	return done, err
}

// logStep reports one migration step. Dry runs log pending instead of done.
func (e *Executor) logStep(m Migration, dryRun bool, done, pending string) {
	msg := done
	if dryRun {
		msg = pending
	}
	e.log.WithFields(logrus.Fields{"version": m.Version, "name": m.Name, "dry_run": dryRun}).Info(msg)
}

// Down rolls back the most recently applied migration. It returns nil when
// nothing is applied.
func (e *Executor) Down(ctx context.Context, migrations []Migration, dryRun bool) (*Migration, error) {
	var rolled *Migration
	err := e.session(ctx, func(c conn) error {
		existing, err := records(ctx, c)
		if err != nil {
			return err
		}
		for i := len(migrations) - 1; i >= 0; i-- {
			m := migrations[i]
			if existing[m.Version].Status != StatusApplied {
				continue
			}
			if !dryRun {
				if err := rollback(ctx, c, m); err != nil {
					return err
				}
			}
			e.logStep(m, dryRun, "migration rolled back", "migration would roll back")
			rolled = &m
			return nil
		}
		return nil
	})
	return rolled, err
}

// Status reports every known migration with its tracked state.
func (e *Executor) Status(ctx context.Context, migrations []Migration) ([]MigrationRecord, error) {
	var out []MigrationRecord
	err := e.session(ctx, func(c conn) error {
		existing, err := records(ctx, c)
		if err != nil {
			return err
		}
		out = statusOf(migrations, existing)
		return nil
	})
	return out, err
}

func statusOf(migrations []Migration, existing map[string]MigrationRecord) []MigrationRecord {
	out := make([]MigrationRecord, 0, len(migrations))
	for _, m := range migrations {
		if r, ok := existing[m.Version]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, MigrationRecord{Version: m.Version, Name: m.Name, Status: StatusPending})
	}
	return out
}

// apply executes a migration's up SQL in a transaction. A failing statement
// is recorded as failed in schema_migrations.
func (e *Executor) apply(ctx context.Context, c conn, m Migration) error {
	err := runtime.WithTx(ctx, c, func(tx pgx.Tx) error {
		for i, stmt := range splitSQL(m.UpSQL) {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return &runtime.MigrationError{Version: m.Version, Message: fmt.Sprintf("statement %d failed", i+1), Err: err}
			}
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO schema_migrations (version, name, status, applied_at)
			VALUES ($1, $2, 'applied', $3)
			ON CONFLICT (version) DO UPDATE SET status = 'applied', applied_at = $3, error = NULL
		`, m.Version, m.Name, time.Now())
		if err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
		return nil
	})

	var migErr *runtime.MigrationError
	if errors.As(err, &migErr) {
		e.recordFailure(ctx, c, m, fmt.Sprintf("%s: %v", migErr.Message, migErr.Err))
	}
	return err
}

func (e *Executor) recordFailure(ctx context.Context, c conn, m Migration, msg string) {
	_, err := c.Exec(ctx, `
		INSERT INTO schema_migrations (version, name, status, error)
		VALUES ($1, $2, 'failed', $3)
		ON CONFLICT (version) DO UPDATE SET status = 'failed', error = $3
	`, m.Version, m.Name, msg)
	if err != nil {
		e.log.WithError(err).WithField("version", m.Version).Warn("failed to record migration failure")
	}
}

// rollback executes a migration's down SQL and removes its record.
func rollback(ctx context.Context, c conn, m Migration) error {
	return runtime.WithTx(ctx, c, func(tx pgx.Tx) error {
		for i, stmt := range splitSQL(m.DownSQL) {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return &runtime.MigrationError{Version: m.Version, Message: fmt.Sprintf("rollback statement %d failed", i+1), Err: err}
			}
		}

		if _, err := tx.Exec(ctx, "DELETE FROM schema_migrations WHERE version = $1", m.Version); err != nil {
			return fmt.Errorf("failed to delete migration record: %w", err)
		}
		return nil
	})
}
