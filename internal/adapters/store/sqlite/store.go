// Package sqlite provides a durable Repository backed by SQLite.
//
// Entities live in one row each; their history is a child table keyed by
// (entity_id, version). A commit is a single transaction whose UPDATE is
// conditioned on the expected version, so the version check and the write
// cannot be separated by another writer.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/option"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/result"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema
// 1 - Added index on entities.state
const currentSchemaVersion = 1

// Store is a Repository for entities whose state is a string kind.
type Store[S ~string] struct {
	db *sql.DB
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Open creates or opens a SQLite database at path and applies pragmas and
// migrations. Safe to call repeatedly on the same file.
func Open[S ~string](path string) (*Store[S], error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store[S]{db: db}, nil
}

// Close closes the database connection.
func (s *Store[S]) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Name returns the store name used in health reports.
func (s *Store[S]) Name() string { return "store" }

// HealthCheck pings the database.
func (s *Store[S]) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping: %w", err)
	}
	return nil
}

// Load implements ports.Repository.
func (s *Store[S]) Load(ctx context.Context, id fsm.EntityID) (option.Option[fsm.Entity[S]], error) {
	entity, found, err := load[S](ctx, s.db, id)
	if err != nil {
		return option.None[fsm.Entity[S]](), err
	}
	return option.FromOK(entity, found), nil
}

// Insert implements ports.Repository. History already present on entity is
// stored with it.
func (s *Store[S]) Insert(ctx context.Context, entity fsm.Entity[S]) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert entity: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx,
		`INSERT INTO entities (id, state, version) VALUES (?, ?, ?)`,
		entity.ID.String(), string(entity.State), int64(entity.Version), //nolint:gosec // versions stay far below MaxInt64
	)
	if err != nil {
		if isPrimaryKeyViolation(err) {
			return fmt.Errorf("insert entity %s: %w", entity.ID, domain.ErrConflict)
		}
		return fmt.Errorf("insert entity %s: %w", entity.ID, err)
	}

	for _, rec := range entity.History {
		if err := insertRecord(ctx, tx, entity.ID, rec); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert entity %s: commit: %w", entity.ID, err)
	}
	return nil
}

// TryCommit implements ports.Repository.
func (s *Store[S]) TryCommit(
	ctx context.Context,
	id fsm.EntityID,
	expectedVersion uint64,
	newState S,
	record fsm.TransitionRecord[S],
) (result.Result[fsm.Entity[S], fsm.VersionConflict], error) {
	var zero result.Result[fsm.Entity[S], fsm.VersionConflict]

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return zero, fmt.Errorf("commit entity %s: begin: %w", id, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx,
		`UPDATE entities SET state = ?, version = version + 1 WHERE id = ? AND version = ?`,
		string(newState), id.String(), int64(expectedVersion), //nolint:gosec // versions stay far below MaxInt64
	)
	if err != nil {
		return zero, fmt.Errorf("commit entity %s: update: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return zero, fmt.Errorf("commit entity %s: rows affected: %w", id, err)
	}

	if affected == 0 {
		var actual int64
		err := tx.QueryRowContext(ctx, `SELECT version FROM entities WHERE id = ?`, id.String()).Scan(&actual)
		if errors.Is(err, sql.ErrNoRows) {
			return zero, fmt.Errorf("commit entity %s: %w", id, domain.ErrNotFound)
		}
		if err != nil {
			return zero, fmt.Errorf("commit entity %s: read version: %w", id, err)
		}
		return result.Failure[fsm.Entity[S]](fsm.VersionConflict{
			Expected: expectedVersion,
			Actual:   uint64(actual), //nolint:gosec // CHECK constraint keeps version non-negative
		}), nil
	}

	record.To = newState
	record.Version = expectedVersion + 1
	if err := insertRecord(ctx, tx, id, record); err != nil {
		return zero, err
	}

	updated, _, err := load[S](ctx, tx, id)
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("commit entity %s: commit: %w", id, err)
	}

	return result.Success[fsm.Entity[S], fsm.VersionConflict](updated), nil
}

func load[S ~string](ctx context.Context, q querier, id fsm.EntityID) (fsm.Entity[S], bool, error) {
	var (
		state   string
		version int64
	)
	err := q.QueryRowContext(ctx, `SELECT state, version FROM entities WHERE id = ?`, id.String()).Scan(&state, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return fsm.Entity[S]{}, false, nil
	}
	if err != nil {
		return fsm.Entity[S]{}, false, fmt.Errorf("load entity %s: %w", id, err)
	}

	history, err := loadHistory[S](ctx, q, id)
	if err != nil {
		return fsm.Entity[S]{}, false, err
	}

	return fsm.Entity[S]{
		ID:      id,
		State:   S(state),
		Version: uint64(version), //nolint:gosec // CHECK constraint keeps version non-negative
		History: history,
	}, true, nil
}

func loadHistory[S ~string](ctx context.Context, q querier, id fsm.EntityID) ([]fsm.TransitionRecord[S], error) {
	rows, err := q.QueryContext(ctx, `
		SELECT version, from_state, to_state, event, at
		FROM transitions
		WHERE entity_id = ?
		ORDER BY version ASC
	`, id.String())
	if err != nil {
		return nil, fmt.Errorf("load history %s: %w", id, err)
	}
	defer rows.Close()

	var history []fsm.TransitionRecord[S]
	for rows.Next() {
		var (
			version    int64
			from, to   string
			event, raw string
		)
		if err := rows.Scan(&version, &from, &to, &event, &raw); err != nil {
			return nil, fmt.Errorf("scan history %s: %w", id, err)
		}
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("parse history timestamp %q: %w", raw, err)
		}
		history = append(history, fsm.TransitionRecord[S]{
			From:    S(from),
			To:      S(to),
			Event:   event,
			At:      at,
			Version: uint64(version), //nolint:gosec // versions are written from uint64
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history %s: %w", id, err)
	}
	return history, nil
}

func insertRecord[S ~string](ctx context.Context, tx *sql.Tx, id fsm.EntityID, rec fsm.TransitionRecord[S]) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transitions (entity_id, version, from_state, to_state, event, at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		id.String(),
		int64(rec.Version), //nolint:gosec // versions stay far below MaxInt64
		string(rec.From),
		string(rec.To),
		rec.Event,
		rec.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert transition %s v%d: %w", id, rec.Version, err)
	}
	return nil
}

func isPrimaryKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("executing %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return runMigrations(db)
}

// runMigrations applies incremental migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading user_version: %w", err)
	}

	if version < 1 {
		if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_entities_state ON entities(state)`); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("setting user_version: %w", err)
	}
	return nil
}
