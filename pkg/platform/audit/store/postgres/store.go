// Package postgres persists archived audit events in PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE audit_archive (
//	    id            UUID PRIMARY KEY,
//	    category      TEXT NOT NULL,
//	    occurred_at   TIMESTAMPTZ NOT NULL,
//	    case_id       TEXT NOT NULL,
//	    action        TEXT NOT NULL,
//	    actor         TEXT NOT NULL,
//	    actor_details TEXT NOT NULL DEFAULT '',
//	    request_id    TEXT NOT NULL DEFAULT '',
//	    model         TEXT NOT NULL DEFAULT '',
//	    detail        TEXT NOT NULL DEFAULT ''
//	);
//	CREATE INDEX audit_archive_case_idx ON audit_archive (case_id, occurred_at);
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	audit "caseline/pkg/platform/audit"
	txcontext "caseline/pkg/platform/tx"
)

// Store implements audit.Store on PostgreSQL.
type Store struct {
	db *sql.DB
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execer returns the context's transaction when a caller opened one, so
// archive writes can join an outer transaction.
func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// New creates a PostgreSQL audit store over an existing connection pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open dials PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{db: db}, nil
}

// Append writes one event. ON CONFLICT DO NOTHING makes worker retries
// idempotent.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	const query = `
		INSERT INTO audit_archive
			(id, category, occurred_at, case_id, action, actor, actor_details, request_id, model, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		event.ID, string(event.Category), event.Timestamp, event.CaseID,
		event.Action, event.Actor, event.ActorDetails, event.RequestID,
		event.Model, event.Detail,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListByCase returns a case's archived events in chronological order.
func (s *Store) ListByCase(ctx context.Context, caseID string) ([]audit.Event, error) {
	const query = `
		SELECT id, category, occurred_at, case_id, action, actor, actor_details, request_id, model, detail
		FROM audit_archive
		WHERE case_id = $1
		ORDER BY occurred_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListRecent returns the most recent events across all cases.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
		SELECT id, category, occurred_at, case_id, action, actor, actor_details, request_id, model, detail
		FROM audit_archive
		ORDER BY occurred_at DESC, id DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// Close closes the underlying pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var out []audit.Event
	for rows.Next() {
		var e audit.Event
		var category string
		if err := rows.Scan(&e.ID, &category, &e.Timestamp, &e.CaseID, &e.Action,
			&e.Actor, &e.ActorDetails, &e.RequestID, &e.Model, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		out = append(out, e)
	}
	return out, rows.Err()
}
