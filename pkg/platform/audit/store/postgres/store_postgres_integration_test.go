//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	audit "caseline/pkg/platform/audit"
	"caseline/pkg/platform/audit/store/postgres"
	txcontext "caseline/pkg/platform/tx"
	"caseline/pkg/testutil/containers"
)

const archiveSchema = `
CREATE TABLE IF NOT EXISTS audit_archive (
    id            UUID PRIMARY KEY,
    category      TEXT NOT NULL,
    occurred_at   TIMESTAMPTZ NOT NULL,
    case_id       TEXT NOT NULL,
    action        TEXT NOT NULL,
    actor         TEXT NOT NULL,
    actor_details TEXT NOT NULL DEFAULT '',
    request_id    TEXT NOT NULL DEFAULT '',
    model         TEXT NOT NULL DEFAULT '',
    detail        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS audit_archive_case_idx ON audit_archive (case_id, occurred_at);
`

type PostgresStoreSuite struct {
	suite.Suite
	db    *sql.DB
	store *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	pg := containers.NewPostgresContainer(s.T())

	db, err := sql.Open("postgres", pg.DSN)
	s.Require().NoError(err)
	s.Require().NoError(db.Ping())

	_, err = db.Exec(archiveSchema)
	s.Require().NoError(err)

	s.db = db
	s.store = postgres.New(db)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.db.Exec("TRUNCATE audit_archive")
	s.Require().NoError(err)
}

func makeEvent(caseID, action string, at time.Time) audit.Event {
	return audit.Event{
		ID:        uuid.NewString(),
		Category:  audit.CategoryOf(action),
		Timestamp: at,
		CaseID:    caseID,
		Action:    action,
		Actor:     "system",
		RequestID: uuid.NewString(),
	}
}

func (s *PostgresStoreSuite) TestAppendAndListByCase() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	first := makeEvent("case-1", audit.ActionCaseCreated, base)
	second := makeEvent("case-1", audit.ActionRiskScored, base.Add(time.Second))
	second.Actor = "ai"
	second.Model = "denial-risk-v2"
	second.Detail = "score 8.7"
	other := makeEvent("case-2", audit.ActionCaseCreated, base.Add(2*time.Second))

	// Append out of chronological order; listing sorts.
	s.Require().NoError(s.store.Append(ctx, second))
	s.Require().NoError(s.store.Append(ctx, first))
	s.Require().NoError(s.store.Append(ctx, other))

	events, err := s.store.ListByCase(ctx, "case-1")
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(audit.ActionCaseCreated, events[0].Action)
	s.Equal(audit.ActionRiskScored, events[1].Action)
	s.Equal("denial-risk-v2", events[1].Model)
	s.Equal("score 8.7", events[1].Detail)
	s.Equal(audit.CategoryCompliance, events[0].Category)
	s.True(events[0].Timestamp.Equal(first.Timestamp))
}

func (s *PostgresStoreSuite) TestAppendIsIdempotent() {
	ctx := context.Background()
	event := makeEvent("case-1", audit.ActionCheckUpdated, time.Now().UTC())

	s.Require().NoError(s.store.Append(ctx, event))
	s.Require().NoError(s.store.Append(ctx, event), "replaying the same event must not error")

	events, err := s.store.ListByCase(ctx, "case-1")
	s.Require().NoError(err)
	s.Len(events, 1, "replay must not duplicate the row")
}

func (s *PostgresStoreSuite) TestListByCaseUnknownCase() {
	events, err := s.store.ListByCase(context.Background(), "no-such-case")
	s.Require().NoError(err)
	s.Empty(events)
}

func (s *PostgresStoreSuite) TestAppendJoinsContextTransaction() {
	ctx := context.Background()
	event := makeEvent("case-tx", audit.ActionCaseCreated, time.Now().UTC())

	tx, err := s.db.BeginTx(ctx, nil)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Append(txcontext.WithTx(ctx, tx), event))
	s.Require().NoError(tx.Rollback())

	events, err := s.store.ListByCase(ctx, "case-tx")
	s.Require().NoError(err)
	s.Empty(events, "a rolled back transaction must discard the event")

	tx, err = s.db.BeginTx(ctx, nil)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Append(txcontext.WithTx(ctx, tx), event))
	s.Require().NoError(tx.Commit())

	events, err = s.store.ListByCase(ctx, "case-tx")
	s.Require().NoError(err)
	s.Len(events, 1)
}

func (s *PostgresStoreSuite) TestListRecent() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	for i := 0; i < 5; i++ {
		event := makeEvent("case-1", audit.ActionCompliancePolled, base.Add(time.Duration(i)*time.Second))
		s.Require().NoError(s.store.Append(ctx, event))
	}

	recent, err := s.store.ListRecent(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.True(recent[0].Timestamp.After(recent[1].Timestamp), "most recent first")
	s.True(recent[0].Timestamp.Equal(base.Add(4 * time.Second)))

	all, err := s.store.ListRecent(ctx, 0)
	s.Require().NoError(err)
	s.Len(all, 5, "non-positive limit falls back to the default")
}
