// Package postgres stores each collection as a JSONB row of the collections
// table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

const table = "collections"

type Store struct {
	db bob.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: bob.NewDB(db)}
}

func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	query := psql.Select(
		sm.Columns("payload"),
		sm.From(table),
		sm.Where(psql.Quote("name").EQ(psql.Arg(name))),
	)

	payload, err := bob.One(ctx, s.db, query, scan.SingleColumnMapper[string])
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

func (s *Store) Set(ctx context.Context, name string, payload []byte) error {
	return upsert(ctx, s.db, name, payload, time.Now().UTC())
}

// SetMany upserts every payload inside one transaction.
func (s *Store) SetMany(ctx context.Context, payloads map[string][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for name, payload := range payloads {
		if err := upsert(ctx, tx, name, payload, now); err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
	}
	return tx.Commit(ctx)
}

func upsert(ctx context.Context, exec bob.Executor, name string, payload []byte, now time.Time) error {
	query := psql.Insert(
		im.Into(table, "name", "payload", "updated_at"),
		// jsonb accepts the text form; lib/pq would send []byte as bytea.
		im.Values(psql.Arg(name), psql.Arg(string(payload)), psql.Arg(now)),
		im.OnConflict("name").DoUpdate(
			im.SetExcluded("payload", "updated_at"),
		),
	)
	_, err := query.Exec(ctx, exec)
	return err
}
