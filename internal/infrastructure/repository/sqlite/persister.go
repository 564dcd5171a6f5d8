// Package sqlite persists the roster as JSON buckets in a single SQLite table.
package sqlite

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/snapshot"
	qb "github.com/riskibarqy/frogcrew/internal/platform/querybuilder"
)

const tableName = "roster_state"

type bucketRow struct {
	Bucket    string `db:"bucket"`
	Payload   []byte `db:"payload"`
	UpdatedAt string `db:"updated_at"`
}

type Persister struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open creates the database file and the state table when missing.
func Open(ctx context.Context, path string) (*Persister, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, crerr.Wrapf(err, "open sqlite %s", path)
	}
	// A single connection serialises writers and keeps :memory: databases alive.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+tableName+` (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, crerr.Wrap(err, "create state table")
	}

	return &Persister{db: db, now: time.Now}, nil
}

func (p *Persister) Close() error {
	return p.db.Close()
}

func (p *Persister) Load(ctx context.Context) (roster.Snapshot, bool, error) {
	query, args, err := qb.Select("bucket", "payload", "updated_at").
		From(tableName).
		OrderBy("bucket").
		PlaceholderFormat(qb.Question).
		ToSQL()
	if err != nil {
		return roster.Snapshot{}, false, crerr.Wrap(err, "build select state query")
	}

	var rows []bucketRow
	if err := p.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return roster.Snapshot{}, false, crerr.Wrap(err, "select state")
	}
	if len(rows) == 0 {
		return roster.Snapshot{}, false, nil
	}

	buckets := make(map[string][]byte, len(rows))
	for _, row := range rows {
		buckets[row.Bucket] = row.Payload
	}
	snap, err := snapshot.DecodeBuckets(ctx, buckets)
	if err != nil {
		return roster.Snapshot{}, false, err
	}
	return snap, true, nil
}

func (p *Persister) Save(ctx context.Context, snap roster.Snapshot) (err error) {
	buckets, err := snapshot.EncodeBuckets(ctx, snap)
	if err != nil {
		return err
	}

	stamp := p.now().UTC().Format(time.RFC3339Nano)
	rows := make([]bucketRow, 0, len(buckets))
	keep := make([]any, 0, len(buckets))
	for _, name := range snapshot.Buckets {
		rows = append(rows, bucketRow{Bucket: name, Payload: buckets[name], UpdatedAt: stamp})
		keep = append(keep, name)
	}

	upsert, upsertArgs, err := qb.InsertModels(tableName, rows,
		"ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at",
		qb.Question)
	if err != nil {
		return crerr.Wrap(err, "build upsert state query")
	}
	prune, pruneArgs, err := qb.DeleteFrom(tableName).
		Where(qb.NotIn("bucket", keep)).
		PlaceholderFormat(qb.Question).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build prune state query")
	}

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin tx")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, upsert, upsertArgs...); err != nil {
		return crerr.Wrap(err, "upsert state")
	}
	if _, err = tx.ExecContext(ctx, prune, pruneArgs...); err != nil {
		return crerr.Wrap(err, "prune state")
	}
	if err = tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit state")
	}
	return nil
}
